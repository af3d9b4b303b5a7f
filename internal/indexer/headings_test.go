package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHeadings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []HeadingInfo
	}{
		{
			name:    "empty",
			content: "",
			want:    nil,
		},
		{
			name:    "atx levels",
			content: "# Intro\nSome text.\n## Details\nMore text.\n###### Deep",
			want: []HeadingInfo{
				{Level: 1, Text: "Intro", Line: 1},
				{Level: 2, Text: "Details", Line: 3},
				{Level: 6, Text: "Deep", Line: 5},
			},
		},
		{
			name:    "setext",
			content: "Title\n=====\n\nBody text.\n\nSection\n-------\nMore.",
			want: []HeadingInfo{
				{Level: 1, Text: "Title", Line: 1},
				{Level: 2, Text: "Section", Line: 6},
			},
		},
		{
			name:    "inline markup in heading",
			content: "## The *quick* `fox`",
			want:    []HeadingInfo{{Level: 2, Text: "The quick fox", Line: 1}},
		},
		{
			name:    "hash without space is not a heading",
			content: "#hashtag\n\n####### seven",
			want:    nil,
		},
		{
			name:    "empty atx heading ignored",
			content: "#\n\n# Real",
			want:    []HeadingInfo{{Level: 1, Text: "Real", Line: 3}},
		},
		{
			name:    "headings inside code fences ignored",
			content: "# Top\n\n```bash\n# not a heading\n```\n\n## Next",
			want: []HeadingInfo{
				{Level: 1, Text: "Top", Line: 1},
				{Level: 2, Text: "Next", Line: 7},
			},
		},
		{
			name:    "frontmatter is not a setext heading",
			content: "---\ntitle: Guide\n---\n# Guide\nText.",
			want:    []HeadingInfo{{Level: 1, Text: "Guide", Line: 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractHeadings([]byte(tt.content)))
		})
	}
}

func TestHeadingPath(t *testing.T) {
	headings := []HeadingInfo{
		{Level: 1, Text: "Guide", Line: 1},
		{Level: 2, Text: "Install", Line: 5},
		{Level: 3, Text: "Linux", Line: 9},
		{Level: 2, Text: "Configure", Line: 15},
		{Level: 4, Text: "Flags", Line: 20},
		{Level: 1, Text: "Appendix", Line: 30},
	}

	tests := []struct {
		name string
		line int
		want []string
	}{
		{name: "before any heading", line: 0, want: []string{"Placeholder"}},
		{name: "on first heading", line: 1, want: []string{"Guide"}},
		{name: "nested three deep", line: 12, want: []string{"Guide", "Install", "Linux"}},
		{name: "sibling pops deeper levels", line: 16, want: []string{"Guide", "Configure"}},
		{name: "skipped level", line: 25, want: []string{"Guide", "Configure", "Flags"}},
		{name: "new top level resets", line: 31, want: []string{"Appendix"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, headingPath(headings, tt.line, "Placeholder"))
		})
	}

	assert.Equal(t, []string{"Placeholder"}, headingPath(nil, 100, "Placeholder"))
}
