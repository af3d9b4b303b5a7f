package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "empty",
			content: "",
			want:    "",
		},
		{
			name:    "plain prose unchanged",
			content: "Hello world. This is a test.",
			want:    "Hello world. This is a test.",
		},
		{
			name:    "fenced code removed",
			content: "Before.\n\n```go\nfmt.Println(\"hi\")\n```\n\nAfter.",
			want:    "Before. After.",
		},
		{
			name:    "inline code removed",
			content: "Run `make build` to compile.",
			want:    "Run to compile.",
		},
		{
			name:    "emphasis and strikethrough keep inner text",
			content: "This is **bold**, _italic_ and ~~gone~~ text.",
			want:    "This is bold, italic and gone text.",
		},
		{
			name:    "links and images keep text",
			content: "See [the docs](https://example.com/docs) and ![a diagram](img.png).",
			want:    "See the docs and a diagram.",
		},
		{
			name:    "inline tags stripped",
			content: "Press <kbd>Ctrl</kbd> to copy.",
			want:    "Press Ctrl to copy.",
		},
		{
			name:    "jsx block keeps inner text",
			content: "<Callout type=\"info\">\nRemember to save.\n</Callout>\n\nNext paragraph.",
			want:    "Remember to save. Next paragraph.",
		},
		{
			name:    "mdx statements removed",
			content: "import { Tabs } from 'nextra/components'\nexport const meta = {}\n\nActual prose.",
			want:    "Actual prose.",
		},
		{
			name:    "heading text kept as prose",
			content: "# Intro\nSome text.\n## Details\nMore text.",
			want:    "Intro Some text. Details More text.",
		},
		{
			name:    "whitespace collapsed",
			content: "Line one\ncontinues   here.\n\n\n\nLine two.",
			want:    "Line one continues here. Line two.",
		},
		{
			name:    "frontmatter dropped",
			content: "---\ntitle: Guide\n---\nBody.",
			want:    "Body.",
		},
		{
			name:    "escaped markdown punctuation dropped",
			content: "Use \\*literal\\* stars and a | pipe.",
			want:    "Use literal stars and a pipe.",
		},
		{
			name:    "only code",
			content: "```\ncode only\n```",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanContent([]byte(tt.content)))
		})
	}
}
