package indexer

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var (
	// YAML frontmatter at the very start of a document.
	frontmatterPattern = regexp.MustCompile(`(?s)\A---\r?\n.*?\r?\n---[ \t]*(?:\r?\n|\z)`)

	// MDX module statements.
	mdxStatementPattern = regexp.MustCompile(`(?m)^(?:import|export)\s.*$`)

	htmlCommentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)
	htmlTagPattern     = regexp.MustCompile(`<[^>]*>`)

	// Markdown syntax characters that survive parsing as literal text.
	markdownPunctPattern = regexp.MustCompile("[#*_~`|<>\\[\\]{}\\\\]")
)

// markdown is shared by the heading extractor and the cleaner.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

func parse(content []byte) ast.Node {
	return markdown.Parser().Parse(text.NewReader(content))
}

// blankOut replaces every byte except line breaks with a space, so offsets and
// line numbers of the surrounding text are unchanged.
func blankOut(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c == '\n' || c == '\r' {
			out[i] = c
		} else {
			out[i] = ' '
		}
	}
	return out
}

// maskFrontmatter hides a leading YAML frontmatter block. Without this the
// closing "---" turns the last frontmatter line into a setext heading.
func maskFrontmatter(content []byte) []byte {
	loc := frontmatterPattern.FindIndex(content)
	if loc == nil {
		return content
	}
	masked := make([]byte, len(content))
	copy(masked, content)
	copy(masked[loc[0]:loc[1]], blankOut(content[loc[0]:loc[1]]))
	return masked
}

// countLines returns the number of lines in content. A trailing newline does
// not start a new line.
func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := bytes.Count(content, []byte{'\n'})
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}

// nodeText collects the literal text below n.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
