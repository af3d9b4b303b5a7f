package indexer

import (
	"strings"

	"github.com/yuin/goldmark/ast"
)

// CleanContent reduces raw markdown/MDX to plain prose for sentence
// segmentation.
//
// Code blocks, inline code, HTML/JSX tags and MDX import/export statements are
// removed. Emphasis, strikethrough, links and images are replaced by their
// inner text, link text or alt text. Leftover markdown punctuation is dropped
// and whitespace runs collapse to single spaces. Heading text is kept as prose.
func CleanContent(content []byte) string {
	if len(content) == 0 {
		return ""
	}
	source := maskFrontmatter(content)
	source = mdxStatementPattern.ReplaceAllFunc(source, blankOut)
	doc := parse(source)

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			// Keep adjacent blocks (table cells included) from gluing words together.
			if n.Type() == ast.TypeBlock {
				sb.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}

		switch v := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.CodeSpan, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			sb.WriteString(htmlBlockText(v, source))
			sb.WriteByte(' ')
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			sb.Write(v.Label(source))
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

	cleaned := markdownPunctPattern.ReplaceAllString(sb.String(), "")
	return strings.Join(strings.Fields(cleaned), " ")
}

// htmlBlockText keeps the text between tags of a raw HTML or JSX block.
func htmlBlockText(block *ast.HTMLBlock, source []byte) string {
	var sb strings.Builder
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(source))
	}
	if block.HasClosure() {
		sb.Write(block.ClosureLine.Value(source))
	}

	raw := htmlCommentPattern.ReplaceAllString(sb.String(), " ")
	return htmlTagPattern.ReplaceAllString(raw, " ")
}
