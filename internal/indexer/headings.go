package indexer

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
)

// ExtractHeadings returns the ATX ("## Title") and setext (underlined with
// "===" or "---") headings of content, ordered by line.
//
// A setext heading is reported on its text line, not the underline. Lines
// inside fenced code blocks and frontmatter are never headings, and headings
// with no text are ignored.
func ExtractHeadings(content []byte) []HeadingInfo {
	if len(content) == 0 {
		return nil
	}
	source := maskFrontmatter(content)
	doc := parse(source)

	var headings []HeadingInfo
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		headingText := nodeText(heading, source)
		lines := heading.Lines()
		if headingText == "" || lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		offset := lines.At(0).Start
		headings = append(headings, HeadingInfo{
			Level: heading.Level,
			Text:  headingText,
			Line:  bytes.Count(source[:offset], []byte{'\n'}) + 1,
		})
		return ast.WalkSkipChildren, nil
	})

	return headings
}

// headingPath folds headings on or before line into the chain of enclosing
// headings, outermost first. A heading pops every stacked heading of the same
// or deeper level before it is pushed. headings must be ordered by line.
func headingPath(headings []HeadingInfo, line int, placeholder string) []string {
	stack := make([]HeadingInfo, 0, 6)
	for _, h := range headings {
		if h.Line > line {
			break
		}
		for len(stack) > 0 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, h)
	}

	if len(stack) == 0 {
		return []string{placeholder}
	}
	path := make([]string, len(stack))
	for i, h := range stack {
		path[i] = h.Text
	}
	return path
}
