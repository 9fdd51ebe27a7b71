// Package mdevents adapts goldmark's markdown AST into the structural
// heading events the chunk tree builder consumes (§6: "Input from the
// markdown parser collaborator"). It is a thin boundary: goldmark itself —
// and markdown parsing in general — is an out-of-scope collaborator: this
// package only walks the AST goldmark already built and reads byte ranges
// off it.
package mdevents

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/retrieved/thicket/internal/chunk"
)

// ExtractHeadings parses markdown content and returns one HeadingEvent per
// heading, in document order, with byte ranges relative to content.
func ExtractHeadings(content []byte) []chunk.HeadingEvent {
	md := goldmark.New()
	reader := text.NewReader(content)
	doc := md.Parser().Parse(reader)

	var events []chunk.HeadingEvent

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		lines := h.Lines()
		if lines.Len() == 0 {
			return ast.WalkContinue, nil
		}
		first := lines.At(0)
		last := lines.At(lines.Len() - 1)

		// goldmark's line segment stops right before the trailing newline;
		// include it so spans begin strictly after the heading line.
		lineEnd := last.Stop
		if lineEnd < len(content) && content[lineEnd] == '\n' {
			lineEnd++
		}

		// goldmark's segment starts at the heading text, after any '#'
		// markers; walk back so the range covers the whole heading line.
		lineStart := first.Start
		for lineStart > 0 && content[lineStart-1] != '\n' {
			lineStart--
		}

		headingText := inlineText(h, content)
		if strings.TrimSpace(headingText) == "" {
			return ast.WalkContinue, nil
		}

		events = append(events, chunk.HeadingEvent{
			Level:     h.Level,
			Text:      strings.TrimSpace(headingText),
			LineStart: lineStart,
			LineEnd:   lineEnd,
		})

		return ast.WalkContinue, nil
	})

	return events
}

// inlineText renders a heading's inline children to plain text, including
// the literal contents of inline code spans (per §3: heading text includes
// inline code).
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
		case *ast.CodeSpan:
			for cc := t.FirstChild(); cc != nil; cc = cc.NextSibling() {
				if tx, ok := cc.(*ast.Text); ok {
					buf.Write(tx.Segment.Value(src))
				}
			}
		default:
			buf.WriteString(inlineText(t, src))
		}
	}
	return buf.String()
}
