// Package chunk implements the chunk tree builder: it converts a single
// document's content and heading events into a forest of nested chunk
// records with stable identifiers (§3–§4.3 of the design).
package chunk

import "sort"

// Frontmatter carries the subset of a document's frontmatter the chunk
// builder cares about. The markdown parser collaborator is responsible for
// producing this from the raw document.
type Frontmatter struct {
	Title string
	Tags  []string
}

// HeadingEvent is a structural event the markdown parser collaborator must
// produce for each heading in document order: its level, its normalized
// text (including inline code), and the byte range of the heading line
// itself (including its trailing newline, if any).
type HeadingEvent struct {
	Level     int
	Text      string
	LineStart int
	LineEnd   int
}

// Node is a single chunk in a document's hierarchical decomposition: either
// the document root (Depth == 0) or a surviving heading (Depth 1–6).
type Node struct {
	ID           string
	DocID        string
	ParentID     string // empty for the document node
	Depth        int
	Position     int
	Title        string
	Slug         string // empty for the document node
	ByteStart    int
	ByteEnd      int
	SiblingCount int
	Breadcrumb   string
}

// IsDocument reports whether n is the document root node.
func (n Node) IsDocument() bool {
	return n.Depth == 0
}

// Body reconstructs a node's body: its span minus the union of its
// children's spans. content must be the full document content this node's
// byte range was computed against.
func Body(content []byte, n Node, children []Node) string {
	if n.ByteStart >= n.ByteEnd || n.ByteStart < 0 || n.ByteEnd > len(content) {
		return ""
	}

	segments := make([]Node, 0, len(children))
	for _, c := range children {
		if c.ByteStart < c.ByteEnd {
			segments = append(segments, c)
		}
	}
	sort.Slice(segments, func(i, j int) bool { return segments[i].ByteStart < segments[j].ByteStart })

	var out []byte
	cursor := n.ByteStart
	for _, c := range segments {
		if c.ByteStart > cursor {
			out = append(out, content[cursor:c.ByteStart]...)
		}
		if c.ByteEnd > cursor {
			cursor = c.ByteEnd
		}
	}
	if cursor < n.ByteEnd {
		out = append(out, content[cursor:n.ByteEnd]...)
	}
	return string(out)
}

// IsEmptyBody reports whether the reconstructed body contains only
// whitespace.
func IsEmptyBody(body string) bool {
	for _, r := range body {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			continue
		default:
			return false
		}
	}
	return true
}
