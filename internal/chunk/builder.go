package chunk

import (
	"path/filepath"
	"strings"

	"github.com/retrieved/thicket/internal/slugs"
)

// Build converts a document's content and heading events into its chunk
// forest: the document node followed by every surviving heading node, in
// pre-order.
//
// tree and path together form the document id "{tree}:{path}"; path is the
// tree-relative, forward-slash path to the file. content is the full raw
// document bytes. fm is optional frontmatter; headings is the ordered list
// of heading structural events the markdown parser collaborator produced
// (empty for plain-text files).
func Build(tree, path string, content []byte, fm *Frontmatter, headings []HeadingEvent) []Node {
	if isBlank(content) && fm == nil {
		return nil
	}

	docID := tree + ":" + path
	title := documentTitle(path, fm, headings)

	doc := Node{
		ID:        docID,
		DocID:     docID,
		ParentID:  "",
		Depth:     0,
		Title:     title,
		ByteStart: 0,
		ByteEnd:   len(content),
	}

	survivors := buildHeadingNodes(docID, content, headings)

	nodes := make([]Node, 0, len(survivors)+1)
	nodes = append(nodes, doc)
	nodes = append(nodes, survivors...)

	assignPositions(nodes)
	assignSiblingCounts(nodes)
	assignBreadcrumbs(nodes, title)

	return nodes
}

// isBlank reports whether content is empty or contains only whitespace.
func isBlank(content []byte) bool {
	for _, b := range content {
		switch b {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			continue
		default:
			return false
		}
	}
	return true
}

// documentTitle picks the document node's title: frontmatter title, else
// the first h1 heading's text, else the filename without its extension.
func documentTitle(path string, fm *Frontmatter, headings []HeadingEvent) string {
	if fm != nil && strings.TrimSpace(fm.Title) != "" {
		return fm.Title
	}
	for _, h := range headings {
		if h.Level == 1 {
			return h.Text
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// headingSpan is an intermediate candidate before hierarchy assignment.
type headingSpan struct {
	event     HeadingEvent
	byteStart int
	byteEnd   int
}

// buildHeadingNodes computes spans for every heading event, discards those
// with an empty span, then attaches survivors to their nearest preceding
// heading of strictly lower depth (or the document node).
func buildHeadingNodes(docID string, content []byte, headings []HeadingEvent) []Node {
	spans := make([]headingSpan, 0, len(headings))
	for i, h := range headings {
		start := h.LineEnd
		end := len(content)
		for j := i + 1; j < len(headings); j++ {
			if headings[j].Level <= h.Level {
				end = headings[j].LineStart
				break
			}
		}
		if start >= end {
			continue // empty span: discarded
		}
		spans = append(spans, headingSpan{event: h, byteStart: start, byteEnd: end})
	}

	type frame struct {
		id    string
		depth int
	}
	stack := []frame{{id: docID, depth: 0}}

	slugger := slugs.NewSlugifier()
	nodes := make([]Node, 0, len(spans))

	for _, sp := range spans {
		for len(stack) > 1 && stack[len(stack)-1].depth >= sp.event.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]

		slug := slugger.Slug(sp.event.Text)
		id := docID + "#" + slug

		nodes = append(nodes, Node{
			ID:        id,
			DocID:     docID,
			ParentID:  parent.id,
			Depth:     sp.event.Level,
			Title:     sp.event.Text,
			Slug:      slug,
			ByteStart: sp.byteStart,
			ByteEnd:   sp.byteEnd,
		})

		stack = append(stack, frame{id: id, depth: sp.event.Level})
	}

	return nodes
}

// assignPositions sets Position to the node's index in the (already
// pre-order) nodes slice.
func assignPositions(nodes []Node) {
	for i := range nodes {
		nodes[i].Position = i
	}
}

// assignSiblingCounts sets SiblingCount on every node: the number of nodes
// sharing the same ParentID, including itself. The document node always
// gets 1.
func assignSiblingCounts(nodes []Node) {
	counts := make(map[string]int)
	for _, n := range nodes {
		if n.IsDocument() {
			continue
		}
		counts[n.ParentID]++
	}
	for i := range nodes {
		if nodes[i].IsDocument() {
			nodes[i].SiblingCount = 1
			continue
		}
		nodes[i].SiblingCount = counts[nodes[i].ParentID]
	}
}

// assignBreadcrumbs computes the display breadcrumb for every node.
func assignBreadcrumbs(nodes []Node, docTitle string) {
	byID := make(map[string]*Node, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}

	for i := range nodes {
		n := &nodes[i]
		if n.IsDocument() {
			n.Breadcrumb = docTitle
			continue
		}

		var ancestorTitles []string
		for p := byID[n.ParentID]; p != nil && !p.IsDocument(); p = byID[p.ParentID] {
			ancestorTitles = append([]string{p.Title}, ancestorTitles...)
		}

		parts := append([]string{docTitle}, ancestorTitles...)
		parts = append(parts, n.Title)
		if len(parts) >= 2 && parts[1] == parts[0] {
			parts = append(parts[:1], parts[2:]...)
		}
		n.Breadcrumb = strings.Join(parts, " › ")
	}
}
