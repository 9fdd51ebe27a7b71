package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retrieved/thicket/internal/chunk"
	"github.com/retrieved/thicket/internal/index"
	"github.com/retrieved/thicket/internal/mdevents"
)

// ParseSkip marks a single document that failed to parse during a cycle.
// Per §7 the document is dropped from this cycle and the manifest is left
// unchanged so it is retried on the next one.
type ParseSkip struct {
	DocID string
	Err   error
}

func (e *ParseSkip) Error() string {
	return fmt.Sprintf("engine: parse skip for %s: %v", e.DocID, e.Err)
}

func (e *ParseSkip) Unwrap() error { return e.Err }

// IndexDocument classifies and, if needed, (re)indexes a single document
// (§4.6). mtime is the document's current modification time (unix seconds);
// local marks whether tree is a local (project-level) tree (§3).
//
// A no-op (Unchanged classification) returns nil without touching the
// store or the manifest.
func (e *Engine) IndexDocument(tree, path string, content []byte, mtime int64, local bool) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	docID := tree + ":" + path
	prev := e.manifest.Entry(docID)

	class, hash := index.Classify(prev, mtime, func() string { return index.HashContent(content) })
	if class == index.Unchanged {
		return nil
	}

	fm, body, nodes, err := e.buildChunks(tree, path, content)
	if err != nil {
		return &ParseSkip{DocID: docID, Err: err}
	}

	chunks := toIndexChunks(tree, path, body, fm, nodes, mtime, local)
	if err := e.store.AddChunks(docID, chunks); err != nil {
		return fmt.Errorf("engine: index %s: %w", docID, err)
	}

	e.manifest.Set(docID, index.ManifestEntry{Tree: tree, Path: path, MTime: mtime, ContentHash: hash})
	return e.saveManifest()
}

// RemoveDocument drops a document that has disappeared from its tree.
func (e *Engine) RemoveDocument(tree, path string) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	docID := tree + ":" + path
	if err := e.store.RemoveDoc(docID); err != nil {
		return fmt.Errorf("engine: remove %s: %w", docID, err)
	}
	e.manifest.Remove(docID)
	return e.saveManifest()
}

// RemoveVanishedInTree removes every manifest entry belonging to tree whose
// doc_id is absent from currentDocIDs — the §4.6 "removed" classification
// for a single tree's full scan. Entries from other trees are untouched.
func (e *Engine) RemoveVanishedInTree(tree string, currentDocIDs map[string]bool) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	var stale []string
	for docID, entry := range e.manifest.Documents {
		if entry.Tree == tree && !currentDocIDs[docID] {
			stale = append(stale, docID)
		}
	}

	for _, docID := range stale {
		if err := e.store.RemoveDoc(docID); err != nil {
			return fmt.Errorf("engine: remove vanished %s: %w", docID, err)
		}
		e.manifest.Remove(docID)
	}
	return e.saveManifest()
}

func (e *Engine) saveManifest() error {
	if e.manifestPath == "" {
		return nil
	}
	return e.manifest.Save(e.manifestPath)
}

// buildChunks runs the markdown/plain-text collaborator and the chunk tree
// builder for one document (§4.3), returning the frontmatter-stripped body
// alongside the nodes: byte ranges are computed against that body, so body
// reconstruction downstream must use the same slice.
func (e *Engine) buildChunks(tree, path string, content []byte) (*chunk.Frontmatter, []byte, []chunk.Node, error) {
	fm, body, err := mdevents.ParseFrontmatter(content)
	if err != nil {
		return nil, nil, nil, err
	}

	var headings []chunk.HeadingEvent
	if isMarkdownPath(path) {
		headings = mdevents.ExtractHeadings(body)
	}

	return fm, body, chunk.Build(tree, path, body, fm, headings), nil
}

func isMarkdownPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdx":
		return true
	default:
		return false
	}
}

// toIndexChunks lowers the chunk builder's nodes into the index's stored
// schema (§4.6), reconstructing each node's body from its byte range minus
// its children's ranges. body must be the same frontmatter-stripped slice
// the byte ranges in nodes were computed against.
func toIndexChunks(tree, path string, body []byte, fm *chunk.Frontmatter, nodes []chunk.Node, mtime int64, local bool) []index.Chunk {
	childrenOf := make(map[string][]chunk.Node)
	for _, n := range nodes {
		if n.ParentID != "" {
			childrenOf[n.ParentID] = append(childrenOf[n.ParentID], n)
		}
	}

	out := make([]index.Chunk, 0, len(nodes))
	for _, n := range nodes {
		var tags []string
		if n.IsDocument() && fm != nil {
			tags = fm.Tags
		}
		out = append(out, index.Chunk{
			ID:           n.ID,
			DocID:        n.DocID,
			Tree:         tree,
			Path:         path,
			ParentID:     n.ParentID,
			Depth:        n.Depth,
			Position:     n.Position,
			Title:        n.Title,
			Tags:         tags,
			Breadcrumb:   n.Breadcrumb,
			Body:         chunk.Body(body, n, childrenOf[n.ID]),
			SiblingCount: n.SiblingCount,
			MTime:        mtime,
			Local:        local,
		})
	}
	return out
}
