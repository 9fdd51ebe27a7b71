package engine

import "github.com/retrieved/thicket/internal/index"

// GetResult is the stored chunk returned by §6's get(id, full_document?).
type GetResult struct {
	Chunk index.Chunk
}

// Get implements the §6 get(id, full_document?) surface. The index stores
// every chunk's body already reconstructed from its byte range minus its
// children's ranges (index.Chunk.Body), so the non-full-document case is a
// direct lookup. fullDocument swaps in the containing document node instead
// of the requested node. That node's Body is its own reconstructed body:
// the text outside every top-level heading's span. The full file text is
// not returned, since chunks store no byte ranges to rebuild it from.
func (e *Engine) Get(id string, fullDocument bool) (GetResult, error) {
	snap := e.Snapshot()
	c, ok := snap.Get(id)
	if !ok {
		return GetResult{}, index.ErrUnknownID
	}
	if !fullDocument || c.DocID == c.ID {
		return GetResult{Chunk: c}, nil
	}

	docChunk, ok := snap.Get(c.DocID)
	if !ok {
		return GetResult{Chunk: c}, nil
	}
	return GetResult{Chunk: docChunk}, nil
}
