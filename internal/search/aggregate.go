package search

import (
	"context"
	"math"

	"github.com/retrieved/thicket/internal/index"
)

type trackedResult struct {
	chunk        index.Chunk
	score        float64
	constituents []Result
}

// aggregate implements §4.7 step 5: bottom-up replacement of matching
// sibling sets with their parent, cascading toward the document root.
func aggregate(ctx context.Context, snap *index.Snapshot, items []scored, threshold float64) ([]Result, error) {
	active := make(map[string]*trackedResult, len(items))
	maxDepth := 0
	for _, it := range items {
		active[it.chunk.ID] = &trackedResult{chunk: it.chunk, score: it.score}
		if it.chunk.Depth > maxDepth {
			maxDepth = it.chunk.Depth
		}
	}

	for d := maxDepth; d >= 1; d-- {
		if err := checkCancel(ctx); err != nil {
			return nil, err
		}

		groups := make(map[string][]string)
		for id, tr := range active {
			if tr.chunk.Depth == d {
				groups[tr.chunk.ParentID] = append(groups[tr.chunk.ParentID], id)
			}
		}

		for parentID, childIDs := range groups {
			if parentID == "" {
				continue
			}
			parentChunk, ok := snap.Get(parentID)
			if !ok {
				continue
			}

			siblingCount := active[childIDs[0]].chunk.SiblingCount
			if siblingCount <= 0 {
				siblingCount = len(childIDs)
			}
			matching := len(childIDs)
			if float64(matching)/float64(siblingCount) < threshold {
				continue
			}

			maxScore := math.Inf(-1)
			constituents := make([]Result, 0, len(childIDs))
			for _, cid := range childIDs {
				tr := active[cid]
				if tr.score > maxScore {
					maxScore = tr.score
				}
				constituents = append(constituents, toTrackedResult(tr))
				delete(active, cid)
			}

			if existing, ok := active[parentID]; ok {
				if existing.score > maxScore {
					maxScore = existing.score
				}
				delete(active, parentID)
			}

			active[parentID] = &trackedResult{chunk: parentChunk, score: maxScore, constituents: constituents}
		}
	}

	out := make([]Result, 0, len(active))
	for _, tr := range active {
		out = append(out, toTrackedResult(tr))
	}
	return out, nil
}

func toTrackedResult(tr *trackedResult) Result {
	return Result{
		ID:           tr.chunk.ID,
		DocID:        tr.chunk.DocID,
		Tree:         tr.chunk.Tree,
		Path:         tr.chunk.Path,
		Title:        tr.chunk.Title,
		Breadcrumb:   tr.chunk.Breadcrumb,
		Depth:        tr.chunk.Depth,
		Position:     tr.chunk.Position,
		Score:        tr.score,
		Constituents: tr.constituents,
	}
}
