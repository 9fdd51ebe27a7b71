package search

import (
	"sort"

	"github.com/retrieved/thicket/internal/index"
)

// subsumeAncestors implements §4.7 step 6: drop any result whose ancestor
// (by parent_id chain) is also present in the result set.
func subsumeAncestors(snap *index.Snapshot, results []Result) []Result {
	present := make(map[string]bool, len(results))
	for _, r := range results {
		present[r.ID] = true
	}

	out := make([]Result, 0, len(results))
	for _, r := range results {
		if hasAncestorIn(snap, r.ID, present) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func hasAncestorIn(snap *index.Snapshot, id string, present map[string]bool) bool {
	chunk, ok := snap.Get(id)
	if !ok {
		return false
	}
	parentID := chunk.ParentID
	for parentID != "" {
		if present[parentID] {
			return true
		}
		parent, ok := snap.Get(parentID)
		if !ok {
			return false
		}
		parentID = parent.ParentID
	}
	return false
}

// finalSort applies §4.7 step 7's deterministic tie-break: score desc, then
// depth asc, then position asc, then lexicographic id.
func finalSort(results []Result) []Result {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.ID < b.ID
	})
	return results
}
