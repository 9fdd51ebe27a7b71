package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/retrieved/thicket/internal/search"
)

// SearchMulti implements the §6 search_multi(queries[], params) surface:
// run each query independently, then merge by chunk id keeping the max
// score, the union of match ranges, and snippets concatenated with " … ".
func (e *Engine) SearchMulti(ctx context.Context, queries []string, params search.Params) ([]search.Result, error) {
	merged := make(map[string]*search.Result)
	order := make([]string, 0)

	for _, q := range queries {
		results, err := e.Search(ctx, q, params)
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			existing, ok := merged[r.ID]
			if !ok {
				cp := r
				merged[r.ID] = &cp
				order = append(order, r.ID)
				continue
			}
			mergeInto(existing, r)
		}
	}

	out := make([]search.Result, 0, len(order))
	for _, id := range order {
		out = append(out, *merged[id])
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

func mergeInto(existing *search.Result, incoming search.Result) {
	if incoming.Score > existing.Score {
		existing.Score = incoming.Score
	}
	existing.MatchRanges = unionRanges(existing.MatchRanges, incoming.MatchRanges)
	if incoming.Snippet != "" && incoming.Snippet != existing.Snippet {
		if existing.Snippet == "" {
			existing.Snippet = incoming.Snippet
		} else {
			existing.Snippet = strings.Join([]string{existing.Snippet, incoming.Snippet}, " … ")
		}
	}
}

// unionRanges merges two already-sorted, non-overlapping MatchRange slices
// into one sorted, non-overlapping, adjacency-merged slice (§6).
func unionRanges(a, b []search.MatchRange) []search.MatchRange {
	all := append(append([]search.MatchRange{}, a...), b...)
	if len(all) == 0 {
		return nil
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Start < all[j].Start })

	merged := all[:1]
	for _, r := range all[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
