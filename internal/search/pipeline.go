// Package search implements the post-retrieval pipeline of §4.7: locality
// adjustment, per-tree normalization, elbow cutoff, hierarchical sibling
// aggregation, ancestor subsumption, and final sort/truncate.
package search

import (
	"context"
	"errors"
	"sort"

	"github.com/retrieved/thicket/internal/index"
)

// ErrCancelled is returned when ctx is done between pipeline phases (§5).
var ErrCancelled = errors.New("search: cancelled")

// Params controls every tunable of the pipeline; zero values are replaced
// with their documented defaults by WithDefaults.
type Params struct {
	CandidateLimit        int
	LocalBoost            float64
	CutoffRatio           float64
	AggregationThreshold  float64
	MaxResults            int
	Limit                 int
	Trees                 []string
	EnableAggregation     bool
	FuzzyDistance         int
}

// WithDefaults returns a copy of p with zero-valued tunables replaced by
// the documented defaults (§4.7).
func (p Params) WithDefaults() Params {
	if p.CandidateLimit == 0 {
		p.CandidateLimit = 100
	}
	if p.LocalBoost == 0 {
		p.LocalBoost = 1.5
	}
	if p.CutoffRatio == 0 {
		p.CutoffRatio = 0.5
	}
	if p.AggregationThreshold == 0 {
		p.AggregationThreshold = 0.5
	}
	if p.MaxResults == 0 {
		p.MaxResults = 20
	}
	if p.Limit == 0 {
		p.Limit = p.MaxResults
	}
	return p
}

// MatchRange is a UTF-8 byte offset pair into the matched chunk's stored body.
type MatchRange struct {
	Start int
	End   int
}

// Result mirrors the §6 JSON-shaped result record.
type Result struct {
	ID           string
	DocID        string
	Tree         string
	Path         string
	Title        string
	Breadcrumb   string
	Depth        int
	Position     int
	Score        float64
	Snippet      string
	MatchRanges  []MatchRange
	Constituents []Result
}

type scored struct {
	chunk index.Chunk
	score float64
}

// Run executes the full pipeline against a single compiled query.
func Run(ctx context.Context, snap *index.Snapshot, op index.Op, terms []string, params Params) ([]Result, error) {
	params = params.WithDefaults()

	candidates := snap.Search(op, params.CandidateLimit, params.FuzzyDistance)
	if err := checkCancel(ctx); err != nil {
		return nil, err
	}

	items := resolveChunks(snap, candidates)
	items = filterByTrees(items, params.Trees)

	applyLocalBoost(items, params.LocalBoost)
	if err := checkCancel(ctx); err != nil {
		return nil, err
	}

	normalizePerTree(items)
	if err := checkCancel(ctx); err != nil {
		return nil, err
	}

	items = elbowCutoff(items, params.CutoffRatio, params.MaxResults)
	if err := checkCancel(ctx); err != nil {
		return nil, err
	}

	var results []Result
	if params.EnableAggregation {
		agg, err := aggregate(ctx, snap, items, params.AggregationThreshold)
		if err != nil {
			return nil, err
		}
		results = agg
	} else {
		results = toResults(items, nil)
	}

	results = subsumeAncestors(snap, results)
	results = finalSort(results)
	if params.Limit > 0 && len(results) > params.Limit {
		results = results[:params.Limit]
	}

	for i := range results {
		attachSnippet(snap, &results[i], terms)
	}

	return results, nil
}

func checkCancel(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ErrCancelled
	default:
		return nil
	}
}

func resolveChunks(snap *index.Snapshot, candidates []index.Candidate) []scored {
	items := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		chunk, ok := snap.Get(c.ChunkID)
		if !ok {
			continue
		}
		items = append(items, scored{chunk: chunk, score: c.Score})
	}
	return items
}

func filterByTrees(items []scored, trees []string) []scored {
	if len(trees) == 0 {
		return items
	}
	allowed := make(map[string]bool, len(trees))
	for _, t := range trees {
		allowed[t] = true
	}
	out := items[:0]
	for _, it := range items {
		if allowed[it.chunk.Tree] {
			out = append(out, it)
		}
	}
	return out
}

func applyLocalBoost(items []scored, localBoost float64) {
	for i := range items {
		if items[i].chunk.Local {
			items[i].score *= localBoost
		}
	}
}

// normalizePerTree divides every candidate's score by the maximum score
// observed within its own tree, but only when the candidate set spans two
// or more trees (§4.7 step 3).
func normalizePerTree(items []scored) {
	if len(items) == 0 {
		return
	}
	maxByTree := make(map[string]float64)
	for _, it := range items {
		if it.score > maxByTree[it.chunk.Tree] {
			maxByTree[it.chunk.Tree] = it.score
		}
	}
	if len(maxByTree) < 2 {
		return
	}
	for i := range items {
		m := maxByTree[items[i].chunk.Tree]
		if m > 0 {
			items[i].score /= m
		}
	}
}

// elbowCutoff sorts descending by score and truncates after the first
// steep drop (§4.7 step 4).
func elbowCutoff(items []scored, cutoffRatio float64, maxResults int) []scored {
	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })

	if len(items) < 2 {
		return items
	}

	for i, it := range items {
		if it.score <= 0 {
			return items[:i]
		}
		if i+1 >= len(items) {
			break
		}
		next := items[i+1].score
		if next <= 0 {
			return items[:i+1]
		}
		ratio := next / it.score
		if ratio < cutoffRatio {
			return items[:i+1]
		}
	}

	if len(items) > maxResults {
		return items[:maxResults]
	}
	return items
}

func toResults(items []scored, constituents map[string][]Result) []Result {
	out := make([]Result, 0, len(items))
	for _, it := range items {
		r := Result{
			ID:         it.chunk.ID,
			DocID:      it.chunk.DocID,
			Tree:       it.chunk.Tree,
			Path:       it.chunk.Path,
			Title:      it.chunk.Title,
			Breadcrumb: it.chunk.Breadcrumb,
			Depth:      it.chunk.Depth,
			Position:   it.chunk.Position,
			Score:      it.score,
		}
		if constituents != nil {
			r.Constituents = constituents[it.chunk.ID]
		}
		out = append(out, r)
	}
	return out
}
