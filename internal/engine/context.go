package engine

import (
	"context"

	"github.com/retrieved/thicket/internal/compile"
	"github.com/retrieved/thicket/internal/contextanalysis"
	"github.com/retrieved/thicket/internal/index"
	"github.com/retrieved/thicket/internal/query"
	"github.com/retrieved/thicket/internal/search"
)

// ContextResult bundles the §6 context(file_path, content, params) return
// value: both the generated query and the results of executing it.
type ContextResult struct {
	Query   contextanalysis.Result
	Results []search.Result
}

// Context implements §4.8 end to end: extract weighted terms from
// filePath/content against the current index, build a boosted disjunction,
// then execute it through the ordinary §4.7 pipeline — folding in any
// rule-forced chunk ids and tree constraints.
func (e *Engine) Context(ctx context.Context, filePath string, content []byte, caParams contextanalysis.Params, searchParams search.Params) (ContextResult, error) {
	snap := e.Snapshot()
	analysis := contextanalysis.Analyze(filePath, content, e.analyzer, snap, caParams)

	op, err := compile.Compile(analysis.Query, e.analyzer)
	if err != nil {
		return ContextResult{}, err
	}
	op = withForcedIncludes(op, analysis.ForceIncludeID)

	searchParams = intersectTrees(searchParams, analysis.ConstrainTrees)

	results, err := search.Run(ctx, snap, op, query.RawTerms(analysis.Query), searchParams)
	if err != nil {
		return ContextResult{}, err
	}
	results = ensureForcedPresent(snap, results, analysis.ForceIncludeID)

	return ContextResult{Query: analysis, Results: results}, nil
}

// withForcedIncludes ORs in an exact id match for every force-included
// chunk id, so §4.8 step 5's "force-include" rule survives even if the
// term-derived disjunction alone wouldn't retrieve that chunk.
func withForcedIncludes(op index.Op, ids []string) index.Op {
	if len(ids) == 0 {
		return op
	}
	clauses := []index.Op{op}
	for _, id := range ids {
		clauses = append(clauses, index.ExactOp{Field: index.FieldID, Value: id})
	}
	return index.OrOp{Clauses: clauses}
}

// ensureForcedPresent guarantees every force-included chunk id appears in
// results even if it was filtered out by elbow cutoff or aggregation
// (§4.8 step 7: "preserving force-includes even if they would otherwise be
// filtered").
func ensureForcedPresent(snap *index.Snapshot, results []search.Result, ids []string) []search.Result {
	if len(ids) == 0 {
		return results
	}
	present := make(map[string]bool, len(results))
	for _, r := range results {
		present[r.ID] = true
	}
	for _, id := range ids {
		if present[id] {
			continue
		}
		c, ok := snap.Get(id)
		if !ok {
			continue
		}
		results = append(results, search.Result{
			ID:         c.ID,
			DocID:      c.DocID,
			Tree:       c.Tree,
			Path:       c.Path,
			Title:      c.Title,
			Breadcrumb: c.Breadcrumb,
			Depth:      c.Depth,
			Position:   c.Position,
		})
	}
	return results
}

// intersectTrees implements §4.8 step 5's "constrain trees (intersection)":
// when a rule names trees and the caller already restricted to a tree set,
// the effective set is their intersection; an empty caller set is treated
// as "all trees", so the rule's set wins outright.
func intersectTrees(params search.Params, constrain []string) search.Params {
	if len(constrain) == 0 {
		return params
	}
	if len(params.Trees) == 0 {
		params.Trees = constrain
		return params
	}
	allowed := make(map[string]bool, len(constrain))
	for _, t := range constrain {
		allowed[t] = true
	}
	var out []string
	for _, t := range params.Trees {
		if allowed[t] {
			out = append(out, t)
		}
	}
	params.Trees = out
	return params
}
