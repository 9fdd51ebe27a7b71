package search

import (
	"context"
	"testing"

	"github.com/retrieved/thicket/internal/index"
)

// TestAggregateWorkedExample reproduces the §8 sibling-aggregation worked
// example: a parent A with children {A1, A2}, sibling_count(A)=2,
// aggregation_threshold=0.5. Both children match, so the aggregator
// replaces {A1, A2} with A, scored max(A1.score, A2.score). A has two
// non-matching top-level siblings, so the cascade stops at A.
func TestAggregateWorkedExample(t *testing.T) {
	root := index.Chunk{ID: "docs:d.md", DocID: "docs:d.md", Tree: "docs", Depth: 0}
	parent := index.Chunk{ID: "docs:d.md#a", DocID: "docs:d.md", Tree: "docs", ParentID: root.ID, Depth: 1, SiblingCount: 3}
	a1 := index.Chunk{ID: "docs:d.md#a1", DocID: "docs:d.md", Tree: "docs", ParentID: parent.ID, Depth: 2, SiblingCount: 2}
	a2 := index.Chunk{ID: "docs:d.md#a2", DocID: "docs:d.md", Tree: "docs", ParentID: parent.ID, Depth: 2, SiblingCount: 2}

	snap := index.BuildSnapshot([]index.Chunk{root, parent, a1, a2})

	items := []scored{
		{chunk: a1, score: 5.0},
		{chunk: a2, score: 7.0},
	}

	results, err := aggregate(context.Background(), snap, items, 0.5)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (children replaced by parent): %+v", len(results), results)
	}
	if results[0].ID != parent.ID {
		t.Fatalf("got id %q, want parent id %q", results[0].ID, parent.ID)
	}
	if results[0].Score != 7.0 {
		t.Fatalf("got score %v, want max(5.0, 7.0) = 7.0", results[0].Score)
	}
	if len(results[0].Constituents) != 2 {
		t.Fatalf("got %d constituents, want 2", len(results[0].Constituents))
	}
}

// TestAggregateBelowThresholdLeavesChildrenAlone checks the complementary
// edge case named alongside §8 scenario 3: aggregation_threshold=1.0 means
// aggregation only fires when *all* siblings match.
func TestAggregateBelowThresholdLeavesChildrenAlone(t *testing.T) {
	root := index.Chunk{ID: "docs:d.md", DocID: "docs:d.md", Tree: "docs", Depth: 0}
	parent := index.Chunk{ID: "docs:d.md#a", DocID: "docs:d.md", Tree: "docs", ParentID: root.ID, Depth: 1}
	a1 := index.Chunk{ID: "docs:d.md#a1", DocID: "docs:d.md", Tree: "docs", ParentID: parent.ID, Depth: 2, SiblingCount: 3}

	snap := index.BuildSnapshot([]index.Chunk{root, parent, a1})

	items := []scored{{chunk: a1, score: 4.0}}

	results, err := aggregate(context.Background(), snap, items, 1.0)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(results) != 1 || results[0].ID != a1.ID {
		t.Fatalf("got %+v, want the lone child left unaggregated", results)
	}
}
