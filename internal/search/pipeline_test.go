package search

import (
	"fmt"
	"testing"

	"github.com/retrieved/thicket/internal/index"
)

func scoredItems(scores []float64) []scored {
	items := make([]scored, len(scores))
	for i, s := range scores {
		items[i] = scored{chunk: index.Chunk{ID: fmt.Sprintf("c%d", i)}, score: s}
	}
	return items
}

func TestElbowCutoff(t *testing.T) {
	tests := []struct {
		name        string
		scores      []float64
		cutoffRatio float64
		maxResults  int
		wantScores  []float64
	}{
		{
			// Worked example: query "(rust OR go) async" with ratios
			// [0.94, 0.93, 0.46, ...] and cutoff_ratio=0.5 elbows after
			// index 2, leaving 3 survivors.
			name:        "worked example ratios 0.94 0.93 0.46",
			scores:      []float64{8.0, 7.5, 7.0, 3.2, 3.0, 2.8, 0.9},
			cutoffRatio: 0.5,
			maxResults:  20,
			wantScores:  []float64{8.0, 7.5, 7.0},
		},
		{
			name:        "single candidate returns as-is",
			scores:      []float64{4.2},
			cutoffRatio: 0.5,
			maxResults:  20,
			wantScores:  []float64{4.2},
		},
		{
			name:        "cutoff_ratio 0 never cuts, bounded only by max_results",
			scores:      []float64{9.0, 1.0, 0.5, 0.1},
			cutoffRatio: 0,
			maxResults:  3,
			wantScores:  []float64{9.0, 1.0, 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := elbowCutoff(scoredItems(tt.scores), tt.cutoffRatio, tt.maxResults)
			if len(got) != len(tt.wantScores) {
				t.Fatalf("got %d survivors, want %d: %+v", len(got), len(tt.wantScores), got)
			}
			for i, want := range tt.wantScores {
				if got[i].score != want {
					t.Errorf("survivor %d: got score %v, want %v", i, got[i].score, want)
				}
			}
		})
	}
}
