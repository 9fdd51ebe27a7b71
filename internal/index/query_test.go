package index

import "testing"

func sampleChunks() []Chunk {
	return []Chunk{
		{ID: "docs:a.md", DocID: "docs:a.md", Tree: "docs", Path: "a.md", Depth: 0, Position: 0,
			Title: "Rust Async Guide", Body: "rust async patterns explained in depth", Local: true, SiblingCount: 1},
		{ID: "docs:a.md#intro", DocID: "docs:a.md", Tree: "docs", ParentID: "docs:a.md", Depth: 1, Position: 1,
			Title: "Intro", Body: "an introduction to rust", Local: true, SiblingCount: 1},
		{ID: "docs:b.md", DocID: "docs:b.md", Tree: "docs", Path: "b.md", Depth: 0, Position: 0,
			Title: "Golang Goroutines", Body: "goroutines and channels in golang", Local: true, SiblingCount: 1},
		{ID: "other:c.md", DocID: "other:c.md", Tree: "other", Path: "c.md", Depth: 0, Position: 0,
			Title: "Unrelated", Body: "nothing to see here", Local: false, SiblingCount: 1},
	}
}

func TestSnapshotTermMatch(t *testing.T) {
	snap := BuildSnapshot(sampleChunks())
	results := snap.Search(OrOp{Clauses: []Op{
		TermOp{Field: FieldTitle, Token: "rust"},
		TermOp{Field: FieldBody, Token: "rust"},
	}}, 10, 0)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(results), results)
	}
	ids := map[string]bool{}
	for _, r := range results {
		ids[r.ChunkID] = true
	}
	if !ids["docs:a.md"] || !ids["docs:a.md#intro"] {
		t.Fatalf("missing expected ids: %+v", results)
	}
}

func TestSnapshotExactTreeMatch(t *testing.T) {
	snap := BuildSnapshot(sampleChunks())
	results := snap.Search(ExactOp{Field: FieldTree, Value: "other"}, 10, 0)
	if len(results) != 1 || results[0].ChunkID != "other:c.md" {
		t.Fatalf("got %+v", results)
	}
}

func TestSnapshotAndRequiresAllClauses(t *testing.T) {
	snap := BuildSnapshot(sampleChunks())
	op := AndOp{Clauses: []Op{
		TermOp{Field: FieldBody, Token: "rust"},
		TermOp{Field: FieldTitle, Token: "intro"},
	}}
	results := snap.Search(op, 10, 0)
	if len(results) != 1 || results[0].ChunkID != "docs:a.md#intro" {
		t.Fatalf("got %+v", results)
	}
}

func TestSnapshotNotExcludes(t *testing.T) {
	snap := BuildSnapshot(sampleChunks())
	op := AndOp{Clauses: []Op{
		TermOp{Field: FieldBody, Token: "rust"},
		NotOp{Inner: TermOp{Field: FieldTitle, Token: "intro"}},
	}}
	results := snap.Search(op, 10, 0)
	if len(results) != 1 || results[0].ChunkID != "docs:a.md" {
		t.Fatalf("got %+v", results)
	}
}

func TestSnapshotBoostMultipliesScore(t *testing.T) {
	snap := BuildSnapshot(sampleChunks())
	plain := snap.Search(TermOp{Field: FieldBody, Token: "rust"}, 10, 0)
	boosted := snap.Search(BoostOp{Inner: TermOp{Field: FieldBody, Token: "rust"}, Factor: 2}, 10, 0)

	scorePlain := map[string]float64{}
	for _, r := range plain {
		scorePlain[r.ChunkID] = r.Score
	}
	for _, r := range boosted {
		want := scorePlain[r.ChunkID] * 2
		if diff := r.Score - want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("boosted score = %v, want %v", r.Score, want)
		}
	}
}

func TestSnapshotPhraseRequiresAdjacency(t *testing.T) {
	chunks := []Chunk{
		{ID: "docs:a.md", DocID: "docs:a.md", Tree: "docs", Body: "the rust async runtime is fast", Local: true, SiblingCount: 1},
		{ID: "docs:b.md", DocID: "docs:b.md", Tree: "docs", Body: "async code that is written in rust", Local: true, SiblingCount: 1},
	}
	snap := BuildSnapshot(chunks)
	results := snap.Search(PhraseOp{Field: FieldBody, Tokens: []string{"rust", "async"}}, 10, 0)
	if len(results) != 1 || results[0].ChunkID != "docs:a.md" {
		t.Fatalf("got %+v, want only docs:a.md", results)
	}
}

func TestSnapshotFuzzyMatchesNearTokens(t *testing.T) {
	chunks := []Chunk{
		{ID: "docs:a.md", DocID: "docs:a.md", Tree: "docs", Body: "rusty old channels", Local: true, SiblingCount: 1},
	}
	snap := BuildSnapshot(chunks)

	exact := snap.Search(TermOp{Field: FieldBody, Token: "chanel", Fuzzy: false}, 10, 1)
	if len(exact) != 0 {
		t.Fatalf("expected no exact match for 'chanel' against 'channels', got %+v", exact)
	}

	fuzzy := snap.Search(TermOp{Field: FieldBody, Token: "chanel", Fuzzy: true}, 10, 1)
	if len(fuzzy) != 1 || fuzzy[0].ChunkID != "docs:a.md" {
		t.Fatalf("expected fuzzy match, got %+v", fuzzy)
	}
}

func TestSnapshotFuzzyDisabledAtZeroDistance(t *testing.T) {
	chunks := []Chunk{
		{ID: "docs:a.md", DocID: "docs:a.md", Tree: "docs", Body: "rusty old pipes", Local: true, SiblingCount: 1},
	}
	snap := BuildSnapshot(chunks)
	results := snap.Search(TermOp{Field: FieldBody, Token: "rust", Fuzzy: true}, 10, 0)
	if len(results) != 0 {
		t.Fatalf("expected fuzzy matching disabled at distance 0, got %+v", results)
	}
}

func TestLevenshteinBasic(t *testing.T) {
	cases := []struct {
		a, b string
		d    int
	}{
		{"rust", "rust", 0},
		{"rust", "rusty", 1},
		{"rust", "rost", 1},
		{"kitten", "sitting", 3},
	}
	for _, c := range cases {
		got := levenshtein(c.a, c.b, 10)
		if got != c.d {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", c.a, c.b, got, c.d)
		}
	}
}

func TestPathComponents(t *testing.T) {
	got := PathComponents("g/sub.dir/file.name.md")
	want := []string{"g", "sub", "dir", "file", "name", "md"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
