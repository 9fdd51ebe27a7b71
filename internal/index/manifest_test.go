package index

import "testing"

func TestClassifyAddedWhenNoPriorEntry(t *testing.T) {
	kind, hash := Classify(nil, 100, func() string { return "h1" })
	if kind != Added || hash != "h1" {
		t.Fatalf("got (%v, %q)", kind, hash)
	}
}

func TestClassifyUnchangedWhenMTimeMatches(t *testing.T) {
	prev := &ManifestEntry{MTime: 100, ContentHash: "h1"}
	called := false
	kind, hash := Classify(prev, 100, func() string { called = true; return "h2" })
	if kind != Unchanged || hash != "h1" {
		t.Fatalf("got (%v, %q)", kind, hash)
	}
	if called {
		t.Fatalf("hash should not be computed when mtime is unchanged")
	}
}

func TestClassifyModifiedWhenHashDiffers(t *testing.T) {
	prev := &ManifestEntry{MTime: 100, ContentHash: "h1"}
	kind, hash := Classify(prev, 200, func() string { return "h2" })
	if kind != Modified || hash != "h2" {
		t.Fatalf("got (%v, %q)", kind, hash)
	}
}

func TestClassifyUnchangedWhenMTimeDiffersButHashMatches(t *testing.T) {
	prev := &ManifestEntry{MTime: 100, ContentHash: "h1"}
	kind, hash := Classify(prev, 200, func() string { return "h1" })
	if kind != Unchanged || hash != "h1" {
		t.Fatalf("got (%v, %q)", kind, hash)
	}
}

func TestManifestDiffFindsRemoved(t *testing.T) {
	m := NewManifest("cfg")
	m.Set("docs:a.md", ManifestEntry{Tree: "docs", Path: "a.md", MTime: 1, ContentHash: "h"})
	m.Set("docs:b.md", ManifestEntry{Tree: "docs", Path: "b.md", MTime: 1, ContentHash: "h"})

	removed := m.Diff(map[string]bool{"docs:a.md": true})
	if len(removed) != 1 || removed[0] != "docs:b.md" {
		t.Fatalf("got %v", removed)
	}
}

func TestConfigDigestStableUnderGlobOrder(t *testing.T) {
	a := ConfigDigest("english", 1, 40, []string{"*.md", "!drafts/**"})
	b := ConfigDigest("english", 1, 40, []string{"!drafts/**", "*.md"})
	if a != b {
		t.Fatalf("digest should be order-independent: %q vs %q", a, b)
	}
}

func TestConfigDigestChangesWithStemmer(t *testing.T) {
	a := ConfigDigest("english", 1, 40, nil)
	b := ConfigDigest("french", 1, 40, nil)
	if a == b {
		t.Fatalf("expected different digests for different stemmer languages")
	}
}
