package slugs

import "testing"

func TestHeadingSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Weekly Standup", "weekly-standup"},
		{"A:B", "ab"},
		{"A__B", "a__b"},
		{"A - B", "a-b"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"A:", "a"},
		{"!!!", "heading"},
		{"???", "heading"},
		{"日本語", "heading"},
		{"Привет мир", "heading"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := HeadingSlug(tt.in); got != tt.want {
				t.Fatalf("HeadingSlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugifierDeduplicates(t *testing.T) {
	s := NewSlugifier()
	got := []string{s.Slug("Intro"), s.Slug("Intro"), s.Slug("Intro"), s.Slug("Other")}
	want := []string{"intro", "intro-1", "intro-2", "other"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Slug sequence = %v, want %v", got, want)
		}
	}
}

func TestSlugifierCollisionsAreDocumentScoped(t *testing.T) {
	a := NewSlugifier()
	b := NewSlugifier()
	if got := a.Slug("Intro"); got != "intro" {
		t.Fatalf("first Slugifier: got %q, want intro", got)
	}
	if got := b.Slug("Intro"); got != "intro" {
		t.Fatalf("second Slugifier should not see the first's state, got %q", got)
	}
}
