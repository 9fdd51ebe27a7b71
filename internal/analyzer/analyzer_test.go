package analyzer

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenizeKeepsUnderscores(t *testing.T) {
	got := Tokenize("hello_world, foo-bar baz.qux")
	want := []string{"hello_world", "foo", "bar", "baz", "qux"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
}

func TestAnalyzeDropsLongTokens(t *testing.T) {
	a := New("english")
	long := strings.Repeat("a", MaxTokenLength+1)
	got := a.Analyze("running " + long + " jumps")
	for _, tok := range got {
		if tok == long {
			t.Fatalf("expected long token to be dropped, got %v", got)
		}
	}
}

func TestAnalyzeStemsConsistently(t *testing.T) {
	a := New("english")
	docTokens := a.Analyze("The runner was running quickly")
	queryTokens := a.Analyze("run")

	found := false
	for _, tok := range docTokens {
		if tok == queryTokens[0] {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %q to stem the same as a token in %v", queryTokens[0], docTokens)
	}
}

func TestNewFallsBackToEnglish(t *testing.T) {
	a := New("not-a-real-language")
	if a.Language() != DefaultLanguage {
		t.Fatalf("expected fallback to %q, got %q", DefaultLanguage, a.Language())
	}
}

func TestSupportedLanguagesCount(t *testing.T) {
	langs := SupportedLanguages()
	if len(langs) != 18 {
		t.Fatalf("expected 18 supported stemmer languages, got %d", len(langs))
	}
}
