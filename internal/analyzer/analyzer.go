// Package analyzer implements the text analysis pipeline applied identically
// to indexed content and query terms: tokenize, lowercase, length-filter,
// stem.
package analyzer

import (
	"strings"
	"unicode"
)

// MaxTokenLength is the length above which a token is dropped rather than
// indexed or matched. Long tokens are almost always noise (hashes, base64
// blobs, minified identifiers) rather than natural-language terms.
const MaxTokenLength = 40

// MinFuzzyTokenLength is the shortest token length eligible for fuzzy
// (edit-distance) matching. Shorter tokens produce too many false-positive
// matches under a distance-1 edit.
const MinFuzzyTokenLength = 5

// Analyzer applies the tokenize/lowercase/length-filter/stem pipeline for a
// single configured language. An Analyzer is immutable after construction
// and safe to share across goroutines.
type Analyzer struct {
	language string
}

// New returns an Analyzer for the given stemmer language. An empty or
// unrecognized language falls back to English.
func New(language string) *Analyzer {
	if language == "" || !IsSupportedLanguage(language) {
		language = DefaultLanguage
	}
	return &Analyzer{language: language}
}

// Language returns the stemmer language this analyzer was constructed with.
func (a *Analyzer) Language() string {
	return a.language
}

// Tokenize splits text on whitespace and punctuation, keeping underscores
// inside a token. It performs no lowercasing, filtering, or stemming.
func Tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// Analyze runs the full pipeline over text: tokenize, lowercase, drop tokens
// longer than MaxTokenLength, then stem each surviving token.
//
// Queries that stem to the same form as indexed tokens must match, so this
// is the single code path used both when indexing chunk fields and when
// compiling query terms.
func (a *Analyzer) Analyze(text string) []string {
	raw := Tokenize(text)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		tok = strings.ToLower(tok)
		if len(tok) > MaxTokenLength {
			continue
		}
		out = append(out, stem(tok, a.language))
	}
	return out
}

// AnalyzeOne lowercases, length-filters, and stems a single already-split
// token, returning ("", false) if the token is dropped. Useful for query
// compilation where tokens arrive pre-split (e.g. a quoted phrase).
func (a *Analyzer) AnalyzeOne(tok string) (string, bool) {
	tok = strings.ToLower(tok)
	if tok == "" || len(tok) > MaxTokenLength {
		return "", false
	}
	return stem(tok, a.language), true
}
