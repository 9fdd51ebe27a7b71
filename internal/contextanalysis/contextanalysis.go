// Package contextanalysis implements the §4.8 context analyzer: given a
// source file's path and content, it extracts weighted terms (from the
// path components and from the structural content), ranks them by
// frequency × source weight × IDF against the index, and emits a boosted
// disjunction query — the same shape internal/query produces from a typed
// query string, so it executes through the ordinary internal/search
// pipeline like any other query.
package contextanalysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/retrieved/thicket/internal/analyzer"
	"github.com/retrieved/thicket/internal/query"
)

// Source-weight constants (§4.8 step 1, step 2).
const (
	WeightFilename   = 4.0
	WeightDirectory  = 3.0
	WeightHeadingH1  = 3.0
	WeightHeadingMid = 2.0 // h2-h3
	WeightHeadingLow = 1.5 // h4-h6
	WeightBody       = 1.0
)

// Params controls the defaults named in §4.8.
type Params struct {
	MinWordLength    int
	MaxWordLength    int
	SampleSize       int
	MinTermFrequency int
	Terms            int
	StopWords        []string // caller-supplied language-keyword list, merged with the English stopword set
	Rules            []Rule
}

// WithDefaults fills zero-valued tunables with their §4.8 defaults.
func (p Params) WithDefaults() Params {
	if p.MinWordLength == 0 {
		p.MinWordLength = 4
	}
	if p.MaxWordLength == 0 {
		p.MaxWordLength = 30
	}
	if p.SampleSize == 0 {
		p.SampleSize = 50000
	}
	if p.MinTermFrequency == 0 {
		p.MinTermFrequency = 2
	}
	if p.Terms == 0 {
		p.Terms = 15
	}
	return p
}

// Rule is an optional configuration rule (§4.8 step 5) matching a file path
// against a glob.
type Rule struct {
	PathGlob       string
	InjectTerms    []string // union: added as if observed with body weight
	ConstrainTrees []string // intersection with the caller's tree filter
	ForceInclude   []string // chunk ids kept in results even if term-filtered out
}

func (r Rule) matches(path string) bool {
	ok, _ := doublestar.Match(r.PathGlob, path)
	return ok
}

// Oracle is the minimal IDF-oracle surface §6 requires: corpus-wide
// document frequency and document count. internal/index.Snapshot satisfies
// this directly.
type Oracle interface {
	DocFreq(term string) int
	NumDocs() int
}

// Idf computes ln((N+1)/(df+1)) + 1, the formula named in §4.8 step 4 and
// in the glossary's "IDF oracle" entry.
func Idf(oracle Oracle, term string) float64 {
	n := float64(oracle.NumDocs())
	df := float64(oracle.DocFreq(term))
	return math.Log((n+1)/(df+1)) + 1
}

// WeightedTerm is a single surviving term with its aggregated statistics.
type WeightedTerm struct {
	Term      string
	Frequency int
	Weight    float64 // the highest source weight the term was observed under
	Score     float64 // frequency * weight * idf
}

// Result is the full output of a context analysis run: the generated AST,
// its human-readable string form, the chunk ids any matching rule forced
// into the result set regardless of term filtering, and the tree names any
// matching rule constrained the query to.
type Result struct {
	Query          query.Expr
	QueryString    string
	ForceIncludeID []string
	ConstrainTrees []string
	Terms          []WeightedTerm
}

type accum struct {
	freq   int
	weight float64
}

// Analyze runs the full §4.8 pipeline for a single source file.
func Analyze(path string, content []byte, an *analyzer.Analyzer, oracle Oracle, params Params) Result {
	params = params.WithDefaults()

	terms := make(map[string]*accum)
	extractPathTerms(path, an, oracle, params, terms)
	extractContentTerms(path, content, an, params, terms)
	applyInjectedTerms(path, params.Rules, terms)

	stop := buildStopWordSet(params.StopWords)
	weighted := rankTerms(terms, oracle, params, stop)

	var force []string
	var constrain []string
	for _, r := range params.Rules {
		if !r.matches(path) {
			continue
		}
		force = append(force, r.ForceInclude...)
		constrain = append(constrain, r.ConstrainTrees...)
	}

	expr, str := buildQuery(weighted)
	return Result{
		Query:          expr,
		QueryString:    str,
		ForceIncludeID: force,
		ConstrainTrees: constrain,
		Terms:          weighted,
	}
}

// extractPathTerms implements §4.8 step 1: split path components on `_`,
// `-`, `.`; drop tokens outside [MinWordLength, MaxWordLength]; keep only
// tokens present in the index. The filename (extension stripped) carries
// WeightFilename; each directory component carries WeightDirectory.
func extractPathTerms(path string, an *analyzer.Analyzer, oracle Oracle, params Params, out map[string]*accum) {
	path = strings.ReplaceAll(path, "\\", "/")
	segments := strings.Split(path, "/")
	if len(segments) == 0 {
		return
	}
	filename := segments[len(segments)-1]
	if dot := strings.LastIndex(filename, "."); dot > 0 {
		filename = filename[:dot]
	}
	dirs := segments[:len(segments)-1]

	addPathSegment(filename, WeightFilename, an, oracle, params, out)
	for _, d := range dirs {
		addPathSegment(d, WeightDirectory, an, oracle, params, out)
	}
}

func addPathSegment(segment string, weight float64, an *analyzer.Analyzer, oracle Oracle, params Params, out map[string]*accum) {
	for _, raw := range splitPathWords(segment) {
		if len(raw) < params.MinWordLength || len(raw) > params.MaxWordLength {
			continue
		}
		tok, ok := an.AnalyzeOne(raw)
		if !ok {
			continue
		}
		if oracle.DocFreq(tok) == 0 {
			continue
		}
		bump(out, tok, weight)
	}
}

// splitPathWords splits a path segment on '_', '-', '.' into raw words.
func splitPathWords(segment string) []string {
	return strings.FieldsFunc(segment, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
}

func bump(out map[string]*accum, term string, weight float64) {
	a, ok := out[term]
	if !ok {
		a = &accum{}
		out[term] = a
	}
	a.freq++
	if weight > a.weight {
		a.weight = weight
	}
}

// applyInjectedTerms implements the "union" half of §4.8 step 5: matching
// rules add extra terms as if observed once at body weight.
func applyInjectedTerms(path string, rules []Rule, out map[string]*accum) {
	for _, r := range rules {
		if !r.matches(path) {
			continue
		}
		for _, t := range r.InjectTerms {
			bump(out, t, WeightBody)
		}
	}
}

// rankTerms implements §4.8 steps 3–4: drop stopwords and low-frequency
// terms, score survivors, drop any with df(t) = 0, and return them sorted
// descending by score.
func rankTerms(terms map[string]*accum, oracle Oracle, params Params, stop map[string]bool) []WeightedTerm {
	var out []WeightedTerm
	for term, a := range terms {
		if stop[term] {
			continue
		}
		if a.freq < params.MinTermFrequency {
			continue
		}
		df := oracle.DocFreq(term)
		if df == 0 {
			continue
		}
		idf := Idf(oracle, term)
		out = append(out, WeightedTerm{
			Term:      term,
			Frequency: a.freq,
			Weight:    a.weight,
			Score:     float64(a.freq) * a.weight * idf,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Term < out[j].Term
	})
	if len(out) > params.Terms {
		out = out[:params.Terms]
	}
	return out
}

// buildQuery implements §4.8 step 6: a disjunction of boosted terms, plus
// a human-readable string form matching the worked example in §8
// ("ashford^29.61 OR thornwood^15.36").
func buildQuery(terms []WeightedTerm) (query.Expr, string) {
	if len(terms) == 0 {
		return query.Or{}, ""
	}
	clauses := make([]query.Expr, len(terms))
	parts := make([]string, len(terms))
	for i, t := range terms {
		clauses[i] = query.Boost{Inner: query.Term{Text: t.Term}, Factor: t.Score}
		parts[i] = fmt.Sprintf("%s^%.2f", t.Term, t.Score)
	}
	if len(clauses) == 1 {
		return clauses[0], parts[0]
	}
	return query.Or{Clauses: clauses}, strings.Join(parts, " OR ")
}
