package index

import (
	"math"

	"github.com/retrieved/thicket/internal/analyzer"
)

// bm25K1 and bm25B are the standard Okapi BM25 tuning constants.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// fieldIndex holds per-field postings for the analyzed-text fields.
type fieldIndex struct {
	// postings[token][chunkID] = sorted token-index positions within that
	// field for that chunk; length is the term frequency, and adjacency of
	// positions across tokens supports phrase matching.
	postings map[string]map[string][]int
	// fieldLen[chunkID] = number of analyzed tokens in that field for that chunk.
	fieldLen map[string]int
	totalLen int
	numDocs  int
}

func newFieldIndex() *fieldIndex {
	return &fieldIndex{
		postings: make(map[string]map[string][]int),
		fieldLen: make(map[string]int),
	}
}

func (fi *fieldIndex) add(chunkID string, tokens []string) {
	if len(tokens) == 0 {
		return
	}
	fi.fieldLen[chunkID] = len(tokens)
	fi.totalLen += len(tokens)
	fi.numDocs++
	for pos, t := range tokens {
		m := fi.postings[t]
		if m == nil {
			m = make(map[string][]int)
			fi.postings[t] = m
		}
		m[chunkID] = append(m[chunkID], pos)
	}
}

func (fi *fieldIndex) avgLen() float64 {
	if fi.numDocs == 0 {
		return 0
	}
	return float64(fi.totalLen) / float64(fi.numDocs)
}

func (fi *fieldIndex) docFreq(token string) int {
	return len(fi.postings[token])
}

func (fi *fieldIndex) termFreq(token, chunkID string) int {
	return len(fi.postings[token][chunkID])
}

// idf implements the §4.8 IDF formula, also used for BM25's own term weight.
func idf(numDocs, docFreq int) float64 {
	return math.Log(float64(numDocs+1)/float64(docFreq+1)) + 1
}

// Snapshot is an immutable, point-in-time view of the index, built fresh on
// every commit (§5). Safe to share across concurrent readers.
type Snapshot struct {
	chunks   map[string]Chunk
	byDoc    map[string][]string // doc_id -> chunk ids, in position order
	children map[string][]string // parent_id -> chunk ids, in position order
	trees    map[string]bool     // tree name -> local?

	fields map[string]*fieldIndex // field name -> postings
	exact  map[string]map[string][]string
	// exact[field][value] = chunk ids with that exact stored value (tree, id).

	numDocs int
}

// BuildSnapshot constructs an immutable snapshot directly from chunks,
// bypassing the SQLite row store. Store uses this on every commit; it is
// also the entry point test fixtures in other packages use to exercise the
// search pipeline against an in-memory index without a database.
func BuildSnapshot(chunks []Chunk) *Snapshot {
	s := &Snapshot{
		chunks:   make(map[string]Chunk, len(chunks)),
		byDoc:    make(map[string][]string),
		children: make(map[string][]string),
		trees:    make(map[string]bool),
		fields:   make(map[string]*fieldIndex),
		exact:    make(map[string]map[string][]string),
	}
	for _, f := range AnalyzedFields {
		s.fields[f.Name] = newFieldIndex()
	}
	s.exact[FieldTree] = make(map[string][]string)
	s.exact[FieldID] = make(map[string][]string)

	for _, c := range chunks {
		s.chunks[c.ID] = c
		s.byDoc[c.DocID] = append(s.byDoc[c.DocID], c.ID)
		if c.ParentID != "" {
			s.children[c.ParentID] = append(s.children[c.ParentID], c.ID)
		}
		s.trees[c.Tree] = c.Local

		s.exact[FieldTree][c.Tree] = append(s.exact[FieldTree][c.Tree], c.ID)
		s.exact[FieldID][c.ID] = append(s.exact[FieldID][c.ID], c.ID)

		an := analyzer.New(analyzer.DefaultLanguage)
		s.fields[FieldTitle].add(c.ID, an.Analyze(c.Title))
		s.fields[FieldTags].add(c.ID, an.Analyze(joinStrings(c.Tags, " ")))
		s.fields[FieldPath].add(c.ID, an.Analyze(c.Path))
		s.fields[FieldPathComponents].add(c.ID, an.Analyze(joinStrings(PathComponents(c.Path), " ")))
		s.fields[FieldBody].add(c.ID, an.Analyze(c.Body))
	}

	s.numDocs = len(chunks)
	return s
}

func joinStrings(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}

// NumDocs is part of the §6 IDF oracle surface.
func (s *Snapshot) NumDocs() int { return s.numDocs }

// DocFreq is part of the §6 IDF oracle surface: document frequency of an
// already-analyzed term across the body field (the field context analysis
// scores against).
func (s *Snapshot) DocFreq(term string) int {
	return s.fields[FieldBody].docFreq(term)
}

// IDF returns ln((N+1)/(df+1)) + 1 for term, using body-field statistics.
func (s *Snapshot) IDF(term string) float64 {
	return idf(s.numDocs, s.DocFreq(term))
}

// Get returns the stored chunk for id.
func (s *Snapshot) Get(id string) (Chunk, bool) {
	c, ok := s.chunks[id]
	return c, ok
}

// Children returns the chunk ids whose parent_id is parentID, in position order.
func (s *Snapshot) Children(parentID string) []string {
	return s.children[parentID]
}

// fuzzyCandidates returns the tokens of fi's vocabulary (its postings keys)
// within Levenshtein distance maxDist of token, excluding token itself.
func (s *Snapshot) fuzzyCandidates(fi *fieldIndex, token string, maxDist int) []string {
	var out []string
	for t := range fi.postings {
		if t == token {
			continue
		}
		if abs(len(t)-len(token)) > maxDist {
			continue
		}
		if levenshtein(t, token, maxDist) <= maxDist {
			out = append(out, t)
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
