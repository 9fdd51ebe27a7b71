package index

import "sort"

// Op is a lowered, index-executable query operation (§4.5/§6). The query
// compiler (internal/compile) is the sole producer of Op trees; the index
// is the sole consumer.
type Op interface{ isOp() }

// TermOp matches a single analyzed token in one field, BM25-scored. Fuzzy
// enables Levenshtein expansion (§4.1) for any chunk whose field does not
// contain the exact token.
type TermOp struct {
	Field string
	Token string
	Fuzzy bool
}

// PhraseOp requires adjacency of Tokens (already analyzed) within Field.
type PhraseOp struct {
	Field  string
	Tokens []string
}

// ExactOp matches a single unanalyzed stored value exactly (e.g. tree:).
type ExactOp struct {
	Field string
	Value string
}

// AndOp requires every clause to match; its score is their sum.
type AndOp struct{ Clauses []Op }

// OrOp requires at least one clause to match; its score is the sum of
// matching clauses.
type OrOp struct{ Clauses []Op }

// NotOp excludes chunks for which Inner matches.
type NotOp struct{ Inner Op }

// BoostOp multiplies Inner's score by Factor.
type BoostOp struct {
	Inner  Op
	Factor float64
}

func (TermOp) isOp()   {}
func (PhraseOp) isOp() {}
func (ExactOp) isOp()  {}
func (AndOp) isOp()    {}
func (OrOp) isOp()     {}
func (NotOp) isOp()    {}
func (BoostOp) isOp()  {}

// Candidate is a single scored hit from Search, before any §4.7 post-processing.
type Candidate struct {
	ChunkID string
	Score   float64
}

// Search executes op against the snapshot and returns up to limit scored
// candidates, sorted descending by score. fuzzyDistance is the Levenshtein
// threshold for TermOp.Fuzzy (0 disables fuzzy matching entirely).
func (s *Snapshot) Search(op Op, limit int, fuzzyDistance int) []Candidate {
	scores := make(map[string]float64)
	for id := range s.chunks {
		matched, score := s.eval(op, id, fuzzyDistance)
		if matched && score > 0 {
			scores[id] = score
		}
	}

	out := make([]Candidate, 0, len(scores))
	for id, sc := range scores {
		out = append(out, Candidate{ChunkID: id, Score: sc})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ChunkID < out[j].ChunkID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Snapshot) eval(op Op, chunkID string, fuzzyDistance int) (bool, float64) {
	switch o := op.(type) {
	case TermOp:
		return s.evalTerm(o, chunkID, fuzzyDistance)
	case PhraseOp:
		return s.evalPhrase(o, chunkID)
	case ExactOp:
		ids := s.exact[o.Field][o.Value]
		for _, id := range ids {
			if id == chunkID {
				return true, FieldBoost(o.Field)
			}
		}
		return false, 0
	case AndOp:
		total := 0.0
		for _, c := range o.Clauses {
			matched, score := s.eval(c, chunkID, fuzzyDistance)
			if !matched {
				return false, 0
			}
			total += score
		}
		return len(o.Clauses) > 0, total
	case OrOp:
		total := 0.0
		any := false
		for _, c := range o.Clauses {
			matched, score := s.eval(c, chunkID, fuzzyDistance)
			if matched {
				any = true
				total += score
			}
		}
		return any, total
	case NotOp:
		matched, _ := s.eval(o.Inner, chunkID, fuzzyDistance)
		return !matched, 0
	case BoostOp:
		matched, score := s.eval(o.Inner, chunkID, fuzzyDistance)
		return matched, score * o.Factor
	default:
		return false, 0
	}
}

// bm25Score computes the BM25-style contribution of a single-token match in
// one field, scaled by that field's intrinsic boost.
func (s *Snapshot) bm25Score(field, token, chunkID string) (matched bool, score float64) {
	fi := s.fields[field]
	if fi == nil {
		return false, 0
	}
	tf := fi.termFreq(token, chunkID)
	if tf == 0 {
		return false, 0
	}
	df := fi.docFreq(token)
	avg := fi.avgLen()
	fieldLen := float64(fi.fieldLen[chunkID])
	if avg == 0 {
		avg = fieldLen
	}
	norm := bm25K1 * (1 - bm25B + bm25B*fieldLen/avg)
	weight := idf(s.numDocs, df) * (float64(tf) * (bm25K1 + 1)) / (float64(tf) + norm)
	return true, weight * FieldBoost(field)
}

func (s *Snapshot) evalTerm(o TermOp, chunkID string, fuzzyDistance int) (bool, float64) {
	if matched, score := s.bm25Score(o.Field, o.Token, chunkID); matched {
		return true, score
	}
	if !o.Fuzzy || fuzzyDistance <= 0 || len(o.Token) <= 4 {
		return false, 0
	}

	fi := s.fields[o.Field]
	if fi == nil {
		return false, 0
	}
	best := 0.0
	found := false
	for _, cand := range s.fuzzyCandidates(fi, o.Token, fuzzyDistance) {
		if matched, score := s.bm25Score(o.Field, cand, chunkID); matched {
			found = true
			// Fuzzy matches are dampened relative to an exact hit.
			if score*0.8 > best {
				best = score * 0.8
			}
		}
	}
	return found, best
}

func (s *Snapshot) evalPhrase(o PhraseOp, chunkID string) (bool, float64) {
	if len(o.Tokens) == 0 {
		return false, 0
	}
	fi := s.fields[o.Field]
	if fi == nil {
		return false, 0
	}

	firstPositions := fi.postings[o.Tokens[0]][chunkID]
	if len(firstPositions) == 0 {
		return false, 0
	}

	var matchCount int
	for _, start := range firstPositions {
		ok := true
		for i := 1; i < len(o.Tokens); i++ {
			positions := fi.postings[o.Tokens[i]][chunkID]
			if !containsInt(positions, start+i) {
				ok = false
				break
			}
		}
		if ok {
			matchCount++
		}
	}
	if matchCount == 0 {
		return false, 0
	}

	// Score each phrase occurrence like a single term hit on the lead token,
	// summed across occurrences and weighted by field boost.
	df := fi.docFreq(o.Tokens[0])
	avg := fi.avgLen()
	fieldLen := float64(fi.fieldLen[chunkID])
	if avg == 0 {
		avg = fieldLen
	}
	norm := bm25K1 * (1 - bm25B + bm25B*fieldLen/avg)
	weight := idf(s.numDocs, df) * (float64(matchCount) * (bm25K1 + 1)) / (float64(matchCount) + norm)
	return true, weight * FieldBoost(o.Field)
}

func containsInt(xs []int, v int) bool {
	// Positions are appended in increasing order, so a linear scan suffices
	// for the small lists expected within a single chunk's field.
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
