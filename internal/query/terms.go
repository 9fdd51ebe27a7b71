package query

// RawTerms walks expr and collects every literal term/phrase token it
// contains, skipping the subtrees under a Not. Callers use this to locate
// raw (pre-analysis) match text for snippet highlighting (§6 match_ranges),
// not to drive retrieval itself.
func RawTerms(expr Expr) []string {
	var out []string
	collectTerms(expr, &out)
	return out
}

func collectTerms(expr Expr, out *[]string) {
	switch e := expr.(type) {
	case Term:
		*out = append(*out, e.Text)
	case Phrase:
		*out = append(*out, e.Tokens...)
	case Not:
		// Negated clauses should not contribute highlight terms.
	case Field:
		collectTerms(e.Inner, out)
	case Boost:
		collectTerms(e.Inner, out)
	case And:
		for _, c := range e.Clauses {
			collectTerms(c, out)
		}
	case Or:
		for _, c := range e.Clauses {
			collectTerms(c, out)
		}
	}
}
