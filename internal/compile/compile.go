// Package compile lowers a parsed query expression tree (internal/query)
// into the index operation tree the index package executes (§4.5).
package compile

import (
	"fmt"

	"github.com/retrieved/thicket/internal/analyzer"
	"github.com/retrieved/thicket/internal/index"
	"github.com/retrieved/thicket/internal/query"
)

// Compile lowers expr into an executable index.Op using an, the text
// analyzer that was used to build the index (so query-time and index-time
// tokens agree, per §4.1).
func Compile(expr query.Expr, an *analyzer.Analyzer) (index.Op, error) {
	return compileExpr(expr, an)
}

func compileExpr(expr query.Expr, an *analyzer.Analyzer) (index.Op, error) {
	switch e := expr.(type) {
	case query.Term:
		return compileBareTerm(e, an), nil
	case query.Phrase:
		return compileBarePhrase(e, an), nil
	case query.Not:
		inner, err := compileExpr(e.Inner, an)
		if err != nil {
			return nil, err
		}
		return index.NotOp{Inner: inner}, nil
	case query.And:
		clauses, err := compileAll(e.Clauses, an)
		if err != nil {
			return nil, err
		}
		return index.AndOp{Clauses: clauses}, nil
	case query.Or:
		clauses, err := compileAll(e.Clauses, an)
		if err != nil {
			return nil, err
		}
		return index.OrOp{Clauses: clauses}, nil
	case query.Field:
		return compileField(e.Name, e.Inner, an)
	case query.Boost:
		inner, err := compileExpr(e.Inner, an)
		if err != nil {
			return nil, err
		}
		return index.BoostOp{Inner: inner, Factor: e.Factor}, nil
	default:
		return nil, fmt.Errorf("compile: unhandled expression %T", expr)
	}
}

func compileAll(exprs []query.Expr, an *analyzer.Analyzer) ([]index.Op, error) {
	ops := make([]index.Op, 0, len(exprs))
	for _, e := range exprs {
		op, err := compileExpr(e, an)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// compileBareTerm lowers a bare term into a multi-field disjunction (§4.5).
func compileBareTerm(t query.Term, an *analyzer.Analyzer) index.Op {
	tokens := an.Analyze(t.Text)
	if len(tokens) == 0 {
		// Dropped by the analyzer (too long, or stripped to nothing): an
		// unsatisfiable clause rather than a compile error.
		return index.OrOp{}
	}

	var clauses []index.Op
	for _, f := range index.AnalyzedFields {
		clauses = append(clauses, fieldTermOp(f.Name, tokens))
	}
	return index.OrOp{Clauses: clauses}
}

func fieldTermOp(field string, tokens []string) index.Op {
	if len(tokens) == 1 {
		return termOp(field, tokens[0])
	}
	ops := make([]index.Op, len(tokens))
	for i, tok := range tokens {
		ops[i] = termOp(field, tok)
	}
	return index.AndOp{Clauses: ops}
}

func termOp(field, token string) index.Op {
	return index.TermOp{Field: field, Token: token, Fuzzy: len(token) >= analyzer.MinFuzzyTokenLength}
}

// compileBarePhrase lowers a phrase into the same multi-field disjunction,
// matched as an exact-position phrase per field (no fuzzy).
func compileBarePhrase(p query.Phrase, an *analyzer.Analyzer) index.Op {
	var clauses []index.Op
	for _, f := range index.AnalyzedFields {
		if op, ok := phraseOp(f.Name, p.Tokens, an); ok {
			clauses = append(clauses, op)
		}
	}
	if len(clauses) == 0 {
		return index.OrOp{}
	}
	return index.OrOp{Clauses: clauses}
}

func phraseOp(field string, rawTokens []string, an *analyzer.Analyzer) (index.Op, bool) {
	analyzed := make([]string, 0, len(rawTokens))
	for _, tok := range rawTokens {
		if a, ok := an.AnalyzeOne(tok); ok {
			analyzed = append(analyzed, a)
		}
	}
	if len(analyzed) == 0 {
		return nil, false
	}
	return index.PhraseOp{Field: field, Tokens: analyzed}, true
}

// compileField restricts inner's compilation to a single named field.
// tree: is an exact keyword match; the rest search that field's analyzed
// text (§4.4, §4.5).
func compileField(name string, inner query.Expr, an *analyzer.Analyzer) (index.Op, error) {
	if name == "tree" {
		term, ok := inner.(query.Term)
		if !ok {
			return nil, fmt.Errorf("compile: tree: requires a bare keyword")
		}
		return index.ExactOp{Field: index.FieldTree, Value: term.Text}, nil
	}
	return compileFieldExpr(name, inner, an)
}

func compileFieldExpr(field string, expr query.Expr, an *analyzer.Analyzer) (index.Op, error) {
	switch e := expr.(type) {
	case query.Term:
		tokens := an.Analyze(e.Text)
		if len(tokens) == 0 {
			return index.OrOp{}, nil
		}
		return fieldTermOp(field, tokens), nil
	case query.Phrase:
		if op, ok := phraseOp(field, e.Tokens, an); ok {
			return op, nil
		}
		return index.OrOp{}, nil
	case query.Not:
		inner, err := compileFieldExpr(field, e.Inner, an)
		if err != nil {
			return nil, err
		}
		return index.NotOp{Inner: inner}, nil
	case query.And:
		clauses, err := compileFieldAll(field, e.Clauses, an)
		if err != nil {
			return nil, err
		}
		return index.AndOp{Clauses: clauses}, nil
	case query.Or:
		clauses, err := compileFieldAll(field, e.Clauses, an)
		if err != nil {
			return nil, err
		}
		return index.OrOp{Clauses: clauses}, nil
	case query.Boost:
		inner, err := compileFieldExpr(field, e.Inner, an)
		if err != nil {
			return nil, err
		}
		return index.BoostOp{Inner: inner, Factor: e.Factor}, nil
	case query.Field:
		// Nested field prefix: the innermost field wins.
		return compileField(e.Name, e.Inner, an)
	default:
		return nil, fmt.Errorf("compile: unhandled field expression %T", expr)
	}
}

func compileFieldAll(field string, exprs []query.Expr, an *analyzer.Analyzer) ([]index.Op, error) {
	ops := make([]index.Op, 0, len(exprs))
	for _, e := range exprs {
		op, err := compileFieldExpr(field, e, an)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}
