// Package query implements the lexer, parser, and AST for the query
// language: OR (flat, case-insensitive) over AND (flat, implicit by
// adjacency) over unary negation, field prefixes, grouping, and atoms
// (terms, phrases, boosts).
package query

import "strings"

// Expr is any node in a parsed query's abstract syntax tree.
type Expr interface {
	exprNode()
}

// Term is a single bare word, analyzed (tokenized/stemmed) at compile time.
type Term struct {
	Text string
}

// Phrase is an ordered list of raw (not yet analyzed) tokens from a quoted
// string, requiring adjacency at match time.
type Phrase struct {
	Tokens []string
}

// Not negates its operand. A Not must always appear alongside a sibling
// positive clause; a pure-negation query is a parse-level error.
type Not struct {
	Inner Expr
}

// And is a flat, n-ary conjunction.
type And struct {
	Clauses []Expr
}

// Or is a flat, n-ary disjunction.
type Or struct {
	Clauses []Expr
}

// Field restricts inner to a single named field. Name is one of the closed
// set of field names.
type Field struct {
	Name  string
	Inner Expr
}

// Boost multiplies the score of Inner by Factor.
type Boost struct {
	Inner  Expr
	Factor float64
}

func (Term) exprNode()  {}
func (Phrase) exprNode() {}
func (Not) exprNode()   {}
func (And) exprNode()   {}
func (Or) exprNode()    {}
func (Field) exprNode() {}
func (Boost) exprNode() {}

// FieldNames is the closed set of field names the query language accepts.
var FieldNames = map[string]bool{
	"title": true,
	"body":  true,
	"tags":  true,
	"path":  true,
	"tree":  true,
}

// JoinArgs implements the command-line argument join rule (§4.4): multiple
// raw arguments are each wrapped in parentheses and OR-joined. A single
// argument is returned unchanged, to be parsed as-is.
func JoinArgs(args []string) string {
	if len(args) == 0 {
		return ""
	}
	if len(args) == 1 {
		return args[0]
	}
	wrapped := make([]string, len(args))
	for i, a := range args {
		wrapped[i] = "(" + a + ")"
	}
	return strings.Join(wrapped, " OR ")
}
