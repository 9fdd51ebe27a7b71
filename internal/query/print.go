package query

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders expr back to query syntax. Re-parsing the result yields an
// AST equivalent to expr modulo the flattening of adjacent And/Or nodes
// (the round-trip law of §8).
func String(expr Expr) string {
	var b strings.Builder
	writeExpr(&b, expr)
	return b.String()
}

func writeExpr(b *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case Term:
		b.WriteString(e.Text)
	case Phrase:
		b.WriteByte('"')
		b.WriteString(strings.Join(e.Tokens, " "))
		b.WriteByte('"')
	case Not:
		b.WriteByte('-')
		writeGroupedIfNeeded(b, e.Inner)
	case Field:
		b.WriteString(e.Name)
		b.WriteByte(':')
		writeGroupedIfNeeded(b, e.Inner)
	case Boost:
		writeGroupedIfNeeded(b, e.Inner)
		b.WriteByte('^')
		b.WriteString(strconv.FormatFloat(e.Factor, 'f', -1, 64))
	case And:
		writeJoined(b, e.Clauses, " ")
	case Or:
		writeJoined(b, e.Clauses, " OR ")
	default:
		b.WriteString(fmt.Sprintf("<unknown:%T>", expr))
	}
}

func writeJoined(b *strings.Builder, clauses []Expr, sep string) {
	for i, c := range clauses {
		if i > 0 {
			b.WriteString(sep)
		}
		writeGroupedIfNeeded(b, c)
	}
}

// writeGroupedIfNeeded wraps And/Or children in parentheses so the printed
// form reparses to the same grouping.
func writeGroupedIfNeeded(b *strings.Builder, expr Expr) {
	switch expr.(type) {
	case And, Or:
		b.WriteByte('(')
		writeExpr(b, expr)
		b.WriteByte(')')
	default:
		writeExpr(b, expr)
	}
}

// Explain renders expr as a stable, labelled tree for §6's explain mode.
func Explain(expr Expr) string {
	var b strings.Builder
	explainNode(&b, expr, 0)
	return b.String()
}

func explainNode(b *strings.Builder, expr Expr, depth int) {
	indent := strings.Repeat("  ", depth)
	switch e := expr.(type) {
	case Term:
		fmt.Fprintf(b, "%sTerm(%q)\n", indent, e.Text)
	case Phrase:
		fmt.Fprintf(b, "%sPhrase(%v)\n", indent, e.Tokens)
	case Not:
		fmt.Fprintf(b, "%sNot\n", indent)
		explainNode(b, e.Inner, depth+1)
	case Field:
		fmt.Fprintf(b, "%sField(%s)\n", indent, e.Name)
		explainNode(b, e.Inner, depth+1)
	case Boost:
		fmt.Fprintf(b, "%sBoost(%g)\n", indent, e.Factor)
		explainNode(b, e.Inner, depth+1)
	case And:
		fmt.Fprintf(b, "%sAnd\n", indent)
		for _, c := range e.Clauses {
			explainNode(b, c, depth+1)
		}
	case Or:
		fmt.Fprintf(b, "%sOr\n", indent)
		for _, c := range e.Clauses {
			explainNode(b, c, depth+1)
		}
	}
}
