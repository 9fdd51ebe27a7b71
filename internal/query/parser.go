package query

import (
	"strconv"
	"strings"
)

// Parse lexes and parses a query string into an expression tree.
//
// Precedence, lowest to highest: OR (flat) • AND (flat, implicit) • unary
// negation • field prefix • grouping • atoms.
func Parse(q string) (Expr, error) {
	p := &parser{lex: newLexer(q)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		if p.cur.kind == tokRParen {
			return nil, &ParseError{Pos: p.cur.pos, Kind: "unexpected_rparen", Msg: "unexpected closing parenthesis"}
		}
		return nil, &ParseError{Pos: p.cur.pos, Kind: "trailing_input", Msg: "unexpected trailing input"}
	}
	if isPureNegation(expr) {
		return nil, &ParseError{Pos: 0, Kind: "pure_negation", Msg: "query cannot consist solely of negated clauses"}
	}
	return expr, nil
}

type parser struct {
	lex *lexer
	cur token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

// parseOr parses a flat n-ary OR of AND-groups.
func (p *parser) parseOr() (Expr, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	clauses := []Expr{first}
	for p.cur.kind == tokOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, next)
	}

	if len(clauses) == 1 {
		return first, nil
	}
	return Or{Clauses: clauses}, nil
}

// parseAnd parses a flat n-ary AND formed by adjacency: zero or more unary
// expressions until OR, ')', or end of input.
func (p *parser) parseAnd() (Expr, error) {
	var clauses []Expr
	for p.cur.kind != tokEOF && p.cur.kind != tokRParen && p.cur.kind != tokOr {
		next, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, next)
	}

	switch len(clauses) {
	case 0:
		return nil, p.expectedExpressionError()
	case 1:
		return clauses[0], nil
	default:
		return And{Clauses: clauses}, nil
	}
}

func (p *parser) expectedExpressionError() error {
	switch p.cur.kind {
	case tokOr:
		return &ParseError{Pos: p.cur.pos, Kind: "or_without_left", Msg: "OR without left operand"}
	case tokRParen:
		return &ParseError{Pos: p.cur.pos, Kind: "empty_group", Msg: "expected expression before ')'"}
	default:
		return &ParseError{Pos: p.cur.pos, Kind: "expected_expression", Msg: "expected term, phrase, or group"}
	}
}

// parseUnary parses an optional leading '-' followed by a (possibly
// boosted) primary.
func (p *parser) parseUnary() (Expr, error) {
	if p.cur.kind == tokMinus {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return Not{Inner: inner}, nil
	}
	return p.parsePrimary()
}

// parsePrimary parses a base expression with an optional trailing '^N'
// boost.
func (p *parser) parsePrimary() (Expr, error) {
	base, err := p.parseBase()
	if err != nil {
		return nil, err
	}

	if p.cur.kind == tokCaret {
		caretPos := p.cur.pos
		numTok, err := p.lex.lexNumber()
		if err != nil {
			return nil, err
		}
		factor, err := strconv.ParseFloat(numTok.text, 64)
		if err != nil || factor <= 0 {
			return nil, &ParseError{Pos: caretPos, Kind: "invalid_boost", Msg: "invalid boost literal"}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Boost{Inner: base, Factor: factor}, nil
	}
	return base, nil
}

// parseBase parses an atom, phrase, group, or field prefix expression. A
// boost or OR with nothing preceding it is handled by the caller
// (parseAnd/parsePrimary); parseBase never consumes those tokens.
func (p *parser) parseBase() (Expr, error) {
	switch p.cur.kind {
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, &ParseError{Pos: p.cur.pos, Kind: "unclosed_paren", Msg: "expected closing parenthesis"}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil

	case tokPhrase:
		text := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Phrase{Tokens: strings.Fields(text)}, nil

	case tokTerm:
		word := p.cur.text
		wordPos := p.cur.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind == tokColon {
			colonPos := p.cur.pos
			if err := p.advance(); err != nil {
				return nil, err
			}
			if !FieldNames[strings.ToLower(word)] {
				return nil, &ParseError{Pos: wordPos, Kind: "unknown_field", Msg: "unknown field '" + word + "'"}
			}
			if p.cur.kind == tokEOF || p.cur.kind == tokRParen || p.cur.kind == tokOr ||
				p.cur.kind == tokCaret || p.cur.kind == tokColon {
				return nil, &ParseError{
					Pos:  colonPos,
					Kind: "field_no_atom",
					Msg:  "expected term, phrase, or group after '" + word + ":'",
				}
			}
			inner, err := p.parseBase()
			if err != nil {
				return nil, err
			}
			return Field{Name: strings.ToLower(word), Inner: inner}, nil
		}
		return Term{Text: word}, nil

	default:
		return nil, p.expectedExpressionError()
	}
}

// isPureNegation reports whether expr consists solely of negated clauses
// with no positive sibling anywhere at the top level.
func isPureNegation(expr Expr) bool {
	switch e := expr.(type) {
	case Not:
		return true
	case And:
		for _, c := range e.Clauses {
			if _, ok := c.(Not); !ok {
				return false
			}
		}
		return len(e.Clauses) > 0
	default:
		return false
	}
}
