package query

import "fmt"

// ParseError is returned for any malformed query string. Kind is a stable,
// machine-checkable identifier (e.g. "unclosed_quote"); Pos is the rune
// offset into the original query string where the problem was detected.
type ParseError struct {
	Pos  int
	Kind string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("query parse error at %d: %s", e.Pos, e.Msg)
}
