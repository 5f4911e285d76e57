package parser

import (
	"fmt"
	"strings"

	"github.com/metaphox/minic/ast"
)

// SyntaxError reports a token that the grammar does not allow at its
// position. Expected lists every token type that would have been accepted.
type SyntaxError struct {
	Line     int
	Col      int
	Expected []ast.TokenType
	Got      ast.TokenType
	Literal  string
}

func (e *SyntaxError) Error() string {
	var want string
	if len(e.Expected) == 1 {
		want = e.Expected[0].String()
	} else {
		names := make([]string, len(e.Expected))
		for i, tt := range e.Expected {
			names[i] = tt.String()
		}
		want = "one of " + strings.Join(names, ", ")
	}
	got := e.Got.String()
	if e.Literal != "" {
		got = fmt.Sprintf("%s %q", got, e.Literal)
	}
	return fmt.Sprintf("line %d col %d: expected %s, got %s", e.Line, e.Col, want, got)
}
