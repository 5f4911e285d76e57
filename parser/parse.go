package parser

import (
	"io"

	"github.com/metaphox/minic/ast"
	"github.com/metaphox/minic/lexer"
)

// ParseString parses src as a complete program.
func ParseString(src string, opts ...Option) (*ast.Program, error) {
	o := buildOptions(opts)
	return New(lexer.New(src, o.lexOpts...), opts...).Parse()
}

// ParseReader reads r to the end and parses it as a complete program.
func ParseReader(r io.Reader, opts ...Option) (*ast.Program, error) {
	o := buildOptions(opts)
	l, err := lexer.NewReader(r, o.lexOpts...)
	if err != nil {
		return nil, err
	}
	return New(l, opts...).Parse()
}
