// Package parser implements the minic recursive-descent parser.
//
// The parser reads a token stream from a [lexer.Lexer] and builds an
// [ast.Program]. Each grammar rule maps to one parse function; one token of
// lookahead decides every production, so there is no backtracking.
//
//	Program     := { Statement }
//	Statement   := Declaration | Conditional | Assignment
//	Declaration := "int" Identifier ";"
//	Assignment  := Identifier "=" Expression ";"
//	Conditional := "if" "{" Expression "==" Expression "}" "{" Assignment "}"
//	Expression  := Factor { ("+" | "-") Factor }
//	Factor      := Number | Identifier
//
// Usage:
//
//	l := lexer.New(source)
//	p := parser.New(l)
//	prog, err := p.Parse()
//
// Parsing is fail-fast: the first lexical or syntax error aborts the whole
// parse and is returned as the only error; no partial program is produced.
package parser

import (
	"go.uber.org/zap"

	"github.com/metaphox/minic/ast"
	"github.com/metaphox/minic/lexer"
)

// Option configures a [Parser] and the convenience entry points.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	lexOpts []lexer.Option
}

// WithLogger makes the parser log every parsed statement at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLexerOptions passes lexer options to the lexer created by
// [ParseString] and [ParseReader]. [New] ignores them.
func WithLexerOptions(opts ...lexer.Option) Option {
	return func(o *options) {
		o.lexOpts = append(o.lexOpts, opts...)
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Parser holds all state needed to parse one minic source: the lexer and the
// single token of lookahead. Create one with [New] per parse.
type Parser struct {
	l   *lexer.Lexer
	cur ast.Token // current token (the one being examined)
	err error     // lexical error raised while priming the lookahead
	log *zap.Logger
}

// New creates a Parser that reads tokens from l and primes the lookahead.
func New(l *lexer.Lexer, opts ...Option) *Parser {
	o := buildOptions(opts)
	p := &Parser{l: l, log: o.logger}
	p.err = p.advance()
	return p
}

// Parse builds and returns the program for the whole input.
func (p *Parser) Parse() (*ast.Program, error) {
	if p.err != nil {
		return nil, p.err
	}
	prog := &ast.Program{}
	for !p.curIs(ast.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		p.log.Debug("Parsed statement",
			zap.Stringer("kind", stmt.Kind),
			zap.String("root", stmt.Value),
			zap.Int("line", stmt.Token.Line),
		)
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

// ParseExpression parses a single expression that must span the whole input.
func (p *Parser) ParseExpression() (*ast.Node, error) {
	if p.err != nil {
		return nil, p.err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(ast.EOF); err != nil {
		return nil, err
	}
	return expr, nil
}

// ── Internal token management ─────────────────────────────────────────────────

// advance fetches the next token from the lexer into cur.
func (p *Parser) advance() error {
	tok, err := p.l.NextToken()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

// expect checks that the current token has type tt and advances past it;
// otherwise it returns a *SyntaxError and does not advance.
func (p *Parser) expect(tt ast.TokenType) error {
	_, err := p.consume(tt)
	return err
}

// consume is expect that also hands back the consumed token.
func (p *Parser) consume(tt ast.TokenType) (ast.Token, error) {
	tok := p.cur
	if tok.Type != tt {
		return tok, p.unexpected(tt)
	}
	if tt == ast.EOF {
		return tok, nil
	}
	return tok, p.advance()
}

// curIs reports whether the current token has the given type.
func (p *Parser) curIs(tt ast.TokenType) bool { return p.cur.Type == tt }

// unexpected builds the error for the current token in a position that
// accepts only the given types.
func (p *Parser) unexpected(expected ...ast.TokenType) *SyntaxError {
	return &SyntaxError{
		Line:     p.cur.Line,
		Col:      p.cur.Col,
		Expected: expected,
		Got:      p.cur.Type,
		Literal:  p.cur.Literal,
	}
}

// ── Statement parsing ─────────────────────────────────────────────────────────

// parseStatement dispatches on the current token. Anything other than a
// statement keyword or an identifier is a syntax error.
func (p *Parser) parseStatement() (*ast.Node, error) {
	switch p.cur.Type {
	case ast.INT:
		return p.parseDeclaration()
	case ast.IF:
		return p.parseConditional()
	case ast.IDENT:
		return p.parseAssignment()
	default:
		return nil, p.unexpected(ast.INT, ast.IF, ast.IDENT)
	}
}

// parseDeclaration parses: int name ;
func (p *Parser) parseDeclaration() (*ast.Node, error) {
	if err := p.expect(ast.INT); err != nil {
		return nil, err
	}
	name, err := p.consume(ast.IDENT)
	if err != nil {
		return nil, err
	}
	if err := p.expect(ast.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.Declaration, Value: name.Literal, Token: name}, nil
}

// parseAssignment parses: name = Expression ;
func (p *Parser) parseAssignment() (*ast.Node, error) {
	name, err := p.consume(ast.IDENT)
	if err != nil {
		return nil, err
	}
	if err := p.expect(ast.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(ast.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.Assignment, Value: name.Literal, Right: value, Token: name}, nil
}

// parseConditional parses: if { Expression == Expression } { Assignment }
//
// The body is exactly one assignment.
func (p *Parser) parseConditional() (*ast.Node, error) {
	ifTok, err := p.consume(ast.IF)
	if err != nil {
		return nil, err
	}
	if err := p.expect(ast.LBRACE); err != nil {
		return nil, err
	}
	left, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	eqTok, err := p.consume(ast.EQ)
	if err != nil {
		return nil, err
	}
	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(ast.RBRACE); err != nil {
		return nil, err
	}
	if err := p.expect(ast.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if err := p.expect(ast.RBRACE); err != nil {
		return nil, err
	}
	cond := &ast.Node{Kind: ast.Comparison, Value: eqTok.Literal, Left: left, Right: right, Token: eqTok}
	return &ast.Node{Kind: ast.Conditional, Value: ifTok.Literal, Left: cond, Right: body, Token: ifTok}, nil
}

// ── Expression parsing ────────────────────────────────────────────────────────

// parseExpression parses Factor { (+|-) Factor } into a left-deep chain, so
// a + b - c becomes (a + b) - c.
func (p *Parser) parseExpression() (*ast.Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.curIs(ast.PLUS) || p.curIs(ast.MINUS) {
		op := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		kind := ast.Add
		if op.Type == ast.MINUS {
			kind = ast.Subtract
		}
		left = &ast.Node{Kind: kind, Value: op.Literal, Left: left, Right: right, Token: op}
	}
	return left, nil
}

// parseFactor builds a leaf from a number or identifier.
func (p *Parser) parseFactor() (*ast.Node, error) {
	tok := p.cur
	var kind ast.NodeKind
	switch tok.Type {
	case ast.NUMBER:
		kind = ast.Number
	case ast.IDENT:
		kind = ast.Identifier
	default:
		return nil, p.unexpected(ast.NUMBER, ast.IDENT)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: kind, Value: tok.Literal, Token: tok}, nil
}
