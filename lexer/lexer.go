// Package lexer implements the minic lexer (tokeniser).
//
// The lexer converts minic source text into a lazy stream of [ast.Token]
// values. Call [New] (or [NewReader]) to create a lexer and then call
// [Lexer.NextToken] repeatedly until you receive a token with
// Type == [ast.EOF].
//
// Design notes:
//   - Single-pass, byte-by-byte scanning using a read position cursor.
//   - No global state; every [Lexer] is independent.
//   - Line and column numbers are tracked for every token (1-based).
//   - Identifiers are scanned first and then classified as keywords via
//     [ast.LookupIdent].
//   - "==" needs one byte of look-ahead and is handled by peekChar.
//   - Lexemes are bounded; an identifier or number longer than the limit is
//     reported as a [LexicalError] instead of being truncated.
package lexer

import (
	"io"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/metaphox/minic/ast"
)

// DefaultMaxLexemeLen is the longest identifier or number accepted unless
// [WithMaxLexemeLen] says otherwise.
const DefaultMaxLexemeLen = 100

// Option configures a [Lexer].
type Option func(*Lexer)

// WithMaxLexemeLen sets the maximum length in bytes of a single lexeme.
// Values below 1 are ignored.
func WithMaxLexemeLen(n int) Option {
	return func(l *Lexer) {
		if n > 0 {
			l.maxLen = n
		}
	}
}

// Lexer holds all state required to tokenise a single minic source.
// Create one with [New]; never copy a Lexer after first use.
type Lexer struct {
	input   string // the full source text
	pos     int    // current read position (index of ch)
	readPos int    // next read position (pos + 1)
	ch      byte   // current character under examination
	maxLen  int    // maximum lexeme length

	line int // current 1-based line number
	col  int // 1-based column of ch
}

// New creates a [Lexer] that tokenises the given input string.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{
		input:  input,
		maxLen: DefaultMaxLexemeLen,
		line:   1,
	}
	for _, o := range opts {
		o(l)
	}
	l.readChar() // prime: set l.ch = input[0]
	return l
}

// NewReader reads the whole of r and returns a [Lexer] over its contents.
func NewReader(r io.Reader, opts ...Option) (*Lexer, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read source")
	}
	return New(string(b), opts...), nil
}

// NextToken returns the next token from the input.
//
// Whitespace (spaces, tabs, carriage returns, newlines) is skipped before each
// token. When the input is exhausted, NextToken returns a token with
// Type == [ast.EOF] on every subsequent call.
//
// An unrecognised character or an overlong lexeme produces an [ast.ILLEGAL]
// token together with a *[LexicalError].
func (l *Lexer) NextToken() (ast.Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return l.makeToken(ast.EOF, ""), nil
	}

	var tok ast.Token
	switch l.ch {
	case '{':
		tok = l.makeToken(ast.LBRACE, "{")
	case '}':
		tok = l.makeToken(ast.RBRACE, "}")
	case ';':
		tok = l.makeToken(ast.SEMICOLON, ";")
	case '+':
		tok = l.makeToken(ast.PLUS, "+")
	case '-':
		tok = l.makeToken(ast.MINUS, "-")
	case '=':
		if l.peekChar() == '=' {
			tok = l.makeToken(ast.EQ, "==")
			l.readChar()
		} else {
			tok = l.makeToken(ast.ASSIGN, "=")
		}
	default:
		if isLetter(l.ch) {
			return l.readIdentifier()
		} else if isDigit(l.ch) {
			return l.readNumber()
		}
		// report the whole character, not its first byte
		_, size := utf8.DecodeRuneInString(l.input[l.pos:])
		tok = l.makeToken(ast.ILLEGAL, l.input[l.pos:l.pos+size])
		for i := 0; i < size; i++ {
			l.readChar()
		}
		return tok, &LexicalError{Line: tok.Line, Col: tok.Col, Literal: tok.Literal, Err: ErrUnexpectedChar}
	}

	l.readChar() // advance past the last character of this token
	return tok, nil
}

// ── Internal helpers ──────────────────────────────────────────────────────────

// readChar advances the lexer by one character.
// When the input is exhausted l.ch is set to 0; callers test l.pos for EOF
// so that a literal NUL byte is still reported as illegal.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	if l.pos < len(l.input) && l.readPos > 0 && l.input[l.pos] == '\n' {
		l.line++
		l.col = 0
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

// peekChar returns the next character without consuming it.
// Returns 0 when the end of input has been reached.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// makeToken constructs a token at the current source position.
// It does NOT advance the cursor.
func (l *Lexer) makeToken(tt ast.TokenType, literal string) ast.Token {
	return ast.Token{Type: tt, Literal: literal, Line: l.line, Col: l.col}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readChar()
		default:
			return
		}
	}
}

// readIdentifier scans an identifier or keyword starting at the current
// position. The cursor is left on the first non-identifier character.
func (l *Lexer) readIdentifier() (ast.Token, error) {
	start, line, col := l.pos, l.line, l.col
	for l.pos < len(l.input) && (isLetter(l.ch) || isDigit(l.ch)) {
		l.readChar()
	}
	return l.finishLexeme(start, line, col, ast.LookupIdent)
}

// readNumber scans an unsigned decimal integer literal. The cursor is left on
// the first non-digit character.
func (l *Lexer) readNumber() (ast.Token, error) {
	start, line, col := l.pos, l.line, l.col
	for l.pos < len(l.input) && isDigit(l.ch) {
		l.readChar()
	}
	return l.finishLexeme(start, line, col, func(string) ast.TokenType { return ast.NUMBER })
}

// finishLexeme classifies input[start:pos] and enforces the length limit.
func (l *Lexer) finishLexeme(start, line, col int, classify func(string) ast.TokenType) (ast.Token, error) {
	literal := l.input[start:l.pos]
	if len(literal) > l.maxLen {
		tok := ast.Token{Type: ast.ILLEGAL, Literal: literal, Line: line, Col: col}
		return tok, &LexicalError{Line: line, Col: col, Literal: literal, Limit: l.maxLen, Err: ErrLexemeTooLong}
	}
	return ast.Token{Type: classify(literal), Literal: literal, Line: line, Col: col}, nil
}

// isLetter reports whether b may start an identifier: [a-zA-Z_].
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		b == '_'
}

// isDigit reports whether b is an ASCII decimal digit (0–9).
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
