// Package ast defines the token types, the Token struct and the syntax tree
// used by the minic lexer and parser.
//
// Tokens are the smallest meaningful units of a minic source file. Every token
// carries its type, the exact literal text it was scanned from, and its source
// position (line + column). Position is 1-based: the first character of a file
// is Line 1, Col 1.
package ast

import "fmt"

// TokenType identifies the category of a scanned token.
type TokenType int

const (
	// ── Special ────────────────────────────────────────────────────────────────

	// ILLEGAL represents a character the lexer could not recognise, or a
	// lexeme longer than the lexer's limit.
	ILLEGAL TokenType = iota
	// EOF marks the end of the input stream. The parser stops when it sees EOF.
	EOF

	// ── Literals ───────────────────────────────────────────────────────────────

	// IDENT is an identifier: [a-zA-Z_][a-zA-Z0-9_]*
	// Identifiers that match a keyword are re-classified to their keyword type
	// by the lexer before the token is returned.
	IDENT
	// NUMBER is an unsigned decimal integer literal, e.g. 0, 42.
	NUMBER

	// ── Keywords ───────────────────────────────────────────────────────────────

	// INT introduces a declaration: int x;
	INT
	// IF begins a conditional: if { a == b } { x = 1; }
	IF

	// ── Operators ──────────────────────────────────────────────────────────────

	// ASSIGN is the assignment operator: x = 1;
	ASSIGN
	// PLUS is the addition operator: a + b
	PLUS
	// MINUS is the subtraction operator: a - b
	MINUS
	// EQ is the equality operator used in conditions: a == b
	EQ

	// ── Delimiters ─────────────────────────────────────────────────────────────

	LBRACE
	RBRACE
	SEMICOLON
)

var tokenNames = [...]string{
	ILLEGAL:   "Unknown",
	EOF:       "EndOfInput",
	IDENT:     "Identifier",
	NUMBER:    "Number",
	INT:       "Int",
	IF:        "If",
	ASSIGN:    "Assign",
	PLUS:      "Plus",
	MINUS:     "Minus",
	EQ:        "Equal",
	LBRACE:    "LBrace",
	RBRACE:    "RBrace",
	SEMICOLON: "Semicolon",
}

// String returns the name used for tt in diagnostics, e.g. "Identifier".
func (tt TokenType) String() string {
	if tt >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// keywords maps the literal text of every minic keyword to its TokenType.
var keywords = map[string]TokenType{
	"int": INT,
	"if":  IF,
}

// LookupIdent checks whether ident is a reserved keyword and returns the
// corresponding TokenType. If ident is not a keyword, IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return IDENT
}

// Token is a single lexical unit produced by the minic lexer.
//
// Fields:
//   - Type    — the category of this token (see TokenType constants)
//   - Literal — the exact source text that was scanned ("" for EOF)
//   - Line    — 1-based source line number
//   - Col     — 1-based column of the first character of this token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Col     int
}

// String returns the literal of the token, or its type name when the literal
// is empty.
func (t Token) String() string {
	if t.Literal == "" {
		return t.Type.String()
	}
	return t.Literal
}
