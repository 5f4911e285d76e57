package lexer

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnexpectedChar is the cause of a LexicalError for a byte that starts
	// no token.
	ErrUnexpectedChar = errors.New("unexpected character")
	// ErrLexemeTooLong is the cause of a LexicalError for an identifier or
	// number longer than the lexer's limit.
	ErrLexemeTooLong = errors.New("lexeme exceeds maximum length")
)

// LexicalError reports input that cannot be turned into a token.
type LexicalError struct {
	Line    int
	Col     int
	Literal string // the offending text
	Limit   int    // the length limit, set for ErrLexemeTooLong
	Err     error  // ErrUnexpectedChar or ErrLexemeTooLong
}

func (e *LexicalError) Error() string {
	if errors.Is(e.Err, ErrLexemeTooLong) {
		return fmt.Sprintf("line %d col %d: %v: %d bytes, limit is %d",
			e.Line, e.Col, e.Err, len(e.Literal), e.Limit)
	}
	return fmt.Sprintf("line %d col %d: %v %q", e.Line, e.Col, e.Err, e.Literal)
}

func (e *LexicalError) Unwrap() error { return e.Err }
