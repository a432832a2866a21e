package parser

import (
	"fmt"

	"github.com/relaystack/pgparse/pkg/token"
)

// ParseError represents a grammar error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// LexError represents a scanning error (malformed literal, unterminated
// comment). It propagates unchanged through the lookahead filter.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken     = "unexpected token %s, expected %s"
	ErrUnterminatedString  = "unterminated string literal"
	ErrUnterminatedQuoted  = "unterminated quoted identifier"
	ErrUnterminatedComment = "unterminated block comment"
	ErrInvalidParameter    = "invalid positional parameter"
	ErrUnexpectedChar      = "unexpected character %q"
	ErrExpectedStatement   = "expected a statement, got %s"
	ErrExpectedExpression  = "expected an expression, got %s"

	ErrExpectedExpressionAfterNot = "expected IN, BETWEEN, or LIKE after NOT"
	ErrExpectedIsOperand          = "expected NULL, TRUE, or FALSE after IS"
	ErrExpectedTypeName           = "expected a type name"
	ErrExpectedWhen               = "expected WHEN clause in CASE expression"
)
