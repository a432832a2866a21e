// Package parser is the parsing front-end of a Postgres-protocol proxy.
//
// It turns query text into raw statement trees without any database
// access, so parsing succeeds or fails independently of transaction or
// schema state. The package has three layers:
//
//   - Lexer: a session-aware scanner (encoding, string escaping mode)
//   - LookaheadFilter: collapses fixed two-word sequences (NULLS FIRST,
//     NULLS LAST, WITH TIME) into composite tokens so the grammar stays
//     in the one-token-lookahead class
//   - Parser: a recursive descent grammar engine over the filtered stream
//
// The usual entry point is the Driver, which wires the three together
// per invocation and normalizes every failure to an empty result:
//
//	sess := session.New()
//	sess.SetParameter("server_encoding", "UTF8")
//	stmts := parser.NewDriver(sess).Parse("SELECT 1")
//
// # Grammar Overview
//
//	statements    → statement (";" statement)* [";"]
//	statement     → select_body
//	select_body   → select_core [(UNION|INTERSECT|EXCEPT) [ALL|DISTINCT] select_body]
//	select_core   → SELECT [DISTINCT|ALL] select_list [FROM from_clause]
//	                [WHERE expr] [GROUP BY expr_list] [HAVING expr]
//	                [ORDER BY order_list] [LIMIT expr] [OFFSET expr]
//	order_item    → expr [ASC|DESC] [NULLS_FIRST|NULLS_LAST]
//
// NULLS_FIRST, NULLS_LAST, and WITH_TIME in the grammar are composite
// tokens produced by the filter; they never appear in raw scanner output.
package parser

import (
	"fmt"

	"github.com/relaystack/pgparse/pkg/token"
)

// Grammar is the engine the Driver runs over the filtered token stream.
// Engines must be deterministic and consume tokens strictly in order.
type Grammar interface {
	Parse(ts TokenStream) ([]Statement, error)
}

// StandardGrammar is the built-in recursive descent engine.
type StandardGrammar struct{}

// Parse consumes the stream to completion and returns the statement list.
func (StandardGrammar) Parse(ts TokenStream) ([]Statement, error) {
	p := NewParser(ts)
	return p.ParseStatements()
}

// Parser parses a filtered token stream into raw statement trees.
//
// The parser holds the current token and exactly one lookahead token.
// Decisions requiring a second word (NULLS FIRST, WITH TIME) are already
// resolved by the filter's composite tokens, so no deeper lookahead is
// ever needed.
type Parser struct {
	stream TokenStream
	token  token.Token // current token
	peek   token.Token // lookahead token

	errors    []error
	streamErr error
}

// NewParser creates a parser reading from the given token stream,
// normally a LookaheadFilter.
func NewParser(ts TokenStream) *Parser {
	p := &Parser{stream: ts}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

// ParseStatements parses a semicolon-separated statement sequence until
// EOF. Empty input and bare semicolons yield an empty list, not an error.
func (p *Parser) ParseStatements() ([]Statement, error) {
	stmts := []Statement{}

	for {
		for p.match(token.SEMICOLON) {
		}
		if p.check(token.EOF) {
			break
		}

		stmt := p.parseStatement()
		if err := p.firstError(); err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)

		if !p.check(token.EOF) && !p.check(token.SEMICOLON) {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.SEMICOLON))
			return nil, p.firstError()
		}
	}

	if err := p.firstError(); err != nil {
		return nil, err
	}
	return stmts, nil
}

// firstError returns the earliest recorded error: a scanning error takes
// precedence since grammar errors after it are a consequence.
func (p *Parser) firstError() error {
	if p.streamErr != nil {
		return p.streamErr
	}
	if len(p.errors) > 0 {
		return p.errors[0]
	}
	return nil
}

// ---------- Token Helpers ----------

// nextToken advances to the next token. A scanning error is recorded
// once and the stream is treated as ended.
func (p *Parser) nextToken() {
	p.token = p.peek
	if p.streamErr != nil {
		p.peek = token.Token{Type: token.EOF, Pos: p.token.Pos}
		return
	}
	tok, err := p.stream.NextToken()
	if err != nil {
		p.streamErr = err
		tok = token.Token{Type: token.EOF, Pos: p.token.Pos}
	}
	p.peek = tok
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, t))
	return false
}

// addError adds a parse error at the current token.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}
