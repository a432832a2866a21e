package parser

import (
	"fmt"
	"strconv"

	"github.com/relaystack/pgparse/pkg/token"
)

// Primary expression parsing: literals, column refs, function calls,
// CASE, CAST, type names.
//
// Grammar:
//
//	primary    → literal | param | column_ref | func_call | "(" expr ")"
//	           | case_expr | cast_expr | "*" | table "." "*"
//	literal    → NUMBER | STRING | TRUE | FALSE | NULL
//	column_ref → [table "."] column
//	func_call  → identifier "(" [DISTINCT] [expr_list | "*"] ")"
//	cast_expr  → CAST "(" expr AS type_name ")"
//	type_name  → identifier ["(" expr_list ")"]
//	           | (TIME | TIMESTAMP) ["(" expr ")"]
//	             [WITH_TIME ZONE | WITHOUT TIME ZONE]

// parsePrimary parses a primary expression.
func (p *Parser) parsePrimary() Expr {
	switch p.token.Type {
	case token.NUMBER:
		lit := &Literal{Kind: LiteralNumber, Value: p.token.Literal}
		p.nextToken()
		return lit

	case token.STRING:
		lit := &Literal{Kind: LiteralString, Value: p.token.Literal}
		p.nextToken()
		return lit

	case token.TRUE:
		p.nextToken()
		return &Literal{Kind: LiteralBool, Value: "true"}

	case token.FALSE:
		p.nextToken()
		return &Literal{Kind: LiteralBool, Value: "false"}

	case token.NULL:
		p.nextToken()
		return &Literal{Kind: LiteralNull, Value: "null"}

	case token.PARAM:
		// Literal is "$n"; the number always parses
		n, _ := strconv.Atoi(p.token.Literal[1:])
		p.nextToken()
		return &ParamRef{Number: n}

	case token.CASE:
		return p.parseCaseExpr()

	case token.CAST:
		return p.parseCastExpr()

	case token.IDENT:
		return p.parseIdentifierExpr()

	case token.LPAREN:
		p.nextToken()
		expr := p.parseExpression()
		p.expect(token.RPAREN)
		return expr

	case token.STAR:
		p.nextToken()
		return &StarExpr{}

	default:
		p.addError(fmt.Sprintf(ErrExpectedExpression, p.token.Type))
		return nil
	}
}

// parseIdentifierExpr parses a column reference, table.*, or a function
// call. One token of lookahead distinguishes the three.
func (p *Parser) parseIdentifierExpr() Expr {
	name := p.token.Literal

	if p.checkPeek(token.LPAREN) {
		p.nextToken()
		return p.parseFuncCall(name)
	}

	p.nextToken()

	if p.match(token.DOT) {
		switch p.token.Type {
		case token.STAR:
			p.nextToken()
			return &StarExpr{Table: name}
		case token.IDENT:
			col := p.token.Literal
			p.nextToken()
			return &ColumnRef{Table: name, Name: col}
		default:
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.IDENT))
			return nil
		}
	}

	return &ColumnRef{Name: name}
}

// parseFuncCall parses a function call; the current token is "(".
func (p *Parser) parseFuncCall(name string) Expr {
	p.expect(token.LPAREN)
	call := &FuncCall{Name: name}

	if p.match(token.DISTINCT) {
		call.Distinct = true
	}

	switch {
	case p.check(token.RPAREN):
		// no arguments
	case p.check(token.STAR):
		call.Star = true
		p.nextToken()
	default:
		call.Args = p.parseExpressionList()
	}

	p.expect(token.RPAREN)
	return call
}

// parseCaseExpr parses CASE [operand] WHEN ... THEN ... [ELSE ...] END.
func (p *Parser) parseCaseExpr() Expr {
	p.expect(token.CASE)
	expr := &CaseExpr{}

	if !p.check(token.WHEN) {
		expr.Operand = p.parseExpression()
	}

	for p.match(token.WHEN) {
		when := &WhenClause{}
		when.Cond = p.parseExpression()
		p.expect(token.THEN)
		when.Result = p.parseExpression()
		expr.Whens = append(expr.Whens, when)
	}
	if len(expr.Whens) == 0 {
		p.addError(ErrExpectedWhen)
	}

	if p.match(token.ELSE) {
		expr.Else = p.parseExpression()
	}

	p.expect(token.END)
	return expr
}

// parseCastExpr parses CAST(expr AS type).
func (p *Parser) parseCastExpr() Expr {
	p.expect(token.CAST)
	p.expect(token.LPAREN)

	expr := &CastExpr{}
	expr.Expr = p.parseExpression()
	p.expect(token.AS)
	expr.Type = p.parseTypeName()
	p.expect(token.RPAREN)
	return expr
}

// parseTypeName parses a type name with optional modifiers.
//
// For TIME and TIMESTAMP the time zone qualifier follows. "WITH TIME"
// arrives from the lookahead filter as the single WITH_TIME composite
// token, so the grammar needs only the current token to decide — the raw
// WITH keyword alone would be ambiguous here without a second word of
// lookahead.
func (p *Parser) parseTypeName() *TypeName {
	t := &TypeName{}

	switch p.token.Type {
	case token.TIME, token.TIMESTAMP:
		t.Name = p.token.Type.String()
		p.nextToken()

		if p.match(token.LPAREN) {
			t.Mods = p.parseExpressionList()
			p.expect(token.RPAREN)
		}

		switch p.token.Type {
		case WithTime:
			p.nextToken()
			p.expect(token.ZONE)
			t.TimeZone = true
		case token.WITHOUT:
			p.nextToken()
			p.expect(token.TIME)
			p.expect(token.ZONE)
		}
		return t

	case token.IDENT:
		t.Name = p.token.Literal
		p.nextToken()

		if p.match(token.LPAREN) {
			t.Mods = p.parseExpressionList()
			p.expect(token.RPAREN)
		}
		return t

	default:
		p.addError(ErrExpectedTypeName)
		return t
	}
}
