package parser

import "github.com/relaystack/pgparse/pkg/token"

// Expression parsing: Pratt parser with fixed precedence.
//
// Precedence levels:
//
//	precedenceOr         = 1
//	precedenceAnd        = 2
//	precedenceNot        = 3
//	precedenceComparison = 4  (=, !=, <, >, <=, >=, IS, IN, BETWEEN, LIKE)
//	precedenceAddition   = 5  (+, -, ||)
//	precedenceMultiply   = 6  (*, /, %)
//	precedenceUnary      = 7  (-, +, NOT)
//	precedencePostfix    = 8  (::)

const (
	precedenceNone = iota
	precedenceOr
	precedenceAnd
	precedenceNot
	precedenceComparison
	precedenceAddition
	precedenceMultiply
	precedenceUnary
	precedencePostfix
)

// parseExpression parses an expression using precedence climbing.
func (p *Parser) parseExpression() Expr {
	return p.parseExpressionWithPrecedence(precedenceNone + 1)
}

// parseExpressionList parses a comma-separated expression list.
func (p *Parser) parseExpressionList() []Expr {
	var exprs []Expr
	for {
		exprs = append(exprs, p.parseExpression())
		if !p.match(token.COMMA) {
			break
		}
	}
	return exprs
}

// parseExpressionWithPrecedence implements Pratt parsing.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) Expr {
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	for {
		prec := p.infixPrecedence(p.token.Type)
		if prec < minPrecedence {
			break
		}

		left = p.parseInfixExpr(left, prec)
		if left == nil {
			break
		}
	}

	return left
}

// parsePrefixExpr parses prefix operators and primary expressions.
func (p *Parser) parsePrefixExpr() Expr {
	switch p.token.Type {
	case token.NOT:
		p.nextToken()
		return &UnaryExpr{Op: token.NOT, Expr: p.parseExpressionWithPrecedence(precedenceNot)}

	case token.MINUS:
		p.nextToken()
		return &UnaryExpr{Op: token.MINUS, Expr: p.parseExpressionWithPrecedence(precedenceUnary)}

	case token.PLUS:
		p.nextToken()
		return &UnaryExpr{Op: token.PLUS, Expr: p.parseExpressionWithPrecedence(precedenceUnary)}

	default:
		return p.parsePrimary()
	}
}

// infixPrecedence returns the precedence of t as an infix operator, or
// precedenceNone if it is not one.
func (p *Parser) infixPrecedence(t token.TokenType) int {
	switch t {
	case token.OR:
		return precedenceOr
	case token.AND:
		return precedenceAnd
	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE:
		return precedenceComparison
	case token.IS, token.IN, token.BETWEEN, token.LIKE:
		return precedenceComparison
	case token.NOT:
		// NOT as infix begins NOT IN, NOT BETWEEN, NOT LIKE
		return precedenceComparison
	case token.PLUS, token.MINUS, token.DPIPE:
		return precedenceAddition
	case token.STAR, token.SLASH, token.PERCENT:
		return precedenceMultiply
	case token.TYPECAST:
		return precedencePostfix
	default:
		return precedenceNone
	}
}

// parseInfixExpr parses one infix construct whose operator has the given
// precedence.
func (p *Parser) parseInfixExpr(left Expr, prec int) Expr {
	switch p.token.Type {
	case token.IS:
		return p.parseIsExpr(left)

	case token.BETWEEN:
		return p.parseBetweenExpr(left, false)

	case token.IN:
		return p.parseInExpr(left, false)

	case token.LIKE:
		p.nextToken()
		return &BinaryExpr{Left: left, Op: token.LIKE, Right: p.parseExpressionWithPrecedence(prec + 1)}

	case token.NOT:
		// Single lookahead decides which negated construct follows.
		switch p.peek.Type {
		case token.IN:
			p.nextToken()
			return p.parseInExpr(left, true)
		case token.BETWEEN:
			p.nextToken()
			return p.parseBetweenExpr(left, true)
		case token.LIKE:
			p.nextToken()
			p.nextToken()
			return &BinaryExpr{
				Left:  left,
				Op:    token.LIKE,
				Not:   true,
				Right: p.parseExpressionWithPrecedence(prec + 1),
			}
		default:
			p.addError(ErrExpectedExpressionAfterNot)
			return nil
		}

	case token.TYPECAST:
		p.nextToken()
		return &CastExpr{Expr: left, Type: p.parseTypeName()}

	default:
		op := p.token.Type
		p.nextToken()
		// Left-associative: parse the right side at prec+1
		right := p.parseExpressionWithPrecedence(prec + 1)
		return &BinaryExpr{Left: left, Op: op, Right: right}
	}
}

// parseIsExpr parses IS [NOT] NULL / TRUE / FALSE.
func (p *Parser) parseIsExpr(left Expr) Expr {
	p.expect(token.IS)

	not := p.match(token.NOT)

	switch p.token.Type {
	case token.NULL:
		p.nextToken()
		return &NullTest{Expr: left, Not: not}
	case token.TRUE:
		p.nextToken()
		return &BinaryExpr{Left: left, Op: token.IS, Not: not, Right: &Literal{Kind: LiteralBool, Value: "true"}}
	case token.FALSE:
		p.nextToken()
		return &BinaryExpr{Left: left, Op: token.IS, Not: not, Right: &Literal{Kind: LiteralBool, Value: "false"}}
	default:
		p.addError(ErrExpectedIsOperand)
		return nil
	}
}

// parseBetweenExpr parses [NOT] BETWEEN low AND high. The bounds are
// parsed above AND precedence so the AND separator is not swallowed.
func (p *Parser) parseBetweenExpr(left Expr, not bool) Expr {
	p.expect(token.BETWEEN)

	expr := &BetweenExpr{Expr: left, Not: not}
	expr.Low = p.parseExpressionWithPrecedence(precedenceComparison + 1)
	p.expect(token.AND)
	expr.High = p.parseExpressionWithPrecedence(precedenceComparison + 1)
	return expr
}

// parseInExpr parses [NOT] IN (expr, ...).
func (p *Parser) parseInExpr(left Expr, not bool) Expr {
	p.expect(token.IN)
	p.expect(token.LPAREN)

	expr := &InExpr{Expr: left, Not: not, List: p.parseExpressionList()}
	p.expect(token.RPAREN)
	return expr
}
