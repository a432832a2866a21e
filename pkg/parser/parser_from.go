package parser

import (
	"fmt"

	"github.com/relaystack/pgparse/pkg/token"
)

// FROM clause parsing: table references, subqueries, joins.
//
// Grammar:
//
//	from_clause → FROM table_ref (join)*
//	table_ref   → name [["." name] [[AS] alias]] | "(" statement ")" [AS] alias
//	join        → CROSS JOIN table_ref
//	            | [INNER|LEFT|RIGHT|FULL [OUTER]] JOIN table_ref
//	              (ON expr | USING "(" name ("," name)* ")")

// parseFromClause parses the FROM clause with joins.
func (p *Parser) parseFromClause() *FromClause {
	p.expect(token.FROM)
	from := &FromClause{Base: p.parseTableRef()}

	for p.isJoinKeyword(p.token.Type) {
		from.Joins = append(from.Joins, p.parseJoin())
	}

	return from
}

// isJoinKeyword returns true if t can begin a join step.
func (p *Parser) isJoinKeyword(t token.TokenType) bool {
	switch t {
	case token.JOIN, token.INNER, token.LEFT, token.RIGHT, token.FULL, token.CROSS:
		return true
	}
	return false
}

// parseJoin parses one join step.
func (p *Parser) parseJoin() *Join {
	join := &Join{Type: JoinInner}

	switch p.token.Type {
	case token.CROSS:
		join.Type = JoinCross
		p.nextToken()
		p.expect(token.JOIN)
		join.Right = p.parseTableRef()
		return join
	case token.INNER:
		p.nextToken()
	case token.LEFT:
		join.Type = JoinLeft
		p.nextToken()
		p.match(token.OUTER)
	case token.RIGHT:
		join.Type = JoinRight
		p.nextToken()
		p.match(token.OUTER)
	case token.FULL:
		join.Type = JoinFull
		p.nextToken()
		p.match(token.OUTER)
	}
	p.expect(token.JOIN)

	join.Right = p.parseTableRef()

	switch {
	case p.match(token.ON):
		join.Condition = p.parseExpression()
	case p.match(token.USING):
		p.expect(token.LPAREN)
		for {
			if !p.check(token.IDENT) {
				p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.IDENT))
				break
			}
			join.Using = append(join.Using, p.token.Literal)
			p.nextToken()
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "ON or USING"))
	}

	return join
}

// parseTableRef parses a table name or a parenthesized subquery.
func (p *Parser) parseTableRef() TableRef {
	if p.check(token.LPAREN) {
		p.nextToken()
		sub := &SubqueryRef{}
		if stmt, ok := p.parseStatement().(*SelectStmt); ok {
			sub.Select = stmt
		}
		p.expect(token.RPAREN)
		sub.Alias = p.parseOptionalAlias()
		return sub
	}

	tbl := &TableName{}
	if !p.check(token.IDENT) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.IDENT))
		return tbl
	}
	tbl.Name = p.token.Literal
	p.nextToken()

	// schema.table
	if p.match(token.DOT) {
		if p.check(token.IDENT) {
			tbl.Schema = tbl.Name
			tbl.Name = p.token.Literal
			p.nextToken()
		} else {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.IDENT))
		}
	}

	tbl.Alias = p.parseOptionalAlias()
	return tbl
}

// parseOptionalAlias parses [AS] identifier, returning "" if absent.
func (p *Parser) parseOptionalAlias() string {
	if p.match(token.AS) {
		if p.check(token.IDENT) {
			alias := p.token.Literal
			p.nextToken()
			return alias
		}
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.IDENT))
		return ""
	}
	if p.check(token.IDENT) {
		alias := p.token.Literal
		p.nextToken()
		return alias
	}
	return ""
}
