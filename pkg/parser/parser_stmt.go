package parser

import (
	"fmt"

	"github.com/relaystack/pgparse/pkg/token"
)

// Statement parsing: SELECT body, select list, ORDER BY, LIMIT/OFFSET.

// parseStatement parses a complete statement.
//
// A statement may begin with WITH: the lookahead filter only merges WITH
// when TIME follows, so the keyword reaches the grammar unchanged here
// and the probed token (the CTE name) arrives on the next pull.
func (p *Parser) parseStatement() Statement {
	if !p.check(token.SELECT) && !p.check(token.WITH) {
		p.addError(fmt.Sprintf(ErrExpectedStatement, p.token.Type))
		return nil
	}

	start := p.token.Pos
	stmt := &SelectStmt{}
	if p.check(token.WITH) {
		stmt.With = p.parseWithClause()
	}
	stmt.Body = p.parseSelectBody()
	stmt.Span = token.Span{Start: start, End: p.token.Pos}
	return stmt
}

// parseWithClause parses a WITH clause with CTEs.
func (p *Parser) parseWithClause() *WithClause {
	p.expect(token.WITH)
	with := &WithClause{}

	for {
		cte := &CTE{}
		if !p.check(token.IDENT) {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.IDENT))
			return with
		}
		cte.Name = p.token.Literal
		p.nextToken()

		p.expect(token.AS)
		p.expect(token.LPAREN)
		if stmt, ok := p.parseStatement().(*SelectStmt); ok {
			cte.Select = stmt
		}
		p.expect(token.RPAREN)
		with.CTEs = append(with.CTEs, cte)

		if !p.match(token.COMMA) {
			break
		}
	}

	return with
}

// parseSelectBody parses a SELECT body with possible set operations.
func (p *Parser) parseSelectBody() *SelectBody {
	body := &SelectBody{}
	body.Left = p.parseSelectCore()

	if p.check(token.UNION) || p.check(token.INTERSECT) || p.check(token.EXCEPT) {
		switch p.token.Type {
		case token.UNION:
			p.nextToken()
			if p.match(token.ALL) {
				body.Op = SetOpUnionAll
				body.All = true
			} else {
				body.Op = SetOpUnion
				p.match(token.DISTINCT) // optional
			}
		case token.INTERSECT:
			p.nextToken()
			body.Op = SetOpIntersect
			p.match(token.ALL) // optional
		case token.EXCEPT:
			p.nextToken()
			body.Op = SetOpExcept
			p.match(token.ALL) // optional
		}

		// Parse the right side (recursively for chained operations)
		body.Right = p.parseSelectBody()
	}

	return body
}

// parseSelectCore parses a single SELECT clause.
func (p *Parser) parseSelectCore() *SelectCore {
	p.expect(token.SELECT)
	core := &SelectCore{}

	if p.match(token.DISTINCT) {
		core.Distinct = true
	} else {
		p.match(token.ALL) // optional, consume if present
	}

	core.Columns = p.parseSelectList()

	if p.check(token.FROM) {
		core.From = p.parseFromClause()
	}

	if p.match(token.WHERE) {
		core.Where = p.parseExpression()
	}

	if p.check(token.GROUP) {
		p.nextToken()
		p.expect(token.BY)
		core.GroupBy = p.parseExpressionList()
	}

	if p.match(token.HAVING) {
		core.Having = p.parseExpression()
	}

	if p.check(token.ORDER) {
		p.nextToken()
		p.expect(token.BY)
		core.OrderBy = p.parseOrderByList()
	}

	if p.match(token.LIMIT) {
		core.Limit = p.parseExpression()
	}

	if p.match(token.OFFSET) {
		core.Offset = p.parseExpression()
	}

	return core
}

// parseSelectList parses the select list.
func (p *Parser) parseSelectList() []SelectItem {
	var items []SelectItem

	for {
		items = append(items, p.parseSelectItem())

		if !p.match(token.COMMA) {
			break
		}
	}

	return items
}

// parseSelectItem parses one select list entry: "*", table ".*", or an
// expression with an optional alias.
func (p *Parser) parseSelectItem() SelectItem {
	item := SelectItem{}

	item.Expr = p.parseExpression()

	// Alias: AS identifier or a bare identifier
	if p.match(token.AS) {
		if p.check(token.IDENT) {
			item.Alias = p.token.Literal
			p.nextToken()
		} else {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.IDENT))
		}
	} else if p.check(token.IDENT) {
		item.Alias = p.token.Literal
		p.nextToken()
	}

	return item
}

// parseOrderByList parses an ORDER BY list.
func (p *Parser) parseOrderByList() []OrderByItem {
	var items []OrderByItem

	for {
		items = append(items, p.parseOrderByItem())

		if !p.match(token.COMMA) {
			break
		}
	}

	return items
}

// parseOrderByItem parses one ORDER BY entry. The NULLS qualifier arrives
// as a single composite token from the lookahead filter, so one token of
// lookahead suffices here.
func (p *Parser) parseOrderByItem() OrderByItem {
	item := OrderByItem{Expr: p.parseExpression()}

	if p.match(token.DESC) {
		item.Desc = true
	} else {
		p.match(token.ASC) // optional
	}

	switch p.token.Type {
	case NullsFirst:
		item.Nulls = NullsOrderFirst
		p.nextToken()
	case NullsLast:
		item.Nulls = NullsOrderLast
		p.nextToken()
	}

	return item
}
