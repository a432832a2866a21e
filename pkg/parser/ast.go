package parser

import "github.com/relaystack/pgparse/pkg/token"

// Statement represents a raw (un-analyzed) statement tree. No catalog
// lookups have been performed; names are carried as written.
type Statement interface {
	stmtNode()
}

// Expr represents an expression.
type Expr interface {
	exprNode()
}

// TableRef represents a table reference in a FROM clause.
type TableRef interface {
	tableRefNode()
}

// ---------- Statement Types ----------

// SelectStmt represents a SELECT statement with optional WITH clause.
type SelectStmt struct {
	Span token.Span
	With *WithClause
	Body *SelectBody
}

func (*SelectStmt) stmtNode() {}

// WithClause represents a WITH clause with CTEs.
type WithClause struct {
	CTEs []*CTE
}

// CTE represents a Common Table Expression.
type CTE struct {
	Name   string
	Select *SelectStmt
}

// SelectBody represents a SELECT body with possible set operations.
type SelectBody struct {
	Left  *SelectCore
	Op    SetOpType   // UNION, INTERSECT, EXCEPT, or empty
	All   bool        // UNION ALL
	Right *SelectBody // For chained set operations
}

// SetOpType represents the type of set operation.
type SetOpType string

// SetOpType constants for set operations in queries.
const (
	SetOpNone      SetOpType = ""
	SetOpUnion     SetOpType = "UNION"
	SetOpUnionAll  SetOpType = "UNION ALL"
	SetOpIntersect SetOpType = "INTERSECT"
	SetOpExcept    SetOpType = "EXCEPT"
)

// SelectCore represents a single SELECT clause.
type SelectCore struct {
	Distinct bool
	Columns  []SelectItem
	From     *FromClause
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	OrderBy  []OrderByItem
	Limit    Expr
	Offset   Expr
}

// SelectItem represents one entry in the select list.
type SelectItem struct {
	Expr  Expr
	Alias string
}

// OrderByItem represents one ORDER BY entry.
type OrderByItem struct {
	Expr  Expr
	Desc  bool
	Nulls NullsOrder
}

// NullsOrder is the NULLS FIRST/LAST qualifier of an ORDER BY entry.
type NullsOrder int

// NullsOrder values. NullsDefault means the qualifier was not written.
const (
	NullsDefault NullsOrder = iota
	NullsOrderFirst
	NullsOrderLast
)

// String returns the SQL spelling of the qualifier.
func (n NullsOrder) String() string {
	switch n {
	case NullsOrderFirst:
		return "NULLS FIRST"
	case NullsOrderLast:
		return "NULLS LAST"
	default:
		return ""
	}
}

// ---------- FROM Clause Types ----------

// FromClause represents the FROM clause with optional joins.
type FromClause struct {
	Base  TableRef
	Joins []*Join
}

// TableName represents a (possibly schema-qualified) table reference.
type TableName struct {
	Schema string
	Name   string
	Alias  string
}

func (*TableName) tableRefNode() {}

// SubqueryRef represents a parenthesized SELECT in FROM.
type SubqueryRef struct {
	Select *SelectStmt
	Alias  string
}

func (*SubqueryRef) tableRefNode() {}

// JoinType represents the type of a join.
type JoinType string

// JoinType constants.
const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinFull  JoinType = "FULL"
	JoinCross JoinType = "CROSS"
)

// Join represents one join step in a FROM clause.
type Join struct {
	Type      JoinType
	Right     TableRef
	Condition Expr     // ON condition (nil for CROSS or USING)
	Using     []string // USING column list
}

// ---------- Expression Types ----------

// LiteralKind classifies a literal value.
type LiteralKind int

// LiteralKind values.
const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralBool
	LiteralNull
)

// Literal represents a literal value.
type Literal struct {
	Kind  LiteralKind
	Value string
}

func (*Literal) exprNode() {}

// ColumnRef represents a (possibly qualified) column reference.
type ColumnRef struct {
	Table string
	Name  string
}

func (*ColumnRef) exprNode() {}

// StarExpr represents * or table.* in a select list.
type StarExpr struct {
	Table string
}

func (*StarExpr) exprNode() {}

// ParamRef represents a $n positional parameter.
type ParamRef struct {
	Number int
}

func (*ParamRef) exprNode() {}

// UnaryExpr represents a prefix operator expression.
type UnaryExpr struct {
	Op   token.TokenType
	Expr Expr
}

func (*UnaryExpr) exprNode() {}

// BinaryExpr represents an infix operator expression.
type BinaryExpr struct {
	Left  Expr
	Op    token.TokenType
	Not   bool // NOT LIKE, NOT IN via NOT-prefixed infix
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// NullTest represents IS [NOT] NULL.
type NullTest struct {
	Expr Expr
	Not  bool
}

func (*NullTest) exprNode() {}

// BetweenExpr represents [NOT] BETWEEN low AND high.
type BetweenExpr struct {
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

func (*BetweenExpr) exprNode() {}

// InExpr represents [NOT] IN (expr, ...).
type InExpr struct {
	Expr Expr
	Not  bool
	List []Expr
}

func (*InExpr) exprNode() {}

// FuncCall represents a function call.
type FuncCall struct {
	Name     string
	Args     []Expr
	Distinct bool
	Star     bool // COUNT(*)
}

func (*FuncCall) exprNode() {}

// CastExpr represents CAST(expr AS type) or expr::type.
type CastExpr struct {
	Expr Expr
	Type *TypeName
}

func (*CastExpr) exprNode() {}

// TypeName represents a type in a cast.
//
// TimeZone is three-valued by construction: it can only be true for the
// TIME and TIMESTAMP types, where WITH TIME ZONE / WITHOUT TIME ZONE is
// grammatical.
type TypeName struct {
	Name     string
	Mods     []Expr // type modifiers, e.g. numeric(10,2)
	TimeZone bool   // TIME/TIMESTAMP WITH TIME ZONE
}

// CaseExpr represents CASE [operand] WHEN ... THEN ... [ELSE ...] END.
type CaseExpr struct {
	Operand Expr
	Whens   []*WhenClause
	Else    Expr
}

func (*CaseExpr) exprNode() {}

// WhenClause represents one WHEN ... THEN ... arm.
type WhenClause struct {
	Cond   Expr
	Result Expr
}
