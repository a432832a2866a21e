package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/relaystack/pgparse/pkg/parser"
	"github.com/relaystack/pgparse/pkg/token"
)

// statementSummary is a compact, renderable description of one parsed
// statement.
type statementSummary struct {
	Kind    string   `json:"kind"`
	Columns int      `json:"columns"`
	Tables  []string `json:"tables,omitempty"`
	CTEs    []string `json:"ctes,omitempty"`
	SetOp   string   `json:"set_op,omitempty"`
	OrderBy []string `json:"order_by,omitempty"`
}

func summarize(stmt parser.Statement) statementSummary {
	sel, ok := stmt.(*parser.SelectStmt)
	if !ok {
		return statementSummary{Kind: fmt.Sprintf("%T", stmt)}
	}

	s := statementSummary{Kind: "SELECT"}
	if sel.With != nil {
		for _, cte := range sel.With.CTEs {
			s.CTEs = append(s.CTEs, cte.Name)
		}
	}
	if sel.Body == nil {
		return s
	}
	if sel.Body.Op != parser.SetOpNone {
		s.SetOp = string(sel.Body.Op)
	}

	core := sel.Body.Left
	s.Columns = len(core.Columns)
	s.Tables = collectTables(core.From)
	for _, item := range core.OrderBy {
		dir := "ASC"
		if item.Desc {
			dir = "DESC"
		}
		if q := item.Nulls.String(); q != "" {
			dir += " " + q
		}
		s.OrderBy = append(s.OrderBy, dir)
	}
	return s
}

func collectTables(from *parser.FromClause) []string {
	if from == nil {
		return nil
	}

	var names []string
	add := func(ref parser.TableRef) {
		switch r := ref.(type) {
		case *parser.TableName:
			name := r.Name
			if r.Schema != "" {
				name = r.Schema + "." + name
			}
			names = append(names, name)
		case *parser.SubqueryRef:
			names = append(names, "(subquery)")
		}
	}

	add(from.Base)
	for _, j := range from.Joins {
		add(j.Right)
	}
	return names
}

// renderStatements writes the parse result in the requested format:
// "json" emits the full statement trees, anything else a summary table.
func renderStatements(w io.Writer, stmts []parser.Statement, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Statements []parser.Statement `json:"statements"`
		}{Statements: stmts})
	}

	if len(stmts) == 0 {
		_, _ = fmt.Fprintln(w, "(0 statements)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Kind", "Columns", "Tables", "Order By", "Set Op", "CTEs"})

	for i, stmt := range stmts {
		s := summarize(stmt)
		t.AppendRow(table.Row{
			i + 1, s.Kind, s.Columns,
			joinOrDash(s.Tables), joinOrDash(s.OrderBy), orDash(s.SetOp), joinOrDash(s.CTEs),
		})
	}
	t.Render()

	noun := "statements"
	if len(stmts) == 1 {
		noun = "statement"
	}
	_, _ = fmt.Fprintf(w, "(%d %s)\n", len(stmts), noun)
	return nil
}

// tokenRecord is the JSON shape of one scanned token.
type tokenRecord struct {
	Type    string `json:"type"`
	Literal string `json:"literal"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// renderTokens writes a token dump in the requested format.
func renderTokens(w io.Writer, toks []token.Token, format string) error {
	if format == "json" {
		records := make([]tokenRecord, len(toks))
		for i, tk := range toks {
			records[i] = tokenRecord{
				Type:    tk.Type.String(),
				Literal: tk.Literal,
				Line:    tk.Pos.Line,
				Column:  tk.Pos.Column,
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Type", "Literal", "Line", "Col"})

	for i, tk := range toks {
		t.AppendRow(table.Row{i + 1, tk.Type.String(), tk.Literal, tk.Pos.Line, tk.Pos.Column})
	}
	t.Render()

	_, _ = fmt.Fprintf(w, "(%d tokens)\n", len(toks))
	return nil
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	out := items[0]
	for _, s := range items[1:] {
		out += ", " + s
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
