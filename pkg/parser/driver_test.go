package parser

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/relaystack/pgparse/internal/testutil"
	"github.com/relaystack/pgparse/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestDriverParse(t *testing.T) {
	d := NewDriver(session.New())

	stmts := d.Parse("SELECT id FROM users WHERE id = $1")

	require.Len(t, stmts, 1)
	sel := stmts[0].(*SelectStmt)
	require.Len(t, sel.Body.Left.Columns, 1)
}

func TestDriverEmptyInputIsSuccess(t *testing.T) {
	d := NewDriver(session.New())

	for _, input := range []string{"", "   \n\t", ";", "/* nothing */"} {
		stmts := d.Parse(input)
		require.NotNil(t, stmts, "input %q", input)
		assert.Empty(t, stmts)
	}
}

func TestDriverFailureReturnsNil(t *testing.T) {
	d := NewDriver(session.New())

	assert.Nil(t, d.Parse("SELECT 'unterminated"))
	assert.Nil(t, d.Parse("DELETE FROM t"))
	assert.Nil(t, d.Parse("SELECT FROM"))
}

func TestDriverFailureLeavesNoState(t *testing.T) {
	// A failed parse must not leak buffered lookahead or errors into the
	// next call on the same driver.
	d := NewDriver(session.New())

	assert.Nil(t, d.Parse("SELECT * FROM t ORDER BY"))
	stmts := d.Parse("SELECT * FROM t ORDER BY a NULLS LAST")
	require.Len(t, stmts, 1)

	core := stmts[0].(*SelectStmt).Body.Left
	require.Len(t, core.OrderBy, 1)
	assert.Equal(t, NullsOrderLast, core.OrderBy[0].Nulls)
}

func TestDriverUsesSessionSnapshot(t *testing.T) {
	sess := session.New()
	d := NewDriver(sess)

	literalOf := func(stmts []Statement) string {
		require.Len(t, stmts, 1)
		lit, ok := stmts[0].(*SelectStmt).Body.Left.Columns[0].Expr.(*Literal)
		require.True(t, ok)
		return lit.Value
	}

	// Default mode processes backslash escapes
	assert.Equal(t, "a\nb", literalOf(d.Parse(`SELECT 'a\nb'`)))

	// Flipping the session parameter changes the next parse
	sess.SetParameter(session.ParamStandardConformingStrings, "on")
	assert.Equal(t, `a\nb`, literalOf(d.Parse(`SELECT 'a\nb'`)))
}

func TestDriverLogsDiscardedDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := NewDriver(session.New(), WithLogger(log))

	require.Nil(t, d.Parse("SELECT FROM"))

	assert.Contains(t, buf.String(), "parse failed")
}

type panickyGrammar struct{}

func (panickyGrammar) Parse(TokenStream) ([]Statement, error) {
	panic("boom")
}

func TestDriverRecoversGrammarPanic(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := NewDriver(session.New(), WithGrammar(panickyGrammar{}), WithLogger(log))

	assert.Nil(t, d.Parse("SELECT 1"))
	assert.Contains(t, buf.String(), "grammar engine panic")
}

type forgetfulGrammar struct{}

func (forgetfulGrammar) Parse(TokenStream) ([]Statement, error) {
	return nil, nil
}

func TestDriverNormalizesNilGrammarResult(t *testing.T) {
	d := NewDriver(session.New(), WithGrammar(forgetfulGrammar{}))

	stmts := d.Parse("SELECT 1")
	require.NotNil(t, stmts)
	assert.Empty(t, stmts)
}

type countingGrammar struct {
	calls int
}

func (g *countingGrammar) Parse(ts TokenStream) ([]Statement, error) {
	g.calls++
	return StandardGrammar{}.Parse(ts)
}

func TestDriverCustomGrammarIsUsed(t *testing.T) {
	g := &countingGrammar{}
	d := NewDriver(session.New(), WithGrammar(g))

	d.Parse("SELECT 1")
	d.Parse("SELECT 2")

	assert.Equal(t, 2, g.calls)
}

func TestDriverConcurrentParses(t *testing.T) {
	sess := session.New()
	sess.SetParameter(session.ParamServerEncoding, "UTF8")
	d := NewDriver(sess, WithLogger(testutil.NewTestLogger(t)))

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		n := i
		g.Go(func() error {
			for j := 0; j < 50; j++ {
				stmts := d.Parse(fmt.Sprintf("SELECT c%d FROM t ORDER BY c%d NULLS FIRST", n, n))
				if len(stmts) != 1 {
					return fmt.Errorf("worker %d: got %d statements", n, len(stmts))
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestDriverConcurrentWithParameterUpdates(t *testing.T) {
	sess := session.New()
	d := NewDriver(sess)

	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i < 100; i++ {
			sess.SetParameter(session.ParamStandardConformingStrings, "on")
			sess.SetParameter(session.ParamStandardConformingStrings, "off")
		}
		return nil
	})
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			for j := 0; j < 100; j++ {
				// Valid in either escaping mode
				if stmts := d.Parse("SELECT 'plain' FROM t"); len(stmts) != 1 {
					return fmt.Errorf("got %d statements", len(stmts))
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
