package parser

import (
	"testing"

	"github.com/relaystack/pgparse/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceStream feeds a fixed token slice and counts how many raw tokens
// the filter actually pulled.
type sliceStream struct {
	toks   []token.Token
	pulled int
	err    error
}

func (s *sliceStream) NextToken() (token.Token, error) {
	if s.err != nil {
		return token.Token{}, s.err
	}
	if s.pulled >= len(s.toks) {
		return token.Token{Type: token.EOF}, nil
	}
	tok := s.toks[s.pulled]
	s.pulled++
	return tok, nil
}

func tok(t token.TokenType, lit string, offset int) token.Token {
	return token.Token{Type: t, Literal: lit, Pos: token.Position{Line: 1, Column: offset + 1, Offset: offset}}
}

func drain(t *testing.T, f *LookaheadFilter) []token.Token {
	t.Helper()
	var out []token.Token
	for {
		got, err := f.NextToken()
		require.NoError(t, err)
		if got.Type == token.EOF {
			return out
		}
		out = append(out, got)
	}
}

func TestFilterTransparentWithoutLeadTokens(t *testing.T) {
	raw := []token.Token{
		tok(token.SELECT, "SELECT", 0),
		tok(token.IDENT, "a", 7),
		tok(token.FROM, "FROM", 9),
		tok(token.IDENT, "t", 14),
	}
	src := &sliceStream{toks: raw}

	out := drain(t, NewLookaheadFilter(src))

	assert.Equal(t, raw, out)
}

func TestFilterMergesNullsFirst(t *testing.T) {
	src := &sliceStream{toks: []token.Token{
		tok(token.NULLS, "NULLS", 0),
		tok(token.FIRST, "FIRST", 6),
	}}
	f := NewLookaheadFilter(src)

	got, err := f.NextToken()
	require.NoError(t, err)
	assert.Equal(t, NullsFirst, got.Type)
	// The composite stands at the lead token's position; the probe's
	// literal and position are discarded.
	assert.Equal(t, 0, got.Pos.Offset)
	assert.Equal(t, "NULLS", got.Literal)
	assert.Equal(t, 2, src.pulled)

	got, err = f.NextToken()
	require.NoError(t, err)
	assert.Equal(t, token.EOF, got.Type)
}

func TestFilterMergesNullsLast(t *testing.T) {
	src := &sliceStream{toks: []token.Token{
		tok(token.NULLS, "NULLS", 0),
		tok(token.LAST, "LAST", 6),
	}}

	out := drain(t, NewLookaheadFilter(src))

	require.Len(t, out, 1)
	assert.Equal(t, NullsLast, out[0].Type)
}

func TestFilterMergesWithTime(t *testing.T) {
	src := &sliceStream{toks: []token.Token{
		tok(token.WITH, "WITH", 0),
		tok(token.TIME, "TIME", 5),
		tok(token.ZONE, "ZONE", 10),
	}}

	out := drain(t, NewLookaheadFilter(src))

	require.Len(t, out, 2)
	assert.Equal(t, WithTime, out[0].Type)
	assert.Equal(t, token.ZONE, out[1].Type)
}

func TestFilterBuffersNonMatchingProbe(t *testing.T) {
	// NULLS followed by something other than FIRST/LAST: the lead is
	// emitted unchanged and the probe arrives on the very next call.
	raw := []token.Token{
		tok(token.NULLS, "NULLS", 0),
		tok(token.IDENT, "ok", 6),
		tok(token.COMMA, ",", 8),
	}
	src := &sliceStream{toks: raw}

	out := drain(t, NewLookaheadFilter(src))

	assert.Equal(t, raw, out, "no tokens lost or duplicated")
}

func TestFilterBuffersWithFollowedByCTEName(t *testing.T) {
	raw := []token.Token{
		tok(token.WITH, "WITH", 0),
		tok(token.IDENT, "cte", 5),
		tok(token.AS, "AS", 9),
	}
	src := &sliceStream{toks: raw}

	out := drain(t, NewLookaheadFilter(src))

	assert.Equal(t, raw, out)
}

func TestFilterConsecutiveMerges(t *testing.T) {
	src := &sliceStream{toks: []token.Token{
		tok(token.NULLS, "NULLS", 0),
		tok(token.FIRST, "FIRST", 6),
		tok(token.COMMA, ",", 11),
		tok(token.NULLS, "NULLS", 13),
		tok(token.LAST, "LAST", 19),
	}}

	out := drain(t, NewLookaheadFilter(src))

	require.Len(t, out, 3)
	assert.Equal(t, NullsFirst, out[0].Type)
	assert.Equal(t, token.COMMA, out[1].Type)
	assert.Equal(t, NullsLast, out[2].Type)
}

func TestFilterDoesNotMergeBufferedLead(t *testing.T) {
	// NULLS NULLS FIRST: the first NULLS probes the second, which does
	// not match and is buffered. The buffered NULLS is returned as-is on
	// the next call (the buffer drain path does not probe), then FIRST
	// follows separately — matching the behavior of the C filter, where
	// a saved lookahead token is returned without re-entering the merge
	// switch.
	raw := []token.Token{
		tok(token.NULLS, "NULLS", 0),
		tok(token.NULLS, "NULLS", 6),
		tok(token.FIRST, "FIRST", 12),
	}
	src := &sliceStream{toks: raw}

	out := drain(t, NewLookaheadFilter(src))

	assert.Equal(t, raw, out)
}

func TestFilterPropagatesScannerError(t *testing.T) {
	wantErr := &LexError{Message: ErrUnterminatedString}
	src := &sliceStream{err: wantErr}
	f := NewLookaheadFilter(src)

	_, err := f.NextToken()
	assert.Same(t, wantErr, err, "scanning errors propagate unchanged")
}

func TestFilterPropagatesProbeError(t *testing.T) {
	lex := &erroringAfter{toks: []token.Token{tok(token.NULLS, "NULLS", 0)}}
	f := NewLookaheadFilter(lex)

	_, err := f.NextToken()
	require.Error(t, err)
}

type erroringAfter struct {
	toks []token.Token
	i    int
}

func (s *erroringAfter) NextToken() (token.Token, error) {
	if s.i >= len(s.toks) {
		return token.Token{}, &LexError{Message: ErrUnterminatedComment}
	}
	tok := s.toks[s.i]
	s.i++
	return tok, nil
}

func TestRegisterMergeAddsRule(t *testing.T) {
	composite := token.Register("TEST_ORDER_SIBLINGS")
	src := &sliceStream{toks: []token.Token{
		tok(token.ORDER, "ORDER", 0),
		tok(token.IDENT, "siblings", 6),
	}}
	f := NewLookaheadFilter(src)
	f.RegisterMerge(token.ORDER, token.IDENT, composite)

	out := drain(t, f)

	require.Len(t, out, 1)
	assert.Equal(t, composite, out[0].Type)
}

func TestRegisterMergeIsPerFilter(t *testing.T) {
	composite := token.Register("TEST_LOCAL_RULE")
	f := NewLookaheadFilter(&sliceStream{})
	f.RegisterMerge(token.ORDER, token.BY, composite)

	// A fresh filter sees only the built-in rules.
	src := &sliceStream{toks: []token.Token{
		tok(token.ORDER, "ORDER", 0),
		tok(token.BY, "BY", 6),
	}}
	out := drain(t, NewLookaheadFilter(src))

	require.Len(t, out, 2)
	assert.Equal(t, token.ORDER, out[0].Type)
	assert.Equal(t, token.BY, out[1].Type)
}
