package parser

import "github.com/relaystack/pgparse/pkg/token"

// TokenStream is the pull interface between the scanner, the lookahead
// filter, and the grammar engine. Implementations must be called in
// strict sequential order; a scanning error ends the stream.
type TokenStream interface {
	NextToken() (token.Token, error)
}

// Composite token kinds produced only by the lookahead filter. They never
// appear in the raw scanner stream; the grammar engine understands them
// natively.
var (
	// NullsFirst replaces the two-token sequence NULLS FIRST.
	NullsFirst = token.Register("NULLS_FIRST")
	// NullsLast replaces the two-token sequence NULLS LAST.
	NullsLast = token.Register("NULLS_LAST")
	// WithTime replaces the two-token sequence WITH TIME.
	WithTime = token.Register("WITH_TIME")
)

// defaultMergeRules maps a lead token kind to the probe kinds that merge
// with it and the composite kind each pair produces.
//
// Certain keyword pairs only resolve their meaning once the second word
// is seen, but the grammar engine is restricted to one-token lookahead.
// Collapsing the pair here keeps the grammar in that class without
// re-introducing scanner backtracking. Merging in the filter rather than
// the scanner also means comments between the two words need no special
// handling: the scanner has already elided them.
var defaultMergeRules = map[token.TokenType]map[token.TokenType]token.TokenType{
	token.NULLS: {
		token.FIRST: NullsFirst,
		token.LAST:  NullsLast,
	},
	token.WITH: {
		token.TIME: WithTime,
	},
}

// LookaheadFilter presents a token stream in which recognized two-word
// sequences are collapsed into single composite tokens. For all other
// input it is transparent: tokens pass through unchanged in order, and at
// most one token is ever buffered.
type LookaheadFilter struct {
	src   TokenStream
	rules map[token.TokenType]map[token.TokenType]token.TokenType

	// lookahead holds a token that was read as a probe but did not
	// complete a merge. It is returned by the very next NextToken call.
	lookahead     token.Token
	haveLookahead bool
}

// NewLookaheadFilter wraps src with the built-in merge rules. The table
// is copied, so per-filter registrations never leak into other filters.
func NewLookaheadFilter(src TokenStream) *LookaheadFilter {
	return &LookaheadFilter{src: src, rules: copyRules(defaultMergeRules)}
}

// RegisterMerge adds a merge rule: when lead is immediately followed by
// probe, the pair collapses into composite. Rules added here apply to
// this filter only.
func (f *LookaheadFilter) RegisterMerge(lead, probe, composite token.TokenType) {
	probes, ok := f.rules[lead]
	if !ok {
		probes = make(map[token.TokenType]token.TokenType)
		f.rules[lead] = probes
	}
	probes[probe] = composite
}

// NextToken returns the next filtered token. Scanning errors from the
// underlying stream propagate unchanged; the filter raises no error of
// its own.
func (f *LookaheadFilter) NextToken() (token.Token, error) {
	// Fast path: a probe buffered by the previous call.
	if f.haveLookahead {
		f.haveLookahead = false
		return f.lookahead, nil
	}

	cur, err := f.src.NextToken()
	if err != nil {
		return token.Token{}, err
	}

	probes, ok := f.rules[cur.Type]
	if !ok {
		// Not a recognized lead token; no probing for the common case.
		return cur, nil
	}

	probe, err := f.src.NextToken()
	if err != nil {
		return token.Token{}, err
	}

	if composite, ok := probes[probe.Type]; ok {
		// The probe's literal and position are discarded; the composite
		// token stands at the lead token's position.
		return token.Token{Type: composite, Literal: cur.Literal, Pos: cur.Pos}, nil
	}

	// No merge: save the probe for the next call and emit the lead
	// token unchanged.
	f.lookahead = probe
	f.haveLookahead = true
	return cur, nil
}

// copyRules deep-copies a merge table.
func copyRules(src map[token.TokenType]map[token.TokenType]token.TokenType) map[token.TokenType]map[token.TokenType]token.TokenType {
	dst := make(map[token.TokenType]map[token.TokenType]token.TokenType, len(src)+1)
	for lead, probes := range src {
		inner := make(map[token.TokenType]token.TokenType, len(probes))
		for p, c := range probes {
			inner[p] = c
		}
		dst[lead] = inner
	}
	return dst
}
