package parser

import (
	"fmt"
	"log/slog"

	"github.com/relaystack/pgparse/pkg/session"
)

// Driver is the top-level parse entry point.
//
// Each Parse call builds a fresh lexer and lookahead filter scoped to
// that invocation; the only state shared across calls is the injected
// session configuration, which is snapshotted once at parse start. The
// grammar is not allowed to perform any database access, so parsing
// works even inside an aborted transaction on the backend.
type Driver struct {
	sess    *session.Config
	grammar Grammar
	log     *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithGrammar replaces the built-in grammar engine.
func WithGrammar(g Grammar) Option {
	return func(d *Driver) { d.grammar = g }
}

// WithLogger sets the logger used for discarded diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.log = l }
}

// NewDriver creates a Driver bound to the given session configuration.
func NewDriver(sess *session.Config, opts ...Option) *Driver {
	d := &Driver{
		sess:    sess,
		grammar: StandardGrammar{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Parse does lexical and grammatical analysis of the given query text
// and returns a list of raw statement trees.
//
// Every failure — scanning error, grammar error, or a panicking grammar
// engine — is caught at this boundary and normalized to a nil result.
// Callers never see a partial tree, and a failed parse leaves no state
// behind: the very next call starts fresh. Diagnostics are logged at
// debug level before being discarded.
//
// Empty input is a successful parse of zero statements.
func (d *Driver) Parse(src string) []Statement {
	settings := d.sess.Snapshot()

	stmts, err := d.run(src, settings)
	if err != nil {
		d.log.Debug("parse failed",
			slog.String("error", err.Error()),
			slog.Int("length", len(src)),
		)
		return nil
	}

	// In case the grammar forgets to set a result
	if stmts == nil {
		stmts = []Statement{}
	}
	return stmts
}

// run executes one parse attempt with panic isolation.
func (d *Driver) run(src string, settings session.Settings) (stmts []Statement, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("grammar engine panic: %v", r)
		}
	}()

	lx := NewLexer(src, settings)
	return d.grammar.Parse(NewLookaheadFilter(lx))
}
