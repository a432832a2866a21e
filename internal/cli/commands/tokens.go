package commands

import (
	"github.com/relaystack/pgparse/internal/config"
	"github.com/relaystack/pgparse/pkg/parser"
	"github.com/relaystack/pgparse/pkg/token"
	"github.com/spf13/cobra"
)

// TokensOptions holds options for the tokens command.
type TokensOptions struct {
	Format string
	Input  string
	Raw    bool
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	opts := &TokensOptions{}

	cmd := &cobra.Command{
		Use:   "tokens [SQL]",
		Short: "Dump the token stream for query text",
		Long: `Scan query text and print every token the grammar would see.

By default the stream passes through the lookahead filter, so two-word
sequences like NULLS FIRST appear as single composite tokens. Use --raw
to see the unfiltered scanner output instead.`,
		Example: `  # Filtered stream: NULLS FIRST arrives as one token
  pgparse tokens "SELECT a FROM t ORDER BY a NULLS FIRST"

  # Raw scanner output, no merging
  pgparse tokens --raw "SELECT a FROM t ORDER BY a NULLS FIRST"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "Bypass the lookahead filter")

	return cmd
}

func runTokens(cmd *cobra.Command, args []string, opts *TokensOptions) error {
	src, err := readSQL(cmd, args, opts.Input)
	if err != nil {
		return err
	}

	cfg := config.FromContext(cmd.Context())
	settings := cfg.Session().Snapshot()

	var ts parser.TokenStream = parser.NewLexer(src, settings)
	if !opts.Raw {
		ts = parser.NewLookaheadFilter(ts)
	}

	var toks []token.Token
	for {
		tk, err := ts.NextToken()
		if err != nil {
			return err
		}
		if tk.Type == token.EOF {
			break
		}
		toks = append(toks, tk)
	}

	return renderTokens(cmd.OutOrStdout(), toks, outputFormat(opts.Format, cfg))
}
