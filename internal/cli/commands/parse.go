package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/relaystack/pgparse/internal/config"
	"github.com/relaystack/pgparse/pkg/parser"
	"github.com/spf13/cobra"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Format string
	Input  string
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [SQL]",
		Short: "Parse query text into statement trees",
		Long: `Parse PostgreSQL query text and print the resulting statement trees.

Reads SQL from the arguments, from a file with --input, or from stdin.
Session parameters set via flags or environment change how the text is
lexed, exactly as they would for a live connection.`,
		Example: `  # Parse SQL directly
  pgparse parse "SELECT id FROM users ORDER BY name NULLS FIRST"

  # Parse a file and emit the full trees as JSON
  pgparse parse --input queries.sql --format json

  # Parse with backend session parameters
  pgparse parse --standard-conforming-strings "SELECT 'a\b'"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	src, err := readSQL(cmd, args, opts.Input)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	log := config.LoggerFromContext(ctx)

	settings := cfg.Session().Snapshot()
	lx := parser.NewLexer(src, settings)
	stmts, err := parser.StandardGrammar{}.Parse(parser.NewLookaheadFilter(lx))
	if err != nil {
		return err
	}
	log.Debug("parsed input", "statements", len(stmts), "length", len(src))

	return renderStatements(cmd.OutOrStdout(), stmts, outputFormat(opts.Format, cfg))
}

// readSQL resolves the query text source: arguments, --input file, or stdin.
func readSQL(cmd *cobra.Command, args []string, input string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case input != "":
		content, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(content), nil
	default:
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(content), nil
	}
}

// outputFormat resolves the effective output format: the command flag
// wins over the configured default.
func outputFormat(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	if cfg.Output != "" {
		return cfg.Output
	}
	return config.DefaultOutput
}
