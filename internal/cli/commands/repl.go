package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/relaystack/pgparse/internal/config"
	"github.com/relaystack/pgparse/pkg/parser"
	"github.com/relaystack/pgparse/pkg/session"
	"github.com/spf13/cobra"
)

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive parsing session",
		Long: `Start an interactive session that parses each entered statement.

Statements end with a semicolon and may span multiple lines. Session
parameters can be changed on the fly with .set, the way a backend would
report them mid-connection, and take effect for the next statement.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(cmd, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table, json")

	return cmd
}

func runRepl(cmd *cobra.Command, format string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	sess := cfg.Session()
	format = outputFormat(format, cfg)

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".pgparse_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "pgparse> ",
		HistoryFile:     historyFile,
		AutoComplete:    replCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "pgparse interactive session")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	var buffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buffer.Reset()
			rl.SetPrompt("pgparse> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") && buffer.Len() == 0 {
			if line == ".quit" || line == ".exit" {
				break
			}
			handleDotCommand(cmd, sess, line)
			continue
		}

		// Accumulate multi-line SQL until semicolon
		buffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buffer.WriteString(" ")
			rl.SetPrompt("    ...> ")
			continue
		}
		rl.SetPrompt("pgparse> ")

		src := buffer.String()
		buffer.Reset()

		if err := parseAndRender(cmd, sess, src, format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

func parseAndRender(cmd *cobra.Command, sess *session.Config, src, format string) error {
	lx := parser.NewLexer(src, sess.Snapshot())
	stmts, err := parser.StandardGrammar{}.Parse(parser.NewLookaheadFilter(lx))
	if err != nil {
		return err
	}
	return renderStatements(cmd.OutOrStdout(), stmts, format)
}

func handleDotCommand(cmd *cobra.Command, sess *session.Config, line string) {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".help":
		printReplHelp(cmd.OutOrStdout())

	case ".set":
		if len(parts) != 3 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .set <parameter> <value>")
			return
		}
		// Unknown parameter names are ignored, as on a live connection
		sess.SetParameter(parts[1], parts[2])

	case ".show":
		printSessionParams(cmd.OutOrStdout(), sess)

	case ".clear":
		fmt.Print("\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
	}
}

func printSessionParams(w io.Writer, sess *session.Config) {
	scs := "off"
	if sess.StandardConformingStrings() {
		scs = "on"
	}
	_, _ = fmt.Fprintf(w, "%s = %d\n", session.ParamServerVersion, sess.VersionNum())
	_, _ = fmt.Fprintf(w, "%s = %s\n", session.ParamServerEncoding, sess.Encoding())
	_, _ = fmt.Fprintf(w, "%s = %s\n", session.ParamStandardConformingStrings, scs)
}

func printReplHelp(w io.Writer) {
	help := `
Commands:
  .help                   Show this help message
  .set <param> <value>    Set a session parameter, e.g. .set server_encoding UTF8
  .show                   Show current session parameters
  .clear                  Clear the screen
  .quit / .exit           Exit the session

Tips:
  - Statements must end with a semicolon (;)
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

func replCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".set",
			readline.PcItem(session.ParamServerVersion),
			readline.PcItem(session.ParamServerEncoding),
			readline.PcItem(session.ParamStandardConformingStrings),
		),
		readline.PcItem(".show"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
