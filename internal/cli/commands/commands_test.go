package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestParseCommandTable(t *testing.T) {
	out, err := execute(t, NewParseCommand(), "SELECT id, name FROM users ORDER BY name DESC NULLS LAST")
	require.NoError(t, err)

	assert.Contains(t, out, "SELECT")
	assert.Contains(t, out, "users")
	assert.Contains(t, out, "DESC NULLS LAST")
	assert.Contains(t, out, "(1 statement)")
}

func TestParseCommandJSON(t *testing.T) {
	out, err := execute(t, NewParseCommand(), "--format", "json", "SELECT a FROM t; SELECT b FROM u")
	require.NoError(t, err)

	assert.Contains(t, out, `"statements"`)
	assert.Contains(t, out, `"Name": "t"`)
	assert.Contains(t, out, `"Name": "u"`)
}

func TestParseCommandStdin(t *testing.T) {
	cmd := NewParseCommand()
	cmd.SetIn(strings.NewReader("SELECT 1;"))

	out, err := execute(t, cmd)
	require.NoError(t, err)
	assert.Contains(t, out, "(1 statement)")
}

func TestParseCommandSyntaxError(t *testing.T) {
	_, err := execute(t, NewParseCommand(), "SELECT FROM t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse error at line 1")
}

func TestParseCommandEmptyInput(t *testing.T) {
	out, err := execute(t, NewParseCommand(), ";;")
	require.NoError(t, err)
	assert.Contains(t, out, "(0 statements)")
}

func TestTokensCommandMergesComposites(t *testing.T) {
	out, err := execute(t, NewTokensCommand(), "SELECT a FROM t ORDER BY a NULLS FIRST")
	require.NoError(t, err)

	assert.Contains(t, out, "NULLS_FIRST")
	assert.Contains(t, out, "(8 tokens)")
}

func TestTokensCommandRaw(t *testing.T) {
	out, err := execute(t, NewTokensCommand(), "--raw", "ORDER BY a NULLS FIRST")
	require.NoError(t, err)

	assert.NotContains(t, out, "NULLS_FIRST")
	assert.Contains(t, out, "(5 tokens)")
}

func TestTokensCommandJSON(t *testing.T) {
	out, err := execute(t, NewTokensCommand(), "--format", "json", "SELECT $1")
	require.NoError(t, err)

	assert.Contains(t, out, `"type": "SELECT"`)
	assert.Contains(t, out, `"literal": "$1"`)
}

func TestTokensCommandScanError(t *testing.T) {
	_, err := execute(t, NewTokensCommand(), "SELECT 'unterminated")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated string literal")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, NewVersionCommand("9.9.9"))
	require.NoError(t, err)

	assert.Contains(t, out, "pgparse v9.9.9")
}
