package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootParse(t *testing.T) {
	out, err := executeRoot(t, "parse", "SELECT a FROM t ORDER BY a NULLS FIRST")
	require.NoError(t, err)
	assert.Contains(t, out, "(1 statement)")
	assert.Contains(t, out, "NULLS FIRST")
}

func TestRootSessionFlagsChangeLexing(t *testing.T) {
	// With standard_conforming_strings on, the backslash survives into
	// the literal and shows up escaped in the JSON output.
	out, err := executeRoot(t, "parse", "--format", "json",
		"--standard-conforming-strings", `SELECT 'a\nb'`)
	require.NoError(t, err)
	assert.Contains(t, out, `a\\nb`)

	// Default mode processes the escape into a real newline.
	out, err = executeRoot(t, "parse", "--format", "json", `SELECT 'a\nb'`)
	require.NoError(t, err)
	assert.NotContains(t, out, `a\\nb`)
}

func TestRootTokensWithEncoding(t *testing.T) {
	out, err := executeRoot(t, "tokens", "--server-encoding", "UTF8", "SELECT straße")
	require.NoError(t, err)
	assert.Contains(t, out, "straße")
}

func TestRootUnknownCommand(t *testing.T) {
	_, err := executeRoot(t, "frobnicate")
	assert.Error(t, err)
}

func TestRootVersionFlag(t *testing.T) {
	out, err := executeRoot(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "pgparse")
}
