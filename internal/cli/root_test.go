package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns what it wrote to
// stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "relalg")
	for _, sub := range []string{"validate", "load", "list", "print", "delete", "query", "test"} {
		assert.Contains(t, out, sub)
	}
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, _, err := execute(t, "validate", "../../testdata/schemas", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()
	names := make(map[string]bool)
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, sub := range []string{"validate", "load", "list", "print", "delete", "query", "test"} {
		assert.True(t, names[sub], "missing subcommand %s", sub)
	}
}

func TestRootCommand_VerboseLogsCommands(t *testing.T) {
	db := loadMovies(t)

	_, stderr, err := execute(t, "query", "--db", db, "-v", "--expr", "{scan: Movie}")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "msg=RA")
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("yaml"))
	assert.False(t, isValidFormat(""))
}
