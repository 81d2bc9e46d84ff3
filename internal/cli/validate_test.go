package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSchema writes a single CUE file holding content to a temporary
// directory and returns the directory.
func writeSchema(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.cue"), []byte(content), 0644))
	return dir
}

func TestValidate_Valid(t *testing.T) {
	out, _, err := execute(t, "validate", "../../testdata/schemas")
	require.NoError(t, err)
	assert.Contains(t, out, "Movie (3 rows)")
	assert.Contains(t, out, "Rating (2 rows)")
	assert.Contains(t, out, "✓ 3 table(s) valid")
}

func TestValidate_ValidJSON(t *testing.T) {
	out, _, err := execute(t, "validate", "../../testdata/schemas", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Len(t, resp.Data.Tables, 3)
}

func TestValidate_UnknownKeyAttribute(t *testing.T) {
	dir := writeSchema(t, `package relalg

table: Movie: {
	attributes: {
		title: string
		year:  int
	}
	key: ["director"]
}
`)

	out, _, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "ATTRIBUTE_NOT_FOUND")
}

func TestValidate_DuplicateRowKey(t *testing.T) {
	dir := writeSchema(t, `package relalg

table: Studio: {
	attributes: {
		name:    string
		address: string
	}
	key: ["name"]
	rows: [
		["Fox", "LA"],
		["Fox", "Century City"],
	]
}
`)

	out, _, err := execute(t, "validate", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  CLIError         `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, "DUPLICATE_KEY", resp.Data.Errors[0].Code)
	assert.Equal(t, "Studio", resp.Data.Errors[0].Table)
}

func TestValidate_MissingDirectory(t *testing.T) {
	out, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestValidate_NoCUEFiles(t *testing.T) {
	out, _, err := execute(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}
