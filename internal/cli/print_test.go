package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrint(t *testing.T) {
	db := loadMovies(t)

	out, _, err := execute(t, "print", "Studio", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "\n Table Studio\n")
	assert.Contains(t, out, "|             Fox             LA |")
}

func TestPrint_Index(t *testing.T) {
	db := loadMovies(t)

	out, _, err := execute(t, "print", "Studio", "--db", db, "--index")
	require.NoError(t, err)
	assert.Contains(t, out, "\n Index for Studio\n")
	assert.Contains(t, out, "[Fox] -> [Fox, LA]")
}

func TestPrint_Styled(t *testing.T) {
	db := loadMovies(t)

	out, _, err := execute(t, "print", "Movie", "--db", db, "--style")
	require.NoError(t, err)
	assert.Contains(t, out, "Star_Wars")
	assert.Contains(t, out, "3 tuples")
}

func TestPrint_JSONSnapshot(t *testing.T) {
	db := loadMovies(t)

	out, _, err := execute(t, "print", "Rating", "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Name    string   `json:"name"`
			Domains []string `json:"domains"`
			Tuples  [][]any  `json:"tuples"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Rating", resp.Data.Name)
	assert.Equal(t, []string{"Text", "Integer", "Real"}, resp.Data.Domains)
	assert.Len(t, resp.Data.Tuples, 2)
}

func TestPrint_BySnapshot(t *testing.T) {
	db := filepath.Join(t.TempDir(), "movies.db")
	out, _, err := execute(t, "load", "../../testdata/schemas", "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data LoadResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	var id string
	for _, s := range resp.Data.Tables {
		if s.Name == "Studio" {
			id = s.SnapshotID
		}
	}
	require.NotEmpty(t, id)

	out, _, err = execute(t, "print", "--snapshot", id, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "\n Table Studio\n")

	out, _, err = execute(t, "print", "--snapshot", "no-such-id", "--db", db)
	require.Error(t, err)
	assert.Contains(t, out, "Error [NOT_FOUND]")
}

func TestPrint_NameOrSnapshot(t *testing.T) {
	db := loadMovies(t)

	_, _, err := execute(t, "print", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "print", "Movie", "--snapshot", "x", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPrint_UnknownRelation(t *testing.T) {
	db := loadMovies(t)

	out, _, err := execute(t, "print", "Director", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [NOT_FOUND]")
}
