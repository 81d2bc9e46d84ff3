package harness

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindScenarios_Directory(t *testing.T) {
	paths, err := FindScenarios("../../testdata/scenarios")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join("../../testdata/scenarios", "movies.yaml"),
		filepath.Join("../../testdata/scenarios", "set_ops.yaml"),
	}, paths)
}

func TestFindScenarios_FilesPassThrough(t *testing.T) {
	file := "../../testdata/scenarios/movies.yaml"

	paths, err := FindScenarios(file, file)
	require.NoError(t, err)
	assert.Equal(t, []string{file, file}, paths)
}

func TestFindScenarios_NotFound(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	for _, p := range []string{filepath.Join(dir, "missing"), dir} {
		_, err := FindScenarios(p)

		var nf *ScenarioNotFoundError
		require.True(t, errors.As(err, &nf), "path %s: %v", p, err)
		assert.Equal(t, p, nf.Path)
	}
}
