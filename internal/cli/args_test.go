package cli

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	return path
}

func TestExpandSpectra(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "a.ecsv"))
	b := touch(t, filepath.Join(dir, "b.ecsv"))
	deep := touch(t, filepath.Join(dir, "solar", "max", "c.ecsv"))
	touch(t, filepath.Join(dir, "notes.txt"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dir.ecsv"), 0o755))

	paths, err := expandSpectra([]string{b, filepath.Join(dir, "*.ecsv")})
	require.NoError(t, err)
	assert.Equal(t, []string{b, a, b}, paths)

	paths, err = expandSpectra([]string{filepath.Join(dir, "**", "*.ecsv")})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, deep}, paths)

	paths, err = expandSpectra([]string{"-", a})
	require.NoError(t, err)
	assert.Equal(t, []string{"-", a}, paths)
}

func TestExpandSpectra_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := expandSpectra([]string{filepath.Join(dir, "missing.ecsv")})
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = expandSpectra([]string{filepath.Join(dir, "*.ecsv")})
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = expandSpectra([]string{filepath.Join(dir, "[")})
	assert.Error(t, err)
}

func TestContainsGlob(t *testing.T) {
	assert.True(t, containsGlob("data/*.ecsv"))
	assert.True(t, containsGlob("data/**/x.ecsv"))
	assert.True(t, containsGlob("data/{a,b}.ecsv"))
	assert.False(t, containsGlob("data/a.ecsv"))
}
