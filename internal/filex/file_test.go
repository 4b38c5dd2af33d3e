package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesNestedDirs(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "a", "b", "state.db")

	got, err := EnsureParentDir(path, 0o700)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "a", "b"), got)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	_, err = EnsureParentDir(path, 0o700)
	assert.NoError(t, err, "idempotent")
}

func TestEnsureParentDir_BareFileName(t *testing.T) {
	got, err := EnsureParentDir("state.db", 0o700)
	require.NoError(t, err)
	assert.Equal(t, ".", got)
}

func TestEnsureParentDir_ParentIsAFile(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := EnsureParentDir(filepath.Join(blocker, "child", "x.db"), 0o700)
	require.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images", "cat.png")

	require.NoError(t, WriteFile(path, []byte("png"), 0o644))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got)
}
