package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_RelativeToCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureDir("uploads")
	require.NoError(t, err)

	want := filepath.Join(tmp, "uploads")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	again, err := EnsureDir("uploads")
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestEnsureDir_Absolute(t *testing.T) {
	want := filepath.Join(t.TempDir(), "a", "b")

	got, err := EnsureDir(want)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := EnsureDir(filepath.Join(blocker, "sub"))
	require.Error(t, err)
}

func TestRemoveIfExists(t *testing.T) {
	p := filepath.Join(t.TempDir(), "pic.png")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))

	require.NoError(t, RemoveIfExists(p))
	_, err := os.Stat(p)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, RemoveIfExists(p))
}
