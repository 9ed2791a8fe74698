package deleter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

func writeEntry(t *testing.T, dir, name string, size int) types.FileEntry {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return types.FileEntry{Path: path, Size: int64(size)}
}

func TestDelete_Success(t *testing.T) {
	e := writeEntry(t, t.TempDir(), "big.bin", 1500)

	ok, msg := Delete(e)

	assert.True(t, ok)
	assert.Equal(t, "Deleted successfully: 1.5 kB - big.bin", msg)
	_, err := os.Stat(e.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestDelete_AlreadyGone(t *testing.T) {
	e := types.FileEntry{Path: filepath.Join(t.TempDir(), "gone.txt"), Size: 10}

	ok, msg := Delete(e)

	assert.False(t, ok)
	assert.Contains(t, msg, "Failed to delete:")
	assert.Contains(t, msg, ErrDeleteFailed.Error())
	assert.ErrorIs(t, Remove(e), ErrDeleteFailed)
	assert.ErrorIs(t, Remove(e), os.ErrNotExist)
}

func TestDelete_RefusesDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub")
	require.NoError(t, os.Mkdir(dir, 0o755))

	err := Remove(types.FileEntry{Path: dir})

	require.ErrorIs(t, err, ErrDeleteFailed)
	_, statErr := os.Stat(dir)
	assert.NoError(t, statErr, "directory must survive")
}

func TestDelete_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	dir := t.TempDir()
	e := writeEntry(t, dir, "locked.bin", 4)
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	ok, msg := Delete(e)

	assert.False(t, ok)
	assert.Contains(t, msg, "permission denied")
	_, err := os.Stat(e.Path)
	assert.NoError(t, err)
}

func TestDeleter_UseTrash(t *testing.T) {
	e := writeEntry(t, t.TempDir(), "to-trash.txt", 8)

	ok, msg := Deleter{UseTrash: true}.Delete(e)

	require.True(t, ok, msg)
	_, err := os.Stat(e.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestMoveToTrash_Nonexistent(t *testing.T) {
	err := MoveToTrash(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMessage(t *testing.T) {
	e := types.FileEntry{Path: "/data/movie.mkv", Size: 2_000_000}

	assert.Equal(t, "Deleted successfully: 2.0 MB - movie.mkv", Message(e, nil))
	assert.Equal(t, "Failed to delete: boom", Message(e, errors.New("boom")))
}
