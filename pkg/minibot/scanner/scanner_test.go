package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/minibot/pkg/minibot/logging"
	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

// makeTree creates files of the given sizes under a fresh temp dir and
// returns its path. Keys are slash-separated relative paths.
func makeTree(t *testing.T, files map[string]int) string {
	t.Helper()

	root := t.TempDir()
	for rel, size := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	}
	return root
}

func entriesOf(root string, files map[string]int) []types.FileEntry {
	out := make([]types.FileEntry, 0, len(files))
	for rel, size := range files {
		out = append(out, types.FileEntry{Path: filepath.Join(root, filepath.FromSlash(rel)), Size: int64(size)})
	}
	return out
}

func scanTree(t *testing.T, root string, opts Options) *types.ScanResult {
	t.Helper()
	dirs, err := Enumerate(context.Background(), root, opts)
	require.NoError(t, err)
	return Scan(context.Background(), dirs, nil, opts)
}

func TestEnumerate_IncludesRootAndSubdirs(t *testing.T) {
	root := makeTree(t, map[string]int{
		"a.txt":         1,
		"sub/b.txt":     1,
		"sub/deep/c.go": 1,
		"other/d":       1,
	})
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))

	dirs, err := Enumerate(context.Background(), root, Options{Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, root, dirs[0], "root comes first")
	assert.ElementsMatch(t, []string{
		root,
		filepath.Join(root, "sub"),
		filepath.Join(root, "sub", "deep"),
		filepath.Join(root, "other"),
		filepath.Join(root, "empty"),
	}, dirs)
}

func TestEnumerate_Exclude(t *testing.T) {
	root := makeTree(t, map[string]int{
		"keep/a":          1,
		"node_modules/x/y": 1,
		"skip/inner/b":    1,
	})

	dirs, err := Enumerate(context.Background(), root, Options{
		Exclude: []string{filepath.Join(root, "skip"), "node_modules"},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{root, filepath.Join(root, "keep")}, dirs)
}

func TestEnumerate_DoesNotFollowSymlinks(t *testing.T) {
	root := makeTree(t, map[string]int{"real/file": 1})
	outside := makeTree(t, map[string]int{"elsewhere/file": 1})
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link")))

	dirs, err := Enumerate(context.Background(), root, Options{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{root, filepath.Join(root, "real")}, dirs)
}

func TestEnumerate_Cancelled(t *testing.T) {
	root := makeTree(t, map[string]int{"a/1": 1, "b/2": 1, "c/3": 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dirs, err := Enumerate(ctx, root, Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, dirs, root)
}

func TestEnumerate_UnreadableSubtreeIsKept(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	root := makeTree(t, map[string]int{"open/a": 1, "locked/inner/b": 1})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	dirs, err := Enumerate(context.Background(), root, Options{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{root, filepath.Join(root, "open"), locked}, dirs)
}

func TestScan_Scenario(t *testing.T) {
	files := map[string]int{"a.txt": 10, "b.txt": 30, "sub/c.txt": 20}
	root := makeTree(t, files)

	result := scanTree(t, root, Options{Workers: 4})

	assert.ElementsMatch(t, entriesOf(root, files), result.Entries)
	assert.Equal(t, int64(2), result.DirsTotal)
	assert.Equal(t, int64(2), result.DirsScanned)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.Errors)
	assert.False(t, result.Cancelled)
	assert.Equal(t, int64(60), result.TotalSize())
}

func TestScan_OnlyRegularFiles(t *testing.T) {
	files := map[string]int{"data.bin": 5, "dir/nested.bin": 7}
	root := makeTree(t, files)
	require.NoError(t, os.Symlink(filepath.Join(root, "data.bin"), filepath.Join(root, "alias.bin")))
	require.NoError(t, os.Symlink(filepath.Join(root, "dir"), filepath.Join(root, "dirlink")))

	result := scanTree(t, root, Options{})

	assert.ElementsMatch(t, entriesOf(root, files), result.Entries)
}

func TestScan_NoDuplicatesOnWideTree(t *testing.T) {
	files := make(map[string]int)
	for i := range 40 {
		for j := range 5 {
			files[fmt.Sprintf("d%02d/f%d", i, j)] = i + j
		}
	}
	root := makeTree(t, files)

	result := scanTree(t, root, Options{Workers: 8})

	require.Len(t, result.Entries, len(files))
	assert.ElementsMatch(t, entriesOf(root, files), result.Entries)
	assert.Equal(t, int64(41), result.DirsScanned)
}

func TestScan_ExcludedFiles(t *testing.T) {
	root := makeTree(t, map[string]int{"keep.txt": 1, "drop.iso": 100})

	result := scanTree(t, root, Options{Exclude: []string{"*.iso"}})

	assert.ElementsMatch(t, []types.FileEntry{{Path: filepath.Join(root, "keep.txt"), Size: 1}}, result.Entries)
}

func TestScan_VanishedDirectoryIsTolerated(t *testing.T) {
	root := makeTree(t, map[string]int{"a": 3})
	gone := filepath.Join(root, "gone")

	result := Scan(context.Background(), []string{root, gone}, nil, Options{Workers: 2})

	assert.ElementsMatch(t, []types.FileEntry{{Path: filepath.Join(root, "a"), Size: 3}}, result.Entries)
	assert.Equal(t, int64(1), result.Skipped)
	assert.Empty(t, result.Errors, "not-found is an expected race")
	assert.Equal(t, int64(2), result.DirsScanned)
	assert.False(t, result.Cancelled)
}

func TestScan_PermissionDeniedIsTolerated(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	root := makeTree(t, map[string]int{"ok/a": 1, "locked/b": 2})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	result := scanTree(t, root, Options{})

	assert.ElementsMatch(t, []types.FileEntry{{Path: filepath.Join(root, "ok", "a"), Size: 1}}, result.Entries)
	assert.Equal(t, int64(1), result.Skipped)
	assert.Empty(t, result.Errors)
	assert.Equal(t, result.DirsTotal, result.DirsScanned)
}

func TestScan_ProgressIsMonotonic(t *testing.T) {
	files := make(map[string]int)
	for i := range 25 {
		files[fmt.Sprintf("d%02d/f", i)] = 1
	}
	root := makeTree(t, files)

	dirs, err := Enumerate(context.Background(), root, Options{})
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		seen  []int64
		total int64
	)
	tracker := NewTracker()
	result := Scan(context.Background(), dirs, tracker, Options{
		Workers: 1,
		OnProgress: func(c, n int64) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, c)
			total = n
		},
	})

	require.Len(t, seen, len(dirs))
	for i := 1; i < len(seen); i++ {
		assert.Greater(t, seen[i], seen[i-1])
	}
	assert.Equal(t, int64(len(dirs)), total)

	c, n := tracker.Get()
	assert.Equal(t, n, c, "completed == total at normal completion")
	assert.Equal(t, result.DirsScanned, c)
}

func TestScan_ConcurrentProgressCallback(t *testing.T) {
	files := make(map[string]int)
	for i := range 30 {
		files[fmt.Sprintf("d%02d/f", i)] = 1
	}
	root := makeTree(t, files)
	dirs, err := Enumerate(context.Background(), root, Options{})
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		calls int
		peak  int64
	)
	Scan(context.Background(), dirs, nil, Options{
		Workers: 6,
		OnProgress: func(c, n int64) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			peak = max(peak, c)
			assert.LessOrEqual(t, c, n)
		},
	})

	assert.Equal(t, len(dirs), calls)
	assert.Equal(t, int64(len(dirs)), peak)
}

func TestScan_CancelledBeforeStart(t *testing.T) {
	root := makeTree(t, map[string]int{"a/1": 1, "b/2": 2})
	dirs, err := Enumerate(context.Background(), root, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Scan(ctx, dirs, nil, Options{Workers: 2})

	assert.True(t, result.Cancelled)
	assert.Empty(t, result.Entries)
	assert.Less(t, result.DirsScanned, result.DirsTotal)
}

func TestTolerated(t *testing.T) {
	assert.True(t, Tolerated(fs.ErrNotExist))
	assert.True(t, Tolerated(&fs.PathError{Op: "open", Path: "/x", Err: syscall.EACCES}))
	assert.True(t, Tolerated(&fs.PathError{Op: "open", Path: "/x", Err: syscall.ENOTDIR}))
	assert.False(t, Tolerated(&fs.PathError{Op: "read", Path: "/x", Err: syscall.EIO}))
	assert.False(t, Tolerated(errors.New("boom")))
}

func TestWorkerRecordsUnexpectedErrors(t *testing.T) {
	w := &worker{exclude: NewMatcher(nil), log: logging.Get("scanner")}

	w.skip("/a", fs.ErrPermission)
	w.skip("/b", &fs.PathError{Op: "read", Path: "/b", Err: syscall.EIO})

	assert.Equal(t, int64(2), w.skipped)
	require.Len(t, w.errors, 1)
	assert.Equal(t, "/b", w.errors[0].Path)
	assert.ErrorIs(t, w.errors[0], types.ErrEntryUnreadable)
	assert.ErrorIs(t, w.errors[0], syscall.EIO)
}
