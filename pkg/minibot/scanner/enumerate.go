package scanner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/minibot/pkg/minibot/logging"
)

// Enumerate walks the tree under root and returns every directory to scan,
// root first, in no particular order after that. Symlinks are not followed.
//
// Subtrees that cannot be read are skipped: the unreadable directory itself
// is still returned so the scanner can account for it, but nothing below it
// is. When ctx is cancelled the directories found so far are returned along
// with ctx.Err().
func Enumerate(ctx context.Context, root string, opts Options) ([]string, error) {
	log := logging.Get("scanner")
	exclude := NewMatcher(opts.Exclude)

	var (
		mu   sync.Mutex
		dirs = []string{root}
	)

	conf := fastwalk.Config{
		Follow:     false,
		NumWorkers: opts.workers(),
	}

	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			log.Debug("skipping unreadable subtree", "path", path, "error", err)
			return nil
		}

		if path == root || !d.IsDir() {
			return nil
		}

		if exclude.Match(path) {
			log.Debug("excluded", "path", path)
			return fastwalk.SkipDir
		}

		mu.Lock()
		dirs = append(dirs, path)
		mu.Unlock()
		return nil
	})

	mu.Lock()
	defer mu.Unlock()

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return dirs, ctxErr
		}
		// Only a failure on root itself reaches here; the scanner reports it.
		log.Warn("enumeration stopped early", "root", root, "error", err)
	}

	return dirs, nil
}

// resolveRoot resolves root when it is itself a symlink, so a root given as
// a link to a directory is still walked. Links below root are never followed.
func resolveRoot(root string) string {
	info, err := os.Lstat(root)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return root
	}
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return root
	}
	return resolved
}
