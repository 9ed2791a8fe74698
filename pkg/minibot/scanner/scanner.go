package scanner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/jamesainslie/minibot/pkg/minibot/logging"
	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

// Scan lists each directory in dirs (non-recursively) on a pool of workers
// and returns every regular file found. tracker receives the total up front
// and one Done per finished directory; pass nil to use a private one.
//
// Unreadable directories and files are skipped. Cancelling ctx stops workers
// from taking new directories; whatever was collected is returned with
// Cancelled set.
func Scan(ctx context.Context, dirs []string, tracker *Tracker, opts Options) *types.ScanResult {
	if tracker == nil {
		tracker = NewTracker()
	}
	tracker.SetTotal(int64(len(dirs)))

	workers := min(opts.workers(), max(len(dirs), 1))
	units := make(chan string, workers*2)
	pool := make([]*worker, workers)

	go func() {
		defer close(units)
		for _, dir := range dirs {
			select {
			case units <- dir:
			case <-ctx.Done():
				return
			}
		}
	}()

	exclude := NewMatcher(opts.Exclude)
	log := logging.Get("scanner")

	var wg sync.WaitGroup
	for i := range pool {
		w := &worker{exclude: exclude, log: log}
		pool[i] = w

		wg.Add(1)
		go func() {
			defer wg.Done()
			for dir := range units {
				if ctx.Err() != nil {
					// Drain without working so the feeder can exit.
					continue
				}
				w.scanDir(dir)
				completed := tracker.Done()
				if opts.OnProgress != nil {
					_, total := tracker.Get()
					opts.OnProgress(completed, total)
				}
			}
		}()
	}
	wg.Wait()

	result := &types.ScanResult{}
	for _, w := range pool {
		result.Entries = append(result.Entries, w.entries...)
		result.Errors = append(result.Errors, w.errors...)
		result.Skipped += w.skipped
	}
	result.DirsScanned, result.DirsTotal = tracker.Get()
	result.Cancelled = result.DirsScanned < result.DirsTotal

	return result
}

// worker owns its buffers; they are merged only after the pool has stopped.
type worker struct {
	exclude *Matcher
	log     *logging.Logger

	entries []types.FileEntry
	errors  []types.ScanError
	skipped int64
}

// scanDir is one unit of work: list dir and stat every regular file in it.
func (w *worker) scanDir(dir string) {
	// ReadDir returns what it managed to read even on error.
	dirents, err := os.ReadDir(dir)
	if err != nil {
		w.skip(dir, err)
	}

	for _, d := range dirents {
		if !d.Type().IsRegular() {
			continue
		}

		path := filepath.Join(dir, d.Name())
		if w.exclude.Match(path) {
			continue
		}

		info, err := d.Info()
		if err != nil {
			w.skip(path, err)
			continue
		}
		// The entry may have been replaced between listing and stat.
		if !info.Mode().IsRegular() {
			continue
		}

		w.entries = append(w.entries, types.FileEntry{Path: path, Size: info.Size()})
	}
}

// skip counts an unreadable entry. Permission and not-found errors are the
// expected races of a live filesystem; anything else is recorded.
func (w *worker) skip(path string, err error) {
	w.skipped++

	if Tolerated(err) {
		w.log.Debug("skipped", "path", path, "error", err)
		return
	}

	w.log.Warn("unexpected error, skipped", "path", path, "error", err)
	w.errors = append(w.errors, types.ScanError{Path: path, Err: err})
}

// Tolerated reports whether err is an expected filesystem race (the entry
// vanished, changed type or is not readable by this user).
func Tolerated(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.ENOTDIR)
}
