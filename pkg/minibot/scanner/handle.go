package scanner

import (
	"context"
	"time"

	"github.com/jamesainslie/minibot/pkg/minibot/logging"
	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

// Handle is a running scan. The supervisor goroutine started by Start owns
// enumeration, the worker pool and the cancel function; callers interact
// with the scan only through the handle.
type Handle struct {
	root    string
	tracker *Tracker
	cancel  context.CancelFunc
	done    chan struct{}
	result  *types.ScanResult
}

// Start enumerates and scans root in the background and returns immediately.
// root is expected to have passed target.Validate.
func Start(ctx context.Context, root string, opts Options) *Handle {
	ctx, cancel := context.WithCancel(ctx)

	h := &Handle{
		root:    root,
		tracker: NewTracker(),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go h.run(ctx, opts)

	return h
}

func (h *Handle) run(ctx context.Context, opts Options) {
	defer close(h.done)
	defer h.cancel()

	log := logging.Get("scanner")
	start := time.Now()
	log.Info("scan started", "root", h.root, "workers", opts.workers())

	dirs, err := Enumerate(ctx, resolveRoot(h.root), opts)
	if err != nil {
		log.Info("enumeration cancelled", "root", h.root, "dirs", len(dirs))
	}

	result := Scan(ctx, dirs, h.tracker, opts)
	result.Root = h.root
	result.Elapsed = time.Since(start)
	if err != nil {
		result.Cancelled = true
	}

	log.Info("scan finished",
		"root", h.root,
		"files", len(result.Entries),
		"dirs", result.DirsScanned,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
		"cancelled", result.Cancelled,
		"elapsed", result.Elapsed,
	)

	h.result = result
}

// Root returns the directory being scanned.
func (h *Handle) Root() string { return h.root }

// Progress returns the completed and total directory counts. Total is zero
// until enumeration has finished.
func (h *Handle) Progress() (completed, total int64) {
	return h.tracker.Get()
}

// Tracker exposes the progress counters for pollers that want a snapshot.
func (h *Handle) Tracker() *Tracker { return h.tracker }

// Done is closed when the scan has finished or stopped after cancellation.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Cancel asks the scan to stop. Directories already being listed finish;
// no new ones are started. Cancel is safe to call more than once.
func (h *Handle) Cancel() { h.cancel() }

// Result blocks until the scan ends and returns the full result.
func (h *Handle) Result() *types.ScanResult {
	<-h.done
	return h.result
}

// Wait blocks until the scan ends and returns the files found, which is a
// partial list when the scan was cancelled.
func (h *Handle) Wait() []types.FileEntry {
	return h.Result().Entries
}
