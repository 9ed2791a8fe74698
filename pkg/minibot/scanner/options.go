// Package scanner finds every regular file under a directory tree. The tree
// is first flattened into a list of directories by Enumerate, then a pool of
// workers lists those directories in parallel while a Tracker counts
// finished units for progress display.
package scanner

import (
	"runtime"
)

// Options configures enumeration and scanning.
type Options struct {
	// Workers is the size of the listing pool. Values below one use
	// GOMAXPROCS.
	Workers int

	// Exclude holds paths and glob patterns that are never entered or
	// reported. See Matcher for the matching rules.
	Exclude []string

	// OnProgress is called after every finished directory with the
	// tracker's counters. It is called concurrently from all workers.
	OnProgress func(completed, total int64)
}

// DefaultOptions returns options sized for the current machine.
func DefaultOptions() Options {
	return Options{Workers: runtime.GOMAXPROCS(0)}
}

// workers returns the effective pool size.
func (o Options) workers() int {
	if o.Workers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}
