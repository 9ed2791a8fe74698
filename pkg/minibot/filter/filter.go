// Package filter ranks scan results: keep the entries that match, order them
// largest first and cut the list to a limit.
package filter

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

// Filter holds ranking criteria.
type Filter struct {
	// Limit is the maximum number of entries returned. 0 means unlimited.
	Limit int

	// Suffix keeps only paths ending in this string (case-sensitive).
	Suffix string

	// MinSize drops entries smaller than this many bytes.
	MinSize int64
}

// Option is a functional option for configuring a Filter.
type Option func(*Filter)

// New creates an unlimited Filter and applies opts.
func New(opts ...Option) *Filter {
	f := &Filter{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// WithLimit sets the maximum number of entries. Values <= 0 mean unlimited.
func WithLimit(limit int) Option {
	return func(f *Filter) {
		f.Limit = max(limit, 0)
	}
}

// WithSuffix keeps only paths ending in suffix. An empty suffix keeps all.
func WithSuffix(suffix string) Option {
	return func(f *Filter) {
		f.Suffix = suffix
	}
}

// WithMinSize drops entries below minSize bytes. Negative values mean 0.
func WithMinSize(minSize int64) Option {
	return func(f *Filter) {
		f.MinSize = max(minSize, 0)
	}
}

// Match reports whether e passes the suffix and size criteria.
func (f *Filter) Match(e types.FileEntry) bool {
	if e.Size < f.MinSize {
		return false
	}
	return f.Suffix == "" || strings.HasSuffix(e.Path, f.Suffix)
}

// Apply returns a new slice holding the matching entries sorted by size,
// largest first, truncated to Limit. Entries of equal size keep their input
// order. entries is not modified.
func (f *Filter) Apply(entries []types.FileEntry) []types.FileEntry {
	out := make([]types.FileEntry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}

	slices.SortStableFunc(out, func(a, b types.FileEntry) int {
		return cmp.Compare(b.Size, a.Size)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// Rank is New(WithLimit(limit), WithSuffix(suffix)).Apply(entries).
func Rank(entries []types.FileEntry, limit int, suffix string) []types.FileEntry {
	return New(WithLimit(limit), WithSuffix(suffix)).Apply(entries)
}
