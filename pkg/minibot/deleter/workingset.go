package deleter

import (
	"cmp"
	"slices"

	"github.com/jamesainslie/minibot/pkg/minibot/filter"
	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

// WorkingSet is the mutable result of one scan during an interactive
// session. Entries are kept in path order, so rankings computed from the set
// break size ties by path and stay the same until the next removal.
// A WorkingSet is not safe for concurrent use.
type WorkingSet struct {
	entries []types.FileEntry
}

// NewWorkingSet copies entries into a new set.
func NewWorkingSet(entries []types.FileEntry) *WorkingSet {
	ws := &WorkingSet{entries: slices.Clone(entries)}
	slices.SortFunc(ws.entries, func(a, b types.FileEntry) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return ws
}

// Len returns the number of entries.
func (ws *WorkingSet) Len() int { return len(ws.entries) }

// Entries returns a copy of the entries in path order.
func (ws *WorkingSet) Entries() []types.FileEntry { return slices.Clone(ws.entries) }

// TotalSize returns the sum of all entry sizes.
func (ws *WorkingSet) TotalSize() int64 {
	var total int64
	for _, e := range ws.entries {
		total += e.Size
	}
	return total
}

// Ranked returns the largest entries, see filter.Rank.
func (ws *WorkingSet) Ranked(limit int, suffix string) []types.FileEntry {
	return filter.Rank(ws.entries, limit, suffix)
}

// Remove drops the entry with the given path and reports whether it was
// present. Other entries are untouched.
func (ws *WorkingSet) Remove(path string) bool {
	i, found := slices.BinarySearchFunc(ws.entries, path, func(e types.FileEntry, p string) int {
		return cmp.Compare(e.Path, p)
	})
	if !found {
		return false
	}
	ws.entries = slices.Delete(ws.entries, i, i+1)
	return true
}

// Delete removes e from disk with d and, only on success, from the set.
func (ws *WorkingSet) Delete(d Deleter, e types.FileEntry) (bool, string) {
	ok, msg := d.Delete(e)
	if ok {
		ws.Remove(e.Path)
	}
	return ok, msg
}
