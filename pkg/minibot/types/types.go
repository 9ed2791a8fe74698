// Package types holds the data shared by the minibot scanner, ranking,
// deletion and output packages, plus helpers for parsing and formatting
// byte sizes.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Binary (IEC) size units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// FileEntry is one regular file found by a scan. Entries are never modified
// after the scanner produces them.
type FileEntry struct {
	// Path is the absolute path to the file.
	Path string `json:"path" yaml:"path"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`
}

// HumanSize returns the size using decimal units, e.g. "1.5 MB".
func (e FileEntry) HumanSize() string {
	return FormatSize(e.Size)
}

// ScanProgress is a point-in-time view of a running scan. Completed counts
// directories whose listing has finished; Total is the number of directories
// found by enumeration and stays zero until enumeration ends.
type ScanProgress struct {
	Completed int64 `json:"completed"`
	Total     int64 `json:"total"`
}

// Percent returns the completion percentage, or 0 when Total is unknown.
func (p ScanProgress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total) * 100
}

// ErrEntryUnreadable marks a file or directory that could not be listed or
// stat'ed during a scan. Such entries are skipped, never fatal.
var ErrEntryUnreadable = errors.New("entry unreadable")

// ScanError records an unexpected per-entry failure. Tolerated races
// (permission denied, vanished entries) are only counted, not recorded.
type ScanError struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

// Error implements the error interface.
func (e ScanError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap lets errors.Is see both ErrEntryUnreadable and the cause.
func (e ScanError) Unwrap() []error {
	return []error{ErrEntryUnreadable, e.Err}
}

// ScanResult is the outcome of one scan.
type ScanResult struct {
	// Root is the directory that was scanned.
	Root string `json:"root"`

	// Entries holds every regular file found, in no particular order.
	Entries []FileEntry `json:"entries"`

	// DirsTotal is the number of directories found by enumeration.
	DirsTotal int64 `json:"dirs_total"`

	// DirsScanned is the number of directories whose listing finished.
	DirsScanned int64 `json:"dirs_scanned"`

	// Skipped counts entries that could not be read.
	Skipped int64 `json:"skipped"`

	// Errors holds the unexpected failures among the skipped entries.
	Errors []ScanError `json:"errors,omitempty"`

	// Cancelled is true when the scan stopped before listing every directory.
	Cancelled bool `json:"cancelled"`

	// Elapsed is the wall time from start to finish.
	Elapsed time.Duration `json:"elapsed"`
}

// TotalSize returns the sum of all entry sizes.
func (r *ScanResult) TotalSize() int64 {
	var total int64
	for _, e := range r.Entries {
		total += e.Size
	}
	return total
}

// sizePattern matches "100M", "2G", "1.5GiB", "512b" and similar.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that a size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ParseSize converts a size string such as "500K" or "1.5G" into bytes.
// Unit letters are binary multiples; an optional "B" or "iB" is accepted.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: negative size %q", ErrInvalidSize, s)
	}

	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	unit := strings.ToUpper(m[2])
	unit = strings.TrimSuffix(unit, "IB")
	unit = strings.TrimSuffix(unit, "B")

	multipliers := map[string]int64{"": 1, "K": KiB, "M": MiB, "G": GiB, "T": TiB}
	mult, ok := multipliers[unit]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidSize, unit)
	}

	return int64(value * float64(mult)), nil
}

// FormatSize renders a byte count for people, e.g. FormatSize(1500) is "1.5 kB".
// Negative sizes are clamped to zero.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}
