// Package output renders ranked scan results: a styled terminal report, a
// few machine-readable formats, and the CSV/XLSX export written from the
// interactive session.
//
//	formatter, err := output.Get("csv")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, report); err != nil {
//	    return err
//	}
package output

import (
	"bytes"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

// Stats summarises the scan behind a report.
type Stats struct {
	DirsScanned int64         `json:"dirs_scanned" yaml:"dirs_scanned"`
	DirsTotal   int64         `json:"dirs_total" yaml:"dirs_total"`
	FilesFound  int           `json:"files_found" yaml:"files_found"`
	TotalSize   int64         `json:"total_size" yaml:"total_size"`
	Skipped     int64         `json:"skipped" yaml:"skipped"`
	Elapsed     time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Report is what formatters render: the ranked files plus scan context.
type Report struct {
	Root      string            `json:"root" yaml:"root"`
	Files     []types.FileEntry `json:"files" yaml:"files"`
	Suffix    string            `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Stats     Stats             `json:"stats" yaml:"stats"`
	Cancelled bool              `json:"cancelled" yaml:"cancelled"`
	Warnings  []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewReport builds a report for ranked, taken from result.
func NewReport(result *types.ScanResult, ranked []types.FileEntry) *Report {
	r := &Report{Files: ranked}
	if result == nil {
		return r
	}

	r.Root = result.Root
	r.Cancelled = result.Cancelled
	r.Stats = Stats{
		DirsScanned: result.DirsScanned,
		DirsTotal:   result.DirsTotal,
		FilesFound:  len(result.Entries),
		TotalSize:   result.TotalSize(),
		Skipped:     result.Skipped,
		Elapsed:     result.Elapsed,
	}
	for _, e := range result.Errors {
		r.Warnings = append(r.Warnings, e.Error())
	}
	return r
}

// ListedSize returns the total size of the files in the report.
func (r *Report) ListedSize() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	return total
}

// Formatter renders a report.
type Formatter interface {
	Format(w *bytes.Buffer, r *Report) error
}

// FormatterFactory creates a Formatter.
type FormatterFactory func() Formatter

// Registry maps formatter names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]FormatterFactory)}
}

// Register adds or replaces a formatter.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns the registered names, sorted.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultRegistry holds the built-in formatters.
var DefaultRegistry = NewRegistry()

// Register adds a formatter to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a formatter from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available lists the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
