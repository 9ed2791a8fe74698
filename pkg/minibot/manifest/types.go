// Package manifest keeps a history of deletions made from minibot sessions,
// one JSON file per batch.
package manifest

import "time"

// Entry records the files deleted from one scan.
type Entry struct {
	ID        string       `json:"id" yaml:"id"`
	Timestamp time.Time    `json:"timestamp" yaml:"timestamp"`
	Root      string       `json:"root" yaml:"root"`
	Files     []FileRecord `json:"files" yaml:"files"`
	Summary   Summary      `json:"summary" yaml:"summary"`
}

// FileRecord is one deleted file.
type FileRecord struct {
	Path      string    `json:"path" yaml:"path"`
	Size      int64     `json:"size" yaml:"size"`
	Trashed   bool      `json:"trashed,omitempty" yaml:"trashed,omitempty"`
	DeletedAt time.Time `json:"deleted_at" yaml:"deleted_at"`
}

// Summary totals an entry.
type Summary struct {
	TotalFiles int64 `json:"total_files" yaml:"total_files"`
	TotalBytes int64 `json:"total_bytes" yaml:"total_bytes"`
}
