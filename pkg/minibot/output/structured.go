package output

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// document is the shape shared by the JSON and YAML formatters.
type document struct {
	Root      string    `json:"root" yaml:"root"`
	Suffix    string    `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Files     []docFile `json:"files" yaml:"files"`
	Stats     docStats  `json:"stats" yaml:"stats"`
	Cancelled bool      `json:"cancelled" yaml:"cancelled"`
	Warnings  []string  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type docFile struct {
	Rank      int    `json:"rank" yaml:"rank"`
	Path      string `json:"path" yaml:"path"`
	Size      int64  `json:"size" yaml:"size"`
	SizeHuman string `json:"size_human" yaml:"size_human"`
}

type docStats struct {
	DirsScanned int64  `json:"dirs_scanned" yaml:"dirs_scanned"`
	DirsTotal   int64  `json:"dirs_total" yaml:"dirs_total"`
	FilesFound  int    `json:"files_found" yaml:"files_found"`
	TotalSize   int64  `json:"total_size" yaml:"total_size"`
	ListedSize  int64  `json:"listed_size" yaml:"listed_size"`
	Skipped     int64  `json:"skipped" yaml:"skipped"`
	Elapsed     string `json:"elapsed" yaml:"elapsed"`
}

func newDocument(r *Report) document {
	d := document{
		Root:      r.Root,
		Suffix:    r.Suffix,
		Files:     make([]docFile, len(r.Files)),
		Cancelled: r.Cancelled,
		Warnings:  r.Warnings,
		Stats: docStats{
			DirsScanned: r.Stats.DirsScanned,
			DirsTotal:   r.Stats.DirsTotal,
			FilesFound:  r.Stats.FilesFound,
			TotalSize:   r.Stats.TotalSize,
			ListedSize:  r.ListedSize(),
			Skipped:     r.Stats.Skipped,
			Elapsed:     r.Stats.Elapsed.String(),
		},
	}
	for i, f := range r.Files {
		d.Files[i] = docFile{Rank: i + 1, Path: f.Path, Size: f.Size, SizeHuman: f.HumanSize()}
	}
	return d
}

// JSONFormatter writes the report as one indented JSON document.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newDocument(r))
}

// YAMLFormatter writes the report as a YAML document.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(r)); err != nil {
		return err
	}
	return enc.Close()
}

func init() {
	Register("json", func() Formatter { return &JSONFormatter{} })
	Register("yaml", func() Formatter { return &YAMLFormatter{} })
}

var (
	_ Formatter = (*JSONFormatter)(nil)
	_ Formatter = (*YAMLFormatter)(nil)
)
