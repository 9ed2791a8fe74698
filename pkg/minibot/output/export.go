package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/minibot/pkg/minibot/logging"
	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

// ExportFormat returns the formatter used for a file name: "xlsx" for
// .xlsx names, "csv" otherwise.
func ExportFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return "xlsx"
	}
	return "csv"
}

// Export writes files to path as a table with the ExportHeader columns and
// returns the absolute path written. An existing file is replaced.
func Export(path string, files []types.FileEntry) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving export path: %w", err)
	}

	format := ExportFormat(abs)
	formatter, err := Get(format)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, &Report{Files: files}); err != nil {
		return "", fmt.Errorf("formatting %s export: %w", format, err)
	}

	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}

	logging.Get("output").Info("exported", "path", abs, "format", format, "files", len(files))
	return abs, nil
}
