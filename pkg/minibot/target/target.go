// Package target resolves the directory an operator asked to scan.
package target

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrPathNotFound is returned when the resolved path does not exist.
	ErrPathNotFound = errors.New("path does not exist")

	// ErrNotADirectory is returned when the resolved path is not a directory.
	ErrNotADirectory = errors.New("path is not a directory")
)

// Validate turns raw operator input into an absolute directory path.
// Empty input and "." resolve to cwd, a leading "~" expands to the home
// directory and relative paths are resolved against cwd.
func Validate(raw, cwd string) (string, error) {
	path, err := Resolve(raw, cwd)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return "", fmt.Errorf("cannot access %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, path)
	}

	return path, nil
}

// Resolve performs the path rewriting of Validate without touching the
// filesystem.
func Resolve(raw, cwd string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "." {
		raw = cwd
	}

	expanded, err := ExpandHome(raw)
	if err != nil {
		return "", err
	}

	if !filepath.IsAbs(expanded) {
		if cwd == "" {
			return filepath.Abs(expanded)
		}
		expanded = filepath.Join(cwd, expanded)
	}

	return filepath.Clean(expanded), nil
}

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
// Other paths, including "~user", are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~"+string(filepath.Separator)) && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, path[1:]), nil
}
