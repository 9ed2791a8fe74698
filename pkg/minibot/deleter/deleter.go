// Package deleter removes files picked from a ranked scan result and keeps
// the in-memory result in step with the disk.
package deleter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jamesainslie/minibot/pkg/minibot/logging"
	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

// ErrDeleteFailed wraps every reason a file could not be removed.
var ErrDeleteFailed = errors.New("delete failed")

// Deleter removes files, optionally via the desktop trash.
type Deleter struct {
	// UseTrash moves files to the trash instead of unlinking them. When no
	// trash is available the file is removed permanently.
	UseTrash bool
}

// Remove deletes the file behind e. Only regular files are removed; a path
// that no longer exists or now names a directory fails with ErrDeleteFailed.
func (d Deleter) Remove(e types.FileEntry) error {
	log := logging.Get("deleter")

	info, err := os.Lstat(e.Path)
	if err != nil {
		log.Warn("delete failed", "path", e.Path, "error", err)
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	if !info.Mode().IsRegular() {
		log.Warn("delete refused, not a regular file", "path", e.Path, "mode", info.Mode().String())
		return fmt.Errorf("%w: %s is not a regular file", ErrDeleteFailed, e.Path)
	}

	if d.UseTrash {
		err = MoveToTrash(e.Path)
	} else {
		err = os.Remove(e.Path)
	}
	if err != nil {
		log.Warn("delete failed", "path", e.Path, "trash", d.UseTrash, "error", err)
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	log.Info("deleted", "path", e.Path, "size", e.Size, "trash", d.UseTrash)
	return nil
}

// Delete is Remove with the result rendered for the operator.
func (d Deleter) Delete(e types.FileEntry) (bool, string) {
	if err := d.Remove(e); err != nil {
		return false, Message(e, err)
	}
	return true, Message(e, nil)
}

// Message renders the outcome of deleting e.
func Message(e types.FileEntry, err error) string {
	if err != nil {
		return fmt.Sprintf("Failed to delete: %v", err)
	}
	return fmt.Sprintf("Deleted successfully: %s - %s", e.HumanSize(), filepath.Base(e.Path))
}

// Remove permanently deletes e. See Deleter.Remove.
func Remove(e types.FileEntry) error {
	return Deleter{}.Remove(e)
}

// Delete permanently deletes e and reports the outcome. It never panics and
// never exits; failures come back as (false, message).
func Delete(e types.FileEntry) (bool, string) {
	return Deleter{}.Delete(e)
}
