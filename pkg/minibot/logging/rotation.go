package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// rotatedStamp is the layout inserted between a log file's stem and extension.
const rotatedStamp = "20060102-150405"

// RotationConfig configures log file rotation behavior.
type RotationConfig struct {
	// MaxSize is the size in bytes that triggers rotation. Zero uses 10MB.
	MaxSize int64

	// MaxAge is the number of days rotated files are kept. Zero keeps them.
	MaxAge int

	// MaxBackups is the number of rotated files kept. Zero keeps all.
	MaxBackups int

	// Daily also rotates when the calendar day changes.
	Daily bool
}

// DefaultRotationConfig returns the rotation used when nothing is configured.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSize:    10 << 20,
		MaxAge:     30,
		MaxBackups: 5,
		Daily:      true,
	}
}

// RotatingWriter is an io.WriteCloser that rotates its file by size and day.
// Writes are serialised in-process by a mutex and across processes by flock.
type RotatingWriter struct {
	mu      sync.Mutex
	path    string
	cfg     RotationConfig
	file    *os.File
	size    int64
	opened  time.Time
	nowFunc func() time.Time
}

// NewRotatingWriter opens path for appending, creating parent directories.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultRotationConfig().MaxSize
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	w := &RotatingWriter{path: path, cfg: cfg, nowFunc: time.Now}
	if err := w.open(); err != nil {
		return nil, err
	}
	w.prune()

	return w, nil
}

// Path returns the active log file path.
func (w *RotatingWriter) Path() string {
	return w.path
}

// Write appends p, rotating first when p would overflow the file or the day changed.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, os.ErrClosed
	}

	if w.needsRotation(int64(len(p))) {
		if err := w.rotate(); err != nil {
			return 0, fmt.Errorf("rotating log file: %w", err)
		}
	}

	fd := int(w.file.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX); err != nil {
		return 0, fmt.Errorf("acquiring file lock: %w", err)
	}
	defer func() { _ = unix.Flock(fd, unix.LOCK_UN) }()

	n, err := w.file.Write(p)
	w.size += int64(n)
	if err != nil {
		return n, fmt.Errorf("writing to log file: %w", err)
	}

	return n, nil
}

// Close syncs and closes the file. Closing twice is a no-op.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}

	syncErr := w.file.Sync()
	closeErr := w.file.Close()
	w.file = nil

	if syncErr != nil {
		return fmt.Errorf("syncing log file: %w", syncErr)
	}
	return closeErr
}

func (w *RotatingWriter) open() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}

	w.file = f
	w.size = info.Size()
	w.opened = info.ModTime()
	if w.size == 0 {
		w.opened = w.nowFunc()
	}

	return nil
}

func (w *RotatingWriter) needsRotation(n int64) bool {
	if w.size > 0 && w.size+n > w.cfg.MaxSize {
		return true
	}
	if !w.cfg.Daily {
		return false
	}

	now := w.nowFunc()
	y1, m1, d1 := now.Date()
	y2, m2, d2 := w.opened.Date()
	return y1 != y2 || m1 != m2 || d1 != d2
}

func (w *RotatingWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("closing current file: %w", err)
	}
	w.file = nil

	stem, ext := splitExt(w.path)
	target := fmt.Sprintf("%s.%s%s", stem, w.nowFunc().Format(rotatedStamp), ext)
	// Several rotations within one second must not overwrite each other.
	for i := 1; fileExists(target); i++ {
		target = fmt.Sprintf("%s.%s-%d%s", stem, w.nowFunc().Format(rotatedStamp), i, ext)
	}

	if err := os.Rename(w.path, target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("renaming log file: %w", err)
	}

	if err := w.open(); err != nil {
		return err
	}
	w.opened = w.nowFunc()
	w.prune()

	return nil
}

// backups lists rotated siblings of the active file, newest first.
func (w *RotatingWriter) backups() []os.FileInfo {
	dir := filepath.Dir(w.path)
	stem, ext := splitExt(filepath.Base(w.path))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var out []os.FileInfo
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == filepath.Base(w.path) {
			continue
		}
		if !strings.HasPrefix(name, stem+".") || !strings.HasSuffix(name, ext) {
			continue
		}
		if info, err := e.Info(); err == nil {
			out = append(out, info)
		}
	}

	slices.SortFunc(out, func(a, b os.FileInfo) int {
		return b.ModTime().Compare(a.ModTime())
	})
	return out
}

// prune deletes rotated files beyond MaxBackups or older than MaxAge.
func (w *RotatingWriter) prune() {
	cutoff := time.Time{}
	if w.cfg.MaxAge > 0 {
		cutoff = w.nowFunc().AddDate(0, 0, -w.cfg.MaxAge)
	}

	dir := filepath.Dir(w.path)
	for i, info := range w.backups() {
		overCount := w.cfg.MaxBackups > 0 && i >= w.cfg.MaxBackups
		tooOld := !cutoff.IsZero() && info.ModTime().Before(cutoff)
		if overCount || tooOld {
			_ = os.Remove(filepath.Join(dir, info.Name()))
		}
	}
}

func splitExt(path string) (string, string) {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext), ext
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
