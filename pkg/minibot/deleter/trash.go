package deleter

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// trashTimeout bounds each external trash command.
const trashTimeout = 30 * time.Second

// trashCommands lists, per GOOS, the commands tried in order. Each gets the
// absolute path appended, except osascript which builds a script from it.
var trashCommands = map[string][][]string{
	"linux":  {{"gio", "trash"}, {"trash-put"}},
	"darwin": {{"osascript", "-e"}},
}

// MoveToTrash moves path to the desktop trash. When no trash tool is
// available or all of them fail, path is removed permanently.
func MoveToTrash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", path, err)
	}
	if _, err := os.Lstat(abs); err != nil {
		return fmt.Errorf("cannot trash %q: %w", abs, err)
	}

	for _, argv := range trashCommands[runtime.GOOS] {
		if runTrash(argv, abs) == nil {
			return nil
		}
	}

	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("removing %q: %w", abs, err)
	}
	return nil
}

func runTrash(argv []string, path string) error {
	bin, err := exec.LookPath(argv[0])
	if err != nil {
		return err
	}

	args := append([]string{}, argv[1:]...)
	if argv[0] == "osascript" {
		args = append(args, fmt.Sprintf(`tell application "Finder" to delete POSIX file %q`, path))
	} else {
		args = append(args, path)
	}

	ctx, cancel := context.WithTimeout(context.Background(), trashTimeout)
	defer cancel()

	if err := exec.CommandContext(ctx, bin, args...).Run(); err != nil {
		return err
	}
	// Some tools exit zero without moving anything.
	if _, err := os.Lstat(path); err == nil {
		return fmt.Errorf("%s left %s in place", argv[0], path)
	}
	return nil
}
