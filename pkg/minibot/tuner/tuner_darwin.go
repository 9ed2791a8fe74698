//go:build darwin

package tuner

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Detect reads CPU count from the runtime and total memory from sysctl.
// Free memory on macOS is estimated as half the total; the page cache makes
// the kernel's own free figure misleadingly low.
func Detect() (Resources, error) {
	r := Resources{CPUs: runtime.GOMAXPROCS(0)}

	memsize, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return r, fmt.Errorf("sysctl hw.memsize: %w", err)
	}

	r.TotalRAM = int64(memsize)
	r.AvailableRAM = r.TotalRAM / 2

	return r, nil
}
