//go:build !linux && !darwin

package tuner

import "runtime"

// Detect reports the CPU count only; memory stays unknown (zero), which
// Calculate treats as unconstrained.
func Detect() (Resources, error) {
	return Resources{CPUs: runtime.GOMAXPROCS(0)}, nil
}
