// Package tuner sizes the scan worker pool from the machine it runs on.
package tuner

// Resources describes the detected machine.
type Resources struct {
	// CPUs is the number of logical CPUs usable by the process.
	CPUs int

	// TotalRAM is physical memory in bytes.
	TotalRAM int64

	// AvailableRAM is free memory in bytes, possibly estimated.
	AvailableRAM int64
}

const (
	// maxWorkers caps the pool; beyond this, directory listing is bound by
	// the filesystem, not by goroutines.
	maxWorkers = 64

	// lowMemory is the free-memory level below which the pool is kept small,
	// since every worker holds a directory listing in memory.
	lowMemory = 1 << 30

	lowMemoryWorkers = 4
)

// Calculate returns the worker count for a scan: one listing worker per CPU,
// capped at 64 and at 4 when free memory is under 1GiB.
func Calculate(r Resources) int {
	workers := min(max(r.CPUs, 1), maxWorkers)

	if r.AvailableRAM > 0 && r.AvailableRAM < lowMemory {
		workers = min(workers, lowMemoryWorkers)
	}

	return workers
}

// CalculateWithOverride returns override (capped at 64) when it is positive,
// otherwise Calculate(r).
func CalculateWithOverride(r Resources, override int) int {
	if override > 0 {
		return min(override, maxWorkers)
	}
	return Calculate(r)
}

// Workers detects the machine and returns the pool size, honouring
// override. Detection failures fall back to the CPU count.
func Workers(override int) int {
	r, _ := Detect()
	return CalculateWithOverride(r, override)
}
