package config

import "os"

var (
	// MappedThreshold is the slice allocation size, in bytes, at or above
	// which blocks come from an anonymous mapping instead of the C heap.
	MappedThreshold = uintptr(1 << 20)

	// PageSize is the system page size mapped allocations are rounded to.
	PageSize = uintptr(os.Getpagesize())
)
