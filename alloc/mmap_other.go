//go:build !(darwin || dragonfly || freebsd || linux || openbsd || solaris || netbsd)
// +build !darwin,!dragonfly,!freebsd,!linux,!openbsd,!solaris,!netbsd

package alloc

import (
	"unsafe"
)

// No anonymous mappings here; large blocks fall back to the C heap.
// Kind still reports Mapped so frees stay symmetric with allocation.

func mapAnon(size uintptr) (unsafe.Pointer, error) {
	p, err := Raw(size)
	if err != nil {
		return nil, err
	}
	Stats.Maps.Incr()
	return p, nil
}

func unmapAnon(p unsafe.Pointer, size uintptr) {
	FreeRaw(p, size)
	Stats.Unmaps.Incr()
}
