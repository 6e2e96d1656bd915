//go:build darwin || dragonfly || freebsd || linux || openbsd || solaris || netbsd
// +build darwin dragonfly freebsd linux openbsd solaris netbsd

package alloc

import (
	"unsafe"

	logger "github.com/moontrade/log"
	"golang.org/x/sys/unix"
)

// mapAnon reserves size bytes of zeroed, page-aligned memory from the kernel.
// size must already be page-rounded.
func mapAnon(size uintptr) (unsafe.Pointer, error) {
	b, err := unix.Mmap(-1, 0, int(size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		logger.Warn(err, "anonymous mmap failed")
		return nil, err
	}
	Stats.Maps.Incr()
	Stats.ActiveBytes.Add(int64(size))
	return unsafe.Pointer(&b[0]), nil
}

func unmapAnon(p unsafe.Pointer, size uintptr) {
	if err := unix.Munmap(unsafe.Slice((*byte)(p), size)); err != nil {
		logger.Error(err, "munmap failed")
		return
	}
	Stats.Unmaps.Incr()
	Stats.ActiveBytes.Sub(int64(size))
}
