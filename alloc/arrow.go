package alloc

import (
	"unsafe"

	arrowmem "github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/moontrade/unsafe/memory"
)

// OffHeap is a []byte allocator over the C heap, compatible with Arrow's
// allocator contract. Buffers it hands out are never seen by the collector.
var OffHeap offHeap

var _ arrowmem.Allocator = OffHeap

type offHeap struct{}

func (offHeap) Allocate(size int) []byte {
	if size < 1 {
		return nil
	}
	p, err := Raw(uintptr(size))
	if err != nil {
		panic(err)
	}
	return unsafe.Slice((*byte)(p), size)
}

func (offHeap) Reallocate(size int, b []byte) []byte {
	if len(b) < 1 {
		return OffHeap.Allocate(size)
	}
	if size < 1 {
		OffHeap.Free(b)
		return nil
	}
	newAlloc := memory.Realloc(memory.Pointer(unsafe.Pointer(&b[0])), uintptr(size))
	if newAlloc == 0 {
		panic(ErrOutOfMemory)
	}
	Stats.ActiveBytes.Add(int64(size - len(b)))
	next := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(newAlloc))), size)
	for i := len(b); i < size; i++ {
		next[i] = 0
	}
	return next
}

func (offHeap) Free(b []byte) {
	if cap(b) == 0 {
		return
	}
	FreeRaw(unsafe.Pointer(&b[0]), uintptr(len(b)))
}
