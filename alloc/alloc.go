// Package alloc provides zeroed, manually managed memory from outside the
// Go heap: scalars and small slices from the C heap, large slices from
// anonymous mappings. The garbage collector never sees these blocks, so
// every allocation must be paired with the matching free.
package alloc

import (
	"errors"
	"unsafe"

	"github.com/moontrade/shared/pkg/counter"
	"github.com/moontrade/shared/pkg/util"
	"github.com/moontrade/unsafe/memory"
)

var (
	ErrOutOfMemory = errors.New("alloc: out of memory")
)

// Stats counts allocator activity. Frees is the destruction instrumentation:
// it moves exactly once per block ever allocated.
var Stats struct {
	Allocs      counter.Counter
	Frees       counter.Counter
	Maps        counter.Counter
	Unmaps      counter.Counter
	ActiveBytes counter.Counter
}

// Raw allocates size zeroed bytes from the C heap.
func Raw(size uintptr) (p unsafe.Pointer, err error) {
	if size == 0 {
		return nil, nil
	}
	defer func() {
		if e := recover(); e != nil {
			p, err = nil, util.PanicToError(e)
		}
	}()
	ptr := memory.Alloc(size)
	if ptr == 0 {
		return nil, ErrOutOfMemory
	}
	p = unsafe.Pointer(uintptr(ptr))
	zero(p, size)
	Stats.Allocs.Incr()
	Stats.ActiveBytes.Add(int64(size))
	return p, nil
}

// FreeRaw returns a block obtained from Raw to the C heap.
func FreeRaw(p unsafe.Pointer, size uintptr) {
	if p == nil {
		return
	}
	memory.Free(memory.Pointer(p))
	Stats.Frees.Incr()
	Stats.ActiveBytes.Sub(int64(size))
}

// New allocates a single zeroed T from the C heap. T must not contain
// Go pointers.
func New[T any]() (*T, error) {
	checkLayout[T]()
	p, err := Raw(unsafe.Sizeof(*new(T)))
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

// Free returns a scalar obtained from New.
func Free[T any](obj *T) {
	if obj == nil {
		return
	}
	FreeRaw(unsafe.Pointer(obj), unsafe.Sizeof(*obj))
}

func zero(p unsafe.Pointer, size uintptr) {
	b := unsafe.Slice((*byte)(p), size)
	for i := range b {
		b[i] = 0
	}
}
