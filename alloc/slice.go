package alloc

import (
	"unsafe"

	"github.com/moontrade/shared/config"
	"github.com/moontrade/shared/pkg/pmath"
)

// Kind reports where a block came from, which fixes how it must be freed.
type Kind uint32

const (
	// Heap blocks come from the C heap and are freed with free(3).
	Heap Kind = iota
	// Mapped blocks are anonymous mappings and are unmapped whole.
	Mapped
)

// SliceKind reports, deterministically from the element count, whether
// MakeSlice served the block from the C heap or from an anonymous mapping.
// The rule must not change while blocks are outstanding.
func SliceKind[T any](n int) Kind {
	var v T
	if unsafe.Sizeof(v)*uintptr(n) >= config.MappedThreshold {
		return Mapped
	}
	return Heap
}

// SliceSize is the byte length actually reserved for n elements of T.
// Mapped blocks are rounded up to whole pages.
func SliceSize[T any](n int) uintptr {
	var v T
	size := unsafe.Sizeof(v) * uintptr(n)
	if SliceKind[T](n) == Mapped {
		return pmath.CeilToPageSize(size, config.PageSize)
	}
	return size
}

// MakeSlice allocates a zeroed block of n elements of T and returns a
// pointer to the first. T must not contain Go pointers.
func MakeSlice[T any](n int) (*T, error) {
	checkLayout[T]()
	if n <= 0 {
		return nil, nil
	}
	if SliceKind[T](n) == Mapped {
		p, err := mapAnon(SliceSize[T](n))
		if err != nil {
			return nil, err
		}
		return (*T)(p), nil
	}
	p, err := Raw(SliceSize[T](n))
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

// FreeSlice returns a block obtained from MakeSlice, using the same
// dispatch rule that allocated it.
func FreeSlice[T any](data *T, n int) {
	if data == nil || n <= 0 {
		return
	}
	FreeBlock(unsafe.Pointer(data), SliceSize[T](n), SliceKind[T](n))
}

// FreeBlock frees a block by the Kind that allocated it.
func FreeBlock(p unsafe.Pointer, size uintptr, kind Kind) {
	if p == nil {
		return
	}
	switch kind {
	case Mapped:
		unmapAnon(p, size)
	default:
		FreeRaw(p, size)
	}
}
