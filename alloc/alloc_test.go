package alloc

import (
	"testing"
	"unsafe"

	"github.com/moontrade/shared/config"
)

func TestRawZeroed(t *testing.T) {
	p, err := Raw(1024)
	if err != nil {
		t.Fatal(err)
	}
	b := unsafe.Slice((*byte)(p), 1024)
	for i := range b {
		if b[i] != 0 {
			t.Fatal("byte", i, "not zeroed")
		}
		b[i] = 0xAA
	}
	FreeRaw(p, 1024)
}

func TestRawZeroSize(t *testing.T) {
	p, err := Raw(0)
	if err != nil {
		t.Fatal(err)
	}
	if p != nil {
		t.Fatal("zero-size allocation must be nil")
	}
}

func TestNewFree(t *testing.T) {
	type header struct {
		Seq   uint64
		Flags uint32
		Crc   uint32
	}
	allocs, frees := Stats.Allocs.Load(), Stats.Frees.Load()

	h, err := New[header]()
	if err != nil {
		t.Fatal(err)
	}
	if h.Seq != 0 || h.Flags != 0 || h.Crc != 0 {
		t.Fatal("scalar not zeroed")
	}
	h.Seq = 42
	Free(h)

	if Stats.Allocs.Load() != allocs+1 || Stats.Frees.Load() != frees+1 {
		t.Fatal("alloc/free must each count once")
	}
}

func TestFreeNil(t *testing.T) {
	Free[int64](nil)
	FreeSlice[int64](nil, 0)
	FreeRaw(nil, 0)
}

func TestLayoutRejectsPointers(t *testing.T) {
	type bad struct {
		Name string
		Next *bad
	}
	defer func() {
		if recover() == nil {
			t.Fatal("pointerful type must be rejected")
		}
	}()
	_, _ = New[bad]()
}

func TestLayoutRejectsNestedPointers(t *testing.T) {
	type inner struct {
		B []byte
	}
	type outer struct {
		Pad [8]byte
		In  [4]inner
	}
	defer func() {
		if recover() == nil {
			t.Fatal("nested pointerful type must be rejected")
		}
	}()
	_, _ = MakeSlice[outer](8)
}

func TestSliceGeometry(t *testing.T) {
	small := 8
	if SliceKind[int64](small) != Heap {
		t.Fatal("small slice must come from the C heap")
	}
	if SliceSize[int64](small) != 64 {
		t.Fatal("heap slice size must be exact")
	}

	big := int(config.MappedThreshold) // bytes, elem size 1
	if SliceKind[byte](big) != Mapped {
		t.Fatal("big slice must be mapped")
	}
	if size := SliceSize[byte](big); size%config.PageSize != 0 || size < uintptr(big) {
		t.Fatal("mapped size must be page-rounded and cover the request, got", size)
	}
}

func TestMakeSliceRoundTrip(t *testing.T) {
	data, err := MakeSlice[uint64](1000)
	if err != nil {
		t.Fatal(err)
	}
	s := unsafe.Slice(data, 1000)
	for i := range s {
		if s[i] != 0 {
			t.Fatal("element", i, "not zeroed")
		}
		s[i] = uint64(i)
	}
	FreeSlice(data, 1000)
}

func TestMappedSliceRoundTrip(t *testing.T) {
	maps, unmaps := Stats.Maps.Load(), Stats.Unmaps.Load()

	n := int(config.MappedThreshold) + 123 // not page aligned on purpose
	data, err := MakeSlice[byte](n)
	if err != nil {
		t.Fatal(err)
	}
	if Stats.Maps.Load() != maps+1 {
		t.Fatal("allocation at threshold must map")
	}
	s := unsafe.Slice(data, n)
	s[0], s[n-1] = 1, 2

	FreeSlice(data, n)
	if Stats.Unmaps.Load() != unmaps+1 {
		t.Fatal("free must unmap")
	}
}

func TestOffHeapAllocator(t *testing.T) {
	b := OffHeap.Allocate(64)
	if len(b) != 64 {
		t.Fatal("allocate length mismatch")
	}
	for i := range b {
		if b[i] != 0 {
			t.Fatal("buffer not zeroed")
		}
	}
	copy(b, "hello")

	b = OffHeap.Reallocate(4096, b)
	if len(b) != 4096 || string(b[:5]) != "hello" {
		t.Fatal("grow must preserve contents")
	}
	for i := 64; i < 4096; i++ {
		if b[i] != 0 {
			t.Fatal("grown tail not zeroed at", i)
		}
	}

	OffHeap.Free(b)
	if got := OffHeap.Allocate(0); got != nil {
		t.Fatal("zero-size allocate must be nil")
	}
}

func BenchmarkNewFree(b *testing.B) {
	type payload struct {
		Data [64]byte
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p, err := New[payload]()
		if err != nil {
			b.Fatal(err)
		}
		Free(p)
	}
}
