package shared

import (
	"unsafe"

	"github.com/moontrade/shared/alloc"
)

// Slice is one owning handle on an off-heap array of T. Small arrays live
// on the C heap, large ones in anonymous mappings; the control block
// captures which at construction so the free always matches the
// allocation. The zero value is the null handle.
type Slice[T any] struct {
	_    noCopy
	data *T
	n    int
	ctrl *control
}

// MakeSlice allocates a zeroed off-heap array of n elements of T and
// returns the sole owning handle. T must not contain Go pointers.
// MakeSlice(0) is the null handle and does not allocate.
func MakeSlice[T any](n int) (Slice[T], error) {
	data, err := alloc.MakeSlice[T](n)
	if err != nil {
		return Slice[T]{}, err
	}
	return AdoptSlice(data, n)
}

// AdoptSlice takes ownership of an array previously obtained from
// alloc.MakeSlice with the same n. The caller must hold no other owning
// reference to data. On control-block allocation failure the array is
// freed before the error returns.
func AdoptSlice[T any](data *T, n int) (Slice[T], error) {
	if data == nil || n <= 0 {
		return Slice[T]{}, nil
	}
	ctrl, err := newControl(alloc.SliceKind[T](n), alloc.SliceSize[T](n))
	if err != nil {
		alloc.FreeSlice(data, n)
		return Slice[T]{}, err
	}
	Stats.Adopts.Incr()
	return Slice[T]{data: data, n: n, ctrl: ctrl}, nil
}

// Clone returns a new handle owning the same array.
func (s *Slice[T]) Clone() Slice[T] {
	if s.ctrl == nil {
		return Slice[T]{}
	}
	s.ctrl.retain()
	Stats.Clones.Incr()
	return Slice[T]{data: s.data, n: s.n, ctrl: s.ctrl}
}

// CopyFrom makes s own whatever src owns, releasing s's previous array
// first. Self copy is a no-op.
func (s *Slice[T]) CopyFrom(src *Slice[T]) {
	if s == src {
		return
	}
	s.Release()
	if src.ctrl != nil {
		src.ctrl.retain()
		Stats.Clones.Incr()
	}
	s.data, s.n, s.ctrl = src.data, src.n, src.ctrl
}

// Move transfers ownership out of s, leaving s null. Counter untouched.
func (s *Slice[T]) Move() Slice[T] {
	data, n, ctrl := s.data, s.n, s.ctrl
	s.data, s.n, s.ctrl = nil, 0, nil
	if ctrl != nil {
		Stats.Moves.Incr()
	}
	return Slice[T]{data: data, n: n, ctrl: ctrl}
}

// MoveFrom releases s's array and steals src's, leaving src null.
// Self move is a no-op.
func (s *Slice[T]) MoveFrom(src *Slice[T]) {
	if s == src {
		return
	}
	s.Release()
	s.data, s.n, s.ctrl = src.data, src.n, src.ctrl
	src.data, src.n, src.ctrl = nil, 0, nil
	if s.ctrl != nil {
		Stats.Moves.Incr()
	}
}

// Release drops s's reference and nulls s. The last owner frees the array.
func (s *Slice[T]) Release() {
	if s.ctrl == nil {
		return
	}
	ctrl, data := s.ctrl, s.data
	s.data, s.n, s.ctrl = nil, 0, nil
	Stats.Releases.Incr()
	ctrl.release(unsafe.Pointer(data))
}

// Reset drops s's reference, leaving s null.
func (s *Slice[T]) Reset() {
	s.Release()
}

// ResetTo releases the current array and adopts data exactly as AdoptSlice
// would. On allocation failure data is freed and s is left null.
func (s *Slice[T]) ResetTo(data *T, n int) error {
	s.Release()
	next, err := AdoptSlice(data, n)
	if err != nil {
		return err
	}
	s.data, s.n, s.ctrl = next.data, next.n, next.ctrl
	return nil
}

// Get returns the raw pointer to the first element, or nil.
func (s *Slice[T]) Get() *T {
	return s.data
}

// Len returns the element count, 0 for the null handle.
func (s *Slice[T]) Len() int {
	return s.n
}

// At returns the i'th element. Out of range panics; the null handle has
// length 0, so every index is out of range on it.
func (s *Slice[T]) At(i int) *T {
	if i < 0 || i >= s.n {
		panic("shared: slice index out of range")
	}
	return (*T)(unsafe.Add(unsafe.Pointer(s.data), uintptr(i)*unsafe.Sizeof(*s.data)))
}

// Items returns the array as a []T view. The view borrows; it does not
// own, and must not outlive the last handle.
func (s *Slice[T]) Items() []T {
	if s.data == nil {
		return nil
	}
	return unsafe.Slice(s.data, s.n)
}

// UseCount returns the current owner count, 0 for the null handle.
// Snapshot only, same contract as Ptr.UseCount.
func (s *Slice[T]) UseCount() int64 {
	if s.ctrl == nil {
		return 0
	}
	return s.ctrl.useCount()
}

// IsNil reports whether s owns nothing.
func (s *Slice[T]) IsNil() bool {
	return s.ctrl == nil
}
