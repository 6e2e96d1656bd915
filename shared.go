// Package shared implements thread-safe shared ownership of off-heap memory.
//
// A Ptr[T] (or Slice[T] for arrays) is one owning handle on a manually
// allocated block. Any number of handles may own the same block from any
// number of goroutines; the block is freed exactly once, by whichever
// handle drops the last reference. All coordination between handles goes
// through a single atomic counter in a control block allocated alongside
// the first handle. No locks, no blocking.
//
// The contract mirrors raw pointers where it can:
//
//   - Handles that share a control block may be cloned, moved, released and
//     reset concurrently with no external synchronization.
//   - One handle mutated from two goroutines at once is a data race, exactly
//     as any other Go value would be. Only the counter is atomic.
//   - Access to the pointee is never synchronized here. The package
//     guarantees the block stays alive while any handle owns it; what the
//     caller does inside it is the caller's discipline.
//
// Ownership is only ever taken by name — Adopt, AdoptSlice, New, MakeSlice,
// ResetTo. There is deliberately no way to wrap a raw pointer in passing;
// two independent adoptions of the same pointer are a double free waiting
// to happen and must be visible at the call site.
package shared

import (
	"errors"
	"unsafe"

	"github.com/moontrade/shared/alloc"
	"github.com/moontrade/shared/pkg/counter"
)

var (
	// ErrDoubleRelease reports an owner count that went negative.
	ErrDoubleRelease = errors.New("shared: double release")
)

// Stats counts package activity. ObjectsFreed moves exactly once per
// managed block ever adopted; tests lean on it as destruction
// instrumentation. Diagnostic only, like every snapshot of a live counter.
var Stats struct {
	Adopts       counter.Counter
	Clones       counter.Counter
	Moves        counter.Counter
	Releases     counter.Counter
	ObjectsFreed counter.Counter
	BlocksLive   counter.Counter
}

// Ptr is one owning handle on a single off-heap T. The zero value is the
// null handle and owns nothing. Copying the struct directly would duplicate
// ownership without counting it; go vet flags such copies, use Clone.
type Ptr[T any] struct {
	_    noCopy
	obj  *T
	ctrl *control
}

// New allocates a T off-heap, copies v into it and returns the sole owning
// handle. T must not contain Go pointers.
func New[T any](v T) (Ptr[T], error) {
	obj, err := alloc.New[T]()
	if err != nil {
		return Ptr[T]{}, err
	}
	*obj = v
	return Adopt(obj)
}

// Adopt takes ownership of a scalar previously obtained from alloc.New.
// The caller must hold no other owning reference to obj. Adopt(nil) is the
// null handle and does not allocate. If the control block cannot be
// allocated, obj is freed before the error returns; ownership is never
// silently dropped.
func Adopt[T any](obj *T) (Ptr[T], error) {
	if obj == nil {
		return Ptr[T]{}, nil
	}
	ctrl, err := newControl(alloc.Heap, unsafe.Sizeof(*obj))
	if err != nil {
		alloc.Free(obj)
		return Ptr[T]{}, err
	}
	Stats.Adopts.Incr()
	return Ptr[T]{obj: obj, ctrl: ctrl}, nil
}

// Clone returns a new handle owning the same block. Cloning the null
// handle yields the null handle.
func (p *Ptr[T]) Clone() Ptr[T] {
	if p.ctrl == nil {
		return Ptr[T]{}
	}
	p.ctrl.retain()
	Stats.Clones.Incr()
	return Ptr[T]{obj: p.obj, ctrl: p.ctrl}
}

// CopyFrom makes p own whatever src owns, releasing p's previous block
// first. CopyFrom of a handle onto itself is a no-op.
func (p *Ptr[T]) CopyFrom(src *Ptr[T]) {
	if p == src {
		return
	}
	p.Release()
	if src.ctrl != nil {
		src.ctrl.retain()
		Stats.Clones.Incr()
	}
	p.obj, p.ctrl = src.obj, src.ctrl
}

// Move transfers ownership out of p into the returned handle, leaving p
// null. The owner count is untouched; one reference moved. Cannot fail.
func (p *Ptr[T]) Move() Ptr[T] {
	obj, ctrl := p.obj, p.ctrl
	p.obj, p.ctrl = nil, nil
	if ctrl != nil {
		Stats.Moves.Incr()
	}
	return Ptr[T]{obj: obj, ctrl: ctrl}
}

// MoveFrom releases p's block and steals src's, leaving src null.
// MoveFrom of a handle onto itself is a no-op. Cannot fail.
func (p *Ptr[T]) MoveFrom(src *Ptr[T]) {
	if p == src {
		return
	}
	p.Release()
	p.obj, p.ctrl = src.obj, src.ctrl
	src.obj, src.ctrl = nil, nil
	if p.ctrl != nil {
		Stats.Moves.Incr()
	}
}

// Release drops p's reference and nulls p. The last owner frees the block.
// Release of the null handle is a no-op. Safe to call more than once on
// the same handle, since the handle is null after the first call.
func (p *Ptr[T]) Release() {
	if p.ctrl == nil {
		return
	}
	ctrl, obj := p.ctrl, p.obj
	p.obj, p.ctrl = nil, nil
	Stats.Releases.Incr()
	ctrl.release(unsafe.Pointer(obj))
}

// Reset drops p's reference, leaving p null.
func (p *Ptr[T]) Reset() {
	p.Release()
}

// ResetTo releases the current block and adopts obj exactly as Adopt
// would, fresh control block included. On allocation failure obj is freed
// and p is left null.
func (p *Ptr[T]) ResetTo(obj *T) error {
	p.Release()
	next, err := Adopt(obj)
	if err != nil {
		return err
	}
	p.obj, p.ctrl = next.obj, next.ctrl
	return nil
}

// Get returns the raw pointer, or nil for the null handle. No side effects.
func (p *Ptr[T]) Get() *T {
	return p.obj
}

// Value dereferences the handle. Dereferencing the null handle faults the
// same way a nil pointer does; callers guard with IsNil or Get.
func (p *Ptr[T]) Value() T {
	return *p.obj
}

// Set stores v into the managed block. Same precondition as Value.
func (p *Ptr[T]) Set(v T) {
	*p.obj = v
}

// UseCount returns the current owner count, 0 for the null handle. It is a
// snapshot: in a concurrent program the true count may change before the
// caller looks at it, so it must never gate a correctness decision.
func (p *Ptr[T]) UseCount() int64 {
	if p.ctrl == nil {
		return 0
	}
	return p.ctrl.useCount()
}

// IsNil reports whether p owns nothing.
func (p *Ptr[T]) IsNil() bool {
	return p.ctrl == nil
}
