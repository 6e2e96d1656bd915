package shared

import (
	"strconv"
	"sync/atomic"
	"unsafe"

	logger "github.com/moontrade/log"
	"github.com/moontrade/shared/alloc"
)

// control is the heap-allocated bookkeeping shared by every owner of one
// managed block: the owner count plus the deleter fixed at construction
// (block kind and reserved size). It lives off-heap like the blocks it
// guards, so freeing it genuinely returns the memory.
//
// count == number of live owning instances. Whichever owner's decrement
// observes zero frees the managed block first, then the control block;
// nothing touches either afterwards. Go's sync/atomic operations are
// sequentially consistent, which covers both the release ordering every
// decrement needs and the acquire ordering the final one needs.
type control struct {
	count int64
	kind  uint32
	_     uint32
	size  uintptr
}

const controlSize = unsafe.Sizeof(control{})

func newControl(kind alloc.Kind, size uintptr) (*control, error) {
	p, err := alloc.Raw(controlSize)
	if err != nil {
		return nil, err
	}
	c := (*control)(p)
	c.count = 1
	c.kind = uint32(kind)
	c.size = size
	Stats.BlocksLive.Incr()
	return c, nil
}

// retain adds an owner. The caller must already hold a live reference, so
// plain atomicity suffices; the count can never be observed going 0 -> 1.
func (c *control) retain() {
	if n := atomic.AddInt64(&c.count, 1); n < 2 {
		panic("shared: retain on dead control block: " + strconv.Itoa(int(n)))
	}
}

// release drops an owner. The owner observing the 1 -> 0 transition frees
// the managed block, then the control block itself.
func (c *control) release(data unsafe.Pointer) {
	n := atomic.AddInt64(&c.count, -1)
	if n > 0 {
		return
	}
	if n < 0 {
		logger.Error(ErrDoubleRelease, "owner count went negative")
		panic("shared: release count is less than 0: " + strconv.Itoa(int(n)))
	}
	alloc.FreeBlock(data, c.size, alloc.Kind(c.kind))
	alloc.FreeRaw(unsafe.Pointer(c), controlSize)
	Stats.ObjectsFreed.Incr()
	Stats.BlocksLive.Decr()
}

func (c *control) useCount() int64 {
	return atomic.LoadInt64(&c.count)
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
