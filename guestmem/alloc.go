package guestmem

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/asakhar/cutils"
	"github.com/asakhar/cutils/errors"
)

// Allocator export names, most specific first.
const (
	CabiRealloc = "cabi_realloc"
	CabiFree    = "cabi_free"

	legacyRealloc = "canonical_abi_realloc"
	legacyFree    = "canonical_abi_free"
	simpleAlloc   = "alloc"
	simpleFree    = "free"
)

// Allocation records one block handed to the guest.
type Allocation struct {
	Ptr   uint32
	Size  uint32
	Align uint32
}

// AllocationList tracks guest allocations made while lowering strings.
type AllocationList struct {
	allocations []Allocation
}

var allocationListPool = sync.Pool{
	New: func() any {
		return &AllocationList{allocations: make([]Allocation, 0, 8)}
	},
}

// NewAllocationList returns an empty list from the pool.
func NewAllocationList() *AllocationList {
	return allocationListPool.Get().(*AllocationList)
}

const maxPooledAllocationCapacity = 128

// Release returns to pool. Must call after Free(); list invalid after Release.
func (al *AllocationList) Release() {
	// Only pool small lists to prevent memory bloat
	if cap(al.allocations) > maxPooledAllocationCapacity {
		return
	}
	al.Reset()
	allocationListPool.Put(al)
}

// FreeAndRelease frees every recorded block and returns the list to the pool.
func (al *AllocationList) FreeAndRelease(allocator cutils.Allocator) {
	al.Free(allocator)
	al.Release()
}

// Add records a block.
func (al *AllocationList) Add(ptr, size, align uint32) {
	al.allocations = append(al.allocations, Allocation{
		Ptr:   ptr,
		Size:  size,
		Align: align,
	})
}

// Free frees recorded blocks in reverse order, which lets a Bump allocator
// rewind completely.
func (al *AllocationList) Free(allocator cutils.Allocator) {
	if allocator == nil {
		return
	}
	for i := len(al.allocations) - 1; i >= 0; i-- {
		if a := al.allocations[i]; a.Ptr != 0 {
			allocator.Free(a.Ptr, a.Size, a.Align)
		}
	}
}

// Reset forgets every recorded block without freeing it.
func (al *AllocationList) Reset() {
	al.allocations = al.allocations[:0]
}

// Count returns the number of recorded blocks.
func (al *AllocationList) Count() int {
	return len(al.allocations)
}

// GuestAllocator allocates through functions exported by a guest module.
// Calls are serialized because the module's stack buffer is shared.
type GuestAllocator struct {
	ctx           context.Context
	allocFn       api.Function
	freeFn        api.Function
	stackBuf      [4]uint64
	mu            sync.Mutex
	isSimpleAlloc bool
}

var _ cutils.Allocator = (*GuestAllocator)(nil)

// NewGuestAllocator looks up the allocator exported by mod. Realloc-style
// exports take (old_ptr, old_size, align, new_size); a plain alloc export
// takes only the size. It fails when mod exports no allocator. Free exports
// are optional: without one, Free does nothing.
func NewGuestAllocator(ctx context.Context, mod api.Module) (*GuestAllocator, error) {
	var allocFn api.Function
	for _, name := range []string{CabiRealloc, legacyRealloc, simpleAlloc} {
		if allocFn = mod.ExportedFunction(name); allocFn != nil {
			break
		}
	}
	if allocFn == nil {
		return nil, errors.InvalidInput(errors.PhaseMemory, "module exports no allocator")
	}

	a := &GuestAllocator{
		ctx:           ctx,
		allocFn:       allocFn,
		isSimpleAlloc: len(allocFn.Definition().ParamTypes()) < 4,
	}
	for _, name := range []string{CabiFree, legacyFree, simpleFree} {
		if a.freeFn = mod.ExportedFunction(name); a.freeFn != nil {
			break
		}
	}
	return a, nil
}

// Alloc calls the guest allocator.
func (a *GuestAllocator) Alloc(size, align uint32) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var err error
	if a.isSimpleAlloc {
		a.stackBuf[0] = uint64(size)
		err = a.allocFn.CallWithStack(a.ctx, a.stackBuf[:1])
	} else {
		a.stackBuf[0] = 0
		a.stackBuf[1] = 0
		a.stackBuf[2] = uint64(align)
		a.stackBuf[3] = uint64(size)
		err = a.allocFn.CallWithStack(a.ctx, a.stackBuf[:4])
	}
	if err != nil {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align, err)
	}
	ptr := uint32(a.stackBuf[0])
	if ptr == 0 && size > 0 {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align, nil)
	}
	return ptr, nil
}

// Free calls the guest's free export, if it has one.
func (a *GuestAllocator) Free(ptr, size, align uint32) {
	if a.freeFn == nil || ptr == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stackBuf[0] = uint64(ptr)
	a.stackBuf[1] = uint64(size)
	a.stackBuf[2] = uint64(align)
	params := len(a.freeFn.Definition().ParamTypes())
	if err := a.freeFn.CallWithStack(a.ctx, a.stackBuf[:max(params, 1)]); err != nil {
		logger().Warn("free: guest call failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

// Bump hands out memory from a fixed region of guest memory, for modules
// that export no allocator. Freeing the most recent block rewinds the
// region; other frees are ignored until Reset.
type Bump struct {
	mu    sync.Mutex
	base  uint32
	next  uint32
	limit uint32
}

var _ cutils.Allocator = (*Bump)(nil)

// NewBump serves allocations from [base, limit). base must not be zero,
// since a zero pointer means failure to guest code.
func NewBump(base, limit uint32) *Bump {
	if base == 0 {
		base = 8
	}
	return &Bump{base: base, next: base, limit: limit}
}

// Alloc reserves size bytes aligned to align, which must be a power of two.
func (b *Bump) Alloc(size, align uint32) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if align == 0 {
		align = 1
	}
	ptr := (uint64(b.next) + uint64(align) - 1) &^ (uint64(align) - 1)
	end := ptr + uint64(size)
	if end > uint64(b.limit) {
		logger().Debug("bump allocator exhausted",
			zap.Uint32("size", size),
			zap.Uint32("free", b.limit-b.next))
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align, nil)
	}
	b.next = uint32(end)
	return uint32(ptr), nil
}

// Free rewinds the region when ptr is the most recent block.
func (b *Bump) Free(ptr, size, _ uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ptr+size == b.next {
		b.next = ptr
	}
}

// Used returns the number of bytes between base and the next free byte.
func (b *Bump) Used() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.next - b.base
}

// Reset frees everything.
func (b *Bump) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next = b.base
}
