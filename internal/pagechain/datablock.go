package pagechain

import "go.uber.org/atomic"

// ───────────────────────────────────────────────────────────────────────────
// DataBlock
// ───────────────────────────────────────────────────────────────────────────
//
// A DataBlock wraps one contiguous byte region. The region is fixed at
// construction and only cleared by the Put that destroys the block; useCount
// is the only field mutated while the block is live, and it is mutated
// atomically because one goroutine may Put a block (dropping the buffer that
// owned a page referencing it) while another still holds a reference taken
// via TransferPage/write_buffer. See spec.md §5.

// Responsibility records whether a DataBlock's region must be freed on
// destruction (owned) or was supplied externally and is never freed by the
// block (referenced).
type Responsibility int

const (
	// Owned means the block frees its region at destruction.
	Owned Responsibility = iota
	// Referenced means the region is externally owned; destruction frees
	// only the DataBlock descriptor.
	Referenced
)

// DataBlock is a reference-counted descriptor for a single contiguous byte
// region, created with useCount 1 and destroyed by the Put call that drops
// the count to zero.
type DataBlock struct {
	region         []byte
	responsibility Responsibility
	useCount       atomic.Int64
	allocator      Allocator
}

// NewOwned wraps an already-allocated region that the block will Free at
// destruction via allocator.
func NewOwned(region []byte, allocator Allocator) *DataBlock {
	b := &DataBlock{region: region, responsibility: Owned, allocator: allocator}
	b.useCount.Store(1)
	return b
}

// NewReferenced wraps an externally owned region; destruction never frees
// region, only the descriptor.
func NewReferenced(region []byte, allocator Allocator) *DataBlock {
	b := &DataBlock{region: region, responsibility: Referenced, allocator: allocator}
	b.useCount.Store(1)
	return b
}

// Base returns the block's region starting at its first byte; it is the same
// slice as Region (empty for an empty region).
func (b *DataBlock) Base() []byte { return b.region }

// Len returns the size of the block's region in bytes.
func (b *DataBlock) Len() int { return len(b.region) }

// Region returns the backing byte slice directly; callers must respect the
// window invariants of whatever Page(s) reference this block.
func (b *DataBlock) Region() []byte { return b.region }

// IsOwned reports whether the block frees its region at destruction.
func (b *DataBlock) IsOwned() bool { return b.responsibility == Owned }

// UseCount returns the current reference count, for tests and introspection.
func (b *DataBlock) UseCount() int64 { return b.useCount.Load() }

// Get atomically increments the use count, returning the same block for
// chaining.
func (b *DataBlock) Get() *DataBlock {
	b.useCount.Inc()
	return b
}

// Put atomically decrements the use count. If the pre-decrement value was 1
// the block is destroyed: the region is freed iff Owned, then the
// descriptor itself is scrubbed. Put must be called exactly once per Get
// (including the implicit Get performed by the block's own constructor).
func (b *DataBlock) Put() {
	if b.useCount.Dec() == 0 {
		if b.responsibility == Owned && b.allocator != nil {
			b.allocator.Free(b.region)
		}
		b.region = nil
	}
}
