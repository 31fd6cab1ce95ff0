// Package pagechain implements the page-chained byte buffer: a reference
// counted data block, a windowed page linked into a doubly linked chain with
// a sentinel, and the buffer operations (insert, extend, seek, trim, rewind,
// write, read, overwrite) that make the chain useful for zero-copy staging
// of bytes between producers and consumers.
package pagechain

// ───────────────────────────────────────────────────────────────────────────
// Allocator
// ───────────────────────────────────────────────────────────────────────────
//
// Allocator is a region alloc/free interface so specialized allocators
// (notably the mmap-backed one in internal/mmapbuf) can intercept backing
// storage without the rest of the package knowing the difference. It only
// ever allocates data-block regions: Page and DataBlock themselves are
// plain Go struct values, heap-allocated and reclaimed by the garbage
// collector like any other Go type, so there is no corresponding "struct
// kind" to route through an allocator — a zero-on-free guarantee would have
// nothing to attach to, since Go gives no hook to run code when a value
// becomes unreachable.

// Allocator allocates and frees the byte regions backing data blocks. The
// trivial heap-based allocator below is the default; the mmap allocator
// (internal/mmapbuf) implements the same interface over file-backed mmap
// windows instead of anonymous memory.
type Allocator interface {
	// Alloc returns size bytes, or nil if allocation failed.
	Alloc(size int) []byte
	// Free releases a region previously returned by Alloc.
	Free(region []byte)
}

// HeapAllocator is the default allocator: plain Go heap allocation. Free is
// a deliberate no-op — the garbage collector reclaims the region once it is
// unreferenced.
type HeapAllocator struct{}

// NewHeapAllocator returns the default heap-backed Allocator.
func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{}
}

// Alloc implements Allocator.
func (HeapAllocator) Alloc(size int) []byte {
	if size < 0 {
		return nil
	}
	return make([]byte, size)
}

// Free implements Allocator.
func (HeapAllocator) Free(region []byte) {}
