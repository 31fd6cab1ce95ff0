package pagechain

// ───────────────────────────────────────────────────────────────────────────
// Strategy
// ───────────────────────────────────────────────────────────────────────────
//
// Strategy is an immutable policy tuple bound to a Buffer at construction,
// the same "small immutable config struct with a constructor" shape as the
// teacher's MemoryPolicy (internal/storage/bufferpool.go). Internal dispatch
// on write_data_ref/write_buffer switches explicitly across the 2x2
// (CloneOnWrite x FragmentAsTarget) combinations — per spec.md's design
// notes the four variants must stay explicit, never collapsed.

// Strategy controls page sizing, copy-vs-reference behavior, fragmentation
// discipline, and insertion policy for a Buffer.
type Strategy struct {
	// PageSize bounds the size of each page that Extend, Rewind and
	// WriteData allocate, and of each fragment WriteDataRef and WriteBuffer
	// produce when FragmentAsTarget is true. With FragmentAsTarget false,
	// WriteDataRef and WriteBuffer follow the source's sizes instead. 0 means
	// unlimited (a fragment may span the whole requested length in one page).
	PageSize int

	// CloneOnWrite, when true, forces Buffer.WriteDataRef and
	// Buffer.WriteBuffer to allocate new owned blocks and copy bytes rather
	// than adopting references to the caller's/source's blocks.
	CloneOnWrite bool

	// FragmentAsTarget, when true, makes this buffer's PageSize dominate
	// fragmentation of incoming writes; when false, the source's own page
	// boundaries (or a single unbounded chunk, for WriteDataRef without
	// CloneOnWrite) dominate. WriteData chunks by PageSize either way; the
	// flag only changes whether it reserves all pages before copying.
	FragmentAsTarget bool

	// RejectsInsert, when true, makes Buffer.Insert refuse any insertion
	// that is not at the end iterator, returning 0 with no state change.
	RejectsInsert bool
}

// DefaultStrategy returns the permissive default: unlimited page size,
// reference (zero-copy) semantics, source-dominant fragmentation, and
// insertion allowed anywhere.
func DefaultStrategy() Strategy {
	return Strategy{
		PageSize:         0,
		CloneOnWrite:     false,
		FragmentAsTarget: false,
		RejectsInsert:    false,
	}
}
