package mmapbuf

import (
	"errors"

	"github.com/SimonWaldherr/pagebuf/internal/pagechain"
)

// ErrMmapTrimUnsupported is returned by Buffer.Trim. original_source's mmap
// variant has no trim counterpart (dropping bytes from the tail would mean
// shrinking the backing file, which this Buffer never does), so this says
// so explicitly rather than silently no-opping (spec.md §9 Open Questions).
var ErrMmapTrimUnsupported = errors.New("pagebuf/mmapbuf: trim is not supported on mmap-backed buffers")

// Strategy is the fixed policy for mmap-backed buffers (spec.md §4.7):
// page-sized to the mmap window granularity, copy-on-write so writers never
// retain a caller's slice past the call, target-dominant fragmentation, and
// no mid-chain insertion since the backing file is strictly offset-ordered.
func Strategy() pagechain.Strategy {
	return pagechain.Strategy{
		PageSize:         DefaultBaseSize,
		CloneOnWrite:     true,
		FragmentAsTarget: true,
		RejectsInsert:    true,
	}
}

// Buffer is the mmap-backed specialization of spec.md §4.7. Per the spec,
// write_data/write_buffer append straight to the backing file via write(2),
// bypassing the in-memory chain entirely; the chain is only (re)populated
// from the file — page_create_forward in the original source — the next
// time something needs to read through it (ReadData, Seek, WriteBuffer's
// source side, an iterator); DataSize reads the file size and leaves the
// chain alone. Rewind, OverwriteData and Insert are intentionally not
// exposed: the mmap variant is an append-only file-backed log
// (RejectsInsert=true, per Strategy above), so prepending or splicing into
// the middle has no meaningful mapping onto a single growing file.
//
// materialize is the one departure from the original's per-page laziness:
// rather than threading an allocator-specific page_create_forward hook
// through the shared pagechain.PageIterator/ByteIterator (which would mean
// specializing the generic iterator types for this one backend), bytes
// already written to the file but not yet in the chain are pulled in
// wholesale the first time something needs to read them. Chain population
// is still on-demand, not at write time — just coarser-grained than the
// original's per-Next() page fault. See DESIGN.md's Open Questions.
type Buffer struct {
	chain *pagechain.Buffer
	alloc *Allocator

	head   int64 // bytes logically consumed from the file's start (by Seek)
	synced int64 // bytes of [head, fileSize) currently materialized into chain
}

// Open opens path per openAction/closeAction and wraps it in a Buffer ready
// for writing (append/overwrite) or reading (read). No file content is
// materialized into the chain at open time — ReadData, Seek and the
// iterators pull it in lazily as needed.
func Open(path string, openAction OpenAction, closeAction CloseAction) (*Buffer, error) {
	alloc, err := NewAllocator(path, openAction, closeAction)
	if err != nil {
		return nil, err
	}
	return &Buffer{
		chain: pagechain.NewBuffer(Strategy(), alloc),
		alloc: alloc,
	}, nil
}

// Strategy returns the buffer's policy tuple.
func (b *Buffer) Strategy() pagechain.Strategy { return b.chain.Strategy() }

// DataSize reports the buffer's logical size straight from the backing
// file (live fstat, via the allocator), not the in-memory chain's cached
// sum — correct even for bytes written but not yet materialized into
// pages.
func (b *Buffer) DataSize() int {
	size, err := b.alloc.FileSize()
	if err != nil {
		return 0
	}
	n := size - b.head
	if n < 0 {
		return 0
	}
	return int(n)
}

// DataRevision delegates to the underlying chain.
func (b *Buffer) DataRevision() uint64 { return b.chain.DataRevision() }

// Extend reserves length zero-filled bytes at the tail by appending them to
// the backing file, the same bypass-the-chain path as WriteData.
func (b *Buffer) Extend(length int) int {
	if length <= 0 {
		return 0
	}
	return b.WriteData(make([]byte, length))
}

// Seek consumes up to length bytes from the buffer's head, materializing
// enough of the backing file first if the chain doesn't already cover it.
func (b *Buffer) Seek(length int) int {
	if length <= 0 {
		return 0
	}
	if err := b.materialize(length); err != nil {
		return 0
	}
	n := b.chain.Seek(length)
	b.head += int64(n)
	b.synced -= int64(n)
	if b.synced < 0 {
		b.synced = 0
	}
	return n
}

// Trim always fails: see ErrMmapTrimUnsupported.
func (b *Buffer) Trim(length int) (int, error) {
	return 0, ErrMmapTrimUnsupported
}

// WriteData appends data to the backing file via write(2), bypassing the
// in-memory chain entirely (spec.md §4.7).
func (b *Buffer) WriteData(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n, err := b.alloc.AppendRaw(data)
	if err != nil {
		return 0
	}
	return n
}

// WriteDataRef writes data to the backing file. The mmap strategy's
// CloneOnWrite=true makes this identical to WriteData: no caller slice is
// ever retained past the call, so there is nothing to reference instead of
// copy.
func (b *Buffer) WriteDataRef(data []byte) int {
	return b.WriteData(data)
}

// WriteBuffer appends up to length bytes read from src to the backing file
// via write(2). src is materialized first so the bytes being copied are
// actually resident in its chain.
func (b *Buffer) WriteBuffer(src *Buffer, length int) int {
	if src == nil || length <= 0 {
		return 0
	}
	avail := src.DataSize()
	if length > avail {
		length = avail
	}
	if length <= 0 {
		return 0
	}
	if err := src.materialize(length); err != nil {
		return 0
	}
	tmp := make([]byte, length)
	n := src.chain.ReadData(tmp)
	if n == 0 {
		return 0
	}
	written, err := b.alloc.AppendRaw(tmp[:n])
	if err != nil {
		return 0
	}
	return written
}

// ReadData copies up to len(out) bytes from the buffer's head, pulling file
// content into the chain first if it isn't already there.
func (b *Buffer) ReadData(out []byte) int {
	if err := b.materialize(len(out)); err != nil {
		return 0
	}
	return b.chain.ReadData(out)
}

// Clear consumes the entire buffer.
func (b *Buffer) Clear() int {
	return b.Seek(b.DataSize())
}

// Destroy releases the buffer's pages. The buffer must not be used
// afterward; Close releases the backing file.
func (b *Buffer) Destroy() {
	b.Clear()
	b.chain.Destroy()
}

// Begin returns a page iterator positioned at the buffer's head, having
// first materialized every byte currently in the backing file — the
// mmap-variant's page_create_forward, triggered here by the iterator
// request rather than done eagerly at write time.
func (b *Buffer) Begin() pagechain.PageIterator {
	b.materialize(b.DataSize())
	return b.chain.Begin()
}

// End returns an iterator at the sentinel.
func (b *Buffer) End() pagechain.PageIterator { return b.chain.End() }

// BeginBytes returns a byte iterator at the buffer's head, materializing
// the file's current content first (see Begin).
func (b *Buffer) BeginBytes() pagechain.ByteIterator {
	b.materialize(b.DataSize())
	return b.chain.BeginBytes()
}

// materialize ensures the in-memory chain covers at least upto bytes from
// the buffer's current head, pulling any more recently appended file
// content in as referenced pages. This is where chain population actually
// happens — lazily, on demand, never at write time.
func (b *Buffer) materialize(upto int) error {
	size := b.DataSize()
	if upto > size {
		upto = size
	}
	if int64(upto) <= b.synced {
		return nil
	}

	pageSize := b.chain.Strategy().PageSize
	for int64(upto) > b.synced {
		chunk := upto - int(b.synced)
		if pageSize > 0 && chunk > pageSize {
			chunk = pageSize
		}
		fileOffset := b.head + b.synced
		region, err := b.alloc.ReadRegion(fileOffset, int64(chunk))
		if err != nil {
			return err
		}
		block := pagechain.NewReferenced(region, b.alloc)
		page := pagechain.NewPage(block)
		block.Put()
		n := b.chain.Insert(b.chain.End(), 0, page)
		if n == 0 {
			page.Destroy()
			break
		}
		b.synced += int64(n)
	}
	return nil
}

// Sync flushes the buffer's pending writes to disk.
func (b *Buffer) Sync() error {
	return b.alloc.Sync()
}

// Close unmaps the backing file and closes (optionally removing) it. The
// buffer must not be used afterward.
func (b *Buffer) Close() error {
	b.chain.Destroy()
	return b.alloc.Close()
}

// FileSize returns the live size of the backing file, per Allocator.FileSize.
func (b *Buffer) FileSize() (int64, error) {
	return b.alloc.FileSize()
}
