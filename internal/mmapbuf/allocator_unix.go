//go:build !windows

// Package mmapbuf implements the mmap-backed buffer variant of spec.md
// §4.7: an allocator over a growable mmap mapping of a single file, and a
// Buffer that binds it to the fixed mmap Strategy.
package mmapbuf

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"unsafe"

	"go.uber.org/atomic"
	"golang.org/x/sys/unix"
)

// ───────────────────────────────────────────────────────────────────────────
// Open / close policies
// ───────────────────────────────────────────────────────────────────────────

// OpenAction selects how the backing file is opened.
type OpenAction int

const (
	// OpenAppend opens or creates the file for append-only writes.
	OpenAppend OpenAction = iota
	// OpenOverwrite creates or truncates the file before writing.
	OpenOverwrite
	// OpenRead opens an existing file read-only. This is a supplement to
	// spec.md's stated {append, overwrite} pair: the original source's
	// read path is a third, orthogonal open action rather than a special
	// case of append (see original_source/pagebuf/pagebuf_mmap.h).
	OpenRead
)

// CloseAction selects what happens to the backing file at Close.
type CloseAction int

const (
	// CloseRetain leaves the file on disk.
	CloseRetain CloseAction = iota
	// CloseRemove unlinks the file after closing it.
	CloseRemove
)

// ErrInvalidAction is returned for an open/close action outside its valid
// range (spec.md §7's "invalid configuration" error kind).
var ErrInvalidAction = errors.New("pagebuf/mmapbuf: invalid open/close action")

// DefaultBaseSize is the mmap window growth granularity and the mmap
// Strategy's fixed page size (spec.md §4.7).
const DefaultBaseSize = 4096

// ───────────────────────────────────────────────────────────────────────────
// Allocator
// ───────────────────────────────────────────────────────────────────────────

// window is one OS mmap mapping of the backing file, covering [0, len(data))
// of it. Growing the file creates a new, larger window rather than resizing
// this one in place; the old window is retired and unmapped once every
// DataBlock still referencing it has been Put back to zero.
type window struct {
	data     []byte
	refCount atomic.Int64
}

// Allocator is a pagechain.Allocator over a single growable mmap mapping,
// plus the raw write(2) append path spec.md §4.7 asks for.
//
// spec.md describes "a hash table from file offset to mmap data block" so
// that successive requests for the same region share a mapping; this
// implementation simplifies that to a current-window-plus-retired-list
// scheme instead. Because the backing file is written strictly in
// append order and a given byte range is never remapped independently of
// the rest of the file, a single growing window serves every live offset
// exactly as well as a keyed table of per-range windows would, with less
// bookkeeping (see DESIGN.md's Open Questions).
//
// Two independent paths mutate the file: AppendRaw writes straight through
// the fd via write(2), used by Buffer's write_data/write_buffer (spec.md
// §4.7); Alloc/Free grow the mmap mapping itself and hand out windows into
// it, used when this Allocator instead backs a plain pagechain.Buffer
// constructed directly (Extend/Rewind/WriteData's generic chain-insert
// path) rather than through the mmap Buffer specialization. writeOffset
// tracks the file's logical high-water mark across both paths so neither
// one truncates bytes the other already wrote.
type Allocator struct {
	mu   sync.Mutex
	path string
	file *os.File

	openAction  OpenAction
	closeAction CloseAction
	baseSize    int64

	current     *window
	retired     []*window
	writeOffset int64
}

// NewAllocator opens (or creates) path per openAction and maps it, ready to
// serve Alloc calls (append/overwrite) or ReadRegion calls (read).
func NewAllocator(path string, openAction OpenAction, closeAction CloseAction) (*Allocator, error) {
	if openAction < OpenAppend || openAction > OpenRead {
		return nil, ErrInvalidAction
	}
	if closeAction < CloseRetain || closeAction > CloseRemove {
		return nil, ErrInvalidAction
	}

	var flags int
	switch openAction {
	case OpenAppend:
		flags = os.O_RDWR | os.O_CREATE
	case OpenOverwrite:
		flags = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	case OpenRead:
		flags = os.O_RDONLY
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("pagebuf/mmapbuf: open %s: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pagebuf/mmapbuf: stat %s: %w", path, err)
	}

	a := &Allocator{
		path:        path,
		file:        f,
		openAction:  openAction,
		closeAction: closeAction,
		baseSize:    DefaultBaseSize,
		writeOffset: fi.Size(),
	}

	if fi.Size() > 0 {
		if err := a.remapLocked(fi.Size()); err != nil {
			f.Close()
			return nil, err
		}
	}
	return a, nil
}

// remapLocked creates a fresh mapping covering at least size bytes (rounded
// up to baseSize), retiring the current mapping if one exists. The mapped
// length is never allowed to shrink the file below a.writeOffset — the
// file's tracked high-water mark across both AppendRaw and Alloc — even if
// size itself is smaller (e.g. a ReadRegion call for a prefix of an
// already-larger file). A read-only allocator maps the file without
// resizing it. Caller must hold a.mu.
func (a *Allocator) remapLocked(size int64) error {
	if size < a.writeOffset {
		size = a.writeOffset
	}
	mapped := roundUp(size, a.baseSize)
	if a.openAction != OpenRead {
		if err := a.file.Truncate(mapped); err != nil {
			return fmt.Errorf("pagebuf/mmapbuf: truncate: %w", err)
		}
	}

	prot := unix.PROT_READ
	if a.openAction != OpenRead {
		prot |= unix.PROT_WRITE
	}
	data, err := unix.Mmap(int(a.file.Fd()), 0, int(mapped), prot, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("pagebuf/mmapbuf: mmap: %w", err)
	}

	if a.current != nil {
		a.retireLocked(a.current)
	}
	a.current = &window{data: data}
	return nil
}

func roundUp(n, base int64) int64 {
	if base <= 0 {
		return n
	}
	if n == 0 {
		return base
	}
	if rem := n % base; rem != 0 {
		n += base - rem
	}
	return n
}

// retireLocked marks w as superseded; it is unmapped immediately if nothing
// references it yet, otherwise Free unmaps it once the last reference
// drops. Caller must hold a.mu.
func (a *Allocator) retireLocked(w *window) {
	if w.refCount.Load() == 0 {
		unix.Munmap(w.data)
		return
	}
	a.retired = append(a.retired, w)
}

// Alloc implements pagechain.Allocator by growing the mmap mapping and
// handing out a window into it. This path is only exercised when an
// Allocator backs a plain pagechain.Buffer directly (see the type doc);
// Buffer in this package bypasses it entirely in favor of AppendRaw.
func (a *Allocator) Alloc(size int) []byte {
	if size <= 0 {
		if size == 0 {
			return []byte{}
		}
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.openAction == OpenRead {
		return nil
	}

	start := a.writeOffset
	need := start + int64(size)
	if a.current == nil || need > int64(len(a.current.data)) {
		if err := a.remapLocked(need); err != nil {
			return nil
		}
	}
	a.writeOffset = need
	a.current.refCount.Inc()
	return a.current.data[start:need]
}

// Free implements pagechain.Allocator. It locates the window backing
// region, drops its ref count, and unmaps a retired window once nothing
// references it anymore.
func (a *Allocator) Free(region []byte) {
	if len(region) == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	w := a.ownerLocked(region)
	if w == nil || w.refCount.Dec() != 0 {
		return
	}
	if w == a.current {
		return // still the active mapping; keep it around for reuse
	}
	for i, r := range a.retired {
		if r == w {
			a.retired = append(a.retired[:i], a.retired[i+1:]...)
			break
		}
	}
	unix.Munmap(w.data)
}

// ownerLocked finds which live mapping backs region by pointer-range
// containment. Caller must hold a.mu.
func (a *Allocator) ownerLocked(region []byte) *window {
	if within(a.current, region) {
		return a.current
	}
	for _, w := range a.retired {
		if within(w, region) {
			return w
		}
	}
	return nil
}

func within(w *window, region []byte) bool {
	if w == nil || len(w.data) == 0 || len(region) == 0 {
		return false
	}
	base := uintptr(unsafe.Pointer(&w.data[0]))
	end := base + uintptr(len(w.data))
	p := uintptr(unsafe.Pointer(&region[0]))
	return p >= base && p < end
}

// AppendRaw appends data to the end of the file via the write(2) syscall
// (os.File.WriteAt, independent of any live mmap mapping), advancing the
// tracked write offset. This is the write_data/write_buffer path spec.md
// §4.7 specifies for mmap buffers — a raw write, not a chain insert. The
// mmap mapping itself is left untouched; it is grown lazily, on the next
// ReadRegion call that needs to see the new bytes.
func (a *Allocator) AppendRaw(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.openAction == OpenRead {
		return 0, fmt.Errorf("pagebuf/mmapbuf: cannot append to a read-only allocator")
	}

	n, err := a.file.WriteAt(data, a.writeOffset)
	a.writeOffset += int64(n)
	if err != nil {
		return n, fmt.Errorf("pagebuf/mmapbuf: write: %w", err)
	}
	return n, nil
}

// ReadRegion returns the file bytes in [offset, offset+length), growing the
// mapping first if necessary. Used to materialize pages for a buffer's
// chain on demand (page_create_forward in the original source). The
// returned slice aliases the live mapping and must not outlive the
// allocator.
func (a *Allocator) ReadRegion(offset, length int64) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	need := offset + length
	if a.current == nil || need > int64(len(a.current.data)) {
		if err := a.remapLocked(need); err != nil {
			return nil, err
		}
	}
	a.current.refCount.Inc()
	return a.current.data[offset:need], nil
}

// FileSize reports the backing file's current size via fstat — live, not a
// cached counter — matching pb_mmap_buffer_get_data_size in the original
// source (original_source/pagebuf/pagebuf_mmap.c).
func (a *Allocator) FileSize() (int64, error) {
	fi, err := a.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("pagebuf/mmapbuf: stat: %w", err)
	}
	return fi.Size(), nil
}

// Sync flushes pending writes to disk: fsync on the file descriptor (covers
// AppendRaw's write(2) calls) plus msync on the current mapping, if one is
// active (covers Alloc's mmap-backed writes).
func (a *Allocator) Sync() error {
	a.mu.Lock()
	cur := a.current
	a.mu.Unlock()

	if cur != nil {
		if err := unix.Msync(cur.data, unix.MS_SYNC); err != nil {
			return fmt.Errorf("pagebuf/mmapbuf: msync: %w", err)
		}
	}
	if err := a.file.Sync(); err != nil {
		return fmt.Errorf("pagebuf/mmapbuf: fsync: %w", err)
	}
	return nil
}

// Close unmaps every live mapping and closes (optionally removing) the
// backing file.
func (a *Allocator) Close() error {
	a.mu.Lock()
	if a.current != nil {
		unix.Munmap(a.current.data)
		a.current = nil
	}
	for _, w := range a.retired {
		unix.Munmap(w.data)
	}
	a.retired = nil
	a.mu.Unlock()

	if err := a.file.Close(); err != nil {
		return fmt.Errorf("pagebuf/mmapbuf: close: %w", err)
	}
	if a.closeAction == CloseRemove {
		if err := os.Remove(a.path); err != nil {
			return fmt.Errorf("pagebuf/mmapbuf: remove: %w", err)
		}
	}
	return nil
}
