package pagebuf

import "github.com/SimonWaldherr/pagebuf/internal/pagechain"

// Page is a read-only window into one node of a Buffer's page chain, as
// seen through a PageIterator.
type Page struct{ core *pagechain.Page }

// Len returns the page's window length in bytes.
func (p Page) Len() int { return p.core.Len() }

// Bytes returns the page's window as a byte slice. The slice must not be
// retained past the page's lifetime in the chain.
func (p Page) Bytes() []byte { return p.core.Bytes() }

// PageIterator is a cursor over a Buffer's pages, positioned either at a
// page or at "end". Like the original's C iterators, it is a plain value
// type copied by assignment, not a handle requiring a Close/Dispose call.
type PageIterator struct{ core pagechain.PageIterator }

// Begin returns a page iterator at b's first page (or End, if empty).
func (b *Buffer) Begin() PageIterator { return PageIterator{core: b.core.Begin()} }

// End returns a page iterator at b's sentinel ("end") position.
func (b *Buffer) End() PageIterator { return PageIterator{core: b.core.End()} }

// IsEnd reports whether the iterator has reached the end position.
func (it PageIterator) IsEnd() bool { return it.core.IsEnd() }

// Page returns the page at the iterator's current position. Calling it at
// End is undefined.
func (it PageIterator) Page() Page { return Page{core: it.core.Page()} }

// Next returns an iterator advanced one page forward.
func (it PageIterator) Next() PageIterator { return PageIterator{core: it.core.Next()} }

// Prev returns an iterator moved one page backward.
func (it PageIterator) Prev() PageIterator { return PageIterator{core: it.core.Prev()} }

// Equal reports whether it and other refer to the same position.
func (it PageIterator) Equal(other PageIterator) bool { return it.core.Equal(other.core) }

// ByteIterator is a cursor over a Buffer's individual bytes, built on a
// PageIterator plus an in-page offset.
type ByteIterator struct{ core pagechain.ByteIterator }

// BeginBytes returns a byte iterator at b's first byte (or IsEnd, if
// empty).
func (b *Buffer) BeginBytes() ByteIterator { return ByteIterator{core: b.core.BeginBytes()} }

// IsEnd reports whether the iterator has consumed every byte of the
// buffer.
func (it ByteIterator) IsEnd() bool { return it.core.IsEnd() }

// CurrentByte returns the byte at the iterator's position and true, or
// (0, false) at End.
func (it ByteIterator) CurrentByte() (byte, bool) { return it.core.CurrentByte() }

// Next returns an iterator advanced one byte forward.
func (it ByteIterator) Next() ByteIterator { return ByteIterator{core: it.core.Next()} }

// Prev returns an iterator moved one byte backward.
func (it ByteIterator) Prev() ByteIterator { return ByteIterator{core: it.core.Prev()} }

// Equal reports whether it and other refer to the same byte position.
func (it ByteIterator) Equal(other ByteIterator) bool { return it.core.Equal(other.core) }
