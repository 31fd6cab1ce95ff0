package pagechain

// ───────────────────────────────────────────────────────────────────────────
// Iterators
// ───────────────────────────────────────────────────────────────────────────
//
// PageIterator and ByteIterator are plain value-typed cursors with no
// ownership — copying one copies a cursor, never a chain node, matching the
// original C pb_buffer_iterator/pb_buffer_byte_iterator semantics
// (original_source/pagebuf/pagebuf.h).

// PageIterator is a cursor pointing at a page in a chain, possibly the
// sentinel (meaning "at end").
type PageIterator struct {
	c *chain
	p *Page
}

// IsEnd reports whether the iterator points at the chain's sentinel.
func (it PageIterator) IsEnd() bool {
	return it.c.isSentinel(it.p)
}

// Page returns the page the iterator currently points at. Dereferencing at
// end yields the sentinel's zero-value window; callers must check IsEnd
// first.
func (it PageIterator) Page() *Page { return it.p }

// Next returns an iterator advanced one page forward.
func (it PageIterator) Next() PageIterator {
	return PageIterator{c: it.c, p: it.p.next}
}

// Prev returns an iterator moved one page backward.
func (it PageIterator) Prev() PageIterator {
	return PageIterator{c: it.c, p: it.p.prev}
}

// Equal reports whether two iterators point at the same node.
func (it PageIterator) Equal(other PageIterator) bool {
	return it.c == other.c && it.p == other.p
}

// ByteIterator layers a byte offset within the current page on top of a
// PageIterator.
//
// An exhausted iterator is never collapsed onto the chain's sentinel;
// instead it is pinned at the last real page with offset == page.Len().
// This matters because Buffer.Extend appends new pages without bumping
// data_revision (it is a pure-append primitive), so a reader sitting at end
// must be able to discover newly appended pages on its next call rather
// than being stuck forever at a sentinel reference that predates them.
// normalize re-derives "is there more now" from the live chain on every
// call instead of caching the answer.
type ByteIterator struct {
	pageIt PageIterator
	offset int // may equal page.Len(), meaning "pinned at this page's end"
}

// normalize advances across any page whose length is already exhausted,
// stopping short of entering the sentinel so the pinned-page handle survives
// for future resumption.
func (it ByteIterator) normalize() ByteIterator {
	for !it.pageIt.IsEnd() && it.offset >= it.pageIt.Page().Len() {
		next := it.pageIt.Next()
		if next.IsEnd() {
			break
		}
		it.pageIt = next
		it.offset = 0
	}
	return it
}

// atEnd reports whether, after normalizing, there is no byte available.
func (it ByteIterator) atEnd() bool {
	n := it.normalize()
	return n.pageIt.IsEnd() || n.offset >= n.pageIt.Page().Len()
}

// IsEnd reports whether the iterator currently has no byte to yield.
func (it ByteIterator) IsEnd() bool {
	return it.atEnd()
}

// CurrentByte returns the byte the iterator points at and true, or (0,
// false) if the iterator is at end.
func (it ByteIterator) CurrentByte() (byte, bool) {
	n := it.normalize()
	if n.pageIt.IsEnd() || n.offset >= n.pageIt.Page().Len() {
		return 0, false
	}
	return n.pageIt.Page().Bytes()[n.offset], true
}

// Next advances the iterator one byte, crossing into the next page when the
// offset reaches the current page's length. Advancing past end is a no-op
// (the iterator stays pinned, ready to discover pages appended later).
func (it ByteIterator) Next() ByteIterator {
	n := it.normalize()
	if n.pageIt.IsEnd() || n.offset >= n.pageIt.Page().Len() {
		return n
	}
	n.offset++
	return n.normalize()
}

// Prev moves the iterator one byte backward, crossing into the previous
// page when offset is 0. Moving before the first byte is a no-op.
func (it ByteIterator) Prev() ByteIterator {
	prev := it
	if !prev.pageIt.IsEnd() && prev.offset > 0 {
		prev.offset--
		return prev
	}
	cand := prev.pageIt.Prev()
	if cand.IsEnd() {
		return it
	}
	prev.pageIt = cand
	prev.offset = cand.Page().Len() - 1
	return prev
}

// Equal reports whether two byte iterators point at the same page and
// offset.
func (it ByteIterator) Equal(other ByteIterator) bool {
	return it.pageIt.Equal(other.pageIt) && it.offset == other.offset
}
