package pagechain

// ───────────────────────────────────────────────────────────────────────────
// Buffer
// ───────────────────────────────────────────────────────────────────────────
//
// Buffer owns a page chain, a strategy, an allocator, and the cached
// data_size/data_revision counters. The mutation primitives below follow
// spec.md §4.4 exactly: Insert is the one chain-splicing primitive; Extend
// and Rewind are built on it (Extend never bumps the revision — it is a
// pure append — Rewind does whenever it adds bytes, since it changes what "the start of the
// buffer" means for any reader holding a stale begin-iterator snapshot).
//
// Section-divider comment style follows internal/storage/pager/page.go of
// the teacher repo this package was adapted from.

// Buffer is a mutable, page-chained byte sequence.
type Buffer struct {
	chain        *chain
	strategy     Strategy
	allocator    Allocator
	dataSize     int
	dataRevision uint64
}

// NewBuffer creates an empty buffer governed by strategy. A nil allocator
// defaults to the heap allocator.
func NewBuffer(strategy Strategy, allocator Allocator) *Buffer {
	if allocator == nil {
		allocator = NewHeapAllocator()
	}
	return &Buffer{chain: newChain(), strategy: strategy, allocator: allocator}
}

// Strategy returns the buffer's policy tuple.
func (b *Buffer) Strategy() Strategy { return b.strategy }

// DataSize returns the cached sum of page lengths.
func (b *Buffer) DataSize() int { return b.dataSize }

// DataRevision returns the current revision counter.
func (b *Buffer) DataRevision() uint64 { return b.dataRevision }

func (b *Buffer) bumpRevision() { b.dataRevision++ }

// Begin returns an iterator at the first real page (the sentinel, iff
// empty).
func (b *Buffer) Begin() PageIterator {
	return PageIterator{c: b.chain, p: b.chain.first()}
}

// End returns an iterator at the sentinel.
func (b *Buffer) End() PageIterator {
	return PageIterator{c: b.chain, p: &b.chain.sentinel}
}

// BeginBytes returns a byte iterator at the first byte of the buffer.
func (b *Buffer) BeginBytes() ByteIterator {
	return ByteIterator{pageIt: b.Begin(), offset: 0}
}

// ───────────────────────────────────────────────────────────────────────────
// Insert
// ───────────────────────────────────────────────────────────────────────────

// Insert splices newPage into the chain at in-page offset inPageOffset
// relative to at, returning the number of bytes inserted (0 on policy
// rejection or a nil page). It never bumps data_revision — callers that
// represent a semantic mutation of already-present data (Rewind) bump it
// themselves after calling Insert.
func (b *Buffer) Insert(at PageIterator, inPageOffset int, newPage *Page) int {
	if newPage == nil || at.c != b.chain {
		return 0
	}
	if !at.IsEnd() && b.strategy.RejectsInsert {
		return 0
	}

	c := b.chain
	cur := at.p
	offset := inPageOffset
	for cur != &c.sentinel && offset >= cur.len {
		offset -= cur.len
		cur = cur.next
	}
	if cur == &c.sentinel {
		offset = 0
	}

	if offset > 0 {
		clone := TransferPage(cur, cur.len, 0)
		clone.base += offset
		clone.len -= offset
		cur.len = offset
		c.insertBefore(cur.next, clone)
		c.insertBefore(clone, newPage)
	} else {
		c.insertBefore(cur, newPage)
	}

	b.dataSize += newPage.len
	return newPage.len
}

// ───────────────────────────────────────────────────────────────────────────
// Extend / Rewind
// ───────────────────────────────────────────────────────────────────────────

// Extend allocates fresh owned data blocks sized by the strategy's page
// size and appends them at the tail, stopping at length bytes or the first
// allocation failure. Does not bump data_revision.
func (b *Buffer) Extend(length int) int {
	anchor := b.End()
	return b.growAt(anchor, length)
}

// Rewind allocates fresh owned data blocks and inserts them at the head, in
// order, stopping at length bytes or the first allocation failure. Bumps
// data_revision if anything was added.
func (b *Buffer) Rewind(length int) int {
	anchor := b.Begin()
	added := b.growAt(anchor, length)
	if added > 0 {
		b.bumpRevision()
	}
	return added
}

// growAt is the shared allocate-and-insert loop behind Extend and Rewind:
// anchor is a fixed splice point (stable across iterations because neither
// the sentinel nor an un-split existing page ever moves), and successive
// chunks land in encounter order immediately before it.
func (b *Buffer) growAt(anchor PageIterator, length int) int {
	added := 0
	remaining := length
	for remaining > 0 {
		chunk := remaining
		if b.strategy.PageSize > 0 && chunk > b.strategy.PageSize {
			chunk = b.strategy.PageSize
		}
		region := b.allocator.Alloc(chunk)
		if region == nil {
			break
		}
		block := NewOwned(region, b.allocator)
		page := NewPage(block)
		block.Put()
		n := b.Insert(anchor, 0, page)
		if n == 0 {
			page.Destroy()
			break
		}
		added += n
		remaining -= n
	}
	return added
}

// ───────────────────────────────────────────────────────────────────────────
// Seek / Trim
// ───────────────────────────────────────────────────────────────────────────

// Seek consumes up to length bytes from the head of the chain, destroying
// any page fully consumed. Bumps data_revision iff anything was consumed.
func (b *Buffer) Seek(length int) int {
	c := b.chain
	consumed := 0
	remaining := length
	for remaining > 0 {
		p := c.first()
		if p == &c.sentinel {
			break
		}
		k := remaining
		if k > p.len {
			k = p.len
		}
		p.base += k
		p.len -= k
		b.dataSize -= k
		consumed += k
		remaining -= k
		if p.len == 0 {
			c.unlink(p)
			p.Destroy()
		}
	}
	if consumed > 0 {
		b.bumpRevision()
	}
	return consumed
}

// Trim drops up to length bytes from the tail of the chain, destroying any
// page fully consumed. Bumps data_revision iff anything was trimmed.
func (b *Buffer) Trim(length int) int {
	c := b.chain
	trimmed := 0
	remaining := length
	for remaining > 0 {
		p := c.last()
		if p == &c.sentinel {
			break
		}
		k := remaining
		if k > p.len {
			k = p.len
		}
		p.len -= k
		b.dataSize -= k
		trimmed += k
		remaining -= k
		if p.len == 0 {
			c.unlink(p)
			p.Destroy()
		}
	}
	if trimmed > 0 {
		b.bumpRevision()
	}
	return trimmed
}

// ───────────────────────────────────────────────────────────────────────────
// Write from a raw region
// ───────────────────────────────────────────────────────────────────────────

// WriteData copies data into freshly allocated owned pages, fragmenting
// according to the strategy's FragmentAsTarget flag, and returns the number
// of bytes written.
func (b *Buffer) WriteData(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	wasEmpty := b.dataSize == 0

	var written int
	if !b.strategy.FragmentAsTarget {
		remaining := data
		for len(remaining) > 0 {
			chunk := len(remaining)
			if b.strategy.PageSize > 0 && chunk > b.strategy.PageSize {
				chunk = b.strategy.PageSize
			}
			n := b.Extend(chunk)
			if n == 0 {
				break
			}
			copy(b.chain.last().Bytes(), remaining[:n])
			written += n
			remaining = remaining[n:]
		}
	} else {
		prevLast := b.chain.last()
		n := b.Extend(len(data))
		remaining := data[:n]
		p := prevLast.next
		for p != &b.chain.sentinel && len(remaining) > 0 {
			k := p.len
			if k > len(remaining) {
				k = len(remaining)
			}
			copy(p.Bytes()[:k], remaining[:k])
			remaining = remaining[k:]
			p = p.next
		}
		written = n
	}

	if wasEmpty && written > 0 {
		b.bumpRevision()
	}
	return written
}

// ───────────────────────────────────────────────────────────────────────────
// Write from a referenced region
// ───────────────────────────────────────────────────────────────────────────

// WriteDataRef adopts a reference to data (zero copy) or copies it,
// according to the strategy's (CloneOnWrite, FragmentAsTarget) pair — the
// 2x2 matrix of spec.md §4.4.8, kept explicit rather than collapsed.
func (b *Buffer) WriteDataRef(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	if b.strategy.CloneOnWrite {
		return b.WriteData(data)
	}

	wasEmpty := b.dataSize == 0
	anchor := b.End()
	written := 0

	if !b.strategy.FragmentAsTarget {
		block := NewReferenced(data, b.allocator)
		page := NewPage(block)
		block.Put()
		n := b.Insert(anchor, 0, page)
		if n == 0 {
			page.Destroy()
			return 0
		}
		written = n
	} else {
		remaining := data
		for len(remaining) > 0 {
			chunk := len(remaining)
			if b.strategy.PageSize > 0 && chunk > b.strategy.PageSize {
				chunk = b.strategy.PageSize
			}
			block := NewReferenced(remaining[:chunk], b.allocator)
			page := NewPage(block)
			block.Put()
			n := b.Insert(anchor, 0, page)
			if n == 0 {
				page.Destroy()
				break
			}
			written += n
			remaining = remaining[n:]
		}
	}

	if wasEmpty && written > 0 {
		b.bumpRevision()
	}
	return written
}

// ───────────────────────────────────────────────────────────────────────────
// Write from another buffer
// ───────────────────────────────────────────────────────────────────────────

// WriteBuffer splices up to length bytes from src into b, referencing src's
// data blocks (CloneOnWrite=false) or copying (CloneOnWrite=true), per
// spec.md §4.4.9.
func (b *Buffer) WriteBuffer(src *Buffer, length int) int {
	if src == nil || length <= 0 {
		return 0
	}
	if length > src.dataSize {
		length = src.dataSize
	}
	wasEmpty := b.dataSize == 0

	var written int
	if !b.strategy.CloneOnWrite {
		written = b.writeBufferRef(src, length)
	} else {
		written = b.writeBufferCopy(src, length)
	}

	if wasEmpty && written > 0 {
		b.bumpRevision()
	}
	return written
}

// writeBufferRef implements (CloneOnWrite=false, *): share src's data
// blocks via TransferPage. FragmentAsTarget bounds each transferred
// window by the target's page size, splitting source pages that exceed it;
// otherwise source page boundaries dominate.
func (b *Buffer) writeBufferRef(src *Buffer, length int) int {
	anchor := b.End()
	remaining := length
	written := 0
	srcP := src.chain.first()
	srcOff := 0
	for remaining > 0 && srcP != &src.chain.sentinel {
		avail := srcP.len - srcOff
		if avail <= 0 {
			srcP = srcP.next
			srcOff = 0
			continue
		}
		k := avail
		if b.strategy.FragmentAsTarget && b.strategy.PageSize > 0 && k > b.strategy.PageSize {
			k = b.strategy.PageSize
		}
		if k > remaining {
			k = remaining
		}
		page := TransferPage(srcP, k, srcOff)
		n := b.Insert(anchor, 0, page)
		if n == 0 {
			page.Destroy()
			break
		}
		written += n
		remaining -= n
		srcOff += n
		if srcOff >= srcP.len {
			srcP = srcP.next
			srcOff = 0
		}
	}
	return written
}

// writeBufferCopy implements (CloneOnWrite=true, *): allocate new owned
// pages and copy bytes. FragmentAsTarget bounds each new page by the
// target's page size (possibly repacking several source pages into one
// target page); otherwise each new page respects source page boundaries.
func (b *Buffer) writeBufferCopy(src *Buffer, length int) int {
	anchor := b.End()
	remaining := length
	written := 0
	srcP := src.chain.first()
	srcOff := 0
	for remaining > 0 {
		var k int
		if b.strategy.FragmentAsTarget {
			k = remaining
			if b.strategy.PageSize > 0 && k > b.strategy.PageSize {
				k = b.strategy.PageSize
			}
		} else {
			if srcP == &src.chain.sentinel {
				break
			}
			k = srcP.len - srcOff
			if k > remaining {
				k = remaining
			}
		}
		if k <= 0 {
			break
		}

		region := b.allocator.Alloc(k)
		if region == nil {
			break
		}
		copied := 0
		for copied < k {
			if srcP == &src.chain.sentinel {
				break
			}
			avail := srcP.len - srcOff
			if avail <= 0 {
				srcP = srcP.next
				srcOff = 0
				continue
			}
			c2 := avail
			if c2 > k-copied {
				c2 = k - copied
			}
			copy(region[copied:copied+c2], srcP.Bytes()[srcOff:srcOff+c2])
			copied += c2
			srcOff += c2
			if srcOff >= srcP.len {
				srcP = srcP.next
				srcOff = 0
			}
		}
		if copied == 0 {
			b.allocator.Free(region)
			break
		}

		block := NewOwned(region[:copied], b.allocator)
		page := NewPage(block)
		block.Put()
		n := b.Insert(anchor, 0, page)
		if n == 0 {
			page.Destroy()
			break
		}
		written += n
		remaining -= n
	}
	return written
}

// ───────────────────────────────────────────────────────────────────────────
// Overwrite / Read / Clear
// ───────────────────────────────────────────────────────────────────────────

// OverwriteData copies data into the existing chain starting at the head,
// without changing any page's length, stopping at whichever of data or the
// chain runs out first. Bumps data_revision iff anything was overwritten.
func (b *Buffer) OverwriteData(data []byte) int {
	p := b.chain.first()
	remaining := data
	written := 0
	for len(remaining) > 0 && p != &b.chain.sentinel {
		k := p.len
		if k > len(remaining) {
			k = len(remaining)
		}
		copy(p.Bytes()[:k], remaining[:k])
		written += k
		remaining = remaining[k:]
		p = p.next
	}
	if written > 0 {
		b.bumpRevision()
	}
	return written
}

// ReadData copies up to len(out) bytes from the head of the chain into out
// without consuming them. Never mutates state, never bumps data_revision.
func (b *Buffer) ReadData(out []byte) int {
	p := b.chain.first()
	read := 0
	for read < len(out) && p != &b.chain.sentinel {
		k := p.len
		if k > len(out)-read {
			k = len(out) - read
		}
		copy(out[read:read+k], p.Bytes()[:k])
		read += k
		p = p.next
	}
	return read
}

// Clear consumes the entire buffer; equivalent to Seek(DataSize()).
func (b *Buffer) Clear() int {
	return b.Seek(b.DataSize())
}

// Destroy clears the buffer. In Go there is no separate descriptor to free
// beyond what Clear already releases; kept as a distinct method so callers
// mirror the original create/destroy pairing from spec.md §4.4.12.
func (b *Buffer) Destroy() {
	b.Clear()
}
