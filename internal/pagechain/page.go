package pagechain

// ───────────────────────────────────────────────────────────────────────────
// Page
// ───────────────────────────────────────────────────────────────────────────
//
// A Page is a windowed, non-owning view into a DataBlock, linked into a
// chain via prev/next. The linked-list shape mirrors the teacher's
// PageFrame (internal/storage/pager/pager.go) — plain pointer fields, no
// shared-pointer edges, exactly what spec.md's design notes prescribe for
// ownership-strict ports of this structure.

// Page is one (base, len) window inside a DataBlock, holding one use-count
// on that block from creation until Destroy.
type Page struct {
	base int // offset into block.region where this page's window starts
	len  int // window length in bytes

	block *DataBlock

	prev, next *Page
}

// NewPage creates a page whose window equals the full block, taking one
// reference on it.
func NewPage(block *DataBlock) *Page {
	block.Get()
	return &Page{base: 0, len: block.Len(), block: block}
}

// TransferPage creates a new page referencing the same block as src, with
// window [srcOffset, srcOffset+length) relative to src's own window. It
// takes one reference on the shared block. Used to splice data from one
// buffer/chain into another without copying bytes.
func TransferPage(src *Page, length, srcOffset int) *Page {
	if srcOffset < 0 || length < 0 || srcOffset+length > src.len {
		return nil
	}
	src.block.Get()
	return &Page{base: src.base + srcOffset, len: length, block: src.block}
}

// Len returns the page's window length in bytes.
func (p *Page) Len() int { return p.len }

// Bytes returns the page's window as a byte slice into the underlying
// block's region. The slice must not be retained past the page's lifetime.
func (p *Page) Bytes() []byte {
	return p.block.region[p.base : p.base+p.len]
}

// Block returns the DataBlock this page windows into.
func (p *Page) Block() *DataBlock { return p.block }

// Destroy releases the page's reference on its data block and clears its
// links. The caller is responsible for having already unlinked the page
// from any chain.
func (p *Page) Destroy() {
	if p.block != nil {
		p.block.Put()
		p.block = nil
	}
	p.prev, p.next = nil, nil
}

// ───────────────────────────────────────────────────────────────────────────
// Chain
// ───────────────────────────────────────────────────────────────────────────
//
// chain is a circular doubly linked list of pages with a distinguished
// sentinel node whose prev/next point to itself when empty. Real pages sit
// between the sentinel and itself; sentinel.next is the first real page,
// sentinel.prev is the last. The sentinel is never iterated through as
// content but is observable as "end".

type chain struct {
	sentinel Page // prev/next only; base/len/block unused
}

func newChain() *chain {
	c := &chain{}
	c.sentinel.next = &c.sentinel
	c.sentinel.prev = &c.sentinel
	return c
}

func (c *chain) empty() bool {
	return c.sentinel.next == &c.sentinel
}

func (c *chain) first() *Page {
	return c.sentinel.next
}

func (c *chain) last() *Page {
	return c.sentinel.prev
}

func (c *chain) isSentinel(p *Page) bool {
	return p == &c.sentinel
}

// insertBefore splices p in immediately before at (at may be the sentinel,
// meaning "append at the tail").
func (c *chain) insertBefore(at, p *Page) {
	p.prev = at.prev
	p.next = at
	at.prev.next = p
	at.prev = p
}

// unlink removes p from the chain; it does not free p.
func (c *chain) unlink(p *Page) {
	p.prev.next = p.next
	p.next.prev = p.prev
	p.prev, p.next = nil, nil
}
