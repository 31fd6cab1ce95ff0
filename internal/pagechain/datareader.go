package pagechain

// ───────────────────────────────────────────────────────────────────────────
// DataReader
// ───────────────────────────────────────────────────────────────────────────
//
// DataReader is a non-consuming sequential reader over a Buffer: repeated
// Read calls return successive slices without advancing the buffer's own
// head (no Seek). It tracks the buffer's data_revision and resets to the
// head whenever the buffer has been mutated in a way that invalidates the
// reader's position (seek, trim, rewind, overwrite, or the first write into
// an empty buffer — see Buffer.bumpRevision call sites). A direct Insert
// does not bump the revision and so does not reset the reader.
//
// Grounded on spec.md §4.5; the "step back to the last real page" behavior
// at end mirrors ByteIterator.normalize's pinning so that bytes appended via
// Buffer.Extend (which never bumps data_revision) are picked up on the next
// Read without a spurious reset.
type DataReader struct {
	buf      *Buffer
	it       PageIterator
	offset   int
	snapshot uint64
}

// NewDataReader creates a reader positioned at buf's current head.
func NewDataReader(buf *Buffer) *DataReader {
	r := &DataReader{buf: buf}
	r.Reset()
	return r
}

// Reset repositions the reader to the buffer's head and resnapshots the
// revision.
func (r *DataReader) Reset() {
	r.it = r.buf.Begin()
	r.offset = 0
	r.snapshot = r.buf.DataRevision()
}

// advance steps across any page the reader has already exhausted, stopping
// short of the sentinel so the reader stays pinned at the last real page
// (ready to discover data appended since).
func (r *DataReader) advance() {
	for !r.it.IsEnd() && r.offset >= r.it.Page().Len() {
		next := r.it.Next()
		if next.IsEnd() {
			return
		}
		r.it = next
		r.offset = 0
	}
}

// Read copies up to len(out) unconsumed bytes into out, returning the
// number of bytes copied.
func (r *DataReader) Read(out []byte) int {
	if r.buf.DataRevision() != r.snapshot {
		r.Reset()
	}

	read := 0
	for read < len(out) {
		r.advance()
		if r.it.IsEnd() || r.offset >= r.it.Page().Len() {
			break
		}
		p := r.it.Page()
		k := p.Len() - r.offset
		if k > len(out)-read {
			k = len(out) - read
		}
		copy(out[read:read+k], p.Bytes()[r.offset:r.offset+k])
		read += k
		r.offset += k
	}
	return read
}
