package pagechain

// ───────────────────────────────────────────────────────────────────────────
// LineReader
// ───────────────────────────────────────────────────────────────────────────
//
// LineReader scans a Buffer for the next LF- or CRLF-terminated line without
// consuming it; SeekLine commits the consumption once the caller is done
// with the line's bytes. Grounded on spec.md §4.6 and the CR-carry state
// machine of original_source/pagebuf/pagebuf.c's pb_line_reader.
//
// offset counts scanned content bytes, deliberately excluding the
// terminating '\n' itself (SeekLine adds the 1 back when consuming a
// naturally-terminated line) — this is what makes GetLineLen's "offset, or
// offset-1 for CRLF" formula land on the right byte counts.

// LineMax bounds how far HasLine will scan without finding a terminator
// before forcing a line boundary (spec.md §4.6, e.g. 16 MiB).
const LineMax = 16 * 1024 * 1024

// LineReader is a non-consuming, revision-guarded line scanner over a
// Buffer.
type LineReader struct {
	buf     *Buffer
	it      ByteIterator
	lineMax int

	offset int

	hasLine            bool
	hasCR              bool
	foundNewline       bool // true only when a literal '\n' ended the scan
	isTerminated       bool
	isTerminatedWithCR bool

	snapshot uint64
}

// NewLineReader creates a reader positioned at buf's current head, using the
// default LineMax.
func NewLineReader(buf *Buffer) *LineReader {
	return NewLineReaderWithMax(buf, LineMax)
}

// NewLineReaderWithMax is like NewLineReader but with a caller-supplied line
// length cap, primarily for testing the LINE_MAX boundary without scanning
// tens of megabytes.
func NewLineReaderWithMax(buf *Buffer, lineMax int) *LineReader {
	r := &LineReader{buf: buf, lineMax: lineMax}
	r.Reset()
	return r
}

// Reset repositions the scan to the buffer's head, clears all flags, and
// resnapshots the revision.
func (r *LineReader) Reset() {
	r.it = r.buf.BeginBytes()
	r.offset = 0
	r.hasLine = false
	r.hasCR = false
	r.foundNewline = false
	r.isTerminated = false
	r.isTerminatedWithCR = false
	r.snapshot = r.buf.DataRevision()
}

// TerminateLine tells the reader no further bytes are coming for the
// current line; if no terminator is ever found, HasLine reports the
// remaining bytes as a (non-CRLF) line.
func (r *LineReader) TerminateLine() {
	r.isTerminated = true
}

// TerminateLineCheckCR is like TerminateLine but preserves whatever CR
// tracking the scan has already accumulated, so a trailing lone '\r' is
// still reported as part of a CRLF line.
func (r *LineReader) TerminateLineCheckCR() {
	r.isTerminatedWithCR = true
}

// HasLine reports whether a complete line is available, scanning forward as
// needed.
func (r *LineReader) HasLine() bool {
	if r.buf.DataRevision() != r.snapshot {
		r.Reset()
	}
	if r.hasLine {
		return true
	}
	if r.buf.DataSize() == 0 {
		return false
	}

	for {
		c, ok := r.it.CurrentByte()
		if !ok {
			break
		}
		if c == '\n' {
			r.hasLine = true
			r.foundNewline = true
			r.it = r.it.Next()
			break
		}
		r.it = r.it.Next()
		r.offset++
		if c == '\r' {
			r.hasCR = true
		} else {
			r.hasCR = false
		}
		if r.offset >= r.lineMax {
			r.hasCR = false
			r.hasLine = true
			break
		}
	}

	if !r.hasLine {
		if r.isTerminated {
			r.hasCR = false
			r.hasLine = true
		} else if r.isTerminatedWithCR {
			r.hasLine = true
		}
	}
	return r.hasLine
}

// GetLineLen returns the length of the currently available line, excluding
// its terminator.
func (r *LineReader) GetLineLen() int {
	if r.hasCR {
		return r.offset - 1
	}
	return r.offset
}

// GetLineData copies up to min(len(out), GetLineLen()) bytes of the current
// line, starting at the buffer head, into out.
func (r *LineReader) GetLineData(out []byte) int {
	n := r.GetLineLen()
	if n > len(out) {
		n = len(out)
	}
	return r.buf.ReadData(out[:n])
}

// SeekLine consumes the current line (and its terminator, unless the line
// was externally terminated) from the underlying buffer, then resets the
// reader to scan the remainder.
func (r *LineReader) SeekLine() int {
	adv := r.offset
	if r.foundNewline {
		adv++
	}
	n := r.buf.Seek(adv)
	r.Reset()
	return n
}
