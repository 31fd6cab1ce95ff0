package pagebuf

import "github.com/SimonWaldherr/pagebuf/internal/pagechain"

// LineMax bounds how far HasLine scans without finding a terminator before
// forcing a line boundary.
const LineMax = pagechain.LineMax

// LineReader is a non-consuming LF/CRLF line scanner over a Buffer.
type LineReader struct {
	core *pagechain.LineReader
}

// NewLineReader creates a reader positioned at b's current head, using
// LineMax as the forced-boundary cap.
func (b *Buffer) NewLineReader() *LineReader {
	return &LineReader{core: pagechain.NewLineReader(b.core)}
}

// NewLineReaderWithMax is like NewLineReader but with a caller-supplied
// line length cap.
func (b *Buffer) NewLineReaderWithMax(lineMax int) *LineReader {
	return &LineReader{core: pagechain.NewLineReaderWithMax(b.core, lineMax)}
}

// Reset repositions the scan at the buffer's head and clears all state.
func (r *LineReader) Reset() { r.core.Reset() }

// TerminateLine tells the reader no further bytes are coming; if no
// terminator is ever found, HasLine reports the remaining bytes as a line.
func (r *LineReader) TerminateLine() { r.core.TerminateLine() }

// TerminateLineCheckCR is like TerminateLine but preserves a pending
// trailing '\r' as part of a CRLF line.
func (r *LineReader) TerminateLineCheckCR() { r.core.TerminateLineCheckCR() }

// HasLine reports whether a complete line is available, scanning forward
// as needed.
func (r *LineReader) HasLine() bool { return r.core.HasLine() }

// LineLen returns the length of the currently available line, excluding
// its terminator.
func (r *LineReader) LineLen() int { return r.core.GetLineLen() }

// LineData copies up to min(len(out), LineLen()) bytes of the current line
// into out.
func (r *LineReader) LineData(out []byte) int { return r.core.GetLineData(out) }

// SeekLine consumes the current line (and its terminator, if any) from the
// underlying buffer, then resets the reader to scan the remainder.
func (r *LineReader) SeekLine() int { return r.core.SeekLine() }
