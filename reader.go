package pagebuf

import "github.com/SimonWaldherr/pagebuf/internal/pagechain"

// DataReader sequentially reads a Buffer's bytes without consuming them,
// automatically resetting to the buffer's current head if the buffer was
// mutated (seeked, trimmed, rewound, overwritten) since the reader's last
// read.
type DataReader struct {
	core *pagechain.DataReader
}

// NewDataReader creates a reader positioned at b's current head.
func (b *Buffer) NewDataReader() *DataReader {
	return &DataReader{core: pagechain.NewDataReader(b.core)}
}

// Reset repositions the reader at the buffer's current head.
func (r *DataReader) Reset() { r.core.Reset() }

// Read copies up to len(out) bytes starting from the reader's current
// position, advancing it by the number of bytes copied, and returns that
// count.
func (r *DataReader) Read(out []byte) int { return r.core.Read(out) }
