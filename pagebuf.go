package pagebuf

import (
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/SimonWaldherr/pagebuf/internal/pagechain"
	"github.com/SimonWaldherr/pagebuf/internal/presets"
)

// Strategy controls page sizing, copy-vs-reference behavior, fragmentation
// discipline, and insertion policy for a Buffer. See DefaultStrategy and the
// preset helpers below for ready-made configurations.
type Strategy = pagechain.Strategy

// DefaultStrategy returns the permissive default: unlimited page size,
// zero-copy writes, source-dominant fragmentation, insertion allowed
// anywhere.
func DefaultStrategy() Strategy {
	return pagechain.DefaultStrategy()
}

// StrategyPreset looks up one of the built-in named strategies
// ("default", "zero-copy-streaming", "fixed-page-copy", "append-only").
func StrategyPreset(name string) (Strategy, bool) {
	p, ok := presets.Registry()[name]
	if !ok {
		return Strategy{}, false
	}
	return p.Strategy(), true
}

// LoadStrategyPresetsYAML decodes named strategies from a YAML document of
// the shape:
//
//	presets:
//	  - name: network-rx
//	    page_size: 0
//	    clone_on_write: false
func LoadStrategyPresetsYAML(data []byte) (map[string]Strategy, error) {
	decoded, err := presets.ParseYAML(data)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Strategy, len(decoded))
	for name, p := range decoded {
		out[name] = p.Strategy()
	}
	return out, nil
}

// Buffer is a mutable, page-chained byte sequence: the public entry point
// over internal/pagechain.Buffer, adding a stable session identity and
// summary stats.
type Buffer struct {
	id   uuid.UUID
	core *pagechain.Buffer
}

// New creates an empty buffer governed by strategy.
func New(strategy Strategy) *Buffer {
	return &Buffer{id: uuid.New(), core: pagechain.NewBuffer(strategy, nil)}
}

// ID returns this buffer's session identity, stable for its lifetime.
func (b *Buffer) ID() uuid.UUID { return b.id }

// Strategy returns the buffer's policy tuple.
func (b *Buffer) Strategy() Strategy { return b.core.Strategy() }

// DataSize returns the number of bytes currently held.
func (b *Buffer) DataSize() int { return b.core.DataSize() }

// DataRevision returns the current revision counter, bumped whenever a
// read-affecting mutation occurs (see internal/pagechain.Buffer for the
// exact per-operation policy).
func (b *Buffer) DataRevision() uint64 { return b.core.DataRevision() }

// Extend allocates and appends length bytes of fresh, uninitialized pages.
func (b *Buffer) Extend(length int) int { return b.core.Extend(length) }

// Rewind allocates and prepends length bytes of fresh, uninitialized pages.
func (b *Buffer) Rewind(length int) int { return b.core.Rewind(length) }

// Seek consumes up to length bytes from the head of the buffer.
func (b *Buffer) Seek(length int) int { return b.core.Seek(length) }

// Trim drops up to length bytes from the tail of the buffer.
func (b *Buffer) Trim(length int) int { return b.core.Trim(length) }

// WriteData copies data into the buffer, fragmenting per strategy.
func (b *Buffer) WriteData(data []byte) int { return b.core.WriteData(data) }

// WriteDataRef writes data into the buffer, adopting a zero-copy reference
// to it unless the strategy forces a copy (CloneOnWrite).
func (b *Buffer) WriteDataRef(data []byte) int { return b.core.WriteDataRef(data) }

// WriteBuffer splices up to length bytes from src into b.
func (b *Buffer) WriteBuffer(src *Buffer, length int) int {
	if src == nil {
		return 0
	}
	return b.core.WriteBuffer(src.core, length)
}

// OverwriteData copies data into the existing chain in place, without
// changing the buffer's size.
func (b *Buffer) OverwriteData(data []byte) int { return b.core.OverwriteData(data) }

// ReadData copies up to len(out) bytes from the head of the buffer without
// consuming them.
func (b *Buffer) ReadData(out []byte) int { return b.core.ReadData(out) }

// Clear consumes the entire buffer.
func (b *Buffer) Clear() int { return b.core.Clear() }

// Destroy releases the buffer's pages. The buffer must not be used
// afterward.
func (b *Buffer) Destroy() { b.core.Destroy() }

// Stats summarizes a Buffer's current state for logging/diagnostics.
type Stats struct {
	ID           uuid.UUID
	DataSize     int
	DataRevision uint64
	Strategy     Strategy
}

// Stats returns a snapshot of the buffer's current state.
func (b *Buffer) Stats() Stats {
	return Stats{
		ID:           b.id,
		DataSize:     b.core.DataSize(),
		DataRevision: b.core.DataRevision(),
		Strategy:     b.core.Strategy(),
	}
}

// String renders Stats with a human-readable byte count, e.g. for log lines.
func (s Stats) String() string {
	return fmt.Sprintf("buffer %s: %s, revision %d", s.ID, humanize.Bytes(uint64(s.DataSize)), s.DataRevision)
}
