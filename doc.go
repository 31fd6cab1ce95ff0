// Package pagebuf implements a page-chained byte buffer: a growable chain
// of reference-counted, windowed pages that supports zero-copy producer/
// consumer handoff, in-place insertion, sequential and line-oriented
// reading, and an mmap-backed variant for durable append-only logs.
//
// The core mechanics live in internal/pagechain (the page/chain/buffer
// triad) and internal/mmapbuf (the file-backed specialization); this
// package is the public facade over internal/pagechain, plus named strategy
// presets (internal/presets) for picking a buffer's copy/fragmentation/
// insertion policy by name instead of constructing a Strategy literal. The
// mmap-backed variant is not exposed through this package.
package pagebuf
