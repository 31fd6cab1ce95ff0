package mmapbuf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuffer_WriteAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.pb")

	b, err := Open(path, OpenAppend, CloseRetain)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	want := "the quick brown fox jumps over the lazy dog"
	if n := b.WriteData([]byte(want)); n != len(want) {
		t.Fatalf("WriteData wrote %d bytes, want %d", n, len(want))
	}
	if err := b.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := Open(path, OpenRead, CloseRetain)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer r.Close()

	if r.DataSize() != len(want) {
		t.Fatalf("DataSize() = %d, want %d", r.DataSize(), len(want))
	}
	out := make([]byte, len(want))
	if n := r.ReadData(out); n != len(want) || string(out) != want {
		t.Fatalf("ReadData = %q (n=%d), want %q", out, n, want)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to still exist (CloseRetain): %v", err)
	}
}

func TestBuffer_TrimUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trim.pb")

	b, err := Open(path, OpenAppend, CloseRemove)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()

	b.WriteData([]byte("abc"))
	if _, err := b.Trim(1); err != ErrMmapTrimUnsupported {
		t.Fatalf("Trim error = %v, want ErrMmapTrimUnsupported", err)
	}
}

func TestBuffer_CloseRemoveDeletesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.pb")

	b, err := Open(path, OpenOverwrite, CloseRemove)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b.WriteData([]byte("data"))
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file to be removed, stat err = %v", err)
	}
}

func TestBuffer_GrowsAcrossMultiplePages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.pb")

	b, err := Open(path, OpenAppend, CloseRemove)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()

	data := make([]byte, DefaultBaseSize*3+17)
	for i := range data {
		data[i] = byte(i)
	}
	if n := b.WriteData(data); n != len(data) {
		t.Fatalf("WriteData wrote %d, want %d", n, len(data))
	}
	out := make([]byte, len(data))
	if n := b.ReadData(out); n != len(data) {
		t.Fatalf("ReadData = %d, want %d", n, len(data))
	}
	for i := range data {
		if out[i] != data[i] {
			t.Fatalf("byte %d = %d, want %d", i, out[i], data[i])
		}
	}
}
