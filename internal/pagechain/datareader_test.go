package pagechain

import "testing"

// Scenario 5: data reader revision guard.
func TestDataReader_ResetsOnRevisionChange(t *testing.T) {
	b := NewBuffer(DefaultStrategy(), nil)
	b.WriteData([]byte("abcdef"))
	r := NewDataReader(b)

	out := make([]byte, 3)
	if n := r.Read(out); n != 3 || string(out) != "abc" {
		t.Fatalf("first read = %q (n=%d), want %q", out, n, "abc")
	}

	b.OverwriteData([]byte("ZZZZZZ"))

	if n := r.Read(out); n != 3 || string(out) != "ZZZ" {
		t.Fatalf("read after overwrite = %q (n=%d), want %q (reset expected)", out, n, "ZZZ")
	}
}

func TestDataReader_SequentialReadsDoNotConsume(t *testing.T) {
	b := NewBuffer(DefaultStrategy(), nil)
	b.WriteData([]byte("0123456789"))
	r := NewDataReader(b)

	out := make([]byte, 4)
	r.Read(out)
	r.Read(out)
	if b.DataSize() != 10 {
		t.Fatalf("DataSize() = %d, want 10 (DataReader must not consume)", b.DataSize())
	}
}

func TestDataReader_ResumesAfterExtendWithoutReset(t *testing.T) {
	s := DefaultStrategy()
	s.PageSize = 4
	b := NewBuffer(s, nil)
	b.WriteData([]byte("abcd"))
	r := NewDataReader(b)

	out := make([]byte, 4)
	if n := r.Read(out); n != 4 || string(out) != "abcd" {
		t.Fatalf("first read = %q (n=%d)", out, n)
	}
	// second read hits the sentinel and must pin, not get stuck
	if n := r.Read(out); n != 0 {
		t.Fatalf("read at end returned %d, want 0", n)
	}

	// Extend never bumps data_revision; the reader must still see the new
	// bytes on its next read rather than treating this as stale/reset.
	rev := b.DataRevision()
	b.WriteData([]byte("efgh"))
	if b.DataRevision() != rev {
		t.Fatal("test invariant broken: WriteData into a non-empty buffer must not bump revision")
	}

	if n := r.Read(out); n != 4 || string(out) != "efgh" {
		t.Fatalf("read after append = %q (n=%d), want %q", out, n, "efgh")
	}
}

func TestDataReader_ReadMoreThanAvailableReturnsPartial(t *testing.T) {
	b := NewBuffer(DefaultStrategy(), nil)
	b.WriteData([]byte("ab"))
	r := NewDataReader(b)

	out := make([]byte, 10)
	n := r.Read(out)
	if n != 2 || string(out[:2]) != "ab" {
		t.Fatalf("Read = %q (n=%d), want 2 bytes %q", out[:n], n, "ab")
	}
}
