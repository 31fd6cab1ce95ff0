package pagechain

import (
	"bytes"
	"testing"
)

func pageLens(b *Buffer) []int {
	var lens []int
	for it := b.Begin(); !it.IsEnd(); it = it.Next() {
		lens = append(lens, it.Page().Len())
	}
	return lens
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Scenario 1: append and read back.
func TestBuffer_AppendAndReadBack(t *testing.T) {
	s := DefaultStrategy()
	s.PageSize = 4
	b := NewBuffer(s, nil)

	n := b.WriteData([]byte("hello world"))
	if n != 11 {
		t.Fatalf("WriteData returned %d, want 11", n)
	}
	if b.DataSize() != 11 {
		t.Fatalf("DataSize() = %d, want 11", b.DataSize())
	}
	if got := pageLens(b); !intsEqual(got, []int{4, 4, 3}) {
		t.Fatalf("page lengths = %v, want [4 4 3]", got)
	}

	out := make([]byte, 11)
	if n := b.ReadData(out); n != 11 {
		t.Fatalf("ReadData returned %d, want 11", n)
	}
	if string(out) != "hello world" {
		t.Fatalf("ReadData = %q, want %q", out, "hello world")
	}
}

// Scenario 2: seek across pages.
func TestBuffer_SeekAcrossPages(t *testing.T) {
	s := DefaultStrategy()
	s.PageSize = 4
	b := NewBuffer(s, nil)
	b.WriteData([]byte("hello world"))

	n := b.Seek(5)
	if n != 5 {
		t.Fatalf("Seek returned %d, want 5", n)
	}
	if b.DataSize() != 6 {
		t.Fatalf("DataSize() = %d, want 6", b.DataSize())
	}
	if got := pageLens(b); !intsEqual(got, []int{3, 3}) {
		t.Fatalf("page lengths = %v, want [3 3]", got)
	}

	out := make([]byte, 6)
	b.ReadData(out)
	if string(out) != " world" {
		t.Fatalf("ReadData = %q, want %q", out, " world")
	}
}

// Scenario 3: zero-copy reference write.
func TestBuffer_WriteDataRefZeroCopy(t *testing.T) {
	s := Strategy{PageSize: 0, CloneOnWrite: false, FragmentAsTarget: false}
	b := NewBuffer(s, nil)

	src := []byte("ABCDE")
	n := b.WriteDataRef(src)
	if n != 5 {
		t.Fatalf("WriteDataRef returned %d, want 5", n)
	}
	if b.DataSize() != 5 {
		t.Fatalf("DataSize() = %d, want 5", b.DataSize())
	}

	it := b.Begin()
	if it.IsEnd() {
		t.Fatal("expected one page, got none")
	}
	page := it.Page()
	if &page.Bytes()[0] != &src[0] {
		t.Fatal("page does not reference the original backing array")
	}
	if next := it.Next(); !next.IsEnd() {
		t.Fatal("expected exactly one page")
	}
}

// Scenario 4: insert rejected.
func TestBuffer_InsertRejected(t *testing.T) {
	s := Strategy{RejectsInsert: true}
	b := NewBuffer(s, nil)
	b.WriteData([]byte("XY"))

	block := NewOwned([]byte("Z"), NewHeapAllocator())
	page := NewPage(block)
	block.Put()

	n := b.Insert(b.Begin(), 1, page)
	if n != 0 {
		t.Fatalf("Insert returned %d, want 0", n)
	}
	if b.DataSize() != 2 {
		t.Fatalf("DataSize() = %d, want 2 (unchanged)", b.DataSize())
	}
	out := make([]byte, 2)
	b.ReadData(out)
	if string(out) != "XY" {
		t.Fatalf("buffer contents = %q, want %q", out, "XY")
	}
}

func TestBuffer_InsertAtPageBoundaryEquivalentToNextPageStart(t *testing.T) {
	s := DefaultStrategy()
	s.PageSize = 4
	b := NewBuffer(s, nil)
	b.WriteData([]byte("helloworld")) // pages: hell, owor, ld

	block := NewOwned([]byte("X"), NewHeapAllocator())
	newPage := NewPage(block)
	block.Put()

	// Insert at offset == first page's length (4): should land at the
	// start of the second page, not split the first.
	n := b.Insert(b.Begin(), 4, newPage)
	if n != 1 {
		t.Fatalf("Insert returned %d, want 1", n)
	}
	out := make([]byte, b.DataSize())
	b.ReadData(out)
	if string(out) != "hellXoworld" {
		t.Fatalf("buffer contents = %q, want %q", out, "hellXoworld")
	}
}

func TestBuffer_SeekPastEndConsumesExactlyDataSize(t *testing.T) {
	b := NewBuffer(DefaultStrategy(), nil)
	b.WriteData([]byte("abc"))

	n := b.Seek(100)
	if n != 3 {
		t.Fatalf("Seek returned %d, want 3", n)
	}
	if b.DataSize() != 0 {
		t.Fatalf("DataSize() = %d, want 0", b.DataSize())
	}
}

func TestBuffer_WriteDataSeekRoundTrip(t *testing.T) {
	b := NewBuffer(DefaultStrategy(), nil)
	data := []byte("the quick brown fox")
	b.WriteData(data)
	b.Seek(len(data))
	if b.DataSize() != 0 {
		t.Fatalf("DataSize() = %d, want 0", b.DataSize())
	}
}

func TestBuffer_WriteDataReadDataRoundTrip(t *testing.T) {
	strategies := []Strategy{
		{PageSize: 0},
		{PageSize: 3},
		{PageSize: 7, FragmentAsTarget: true},
	}
	data := []byte("the quick brown fox jumps over the lazy dog")
	for _, s := range strategies {
		b := NewBuffer(s, nil)
		b.WriteData(data)
		out := make([]byte, len(data))
		n := b.ReadData(out)
		if n != len(data) || !bytes.Equal(out, data) {
			t.Fatalf("strategy %+v: round trip mismatch: got %q", s, out)
		}
	}
}

func TestBuffer_OverwriteData(t *testing.T) {
	s := DefaultStrategy()
	s.PageSize = 4
	b := NewBuffer(s, nil)
	b.WriteData([]byte("hello world"))
	rev := b.DataRevision()

	n := b.OverwriteData([]byte("HELLO"))
	if n != 5 {
		t.Fatalf("OverwriteData returned %d, want 5", n)
	}
	if b.DataRevision() == rev {
		t.Fatal("expected data_revision to increase on overwrite")
	}
	out := make([]byte, b.DataSize())
	b.ReadData(out)
	if string(out) != "HELLO world" {
		t.Fatalf("buffer contents = %q, want %q", out, "HELLO world")
	}
}

func TestBuffer_ExtendDoesNotBumpRevision(t *testing.T) {
	b := NewBuffer(DefaultStrategy(), nil)
	b.WriteData([]byte("abc"))
	rev := b.DataRevision()
	b.Extend(4)
	if b.DataRevision() != rev {
		t.Fatalf("Extend bumped data_revision: %d -> %d", rev, b.DataRevision())
	}
}

func TestBuffer_RewindBumpsRevisionAndPrepends(t *testing.T) {
	b := NewBuffer(DefaultStrategy(), nil)
	b.WriteData([]byte("world"))
	rev := b.DataRevision()

	n := b.Rewind(6)
	if n != 6 {
		t.Fatalf("Rewind returned %d, want 6", n)
	}
	if b.DataRevision() == rev {
		t.Fatal("expected data_revision to increase on rewind")
	}
	if b.DataSize() != 11 {
		t.Fatalf("DataSize() = %d, want 11", b.DataSize())
	}

	out := make([]byte, 11)
	b.ReadData(out)
	if string(out[6:]) != "world" {
		t.Fatalf("tail of buffer = %q, want %q", out[6:], "world")
	}
}

func TestBuffer_WriteBufferZeroCopySharesBlocks(t *testing.T) {
	src := NewBuffer(Strategy{PageSize: 4}, nil)
	src.WriteData([]byte("hello world"))

	dst := NewBuffer(Strategy{CloneOnWrite: false}, nil)
	n := dst.WriteBuffer(src, src.DataSize())
	if n != 11 {
		t.Fatalf("WriteBuffer returned %d, want 11", n)
	}

	firstSrcBlock := src.Begin().Page().Block()
	before := firstSrcBlock.UseCount()
	if before < 2 {
		t.Fatalf("expected source block use count >= 2 after sharing, got %d", before)
	}

	out := make([]byte, 11)
	dst.ReadData(out)
	if string(out) != "hello world" {
		t.Fatalf("dst contents = %q, want %q", out, "hello world")
	}
}

func TestBuffer_WriteBufferCopyDoesNotShareBlocks(t *testing.T) {
	src := NewBuffer(Strategy{PageSize: 4}, nil)
	src.WriteData([]byte("hello world"))
	srcBlock := src.Begin().Page().Block()
	before := srcBlock.UseCount()

	dst := NewBuffer(Strategy{CloneOnWrite: true}, nil)
	dst.WriteBuffer(src, src.DataSize())

	if srcBlock.UseCount() != before {
		t.Fatalf("copy-on-write WriteBuffer changed source use count: %d -> %d", before, srcBlock.UseCount())
	}
	out := make([]byte, 11)
	dst.ReadData(out)
	if string(out) != "hello world" {
		t.Fatalf("dst contents = %q, want %q", out, "hello world")
	}
}

func TestBuffer_ClearEmptiesBuffer(t *testing.T) {
	b := NewBuffer(DefaultStrategy(), nil)
	b.WriteData([]byte("abcdef"))
	b.Clear()
	if b.DataSize() != 0 {
		t.Fatalf("DataSize() = %d, want 0 after Clear", b.DataSize())
	}
	if !b.Begin().IsEnd() {
		t.Fatal("expected empty chain after Clear")
	}
}
