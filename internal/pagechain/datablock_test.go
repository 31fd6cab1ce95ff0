package pagechain

import "testing"

func TestDataBlock_OwnedFreesRegionAtZeroUseCount(t *testing.T) {
	var freed []byte
	alloc := &recordingAllocator{onFree: func(r []byte) { freed = r }}
	block := NewOwned([]byte{1, 2, 3}, alloc)
	if block.UseCount() != 1 {
		t.Fatalf("UseCount() = %d, want 1", block.UseCount())
	}
	block.Get()
	if block.UseCount() != 2 {
		t.Fatalf("UseCount() = %d, want 2 after Get", block.UseCount())
	}
	block.Put()
	if freed != nil {
		t.Fatal("region freed before use count reached zero")
	}
	block.Put()
	if freed == nil {
		t.Fatal("expected region to be freed once use count reached zero")
	}
}

func TestDataBlock_ReferencedNeverFreesRegion(t *testing.T) {
	freeCalled := false
	alloc := &recordingAllocator{onFree: func(r []byte) { freeCalled = true }}
	region := []byte{9, 9, 9}
	block := NewReferenced(region, alloc)
	block.Put()
	if freeCalled {
		t.Fatal("Referenced block must never call allocator.Free on its region")
	}
}

type recordingAllocator struct {
	onFree func([]byte)
}

func (a *recordingAllocator) Alloc(size int) []byte {
	return make([]byte, size)
}

func (a *recordingAllocator) Free(region []byte) {
	if a.onFree != nil {
		a.onFree(region)
	}
}
