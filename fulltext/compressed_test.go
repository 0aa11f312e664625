package fulltext

import (
	"sort"
	"testing"
)

func dedupSorted(ids []uint32) []uint32 {
	sorted := append([]uint32(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := sorted[:0]
	var last uint32
	for i, v := range sorted {
		if i == 0 || v != last {
			out = append(out, v)
			last = v
		}
	}
	return out
}

func TestCompressedPostingListRoundTrip(t *testing.T) {
	input := dedupSorted([]uint32{10, 42, 42, 137, 9000, 9001})
	c := NewCompressedPostingList(input)

	if c.Len() != len(input) {
		t.Fatalf("Len() = %d, want %d", c.Len(), len(input))
	}
	got := collect(c.All())
	if !equalUint32(got, input) {
		t.Fatalf("round trip got %v, want %v", got, input)
	}

	if !c.Contains(9000) {
		t.Error("Contains(9000) = false, want true")
	}
	if c.Contains(11) {
		t.Error("Contains(11) = true, want false")
	}
}

func TestCompressedPostingListMultiBlock(t *testing.T) {
	ids := make([]uint32, 0, 300)
	for i := 0; i < 300; i++ {
		ids = append(ids, uint32(i*3))
	}
	c := NewCompressedPostingList(ids)

	got := collect(c.All())
	if !equalUint32(got, ids) {
		t.Fatalf("multi-block round trip mismatch: got %d ids, want %d", len(got), len(ids))
	}
	for _, id := range ids {
		if !c.Contains(id) {
			t.Errorf("Contains(%d) = false, want true", id)
		}
	}
	if c.Contains(5) {
		t.Error("Contains(5) = true, want false")
	}
}

func TestCompressedPostingListEmpty(t *testing.T) {
	c := NewCompressedPostingList(nil)
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if c.Contains(0) {
		t.Error("Contains(0) = true on empty list")
	}
}

func TestCompressedPostingListFilter(t *testing.T) {
	ids := dedupSorted([]uint32{1, 2, 3, 4, 5, 6})
	c := NewCompressedPostingList(ids)

	got := collect(c.Filter(func(id uint32) bool { return id%2 == 0 }))
	want := []uint32{2, 4, 6}
	if !equalUint32(got, want) {
		t.Fatalf("Filter even got %v, want %v", got, want)
	}
}
