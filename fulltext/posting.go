package fulltext

import (
	"iter"
	"sort"
)

// PostingList is the mutable, uncompressed posting list for one token: a
// strictly increasing slice of point ids. Membership is O(log n) via binary
// search; insert/remove are O(n) because the tail shifts. That's acceptable
// because writes are typically near the tail (point ids are assigned close
// to monotonically) while queries - the hot path - want contiguous sorted
// storage, not tree-shaped overhead.
type PostingList struct {
	ids []uint32
}

// NewPostingList returns a posting list containing a single point id.
func NewPostingList(id uint32) *PostingList {
	return &PostingList{ids: []uint32{id}}
}

// Insert adds id to the list if not already present, preserving sort order.
// Idempotent on duplicates.
func (p *PostingList) Insert(id uint32) {
	i := sort.Search(len(p.ids), func(i int) bool { return p.ids[i] >= id })
	if i < len(p.ids) && p.ids[i] == id {
		return
	}
	p.ids = append(p.ids, 0)
	copy(p.ids[i+1:], p.ids[i:])
	p.ids[i] = id
}

// Remove deletes id from the list if present. Idempotent on absence.
func (p *PostingList) Remove(id uint32) {
	i := sort.Search(len(p.ids), func(i int) bool { return p.ids[i] >= id })
	if i < len(p.ids) && p.ids[i] == id {
		p.ids = append(p.ids[:i], p.ids[i+1:]...)
	}
}

// Contains reports whether id is present, via binary search.
func (p *PostingList) Contains(id uint32) bool {
	i := sort.Search(len(p.ids), func(i int) bool { return p.ids[i] >= id })
	return i < len(p.ids) && p.ids[i] == id
}

// Len returns the number of point ids in the list.
func (p *PostingList) Len() int {
	return len(p.ids)
}

// All returns an in-order iterator over the list's point ids.
func (p *PostingList) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for _, id := range p.ids {
			if !yield(id) {
				return
			}
		}
	}
}
