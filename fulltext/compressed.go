package fulltext

import (
	"iter"
	"math/bits"
)

// compressedBlockSize is the number of point ids packed into one chunk.
// Matches the 128-wide block size of the reference implementation's
// BitPacker4x-based chunks.
const compressedBlockSize = 128

// compressedChunk holds exactly compressedBlockSize point ids as a
// frame-of-reference delta-encoded, fixed-width bit-packed block: every id
// in the chunk is stored as (id - offset), and every delta is packed using
// the same bit width, sized to fit the chunk's maximum delta. offset is the
// chunk's first (smallest) id.
type compressedChunk struct {
	offset   uint32
	bitWidth uint8
	packed   []uint64
}

func packChunk(ids []uint32) compressedChunk {
	offset := ids[0]
	maxDelta := uint32(0)
	for _, id := range ids {
		if d := id - offset; d > maxDelta {
			maxDelta = d
		}
	}
	width := bitsRequired(maxDelta)
	c := compressedChunk{offset: offset, bitWidth: width}
	c.packed = make([]uint64, (compressedBlockSize*int(width)+63)/64)
	for i, id := range ids {
		writeBits(c.packed, i*int(width), width, id-offset)
	}
	return c
}

// unpack decodes the full block, including any tail-padding duplicates of
// the list's final id; callers truncate to CompressedPostingList.Len.
func (c compressedChunk) unpack() [compressedBlockSize]uint32 {
	var out [compressedBlockSize]uint32
	for i := 0; i < compressedBlockSize; i++ {
		out[i] = c.offset + readBits(c.packed, i*int(c.bitWidth), c.bitWidth)
	}
	return out
}

// bitsRequired returns the minimum number of bits needed to represent v.
func bitsRequired(v uint32) uint8 {
	if v == 0 {
		return 0
	}
	return uint8(bits.Len32(v))
}

// writeBits stores value, truncated to width bits, at bit offset bitPos
// within dst.
func writeBits(dst []uint64, bitPos int, width uint8, value uint32) {
	if width == 0 {
		return
	}
	v := uint64(value) & ((1 << width) - 1)
	word := bitPos / 64
	off := uint(bitPos % 64)
	dst[word] |= v << off
	if off+uint(width) > 64 {
		dst[word+1] |= v >> (64 - off)
	}
}

// readBits reads width bits starting at bitPos within src.
func readBits(src []uint64, bitPos int, width uint8) uint32 {
	if width == 0 {
		return 0
	}
	word := bitPos / 64
	off := uint(bitPos % 64)
	v := src[word] >> off
	if off+uint(width) > 64 {
		v |= src[word+1] << (64 - off)
	}
	return uint32(v & ((1 << width) - 1))
}

// CompressedPostingList is the read-only, space-optimized representation of
// a posting list, built once from a finished sorted id slice via
// NewCompressedPostingList. It trades PostingList's O(n) insert/remove
// (unsupported entirely; the structure is immutable) for a much smaller
// memory footprint, intended for tokens whose postings have been frozen
// into an immutable, cold index.
type CompressedPostingList struct {
	length int
	chunks []compressedChunk
}

// NewCompressedPostingList builds a CompressedPostingList from ids, which
// must already be sorted (the same invariant PostingList.All produces; a
// sorted-with-duplicates input is tolerated, see below). If ids is empty,
// the result has zero chunks and Len() == 0.
//
// The input is padded with copies of its final id until its length is a
// multiple of compressedBlockSize, so every chunk packs a full block; Len
// records the true, pre-padding count, and All/Contains/Filter stop once
// they've produced that many ids. Because padding introduces duplicate ids
// at the tail, this uses the "sorted" (not "strictly sorted") encoding
// policy - the safe choice once padding is in play.
func NewCompressedPostingList(ids []uint32) *CompressedPostingList {
	c := &CompressedPostingList{length: len(ids)}
	if len(ids) == 0 {
		return c
	}

	padded := ids
	if rem := len(ids) % compressedBlockSize; rem != 0 {
		padded = make([]uint32, len(ids), len(ids)+compressedBlockSize-rem)
		copy(padded, ids)
		last := ids[len(ids)-1]
		for len(padded) < cap(padded) {
			padded = append(padded, last)
		}
	}

	for i := 0; i < len(padded); i += compressedBlockSize {
		block := padded[i : i+compressedBlockSize]
		chunk := packChunk(block)
		if chunk.unpack() != [compressedBlockSize]uint32(block) {
			panic("fulltext: compressed block failed round-trip self-check")
		}
		c.chunks = append(c.chunks, chunk)
	}
	return c
}

// Len returns the total number of point ids represented (excluding tail
// padding).
func (c *CompressedPostingList) Len() int {
	return c.length
}

// Contains reports whether id is present.
func (c *CompressedPostingList) Contains(id uint32) bool {
	for v := range c.All() {
		if v == id {
			return true
		}
	}
	return false
}

// All returns an in-order iterator over every real (non-padding) point id
// in the list, decoding one block at a time.
func (c *CompressedPostingList) All() iter.Seq[uint32] {
	return c.Filter(func(uint32) bool { return true })
}

// Filter returns an iterator over the subset of ids for which keep returns
// true, decoding one block at a time rather than materializing the full
// list.
func (c *CompressedPostingList) Filter(keep func(uint32) bool) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		emitted := 0
		for _, chunk := range c.chunks {
			block := chunk.unpack()
			for _, id := range block {
				if emitted >= c.length {
					return
				}
				emitted++
				if keep(id) && !yield(id) {
					return
				}
			}
		}
	}
}
