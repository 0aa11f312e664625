package fulltext

import (
	"iter"

	"github.com/RoaringBitmap/roaring"
)

// indexBase holds the state shared by both InvertedIndex variants: the
// token dictionary, the per-token posting tables, and a bitmap of
// currently-live point ids. The live bitmap is an auxiliary membership
// index (not the source of truth for which tokens a point has - that's
// still the per-variant document/length slice) kept mainly so
// PointsCount is a cardinality lookup rather than a maintained counter
// that can drift.
type indexBase struct {
	dict        *Vocabulary
	postingsTbl []*PostingList
	live        *roaring.Bitmap
}

func newIndexBase() indexBase {
	return indexBase{dict: NewVocabulary(), live: roaring.New()}
}

func (b *indexBase) pointsCount() int {
	return int(b.live.GetCardinality())
}

func (b *indexBase) getToken(term string) (TokenId, bool) {
	return b.dict.Lookup(term)
}

func (b *indexBase) postingAt(id TokenId) *PostingList {
	if int(id) >= len(b.postingsTbl) {
		return nil
	}
	return b.postingsTbl[id]
}

// indexVariant is the sealed, unexported-method interface standing in for
// the Mutable/Immutable tagged union: only MutableInvertedIndex and
// ImmutableInvertedIndex, both in this package, can implement it.
type indexVariant interface {
	isIndexVariant()
	base() *indexBase
	appendable() bool
	pointsCount() int
	valuesCount(pointId uint32) int
	valuesIsEmpty(pointId uint32) bool
	indexDocument(pointId uint32, doc Document) error
	removeDocument(pointId uint32) bool
}

// growSlice returns s grown to length n (copying existing elements),
// or s unchanged if it is already at least that long.
func growSlice[T any](s []T, n int) []T {
	if n <= len(s) {
		return s
	}
	grown := make([]T, n)
	copy(grown, s)
	return grown
}

// MutableInvertedIndex is the appendable variant: point_to_docs stores the
// full sorted token set per point so RemoveDocument can erase the point
// from every token's posting list.
type MutableInvertedIndex struct {
	indexBase
	docs []*Document
}

func (m *MutableInvertedIndex) isIndexVariant()  {}
func (m *MutableInvertedIndex) base() *indexBase { return &m.indexBase }
func (m *MutableInvertedIndex) appendable() bool { return true }

func (m *MutableInvertedIndex) valuesCount(pointId uint32) int {
	if int(pointId) >= len(m.docs) || m.docs[pointId] == nil {
		return 0
	}
	return m.docs[pointId].Len()
}

func (m *MutableInvertedIndex) valuesIsEmpty(pointId uint32) bool {
	return m.valuesCount(pointId) == 0
}

func (m *MutableInvertedIndex) indexDocument(pointId uint32, doc Document) error {
	m.docs = growSlice(m.docs, int(pointId)+1)
	m.docs[pointId] = &doc
	for _, t := range doc.tokens {
		m.postingsTbl = growSlice(m.postingsTbl, int(t)+1)
		if m.postingsTbl[t] == nil {
			m.postingsTbl[t] = NewPostingList(pointId)
		} else {
			m.postingsTbl[t].Insert(pointId)
		}
	}
	m.live.Add(pointId)
	return nil
}

func (m *MutableInvertedIndex) removeDocument(pointId uint32) bool {
	if int(pointId) >= len(m.docs) || m.docs[pointId] == nil {
		return false
	}
	doc := m.docs[pointId]
	for _, t := range doc.tokens {
		if p := m.postingAt(t); p != nil {
			p.Remove(pointId)
		}
	}
	m.docs[pointId] = nil
	m.live.Remove(pointId)
	return true
}

// ImmutableInvertedIndex is the frozen variant. It shares the same plain
// (uncompressed) posting table as the mutable form - CompressedPostingList
// is a standalone, independently usable representation, not wired into the
// façade's own storage (see DESIGN.md). Per-point token sets collapse to a
// length, since immutable matching only ever needs posting membership.
type ImmutableInvertedIndex struct {
	indexBase
	lengths []*int
}

func (im *ImmutableInvertedIndex) isIndexVariant()  {}
func (im *ImmutableInvertedIndex) base() *indexBase { return &im.indexBase }
func (im *ImmutableInvertedIndex) appendable() bool { return false }

func (im *ImmutableInvertedIndex) valuesCount(pointId uint32) int {
	if int(pointId) >= len(im.lengths) || im.lengths[pointId] == nil {
		return 0
	}
	return *im.lengths[pointId]
}

func (im *ImmutableInvertedIndex) valuesIsEmpty(pointId uint32) bool {
	return im.valuesCount(pointId) == 0
}

func (im *ImmutableInvertedIndex) indexDocument(pointId uint32, doc Document) error {
	return ErrIndexImmutable
}

func (im *ImmutableInvertedIndex) removeDocument(pointId uint32) bool {
	if int(pointId) >= len(im.lengths) || im.lengths[pointId] == nil {
		return false
	}
	im.lengths[pointId] = nil
	im.live.Remove(pointId)
	return true
}

// InvertedIndex is the façade over either variant: callers never see
// MutableInvertedIndex or ImmutableInvertedIndex directly.
type InvertedIndex struct {
	variant indexVariant
}

// NewMutableInvertedIndex returns an empty, appendable index.
func NewMutableInvertedIndex() *InvertedIndex {
	return &InvertedIndex{variant: &MutableInvertedIndex{indexBase: newIndexBase()}}
}

// IsAppendable reports whether IndexDocument is permitted on this index.
func (idx *InvertedIndex) IsAppendable() bool {
	return idx.variant.appendable()
}

// PointsCount returns the number of currently-live points.
func (idx *InvertedIndex) PointsCount() int {
	return idx.variant.pointsCount()
}

// ValuesCount returns the number of tokens stored for pointId, or 0 if the
// point is absent.
func (idx *InvertedIndex) ValuesCount(pointId uint32) int {
	return idx.variant.valuesCount(pointId)
}

// ValuesIsEmpty reports whether pointId has no stored tokens (including
// absence).
func (idx *InvertedIndex) ValuesIsEmpty(pointId uint32) bool {
	return idx.variant.valuesIsEmpty(pointId)
}

// GetToken resolves term against the index's vocabulary.
func (idx *InvertedIndex) GetToken(term string) (TokenId, bool) {
	return idx.variant.base().getToken(term)
}

// LivePoints returns the bitmap of currently-indexed point ids. Callers
// must not mutate the returned bitmap.
func (idx *InvertedIndex) LivePoints() *roaring.Bitmap {
	return idx.variant.base().live
}

// DocumentFromTokens interns each string in tokens (assigning a new TokenId
// the first time a token is seen) and returns the resulting sorted
// Document.
func (idx *InvertedIndex) DocumentFromTokens(tokens []string) Document {
	dict := idx.variant.base().dict
	ids := make([]TokenId, len(tokens))
	for i, t := range tokens {
		ids[i] = dict.InternOrAssign(t)
	}
	return NewDocument(ids)
}

// IndexDocument stores doc under pointId. Returns ErrIndexImmutable if the
// index is not appendable. Re-indexing a point id that is already present
// without an intervening RemoveDocument is permitted and PointsCount still
// counts the point once, but the postings of tokens that were in the earlier
// document and are not in doc keep the point id; pair inserts with removes
// to avoid stale postings.
func (idx *InvertedIndex) IndexDocument(pointId uint32, doc Document) error {
	return idx.variant.indexDocument(pointId, doc)
}

// RemoveDocument erases pointId, returning true iff it was present.
func (idx *InvertedIndex) RemoveDocument(pointId uint32) bool {
	return idx.variant.removeDocument(pointId)
}

// resolvePostings resolves query against the vocabulary and gathers the
// non-empty posting list for each token. Returns ok=false if any token is
// unresolved, any resolved token has no live postings, or the query is
// empty.
func (idx *InvertedIndex) resolvePostings(query ParsedQuery) ([]*PostingList, bool) {
	ids, ok := query.resolved()
	if !ok || len(ids) == 0 {
		return nil, false
	}
	b := idx.variant.base()
	lists := make([]*PostingList, 0, len(ids))
	for _, id := range ids {
		p := b.postingAt(id)
		if p == nil || p.Len() == 0 {
			return nil, false
		}
		lists = append(lists, p)
	}
	return lists, true
}

// Filter returns an iterator over the point ids matching every resolved
// token in query (a set intersection). An unresolved token, or a token
// with no live postings, yields an empty iterator.
func (idx *InvertedIndex) Filter(query ParsedQuery) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		lists, ok := idx.resolvePostings(query)
		if !ok {
			return
		}
		for id := range intersectPostings(lists) {
			if !yield(id) {
				return
			}
		}
	}
}

// intersectPostings n-way intersects already-sorted postings via a
// leapfrog merge: repeatedly advance every cursor that trails the current
// maximum front, emit the front once every cursor agrees on it, then
// advance all cursors and repeat.
func intersectPostings(lists []*PostingList) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		nexts := make([]func() (uint32, bool), len(lists))
		stops := make([]func(), len(lists))
		for i, l := range lists {
			next, stop := iter.Pull(l.All())
			nexts[i], stops[i] = next, stop
		}
		defer func() {
			for _, stop := range stops {
				stop()
			}
		}()

		fronts := make([]uint32, len(lists))
		for i := range nexts {
			v, ok := nexts[i]()
			if !ok {
				return
			}
			fronts[i] = v
		}

		for {
			candidate := fronts[0]
			for _, f := range fronts[1:] {
				if f > candidate {
					candidate = f
				}
			}
			allMatch := true
			for i := range nexts {
				for fronts[i] < candidate {
					v, ok := nexts[i]()
					if !ok {
						return
					}
					fronts[i] = v
				}
				if fronts[i] != candidate {
					allMatch = false
				}
			}
			if allMatch {
				if !yield(candidate) {
					return
				}
				for i := range nexts {
					v, ok := nexts[i]()
					if !ok {
						return
					}
					fronts[i] = v
				}
			}
		}
	}
}

// CheckMatch reports whether pointId's stored tokens satisfy every
// resolved token in query. False if any token is unresolved.
func (idx *InvertedIndex) CheckMatch(query ParsedQuery, pointId uint32) bool {
	ids, ok := query.resolved()
	if !ok {
		return false
	}
	b := idx.variant.base()
	for _, id := range ids {
		p := b.postingAt(id)
		if p == nil || !p.Contains(pointId) {
			return false
		}
	}
	return true
}

// EstimateCardinality bounds the number of points Filter(query) would
// yield, without materializing the intersection.
func (idx *InvertedIndex) EstimateCardinality(query ParsedQuery, condition FieldCondition) CardinalityEstimation {
	est := CardinalityEstimation{Primary: condition}
	lists, ok := idx.resolvePostings(query)
	if !ok {
		return est
	}
	if len(lists) == 1 {
		l := lists[0].Len()
		est.Min, est.Exp, est.Max = l, l, l
		return est
	}
	pointsCount := idx.PointsCount()
	maxLen := lists[0].Len()
	prob := 1.0
	for _, l := range lists {
		if l.Len() < maxLen {
			maxLen = l.Len()
		}
		if pointsCount > 0 {
			prob *= float64(l.Len()) / float64(pointsCount)
		}
	}
	exp := 0
	if pointsCount > 0 {
		exp = int(float64(pointsCount) * prob)
	}
	est.Min = 0
	est.Exp = exp
	est.Max = maxLen
	return est
}

// PayloadBlocks yields one PayloadBlockCondition per vocabulary entry whose
// posting list has at least threshold members, keyed by key.
func (idx *InvertedIndex) PayloadBlocks(threshold int, key string) iter.Seq[PayloadBlockCondition] {
	return func(yield func(PayloadBlockCondition) bool) {
		b := idx.variant.base()
		b.dict.Range(func(token string, id TokenId) bool {
			p := b.postingAt(id)
			if p == nil || p.Len() < threshold {
				return true
			}
			cond := PayloadBlockCondition{
				Condition:   FieldCondition{Key: key, Match: token},
				Cardinality: p.Len(),
			}
			return yield(cond)
		})
	}
}

// BuildIndex consumes (pointId, tokenTexts) pairs into a fresh mutable
// index, then either returns it directly (appendable=true) or freezes it
// into an immutable form (appendable=false).
func BuildIndex(points iter.Seq2[uint32, []string], appendable bool) *InvertedIndex {
	fresh := NewMutableInvertedIndex()
	for pointId, tokens := range points {
		doc := fresh.DocumentFromTokens(tokens)
		_ = fresh.IndexDocument(pointId, doc)
	}
	if appendable {
		return fresh
	}
	return fresh.toImmutable()
}

// toImmutable returns a new Immutable-backed façade built from a
// Mutable-backed one, projecting each document down to its length and
// sharing the vocabulary, posting tables and live bitmap by reference
// (they are frozen by convention, not by copy). The receiver is left as is.
func (idx *InvertedIndex) toImmutable() *InvertedIndex {
	m := idx.variant.(*MutableInvertedIndex)
	lengths := make([]*int, len(m.docs))
	for i, d := range m.docs {
		if d != nil {
			l := d.Len()
			lengths[i] = &l
		}
	}
	im := &ImmutableInvertedIndex{
		indexBase: m.indexBase,
		lengths:   lengths,
	}
	return &InvertedIndex{variant: im}
}
