package fulltext

import "testing"

func setupSampleIndex(t *testing.T) *InvertedIndex {
	t.Helper()
	idx := NewMutableInvertedIndex()
	docs := map[uint32][]string{
		0: {"a", "b"},
		1: {"b", "c"},
		2: {"a", "c"},
		3: {"a", "b", "c"},
	}
	for _, p := range []uint32{0, 1, 2, 3} {
		doc := idx.DocumentFromTokens(docs[p])
		if err := idx.IndexDocument(p, doc); err != nil {
			t.Fatalf("IndexDocument(%d): %v", p, err)
		}
	}
	return idx
}

func queryFor(idx *InvertedIndex, terms ...string) ParsedQuery {
	dict := idx.variant.base().dict
	return ParseQuery(dict, terms)
}

func TestInvertedIndexFilterScenario(t *testing.T) {
	idx := setupSampleIndex(t)

	if got := collect(idx.Filter(queryFor(idx, "a", "b"))); !equalUint32(got, []uint32{0, 3}) {
		t.Errorf(`filter(["a","b"]) = %v, want [0 3]`, got)
	}
	if got := collect(idx.Filter(queryFor(idx, "c"))); !equalUint32(got, []uint32{1, 2, 3}) {
		t.Errorf(`filter(["c"]) = %v, want [1 2 3]`, got)
	}
	if got := collect(idx.Filter(queryFor(idx, "z"))); len(got) != 0 {
		t.Errorf(`filter(["z"]) = %v, want []`, got)
	}
}

func TestInvertedIndexRemoveDocument(t *testing.T) {
	idx := setupSampleIndex(t)

	if !idx.RemoveDocument(3) {
		t.Fatal("RemoveDocument(3) = false, want true")
	}
	if got := collect(idx.Filter(queryFor(idx, "a", "b"))); !equalUint32(got, []uint32{0}) {
		t.Errorf(`filter(["a","b"]) after remove = %v, want [0]`, got)
	}
	if idx.PointsCount() != 3 {
		t.Errorf("PointsCount() = %d, want 3", idx.PointsCount())
	}
	if idx.RemoveDocument(3) {
		t.Error("RemoveDocument(3) a second time = true, want false")
	}
}

func TestInvertedIndexImmutableConversion(t *testing.T) {
	idx := setupSampleIndex(t)
	idx.RemoveDocument(3)

	frozen := idx.toImmutable()
	if frozen.IsAppendable() {
		t.Fatal("IsAppendable() = true on frozen index")
	}
	if frozen.PointsCount() != idx.PointsCount() {
		t.Errorf("PointsCount() = %d, want %d", frozen.PointsCount(), idx.PointsCount())
	}
	if !frozen.CheckMatch(queryFor(frozen, "a", "b"), 0) {
		t.Error("CheckMatch([a b], 0) = false, want true")
	}
	if frozen.CheckMatch(queryFor(frozen, "a", "b"), 1) {
		t.Error("CheckMatch([a b], 1) = true, want false")
	}

	if err := frozen.IndexDocument(9, Document{}); err != ErrIndexImmutable {
		t.Errorf("IndexDocument on frozen index = %v, want ErrIndexImmutable", err)
	}
}

func TestInvertedIndexEstimateCardinality(t *testing.T) {
	idx := setupSampleIndex(t)

	single := idx.EstimateCardinality(queryFor(idx, "c"), FieldCondition{Key: "text", Match: "c"})
	if single.Min != 3 || single.Exp != 3 || single.Max != 3 {
		t.Errorf("single-token estimate = %+v, want min=exp=max=3", single)
	}

	multi := idx.EstimateCardinality(queryFor(idx, "a", "b"), FieldCondition{Key: "text", Match: "a+b"})
	if multi.Max != 3 {
		t.Errorf("multi-token estimate.Max = %d, want 3 (min of posting lens)", multi.Max)
	}
	if multi.Min != 0 {
		t.Errorf("multi-token estimate.Min = %d, want 0", multi.Min)
	}

	unresolved := idx.EstimateCardinality(queryFor(idx, "nope"), FieldCondition{Key: "text", Match: "nope"})
	if unresolved.Min != 0 || unresolved.Exp != 0 || unresolved.Max != 0 {
		t.Errorf("unresolved-token estimate = %+v, want all zero", unresolved)
	}
}

func TestInvertedIndexPayloadBlocks(t *testing.T) {
	idx := setupSampleIndex(t)

	var blocks []PayloadBlockCondition
	for b := range idx.PayloadBlocks(2, "text") {
		blocks = append(blocks, b)
	}
	if len(blocks) == 0 {
		t.Fatal("PayloadBlocks(2, ...) returned nothing")
	}
	for _, b := range blocks {
		if b.Cardinality < 2 {
			t.Errorf("block %+v has cardinality < threshold", b)
		}
	}
}

func TestBuildIndexImmutable(t *testing.T) {
	source := map[uint32][]string{0: {"x", "y"}, 1: {"y"}}
	seq := func(yield func(uint32, []string) bool) {
		for _, p := range []uint32{0, 1} {
			if !yield(p, source[p]) {
				return
			}
		}
	}

	idx := BuildIndex(seq, false)
	if idx.IsAppendable() {
		t.Fatal("BuildIndex(..., false) produced an appendable index")
	}
	if idx.PointsCount() != 2 {
		t.Errorf("PointsCount() = %d, want 2", idx.PointsCount())
	}
	if got := collect(idx.Filter(queryFor(idx, "y"))); !equalUint32(got, []uint32{0, 1}) {
		t.Errorf(`filter(["y"]) = %v, want [0 1]`, got)
	}
}
