package fulltext

import "sort"

// TokenId identifies an interned token string. Ids are dense, assigned in
// insertion order starting at 0, and are never reused even after the
// document that introduced them is deleted.
type TokenId uint32

// Vocabulary is the string<->TokenId dictionary shared by every document in
// an index. Entries only ever grow. Converting the façade to the immutable
// form shares the map by reference rather than copying it; nothing locks it
// against further interning.
type Vocabulary struct {
	ids map[string]TokenId
}

// NewVocabulary returns an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{ids: make(map[string]TokenId)}
}

// Lookup returns the id assigned to token, if any.
func (v *Vocabulary) Lookup(token string) (TokenId, bool) {
	id, ok := v.ids[token]
	return id, ok
}

// InternOrAssign returns token's id, assigning the next sequential id
// (len(vocab)) the first time it is seen.
func (v *Vocabulary) InternOrAssign(token string) TokenId {
	if id, ok := v.ids[token]; ok {
		return id
	}
	id := TokenId(len(v.ids))
	v.ids[token] = id
	return id
}

// Len returns the number of interned tokens.
func (v *Vocabulary) Len() int {
	return len(v.ids)
}

// Range calls fn for every (token, id) pair, stopping early if fn returns
// false. Iteration order is unspecified.
func (v *Vocabulary) Range(fn func(token string, id TokenId) bool) {
	for token, id := range v.ids {
		if !fn(token, id) {
			return
		}
	}
}

// Document is the sorted, deduplicated-by-convention set of TokenIds found
// in one indexed point. Sorting is mandatory: Check uses binary search.
type Document struct {
	tokens []TokenId
}

// NewDocument sorts tokens and returns the resulting Document. Duplicate
// ids are preserved (callers typically dedupe upstream via a token set) but
// never affect correctness since Check only cares about presence.
func NewDocument(tokens []TokenId) Document {
	sorted := append([]TokenId(nil), tokens...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return Document{tokens: sorted}
}

// Len returns the number of tokens in the document.
func (d Document) Len() int {
	return len(d.tokens)
}

// IsEmpty reports whether the document has no tokens.
func (d Document) IsEmpty() bool {
	return len(d.tokens) == 0
}

// Tokens returns the sorted token ids. Callers must not mutate the result.
func (d Document) Tokens() []TokenId {
	return d.tokens
}

// Check reports whether token is present in the document.
func (d Document) Check(token TokenId) bool {
	i := sort.Search(len(d.tokens), func(i int) bool { return d.tokens[i] >= token })
	return i < len(d.tokens) && d.tokens[i] == token
}
