package fulltext

// ParsedQuery is a query string resolved against a Vocabulary. Tokens not
// present in the vocabulary resolve to nil, which forces the query to be
// treated as non-matching rather than silently ignored.
type ParsedQuery struct {
	Tokens []*TokenId
}

// ParseQuery resolves each of terms against vocab, in order. A term absent
// from the vocabulary produces a nil entry at the same position.
func ParseQuery(vocab *Vocabulary, terms []string) ParsedQuery {
	tokens := make([]*TokenId, len(terms))
	for i, term := range terms {
		if id, ok := vocab.Lookup(term); ok {
			v := id
			tokens[i] = &v
		}
	}
	return ParsedQuery{Tokens: tokens}
}

// resolved reports whether every token in the query resolved to a known id,
// and returns the resolved ids if so.
func (q ParsedQuery) resolved() ([]TokenId, bool) {
	ids := make([]TokenId, len(q.Tokens))
	for i, t := range q.Tokens {
		if t == nil {
			return nil, false
		}
		ids[i] = *t
	}
	return ids, true
}

// FieldCondition names the single field/token-text pair a cardinality
// estimate or payload block was computed for. It exists so a caller with no
// other context can explain which clause produced a given estimate.
type FieldCondition struct {
	Key   string
	Match string
}

// CardinalityEstimation is a [min, exp, max] bound on the number of points a
// query will match, along with the clause it was derived from. Planners use
// this to pick the cheapest query plan without materializing results.
type CardinalityEstimation struct {
	Primary FieldCondition
	Min     int
	Exp     int
	Max     int
}

// PayloadBlockCondition describes one single-token posting that is large
// enough to be worth materializing as a candidate set by the planner.
type PayloadBlockCondition struct {
	Condition   FieldCondition
	Cardinality int
}
