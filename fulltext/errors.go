package fulltext

import "errors"

// ErrIndexImmutable is returned when a caller attempts to add a document to
// an index built with appendable = false. It is fatal to the operation, not
// to the index: the caller should route the write elsewhere (e.g. rebuild).
var ErrIndexImmutable = errors.New("fulltext: cannot index document into immutable index")
