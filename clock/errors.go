package clock

import "errors"

// ErrIO wraps a filesystem failure encountered while loading or storing a
// ClockMap. Compare with errors.Is; the NotFound case is handled
// separately by LoadOrDefault and never surfaces as ErrIO to its caller.
var ErrIO = errors.New("clock: io error")

// ErrSerde wraps a JSON decode failure for a corrupt or malformed
// clock-map file.
var ErrSerde = errors.New("clock: serialization error")
