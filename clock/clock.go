package clock

import (
	"sync"
	"sync/atomic"
)

// Clock is a single monotone tick counter, safe for concurrent advancement
// without external locking.
type Clock struct {
	currentTick atomic.Uint64
}

// newClock returns a Clock initialized to tick.
func newClock(tick uint64) *Clock {
	c := &Clock{}
	c.currentTick.Store(tick)
	return c
}

// advanceTo bumps the clock to newTick if it is larger than the current
// value. Returns whether the clock changed and the tick visible afterward.
// Go's sync/atomic has no fetch-max, so this is a compare-and-swap loop
// equivalent to Rust's AtomicU64::fetch_max.
func (c *Clock) advanceTo(newTick uint64) (updated bool, current uint64) {
	for {
		old := c.currentTick.Load()
		if old >= newTick {
			return false, old
		}
		if c.currentTick.CompareAndSwap(old, newTick) {
			return true, newTick
		}
	}
}

// Tick returns the clock's current value.
func (c *Clock) Tick() uint64 {
	return c.currentTick.Load()
}

// Options configures ClockMap's acceptance policy.
type Options struct {
	// RejectStale gates whether AdvanceAndCorrectTag can actually return
	// false for a stale tag. The upstream behavior this is modeled on always
	// accepts regardless of staleness (rejection is computed but not
	// enforced); set RejectStale to true to enforce it instead.
	RejectStale bool
}

// DefaultOptions matches the observed at-rest behavior: always accept.
func DefaultOptions() Options {
	return Options{RejectStale: false}
}

// ClockMap tracks one monotone Clock per Key. The map itself is guarded by
// a reader-writer lock: inserting a new Key requires exclusive access,
// while advancing an existing Key's tick only needs a shared lock, since
// Clock.advanceTo is itself safe under concurrent callers.
type ClockMap struct {
	opts Options

	mu     sync.RWMutex
	clocks map[Key]*Clock
}

// NewClockMap returns an empty ClockMap using DefaultOptions.
func NewClockMap() *ClockMap {
	return NewClockMapWithOptions(DefaultOptions())
}

// NewClockMapWithOptions returns an empty ClockMap using opts.
func NewClockMapWithOptions(opts Options) *ClockMap {
	return &ClockMap{opts: opts, clocks: make(map[Key]*Clock)}
}

// advance locates or creates the clock for key and advances it to newTick.
// Returns whether the clock was just created or bumped, and its resulting
// tick.
func (m *ClockMap) advance(key Key, newTick uint64) (updated bool, current uint64) {
	m.mu.RLock()
	c, ok := m.clocks[key]
	m.mu.RUnlock()
	if ok {
		return c.advanceTo(newTick)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clocks[key]; ok {
		// Another writer raced us to create it; fall back to a normal advance.
		return c.advanceTo(newTick)
	}
	m.clocks[key] = newClock(newTick)
	return true, newTick
}

// Advance advances the clock named by tag to tag.ClockTick, without
// correcting the tag. Fire-and-forget: the caller does not need the
// accept/correct decision AdvanceAndCorrectTag provides.
func (m *ClockMap) Advance(tag Tag) {
	m.advance(keyFromTag(tag), tag.ClockTick)
}

// AdvanceAndCorrectTag advances the clock named by tag.PeerId/tag.ClockId
// to tag.ClockTick if newer, or corrects tag.ClockTick to the current tick
// in place if tag's tick is stale. Returns whether the write should be
// accepted.
//
// tag.ClockTick == 0 is a "please stamp me" sentinel from a client with no
// local clock: it is always accepted and always corrected to the current
// tick. tag.Force marks a reconciliation write whose tick must be echoed
// back unmodified and is never corrected.
//
// Acceptance rejection is gated behind m.opts.RejectStale: when false (the
// default), every write is accepted regardless of staleness, matching the
// observed at-rest behavior this type is modeled on.
func (m *ClockMap) AdvanceAndCorrectTag(tag *Tag) bool {
	updated, current := m.advance(keyFromTag(*tag), tag.ClockTick)

	accepted := updated || tag.ClockTick == 0 || tag.Force
	updateTag := (!updated || tag.ClockTick == 0) && !tag.Force

	if updateTag {
		tag.ClockTick = current
	}

	if !m.opts.RejectStale {
		return true
	}
	return accepted
}

// ToRecoveryPoint snapshots every tracked clock's current tick.
func (m *ClockMap) ToRecoveryPoint() RecoveryPoint {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rp := NewRecoveryPoint()
	for key, c := range m.clocks {
		rp.clocks[key] = c.Tick()
	}
	return rp
}
