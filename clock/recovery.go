package clock

// RecoveryPoint is a value-type snapshot of a ClockMap's ticks, used to
// negotiate WAL replay ranges during replica recovery. Unlike ClockMap, a
// tick here is a plain integer with no atomicity requirement.
type RecoveryPoint struct {
	clocks map[Key]uint64
}

// NewRecoveryPoint returns an empty recovery point.
func NewRecoveryPoint() RecoveryPoint {
	return RecoveryPoint{clocks: make(map[Key]uint64)}
}

// Tick returns the tick recorded for key, if any.
func (rp RecoveryPoint) Tick(key Key) (uint64, bool) {
	tick, ok := rp.clocks[key]
	return tick, ok
}

// Len returns the number of keys tracked.
func (rp RecoveryPoint) Len() int {
	return len(rp.clocks)
}

// ExtendWithMissingClocks inserts into rp any key present in clockMap but
// absent from rp. Keys rp already has are left untouched regardless of
// their tick in clockMap: a recovery point represents "what I already
// know", so a newer remote tick must never overwrite local state here.
func (rp RecoveryPoint) ExtendWithMissingClocks(clockMap *ClockMap) {
	clockMap.mu.RLock()
	defer clockMap.mu.RUnlock()

	for key, c := range clockMap.clocks {
		if _, ok := rp.clocks[key]; !ok {
			rp.clocks[key] = c.Tick()
		}
	}
}

// RecoveryPointFromTags reconstitutes a RecoveryPoint from its RPC
// projection: a flat, order-independent list of clock tags.
func RecoveryPointFromTags(tags []Tag) RecoveryPoint {
	rp := NewRecoveryPoint()
	for _, tag := range tags {
		rp.clocks[keyFromTag(tag)] = tag.ClockTick
	}
	return rp
}

// ToTags projects rp to its RPC form: a flat list of clock tags with
// Force unset. No ordering is required or guaranteed on the wire.
func (rp RecoveryPoint) ToTags() []Tag {
	tags := make([]Tag, 0, len(rp.clocks))
	for key, tick := range rp.clocks {
		tags = append(tags, Tag{PeerId: key.PeerId, ClockId: key.ClockId, ClockTick: tick})
	}
	return tags
}
