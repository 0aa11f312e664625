package clock

import "testing"

func TestExtendWithMissingClocksScenario(t *testing.T) {
	rp := NewRecoveryPoint()
	rp.clocks[Key{PeerId: 1, ClockId: 0}] = 10

	m := NewClockMap()
	m.Advance(Tag{PeerId: 1, ClockId: 0, ClockTick: 20})
	m.Advance(Tag{PeerId: 2, ClockId: 0, ClockTick: 4})

	rp.ExtendWithMissingClocks(m)

	if tick, _ := rp.Tick(Key{PeerId: 1, ClockId: 0}); tick != 10 {
		t.Errorf("existing key tick = %d, want 10 (untouched)", tick)
	}
	if tick, ok := rp.Tick(Key{PeerId: 2, ClockId: 0}); !ok || tick != 4 {
		t.Errorf("new key tick = (%d, %v), want (4, true)", tick, ok)
	}
}

func TestRecoveryPointTagRoundTrip(t *testing.T) {
	rp := NewRecoveryPoint()
	rp.clocks[Key{PeerId: 1, ClockId: 0}] = 7
	rp.clocks[Key{PeerId: 2, ClockId: 3}] = 99

	tags := rp.ToTags()
	restored := RecoveryPointFromTags(tags)

	if restored.Len() != rp.Len() {
		t.Fatalf("restored.Len() = %d, want %d", restored.Len(), rp.Len())
	}
	for key, tick := range rp.clocks {
		got, ok := restored.Tick(key)
		if !ok || got != tick {
			t.Errorf("restored.Tick(%v) = (%d, %v), want (%d, true)", key, got, ok, tick)
		}
	}
}
