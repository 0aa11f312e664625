package clock

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
)

// persistedEntry is the on-disk value for one clock.
type persistedEntry struct {
	CurrentTick uint64 `json:"current_tick"`
}

// MarshalJSON renders the clock map as a transparent JSON object keyed by
// "<peer_id>:<clock_id>" strings, e.g. {"1:0":{"current_tick":7}}. JSON
// object keys must be strings, so the structured Key is flattened to its
// String() form rather than nested as {"peer_id":1,"clock_id":0}; the
// colon separator is unambiguous since PeerId and ClockId are both
// unsigned integers.
func (m *ClockMap) MarshalJSON() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]persistedEntry, len(m.clocks))
	for key, c := range m.clocks {
		out[key.String()] = persistedEntry{CurrentTick: c.Tick()}
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a clock map previously produced by MarshalJSON.
func (m *ClockMap) UnmarshalJSON(data []byte) error {
	var raw map[string]persistedEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	clocks := make(map[Key]*Clock, len(raw))
	for keyStr, entry := range raw {
		key, err := parseKeyString(keyStr)
		if err != nil {
			return err
		}
		clocks[key] = newClock(entry.CurrentTick)
	}

	m.clocks = clocks
	return nil
}

func parseKeyString(s string) (Key, error) {
	peerStr, clockStr, ok := strings.Cut(s, ":")
	if !ok {
		return Key{}, fmt.Errorf("clock: malformed key %q", s)
	}
	peerID, err := strconv.ParseUint(peerStr, 10, 64)
	if err != nil {
		return Key{}, fmt.Errorf("clock: malformed peer id in key %q: %w", s, err)
	}
	clockID, err := strconv.ParseUint(clockStr, 10, 32)
	if err != nil {
		return Key{}, fmt.Errorf("clock: malformed clock id in key %q: %w", s, err)
	}
	return Key{PeerId: PeerId(peerID), ClockId: uint32(clockID)}, nil
}

// Load reads and JSON-decodes the clock map at path.
func Load(path string) (*ClockMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	m := NewClockMap()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerde, err)
	}
	return m, nil
}

// LoadOrDefault behaves like Load, except a missing file is treated as an
// empty map rather than an error.
func LoadOrDefault(path string) (*ClockMap, error) {
	m, err := Load(path)
	if err != nil {
		if errors.Is(err, ErrIO) && errors.Is(err, os.ErrNotExist) {
			return NewClockMap(), nil
		}
		return nil, err
	}
	return m, nil
}

// Store persists the clock map to path via a write-to-temp-then-rename,
// guaranteeing that a reader observes either the prior file or the
// complete new one, never a partial write.
func (m *ClockMap) Store(path string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerde, err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(string(data))); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
