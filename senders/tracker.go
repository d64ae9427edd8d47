// Package senders tracks concurrently open connections and warns when
// clients reconnect too often.
//
// Each open connection holds a small slot id. Ids are reused lowest first, so
// a client that keeps reconnecting tends to land on the same slot, and the
// per-slot history of establishment times reveals a reconnect loop.
package senders

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Config holds tracker settings.
type Config struct {
	// Window is the trailing period over which reconnects are counted.
	Window time.Duration

	// Threshold is the number of establishments on one slot within Window
	// that raises a warning.
	Threshold int

	// QuietWindow suppresses further warnings after one is raised.
	QuietWindow time.Duration

	// Clock defaults to the system clock.
	Clock Clock
}

// DefaultConfig returns the default tracker configuration.
func DefaultConfig() Config {
	return Config{
		Window:      5 * time.Second,
		Threshold:   25,
		QuietWindow: 10 * time.Minute,
	}
}

// Tracker issues connection slots and watches for reconnect storms.
// Safe for concurrent use.
type Tracker struct {
	mu          sync.Mutex
	cfg         Config
	slots       slots
	series      map[uint32][]time.Time
	lastWarning time.Time
	warned      bool
}

// New creates a Tracker.
func New(cfg Config) *Tracker {
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	return &Tracker{
		cfg:    cfg,
		series: make(map[uint32][]time.Time),
	}
}

// Config returns the tracker configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// TrackEstablished records a new connection and returns its slot. warn is
// true when some slot saw Threshold or more establishments within Window and
// no warning was raised during the last QuietWindow.
func (t *Tracker) TrackEstablished() (slot uint32, warn bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	slot = t.slots.acquire()
	now := t.cfg.Clock.Now()
	s, ok := t.series[slot]
	if !ok {
		s = make([]time.Time, 0, 2*max(t.cfg.Threshold, 1))
	}
	t.series[slot] = append(s, now)

	recent := t.prune(now)
	if recent >= t.cfg.Threshold && (!t.warned || now.Sub(t.lastWarning) > t.cfg.QuietWindow) {
		t.warned = true
		t.lastWarning = now
		warn = true
		Logger().Warn("frequent reconnects detected",
			zap.Uint32("slot", slot),
			zap.Int("reconnects", recent),
			zap.Duration("window", t.cfg.Window),
			zap.Int("active", t.slots.active()))
	}
	return slot, warn
}

// TrackClosed releases slot. Slots that are not currently held are ignored.
func (t *Tracker) TrackClosed(slot uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.slots.release(slot) {
		Logger().Debug("ignoring release of unheld slot", zap.Uint32("slot", slot))
	}
}

// Active returns the number of slots currently held.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.slots.active()
}

// prune drops events older than the window and returns the longest
// remaining series.
func (t *Tracker) prune(now time.Time) int {
	cutoff := now.Add(-t.cfg.Window)
	longest := 0
	for slot, s := range t.series {
		i := 0
		for i < len(s) && s[i].Before(cutoff) {
			i++
		}
		s = s[i:]
		if len(s) == 0 {
			delete(t.series, slot)
			continue
		}
		t.series[slot] = s
		longest = max(longest, len(s))
	}
	return longest
}
