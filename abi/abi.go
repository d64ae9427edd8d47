// Package abi is the handle-based boundary over arenas, the encoder, the
// decimal converter and the connection tracker.
//
// Callers on the far side of a foreign-function boundary cannot hold Go
// pointers, so arenas are addressed by resource handles and every failure is
// reported as a value: a status flag plus the offending code unit or width.
// Handles are validated on each call; stale or unknown handles fail with a
// not_found error instead of touching freed memory.
//
// A Surface may be shared between goroutines, but each arena handle must be
// driven by one goroutine at a time.
package abi

import (
	"fmt"
	"math"

	"github.com/wippyai/utf8arena"
	"github.com/wippyai/utf8arena/arena"
	"github.com/wippyai/utf8arena/decimal"
	"github.com/wippyai/utf8arena/errors"
	"github.com/wippyai/utf8arena/resource"
	"github.com/wippyai/utf8arena/senders"
	"github.com/wippyai/utf8arena/transcoder"
)

// Options configures a Surface.
type Options struct {
	Arena   arena.Config
	Encoder transcoder.Options
	Senders senders.Config
}

// DefaultOptions returns the default surface configuration.
func DefaultOptions() Options {
	return Options{
		Arena:   arena.DefaultConfig(),
		Encoder: transcoder.DefaultOptions(),
		Senders: senders.DefaultConfig(),
	}
}

// EncodeResult reports the outcome of Encode.
type EncodeResult struct {
	// Err is the full error when OK is false.
	Err error

	// Output is the encoded view. nil on failure.
	Output []byte

	// BadCodeUnit is the offending code unit for invalid_code_unit failures
	// and the requested width for unsupported_width failures.
	BadCodeUnit uint32

	OK bool
}

// Surface owns the arenas created through it plus one process-wide
// connection tracker. It is a prometheus.Collector reporting live handles,
// held connection slots and encode outcomes.
type Surface struct {
	arenas  *resource.Table[*arena.Arena]
	enc     *transcoder.Encoder
	tracker *senders.Tracker
	metrics *metrics
	cfg     arena.Config
}

// New creates a Surface.
func New(opts Options) *Surface {
	return &Surface{
		arenas:  resource.NewTable[*arena.Arena](),
		enc:     transcoder.NewEncoder(opts.Encoder),
		tracker: senders.New(opts.Senders),
		metrics: newMetrics(),
		cfg:     opts.Arena,
	}
}

// Tracker returns the surface's connection tracker.
func (s *Surface) Tracker() *senders.Tracker {
	return s.tracker
}

// Arenas returns the number of live arena handles.
func (s *Surface) Arenas() int {
	return s.arenas.Len()
}

// ArenaCreate creates an empty arena and returns its handle.
// Returns 0 after Close.
func (s *Surface) ArenaCreate() resource.Handle {
	return s.arenas.Insert(arena.NewWithConfig(s.cfg))
}

// Arena resolves a handle.
func (s *Surface) Arena(h resource.Handle) (*arena.Arena, error) {
	if s.arenas.Closed() {
		return nil, errors.Closed(errors.PhaseHost, "surface")
	}
	a, ok := s.arenas.Get(h)
	if !ok {
		return nil, errors.NotFound(errors.PhaseHost, "arena", h)
	}
	return a, nil
}

// ArenaTell returns the arena's current position.
func (s *Surface) ArenaTell(h resource.Handle) (arena.Position, error) {
	a, err := s.Arena(h)
	if err != nil {
		return arena.Position{}, err
	}
	return a.Tell(), nil
}

// ArenaTruncate rolls the arena back to pos. Positions beyond the arena's
// current end are rejected; the guest cannot be trusted to pass only
// positions it obtained from ArenaTell.
func (s *Surface) ArenaTruncate(h resource.Handle, pos arena.Position) error {
	a, err := s.Arena(h)
	if err != nil {
		return err
	}
	if err := checkPosition(a, pos); err != nil {
		return err
	}
	a.Truncate(pos)
	return nil
}

// ArenaClear drops all data but keeps the first chunk.
func (s *Surface) ArenaClear(h resource.Handle) error {
	a, err := s.Arena(h)
	if err != nil {
		return err
	}
	a.Clear()
	return nil
}

// ArenaDestroy releases the arena and invalidates its handle.
func (s *Surface) ArenaDestroy(h resource.Handle) error {
	if s.arenas.Closed() {
		return errors.Closed(errors.PhaseHost, "surface")
	}
	a, ok := s.arenas.Remove(h)
	if !ok {
		return errors.NotFound(errors.PhaseHost, "arena", h)
	}
	a.Release()
	return nil
}

// Encode encodes count code units of the given width from input, which holds
// them in native byte order.
func (s *Surface) Encode(h resource.Handle, width uint32, input []byte, count int) EncodeResult {
	res := s.encode(h, width, input, count)
	s.metrics.observeEncode(res)
	return res
}

func (s *Surface) encode(h resource.Handle, width uint32, input []byte, count int) EncodeResult {
	a, err := s.Arena(h)
	if err != nil {
		return failed(err, 0)
	}
	if width > math.MaxUint8 || !utf8arena.Width(width).Valid() {
		return failed(errors.UnsupportedWidth(int(min(width, math.MaxInt32))), width)
	}
	w := utf8arena.Width(width)
	if count < 0 || count > len(input)/int(w) {
		return failed(errors.InvalidInput(errors.PhaseHost,
			fmt.Sprintf("%d %s code units do not fit in %d input bytes", count, w, len(input))), 0)
	}

	out, err := s.enc.Encode(a, w, input[:count*int(w)])
	if err != nil {
		unit, _ := errors.CodeUnit(err)
		return failed(err, unit)
	}
	return EncodeResult{OK: true, Output: out}
}

// DecimalToBigEndian converts limbs with decimal.ToBigEndian.
func (s *Surface) DecimalToBigEndian(limbs []uint64, radix uint64, exp uint32, negative bool, out []byte) (int, error) {
	return decimal.ToBigEndian(limbs, radix, exp, negative, out)
}

// TrackEstablished records a new connection. See senders.Tracker.
func (s *Surface) TrackEstablished() (slot uint32, warn bool) {
	slot, warn = s.tracker.TrackEstablished()
	if warn {
		s.metrics.warnings.Inc()
	}
	return slot, warn
}

// TrackClosed releases a connection slot.
func (s *Surface) TrackClosed(slot uint32) {
	s.tracker.TrackClosed(slot)
}

// Close releases every arena. Handles become invalid and ArenaCreate
// returns 0 afterwards.
func (s *Surface) Close() error {
	return s.arenas.Close()
}

func checkPosition(a *arena.Arena, pos arena.Position) error {
	if pos.Chain < 0 || pos.Chain > a.Len() {
		return errors.New(errors.PhaseArena, errors.KindInvalidInput).
			Value(pos).
			Detail("position chain %d beyond %d chunks", pos.Chain, a.Len()).Build()
	}
	limit := 0
	if pos.Chain > 0 {
		limit = a.Chunk(pos.Chain - 1).Len()
	}
	if pos.Offset < 0 || pos.Offset > limit {
		return errors.New(errors.PhaseArena, errors.KindInvalidInput).
			Value(pos).
			Detail("position offset %d beyond %d committed bytes", pos.Offset, limit).Build()
	}
	return nil
}

func failed(err error, unit uint32) EncodeResult {
	return EncodeResult{Err: err, BadCodeUnit: unit}
}
