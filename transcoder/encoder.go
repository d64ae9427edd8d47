package transcoder

import (
	"fmt"
	"math"

	"github.com/wippyai/utf8arena"
	"github.com/wippyai/utf8arena/arena"
	"github.com/wippyai/utf8arena/errors"
)

// Options configures an Encoder.
type Options struct {
	// AliasASCII returns all-ASCII UCS-1 input as a view of the input
	// instead of copying it into the arena.
	AliasASCII bool
}

// DefaultOptions returns the default encoder configuration.
func DefaultOptions() Options {
	return Options{}
}

// Encoder writes UTF-8 for fixed-width code units into an arena.
// It is stateless between calls.
type Encoder struct {
	opts Options
}

// NewEncoder creates an Encoder.
func NewEncoder(opts Options) *Encoder {
	return &Encoder{opts: opts}
}

var defaultEncoder = NewEncoder(DefaultOptions())

// UCS1 encodes Latin-1 units with the default options.
func UCS1(a *arena.Arena, in []byte) []byte { return defaultEncoder.UCS1(a, in) }

// UCS2 encodes UCS-2 units with the default options.
func UCS2(a *arena.Arena, in []uint16) ([]byte, error) { return defaultEncoder.UCS2(a, in) }

// UCS4 encodes UCS-4 units with the default options.
func UCS4(a *arena.Arena, in []uint32) ([]byte, error) { return defaultEncoder.UCS4(a, in) }

// Encode encodes raw native-endian units of width w with the default options.
func Encode(a *arena.Arena, w utf8arena.Width, raw []byte) ([]byte, error) {
	return defaultEncoder.Encode(a, w, raw)
}

// Options returns the encoder configuration.
func (e *Encoder) Options() Options {
	return e.opts
}

// UCS1 encodes Latin-1 code units. Every byte is a valid scalar value, so
// this never fails.
func (e *Encoder) UCS1(a *arena.Arena, in []byte) []byte {
	ascii := asciiPrefix(in)
	if ascii == len(in) && e.opts.AliasASCII {
		return in[:len(in):len(in)]
	}

	// chunk boundaries depend on len(in) only, not on content
	c := a.ReserveTail(utf8arena.Width1.MaxUTF8Bytes() * len(in))
	dst := c.Spare()
	n := copy(dst, in[:ascii])
	for _, b := range in[ascii:] {
		if b < 0x80 {
			dst[n] = b
			n++
			continue
		}
		dst[n] = 0xC0 | b>>6
		dst[n+1] = 0x80 | b&0x3F
		n += 2
	}
	return c.Commit(n)
}

// UCS2 encodes UCS-2 code units. Surrogates (0xD800-0xDFFF) are rejected.
func (e *Encoder) UCS2(a *arena.Arena, in []uint16) ([]byte, error) {
	return encodeScalars(a, in, utf8arena.Width2)
}

// UCS4 encodes UCS-4 code units. Surrogates and values above 0x10FFFF are
// rejected.
func (e *Encoder) UCS4(a *arena.Arena, in []uint32) ([]byte, error) {
	return encodeScalars(a, in, utf8arena.Width4)
}

// Encode dispatches raw native-endian code units by width.
func (e *Encoder) Encode(a *arena.Arena, w utf8arena.Width, raw []byte) ([]byte, error) {
	if !w.Valid() {
		return nil, errors.UnsupportedWidth(int(w))
	}
	if len(raw)%int(w) != 0 {
		return nil, errors.InvalidInput(errors.PhaseEncode,
			fmt.Sprintf("%d bytes is not a whole number of %s code units", len(raw), w))
	}
	if err := checkBudget(len(raw)/int(w), w); err != nil {
		return nil, err
	}

	switch w {
	case utf8arena.Width1:
		return e.UCS1(a, raw), nil
	case utf8arena.Width2:
		units, release := unitsOf[uint16](raw)
		defer release()
		return e.UCS2(a, units)
	default:
		units, release := unitsOf[uint32](raw)
		defer release()
		return e.UCS4(a, units)
	}
}

// checkBudget rejects inputs whose worst-case size does not fit in an int.
func checkBudget(count int, w utf8arena.Width) error {
	if count > math.MaxInt/w.MaxUTF8Bytes() {
		return errors.Overflow(errors.PhaseEncode, count, fmt.Sprintf("%s budget", w))
	}
	return nil
}
