package transcoder

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/wippyai/utf8arena"
	"github.com/wippyai/utf8arena/arena"
	"github.com/wippyai/utf8arena/errors"
)

const asciiMask = 0x8080808080808080

// asciiPrefix returns the length of the leading run of bytes below 0x80.
func asciiPrefix(b []byte) int {
	i := 0
	for ; i+8 <= len(b); i += 8 {
		if binary.LittleEndian.Uint64(b[i:])&asciiMask != 0 {
			break
		}
	}
	for ; i < len(b); i++ {
		if b[i] >= utf8.RuneSelf {
			return i
		}
	}
	return i
}

// encodeScalars validates and encodes units that must each be a Unicode
// scalar value. On failure the arena is restored to its state before the call.
func encodeScalars[T uint16 | uint32](a *arena.Arena, in []T, w utf8arena.Width) ([]byte, error) {
	if err := checkBudget(len(in), w); err != nil {
		return nil, err
	}

	before := a.Tell()
	c := a.ReserveTail(w.MaxUTF8Bytes() * len(in))
	dst := c.Spare()
	n := 0
	for i, u := range in {
		v := uint32(u)
		if v < utf8.RuneSelf {
			dst[n] = byte(v)
			n++
			continue
		}
		r := rune(v)
		if v > utf8.MaxRune || !utf8.ValidRune(r) {
			// drops a chunk this call opened; bytes written so far were never committed
			a.Truncate(before)
			return nil, errors.InvalidCodeUnit(int(w), i, v)
		}
		n += utf8.EncodeRune(dst[n:], r)
	}
	return c.Commit(n), nil
}
