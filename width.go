package utf8arena

import "strconv"

// Width is the size in bytes of one source code unit.
type Width uint8

const (
	Width1 Width = 1 // Latin-1 (UCS-1)
	Width2 Width = 2 // UCS-2, no surrogate pairing
	Width4 Width = 4 // UCS-4
)

// Valid reports whether w is one of the supported widths.
func (w Width) Valid() bool {
	return w == Width1 || w == Width2 || w == Width4
}

// MaxUTF8Bytes returns the worst-case UTF-8 length of one code unit of
// width w, or 0 if w is not supported.
func (w Width) MaxUTF8Bytes() int {
	switch w {
	case Width1:
		// U+00FF encodes to 2 bytes
		return 2
	case Width2:
		return 3
	case Width4:
		return 4
	default:
		return 0
	}
}

func (w Width) String() string {
	switch w {
	case Width1:
		return "ucs1"
	case Width2:
		return "ucs2"
	case Width4:
		return "ucs4"
	default:
		return "width(" + strconv.Itoa(int(w)) + ")"
	}
}
