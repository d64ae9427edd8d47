package main

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/wippyai/utf8arena"
	"github.com/wippyai/utf8arena/errors"
)

// parseUnits turns text into code unit values. Escapes \xHH, \uHHHH and
// \UHHHHHHHH produce raw units, including lone surrogates; \\ is a
// backslash. Any other rune is taken as its own value.
func parseUnits(text string) ([]uint32, error) {
	runes := []rune(text)
	units := make([]uint32, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' || i+1 >= len(runes) {
			units = append(units, uint32(r))
			continue
		}

		var digits int
		switch runes[i+1] {
		case '\\':
			units = append(units, '\\')
			i++
			continue
		case 'x':
			digits = 2
		case 'u':
			digits = 4
		case 'U':
			digits = 8
		default:
			units = append(units, uint32(r))
			continue
		}

		if i+2+digits > len(runes) {
			return nil, errors.InvalidInput(errors.PhaseValidate,
				fmt.Sprintf("escape at rune %d: want %d hex digits", i, digits))
		}
		v, err := strconv.ParseUint(string(runes[i+2:i+2+digits]), 16, 32)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseValidate, errors.KindInvalidInput, err,
				fmt.Sprintf("escape at rune %d", i))
		}
		units = append(units, uint32(v))
		i += 1 + digits
	}
	return units, nil
}

// maxUnit is the largest value a code unit of width w can hold.
func maxUnit(w utf8arena.Width) uint32 {
	switch w {
	case utf8arena.Width1:
		return 0xFF
	case utf8arena.Width2:
		return 0xFFFF
	default:
		return 0xFFFFFFFF
	}
}

// packUnits stores units as native-endian raw code units of width w.
func packUnits(units []uint32, w utf8arena.Width) ([]byte, error) {
	if !w.Valid() {
		return nil, errors.UnsupportedWidth(int(w))
	}
	raw := make([]byte, len(units)*int(w))
	for i, u := range units {
		if u > maxUnit(w) {
			return nil, errors.New(errors.PhaseValidate, errors.KindOverflow).
				Index(i).
				Value(u).
				Detail("code unit 0x%X does not fit in %s", u, w).
				Build()
		}
		switch w {
		case utf8arena.Width1:
			raw[i] = byte(u)
		case utf8arena.Width2:
			binary.NativeEndian.PutUint16(raw[2*i:], uint16(u))
		default:
			binary.NativeEndian.PutUint32(raw[4*i:], u)
		}
	}
	return raw, nil
}
