// Package decimal converts arbitrary-radix limb arrays into canonical
// big-endian two's complement bytes bounded to 256 bits.
//
// Input is the limb layout of an mpdecimal coefficient: limbs are stored
// least significant first in a caller-chosen radix, with the sign and a
// decimal exponent carried separately.
package decimal

import (
	"fmt"
	"math/big"

	"github.com/wippyai/utf8arena/errors"
)

// Size is the width of the value range and the minimum output buffer, in bytes.
const Size = 32

// maxPow10 is the largest n for which 10^n fits in a signed 256-bit integer.
const maxPow10 = 76

const target = "int256"

var (
	minInt256 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
	maxInt256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
	mod256    = new(big.Int).Lsh(big.NewInt(1), 256)
)

func fits(v *big.Int) bool {
	return v.Cmp(minInt256) >= 0 && v.Cmp(maxInt256) <= 0
}

// ToBigEndian reduces limbs to a signed value, scales it by 10^exp, and
// writes the shortest big-endian two's complement form into out. At least two
// bytes are always written; out[n:] is left untouched. out must hold at least
// Size bytes.
//
// The magnitude is accumulated as a negative number so that -2^255 is
// reachable. Any intermediate step that leaves the signed 256-bit range
// reports an overflow error.
func ToBigEndian(limbs []uint64, radix uint64, exp uint32, negative bool, out []byte) (int, error) {
	if len(out) < Size {
		return 0, errors.InvalidInput(errors.PhaseDecimal,
			fmt.Sprintf("output buffer holds %d bytes, need %d", len(out), Size))
	}

	v, err := reduce(limbs, radix)
	if err != nil {
		return 0, err
	}
	if !negative {
		v.Neg(v)
		if !fits(v) {
			return 0, errors.Overflow(errors.PhaseDecimal, v, target)
		}
	}
	if exp > 0 {
		if exp > maxPow10 {
			return 0, errors.Overflow(errors.PhaseDecimal, fmt.Sprintf("10^%d", exp), target)
		}
		pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
		v.Mul(v, pow)
		if !fits(v) {
			return 0, errors.Overflow(errors.PhaseDecimal, v, target)
		}
	}

	return writeTrimmed(v, negative, out), nil
}

// reduce folds limbs from most to least significant as v = v*radix - limb.
func reduce(limbs []uint64, radix uint64) (*big.Int, error) {
	v := new(big.Int)
	r := new(big.Int).SetUint64(radix)
	limb := new(big.Int)
	for i := len(limbs) - 1; i >= 0; i-- {
		v.Mul(v, r)
		if !fits(v) {
			return nil, errors.New(errors.PhaseDecimal, errors.KindOverflow).
				Index(i).Value(limbs[i]).
				Detail("limb %d in radix %d overflows %s", i, radix, target).Build()
		}
		v.Sub(v, limb.SetUint64(limbs[i]))
		if !fits(v) {
			return nil, errors.New(errors.PhaseDecimal, errors.KindOverflow).
				Index(i).Value(limbs[i]).
				Detail("limb %d in radix %d overflows %s", i, radix, target).Build()
		}
	}
	return v, nil
}

// writeTrimmed drops leading sign-extension bytes while the following byte
// still carries the sign implied by negative.
func writeTrimmed(v *big.Int, negative bool, out []byte) int {
	var be [Size]byte
	if v.Sign() < 0 {
		new(big.Int).Add(v, mod256).FillBytes(be[:])
	} else {
		v.FillBytes(be[:])
	}

	pad, signBit := byte(0x00), byte(0x00)
	if negative {
		pad, signBit = 0xFF, 0x80
	}
	off := 0
	for off < Size-2 && be[off] == pad && be[off+1]&0x80 == signBit {
		off++
	}
	return copy(out, be[off:])
}
