package wasmhost

import (
	stderrors "errors"

	"github.com/wippyai/utf8arena/errors"
)

// Status codes returned to the guest in the high half of packed results or
// directly as s32.
const (
	StatusOK               = 0
	StatusInvalidCodeUnit  = 1
	StatusUnsupportedWidth = 2
	StatusOutputTooSmall   = 3
	StatusBadHandle        = 4
	StatusMemoryFault      = 5
	StatusInvalidArgument  = 6
)

// BadTell is returned by arena-tell for an unknown handle.
const BadTell = ^uint64(0)

func statusOf(err error) uint32 {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return StatusInvalidArgument
	}
	switch e.Kind {
	case errors.KindInvalidCodeUnit:
		return StatusInvalidCodeUnit
	case errors.KindUnsupportedWidth:
		return StatusUnsupportedWidth
	case errors.KindNotFound, errors.KindClosed:
		return StatusBadHandle
	case errors.KindOutOfBounds:
		return StatusMemoryFault
	default:
		return StatusInvalidArgument
	}
}

// pack places status in the high 32 bits and value in the low 32 bits.
func pack(status, value uint32) uint64 {
	return uint64(status)<<32 | uint64(value)
}

// Unpack splits a packed encode or senders-established result.
func Unpack(v uint64) (status, value uint32) {
	return uint32(v >> 32), uint32(v)
}
