// Package errors provides structured error types for utf8arena.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending value, the code unit width and the
// position within the input where it applies, plus an optional cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindInvalidCodeUnit).
//		Width(2).
//		Index(7).
//		Value(uint32(0xD800)).
//		Detail("surrogate code unit").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidCodeUnit(2, 7, 0xD800)
//	err := errors.UnsupportedWidth(3)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
