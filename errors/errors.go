package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode   Phase = "encode"   // code units to UTF-8
	PhaseArena    Phase = "arena"    // arena bookkeeping
	PhaseDecimal  Phase = "decimal"  // limb conversion
	PhaseHost     Phase = "host"     // boundary and WASM host calls
	PhaseLoad     Phase = "load"     // module instantiation
	PhaseValidate Phase = "validate" // argument validation
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidCodeUnit  Kind = "invalid_code_unit"
	KindUnsupportedWidth Kind = "unsupported_width"
	KindInvalidInput     Kind = "invalid_input"
	KindOverflow         Kind = "overflow"
	KindNotFound         Kind = "not_found"
	KindOutOfBounds      Kind = "out_of_bounds"
	KindInstantiation    Kind = "instantiation"
	KindClosed           Kind = "closed"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Width  int // code unit width in bytes, 0 if not applicable
	Index  int // position of the offending code unit, -1 if not applicable
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Index >= 0 {
		b.WriteString(" at index ")
		b.WriteString(strconv.Itoa(e.Index))
	}

	if e.Width > 0 {
		b.WriteString(" (ucs")
		b.WriteString(strconv.Itoa(e.Width))
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
			Index: -1,
		},
	}
}

// Width sets the code unit width
func (b *Builder) Width(w int) *Builder {
	b.err.Width = w
	return b
}

// Index sets the position of the offending code unit
func (b *Builder) Index(i int) *Builder {
	b.err.Index = i
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidCodeUnit creates an error for a code unit that is not a Unicode
// scalar value. Value holds the raw unit widened to uint32.
func InvalidCodeUnit(width, index int, value uint32) *Error {
	detail := fmt.Sprintf("code unit 0x%X is not a Unicode scalar value", value)
	if value >= 0xD800 && value <= 0xDFFF {
		detail = fmt.Sprintf("surrogate code unit 0x%X", value)
	}
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindInvalidCodeUnit,
		Width:  width,
		Index:  index,
		Detail: detail,
		Value:  value,
	}
}

// UnsupportedWidth creates an error for a runtime width other than 1, 2 or 4
func UnsupportedWidth(width int) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindUnsupportedWidth,
		Index:  -1,
		Detail: fmt.Sprintf("code unit width %d not supported (want 1, 2 or 4)", width),
		Value:  width,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Index:  -1,
		Detail: detail,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Index:  -1,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Value:  value,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what string, id any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Index:  -1,
		Detail: fmt.Sprintf("%s %v not found", what, id),
		Value:  id,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, offset, length, size uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Index:  -1,
		Detail: fmt.Sprintf("range [%d, %d) outside memory of %d bytes", offset, offset+length, size),
		Value:  offset,
	}
}

// Closed creates an error for operations on a closed surface
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Index:  -1,
		Detail: what + " closed",
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInstantiation,
		Index:  -1,
		Detail: "instantiate host module",
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Index:  -1,
		Detail: detail,
		Cause:  cause,
	}
}

// CodeUnit returns the offending code unit carried by an invalid_code_unit
// error anywhere in err's chain.
func CodeUnit(err error) (uint32, bool) {
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindInvalidCodeUnit {
		return 0, false
	}
	v, ok := e.Value.(uint32)
	return v, ok
}
