package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConstruct Phase = "construct" // building a string from units or raw memory
	PhaseEncode    Phase = "encode"    // Go string to code units
	PhaseDecode    Phase = "decode"    // code units to Go string
	PhaseWrite     Phase = "write"     // io.Writer and unit writes
	PhaseMemory    Phase = "memory"    // guest linear memory access
	PhaseParse     Phase = "parse"     // command line input
)

// Kind categorizes the error
type Kind string

const (
	KindNulNotFound     Kind = "nul_not_found"
	KindUnrepresentable Kind = "unrepresentable"
	KindInvalidUTF8     Kind = "invalid_utf8"
	KindWriteZero       Kind = "write_zero"
	KindShortWrite      Kind = "short_write"
	KindCapacity        Kind = "capacity"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindAllocation      Kind = "allocation"
	KindInvalidInput    Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
	Width  int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Width != 0 {
		b.WriteString(": ")
		b.WriteString(strconv.Itoa(e.Width))
		b.WriteString("-bit units")
	}

	if e.Detail != "" {
		if e.Width != 0 {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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

// Is reports whether target matches this error.
// A target with an empty Phase matches any phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
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
		},
	}
}

// Path sets the operation path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Width sets the code-unit width in bits
func (b *Builder) Width(bits int) *Builder {
	b.err.Width = bits
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

// NulNotFound creates an error for a bounded scan that found no terminator
func NulNotFound(phase Phase, bound int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNulNotFound,
		Detail: fmt.Sprintf("nul terminator not found within %d units", bound),
		Value:  bound,
	}
}

// Unrepresentable creates an error for a scalar value that does not fit a code unit
func Unrepresentable(phase Phase, r rune, width int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnrepresentable,
		Width:  width,
		Detail: fmt.Sprintf("scalar U+%04X does not fit", r),
		Value:  r,
	}
}

// InvalidUnit creates an error for a code unit that is not a Unicode scalar value
func InvalidUnit(phase Phase, unit uint32, index int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnrepresentable,
		Path:   []string{"[" + strconv.Itoa(index) + "]"},
		Detail: fmt.Sprintf("unit 0x%X is not a scalar value", unit),
		Value:  unit,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, data []byte, offset int) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence at byte %d: %x", offset, preview),
		Value:  offset,
	}
}

// WriteZero creates an error for a write that made no progress
func WriteZero(phase Phase, remaining int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindWriteZero,
		Detail: fmt.Sprintf("failed to write whole buffer, %d bytes left", remaining),
		Value:  remaining,
	}
}

// ShortWrite creates a partial write error. It unwraps to io.ErrShortWrite.
func ShortWrite(phase Phase, written, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindShortWrite,
		Detail: fmt.Sprintf("wrote %d of %d bytes", written, want),
		Value:  written,
		Cause:  io.ErrShortWrite,
	}
}

// Capacity creates an error for content that exceeds a fixed capacity
func Capacity(phase Phase, length, capacity int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCapacity,
		Detail: fmt.Sprintf("length %d exceeds capacity %d", length, capacity),
		Value:  length,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, offset, length uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("offset %d out of bounds (length %d)", offset, length),
		Value:  offset,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
		Cause:  cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
