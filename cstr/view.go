package cstr

import (
	"io"
	"slices"
	"unicode/utf8"

	"github.com/asakhar/cutils/errors"
)

// Viewer is implemented by every string type in the family. View returns a
// zero-copy borrowed view over the value's storage.
type Viewer[T Unit] interface {
	View() CStr[T]
}

// CStr is a borrowed, nul-terminated string of T code units.
//
// The backing slice always contains a zero; the logical content is the
// prefix before the first one. Everything after it is slack that reads never
// look at. A CStr never owns its memory: it aliases a literal, a Static, a
// CString, or raw memory vouched for by the caller.
//
// The zero CStr is an empty string without backing storage.
type CStr[T Unit] struct {
	units []T
}

// From wraps units as a borrowed string. It fails with ErrNulNotFound
// unless units contains a zero somewhere.
func From[T Unit](units []T) (CStr[T], error) {
	if index(units) < 0 {
		return CStr[T]{}, errors.NulNotFound(errors.PhaseConstruct, len(units))
	}
	return CStr[T]{units: units}, nil
}

// FromUnchecked wraps units without looking for a terminator.
//
// units must contain a zero. Reads on a view that violates this panic with
// an index out of range.
func FromUnchecked[T Unit](units []T) CStr[T] {
	return CStr[T]{units: units}
}

// View returns c itself.
func (c CStr[T]) View() CStr[T] {
	return c
}

// Len scans for the terminator and returns the logical length.
func (c CStr[T]) Len() int {
	if c.units == nil {
		return 0
	}
	n := index(c.units)
	if n < 0 {
		panic("cstr: view has no terminator")
	}
	return n
}

// LenWithNul returns Len()+1.
func (c CStr[T]) LenWithNul() int {
	return c.Len() + 1
}

// IsEmpty reports whether the logical content is empty.
func (c CStr[T]) IsEmpty() bool {
	return len(c.units) == 0 || c.units[0] == 0
}

// Cap returns the number of writable slots, which excludes one slot that is
// reserved for the terminator.
func (c CStr[T]) Cap() int {
	if len(c.units) == 0 {
		return 0
	}
	return len(c.units) - 1
}

// BackingLen returns the length of the backing slice, terminator and slack included.
func (c CStr[T]) BackingLen() int {
	return len(c.units)
}

// Units returns the logical content without the terminator.
func (c CStr[T]) Units() []T {
	n := c.Len()
	return c.units[:n:n]
}

// UnitsWithNul returns the logical content followed by its terminator.
func (c CStr[T]) UnitsWithNul() []T {
	if c.units == nil {
		return nil
	}
	n := c.Len() + 1
	return c.units[:n:n]
}

// Full returns the whole backing slice, slack included.
func (c CStr[T]) Full() []T {
	return c.units
}

// MutUnits returns the logical content for in-place edits. Storing a zero
// shortens the string; the terminator itself is not reachable.
func (c CStr[T]) MutUnits() []T {
	return c.Units()
}

// At returns the unit at index i of the backing slice. It panics when i is
// outside the backing slice.
func (c CStr[T]) At(i int) T {
	return c.units[i]
}

// Sub returns the view starting offset units in. An offset past the
// logical end yields an empty view anchored at the terminator.
func (c CStr[T]) Sub(offset int) CStr[T] {
	if c.units == nil {
		return c
	}
	if n := c.Len(); offset > n {
		offset = n
	}
	if offset < 0 {
		offset = 0
	}
	return CStr[T]{units: c.units[offset:]}
}

// Ptr returns a pointer to the first unit, suitable for native calls that
// expect a nul-terminated string. It returns nil for the zero CStr.
// The owner of the memory must be kept alive for the duration of the call.
func (c CStr[T]) Ptr() *T {
	if len(c.units) == 0 {
		return nil
	}
	return &c.units[0]
}

// Equal reports whether c and o hold the same logical content. Slack and
// capacity are ignored.
func (c CStr[T]) Equal(o Viewer[T]) bool {
	return slices.Equal(c.Units(), o.View().Units())
}

// Clone copies the logical content into a new owned string.
func (c CStr[T]) Clone() *CString[T] {
	return NewFrom(c.UnitsWithNul())
}

// Display returns a formatting adapter over the logical content.
func (c CStr[T]) Display() Display[T] {
	return Display[T]{units: c.Units()}
}

// String decodes the logical content, substituting U+FFFD for units that
// are not scalar values.
func (c CStr[T]) String() string {
	return decodeLossy(c.Units())
}

// Equal reports whether two strings hold the same logical content,
// whatever their storage or capacity.
func Equal[T Unit](a, b Viewer[T]) bool {
	return a.View().Equal(b)
}

// Display renders code units as text. WriteTo fails on the first unit that
// is not a scalar value; String substitutes U+FFFD instead.
type Display[T Unit] struct {
	units []T
}

// WriteTo writes the decoded text to w.
func (d Display[T]) WriteTo(w io.Writer) (int64, error) {
	var buf [256]byte
	out := buf[:0]
	var total int64
	for i, u := range d.units {
		r := rune(u)
		if uint32(u) > utf8.MaxRune || !utf8.ValidRune(r) {
			n, err := w.Write(out)
			total += int64(n)
			if err != nil {
				return total, err
			}
			return total, errors.InvalidUnit(errors.PhaseDecode, uint32(u), i)
		}
		if len(out)+utf8.UTFMax > len(buf) {
			n, err := w.Write(out)
			total += int64(n)
			if err != nil {
				return total, err
			}
			out = buf[:0]
		}
		out = utf8.AppendRune(out, r)
	}
	n, err := w.Write(out)
	total += int64(n)
	return total, err
}

// String decodes lossily.
func (d Display[T]) String() string {
	return decodeLossy(d.units)
}
