package cstr

import (
	"reflect"
	"slices"
	"unicode/utf8"
	"unsafe"

	"github.com/asakhar/cutils/cstr/internal/scan"
	"github.com/asakhar/cutils/errors"
)

// Static is a fixed-capacity string stored inline in B, which must be an
// array type [N+1]T. It holds up to N units of content; slot N is the
// permanent terminator and is never handed out for writing.
//
// Static values have copy semantics and need no heap allocation:
//
//	var name StaticU8[[16]uint8] // capacity 15
//	name.WriteString("eth0")
//
// The zero value is an empty string. Using a B that is not [N+1]T panics
// on first use.
type Static[T Unit, B any] struct {
	buf B
}

// slotsOf validates the layout of B and returns its number of slots.
func slotsOf[T Unit, B any]() int {
	bt := reflect.TypeFor[B]()
	if bt.Kind() != reflect.Array || bt.Elem() != reflect.TypeFor[T]() || bt.Len() < 1 {
		panic("cstr: Static storage must be a non-empty array of " + reflect.TypeFor[T]().String() + ", got " + bt.String())
	}
	return bt.Len()
}

// slots returns the storage as a slice of N+1 units.
func (s *Static[T, B]) slots() []T {
	n := slotsOf[T, B]()
	return unsafe.Slice((*T)(unsafe.Pointer(&s.buf)), n)
}

// StaticCapacity returns N for storage B.
func StaticCapacity[T Unit, B any]() int {
	return slotsOf[T, B]() - 1
}

// Capacity returns N, the maximum logical length.
func (s *Static[T, B]) Capacity() int {
	return slotsOf[T, B]() - 1
}

// Len scans the first N slots for the terminator.
func (s *Static[T, B]) Len() int {
	sl := s.slots()
	if n := index(sl); n >= 0 {
		return n
	}
	panic("cstr: static buffer lost its terminator")
}

// IsEmpty reports whether the logical content is empty.
func (s *Static[T, B]) IsEmpty() bool {
	return s.slots()[0] == 0
}

// View returns a borrowed view over all N+1 slots. The view aliases s.
func (s *Static[T, B]) View() CStr[T] {
	return CStr[T]{units: s.slots()}
}

// Units returns the logical content.
func (s *Static[T, B]) Units() []T {
	return s.View().Units()
}

// UnitsWithNul returns the logical content and its terminator.
func (s *Static[T, B]) UnitsWithNul() []T {
	return s.View().UnitsWithNul()
}

// Full returns all N+1 slots. Writing slot N breaks the string.
func (s *Static[T, B]) Full() []T {
	return s.slots()
}

// Writable returns the first N slots, the region bounded writes may touch.
func (s *Static[T, B]) Writable() []T {
	sl := s.slots()
	return sl[: len(sl)-1 : len(sl)-1]
}

// MutUnits returns the logical content for in-place edits.
func (s *Static[T, B]) MutUnits() []T {
	return s.Units()
}

// At returns slot i. It panics when i > N.
func (s *Static[T, B]) At(i int) T {
	return s.slots()[i]
}

// SetUnit stores u at slot i. It panics when i >= N: the terminator slot
// is not writable.
func (s *Static[T, B]) SetUnit(i int, u T) {
	w := s.Writable()
	if i < 0 || i >= len(w) {
		panic("cstr: static index out of writable range")
	}
	w[i] = u
}

// Sub returns the borrowed view starting offset units in.
func (s *Static[T, B]) Sub(offset int) CStr[T] {
	return s.View().Sub(offset)
}

// Ptr returns a pointer to the first slot.
func (s *Static[T, B]) Ptr() *T {
	return &s.slots()[0]
}

// Equal reports whether s and o hold the same logical content.
func (s *Static[T, B]) Equal(o Viewer[T]) bool {
	return slices.Equal(s.Units(), o.View().Units())
}

// Clone copies the logical content into a new owned string.
func (s *Static[T, B]) Clone() *CString[T] {
	return s.View().Clone()
}

// Display returns a formatting adapter over the logical content.
func (s *Static[T, B]) Display() Display[T] {
	return Display[T]{units: s.Units()}
}

// String decodes the logical content lossily.
func (s *Static[T, B]) String() string {
	return decodeLossy(s.Units())
}

// Clear empties the string. Slack past the new terminator is left as is.
func (s *Static[T, B]) Clear() {
	s.slots()[0] = 0
}

// Append transcodes as many whole scalar values of p as fit after the
// current content, terminates, and returns the number of bytes of p
// consumed.
func (s *Static[T, B]) Append(p []byte) int {
	n, _ := appendStatic(s.slots(), p)
	return n
}

// Write implements io.Writer. A write that does not fit stores what it can
// and fails with ErrShortWrite; a write into a full buffer stores nothing
// and fails with ErrWriteZero.
func (s *Static[T, B]) Write(p []byte) (int, error) {
	n, err := appendStatic(s.slots(), p)
	return finishWrite(n, len(p), err)
}

// WriteString implements io.StringWriter.
func (s *Static[T, B]) WriteString(text string) (int, error) {
	n, err := appendStatic(s.slots(), text)
	return finishWrite(n, len(text), err)
}

// WriteRune appends a single scalar value.
func (s *Static[T, B]) WriteRune(r rune) (int, error) {
	var buf [utf8.UTFMax]byte
	return s.Write(utf8.AppendRune(buf[:0], r))
}

// WriteUnits appends raw code units after the current content.
func (s *Static[T, B]) WriteUnits(units []T) (int, error) {
	sl := s.slots()
	n := index(sl)
	end := len(sl) - 1
	written, err := fill(sl[n:end], units)
	sl[n+written] = 0
	return written, err
}

// WriteCStr appends the whole logical content of v, or nothing when it
// does not fit.
func (s *Static[T, B]) WriteCStr(v Viewer[T]) error {
	units := v.View().Units()
	if free := s.Capacity() - s.Len(); len(units) > free {
		return errors.Capacity(errors.PhaseWrite, len(units), free)
	}
	_, err := s.WriteUnits(units)
	return err
}

// WriteUnit appends a single code unit.
func (s *Static[T, B]) WriteUnit(u T) error {
	_, err := s.WriteUnits([]T{u})
	return err
}

// appendStatic writes src after the content of sl, whose last slot is the
// fixed terminator.
func appendStatic[T Unit, S scan.Text](sl []T, src S) (int, error) {
	n := index(sl)
	end := len(sl) - 1
	written, size, err := transcode(sl[n:end], src, errors.PhaseWrite)
	sl[n+written] = 0
	return size, err
}

// StaticFrom copies the content of units into a new Static. Content ends
// at the first zero, or at the end of units when there is none. It fails
// with ErrCapacity when the content is longer than N.
func StaticFrom[T Unit, B any](units []T) (Static[T, B], error) {
	var s Static[T, B]
	if n := index(units); n >= 0 {
		units = units[:n]
	}
	if c := s.Capacity(); len(units) > c {
		return s, errors.Capacity(errors.PhaseConstruct, len(units), c)
	}
	copy(s.Writable(), units)
	return s, nil
}

// StaticFromTruncate copies at most N units of content into a new Static,
// stopping at the first zero.
func StaticFromTruncate[T Unit, B any](units []T) Static[T, B] {
	var s Static[T, B]
	w := s.Writable()
	if n := index(units); n >= 0 {
		units = units[:n]
	}
	copy(w, units)
	return s
}

// StaticFromView copies the logical content of v into a new Static. It
// fails with ErrCapacity when the content is longer than N.
func StaticFromView[T Unit, B any](v Viewer[T]) (Static[T, B], error) {
	var s Static[T, B]
	units := v.View().Units()
	if c := s.Capacity(); len(units) > c {
		return s, errors.Capacity(errors.PhaseConstruct, len(units), c)
	}
	copy(s.Writable(), units)
	return s, nil
}

// StaticEncode encodes text into a new Static. It fails when text is not
// valid UTF-8, holds a scalar greater than MaxScalar[T], or is longer than
// N units.
func StaticEncode[T Unit, B any](text string) (Static[T, B], error) {
	var s Static[T, B]
	n, err := appendStatic(s.slots(), text)
	if err != nil {
		return Static[T, B]{}, err
	}
	if n < len(text) {
		units, _ := EncodedLen[T](text)
		return Static[T, B]{}, errors.Capacity(errors.PhaseEncode, units, s.Capacity())
	}
	return s, nil
}

// StaticEncodeTruncate encodes as much of text as fits, stopping early at
// invalid UTF-8 or an unrepresentable scalar.
func StaticEncodeTruncate[T Unit, B any](text string) Static[T, B] {
	var s Static[T, B]
	appendStatic(s.slots(), text)
	return s
}
