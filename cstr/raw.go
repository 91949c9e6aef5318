package cstr

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/asakhar/cutils/errors"
)

// scanPtr counts units from p up to the first zero, looking at no more than
// max units. A negative max scans without bound.
func scanPtr[T Unit](p *T, max int) int {
	size := unitSize[T]()
	for i := 0; max < 0 || i < max; i++ {
		if *(*T)(unsafe.Add(unsafe.Pointer(p), uintptr(i)*size)) == 0 {
			return i
		}
	}
	return -1
}

// FromPtr views the nul-terminated string at p. The view ends at the
// terminator, so its capacity equals its length.
//
// p must point to readable memory that holds a zero, and the memory must
// outlive the view. Anything else is undefined behaviour.
func FromPtr[T Unit](p *T) CStr[T] {
	n := scanPtr(p, -1)
	return CStr[T]{units: unsafe.Slice(p, n+1)}
}

// FromPtrUnchecked views size units at p, terminator and slack included.
//
// p must point to at least size readable units and one of them must be
// zero. Anything else is undefined behaviour.
func FromPtrUnchecked[T Unit](p *T, size int) CStr[T] {
	return CStr[T]{units: unsafe.Slice(p, size)}
}

// FromPtrN views the string at p, scanning at most max units for the
// terminator. It fails with ErrNulNotFound when none is found in range.
// This is the supported way to read strings from untrusted memory: only
// the first max units are ever touched.
func FromPtrN[T Unit](p *T, max int) (CStr[T], error) {
	if p == nil {
		return CStr[T]{}, errors.InvalidInput(errors.PhaseConstruct, "nil pointer")
	}
	n := scanPtr(p, max)
	if n < 0 {
		return CStr[T]{}, errors.NulNotFound(errors.PhaseConstruct, max)
	}
	return CStr[T]{units: unsafe.Slice(p, n+1)}, nil
}

// NewFromPtr copies the nul-terminated string at p into a new owned string.
// The preconditions of FromPtr apply.
func NewFromPtr[T Unit](p *T) *CString[T] {
	return NewFrom(FromPtr(p).UnitsWithNul())
}

// NewFromPtrN copies the string at p, scanning at most max units. It fails
// with ErrNulNotFound when no terminator is found in range.
func NewFromPtrN[T Unit](p *T, max int) (*CString[T], error) {
	v, err := FromPtrN(p, max)
	if err != nil {
		return nil, err
	}
	return NewFrom(v.UnitsWithNul()), nil
}

// NewFromPtrTruncate copies at most max units of content from p. When no
// terminator occurs in range the copy is cut at max units.
func NewFromPtrTruncate[T Unit](p *T, max int) *CString[T] {
	if p == nil || max <= 0 {
		return New[T]()
	}
	n := scanPtr(p, max)
	if n < 0 {
		Logger().Debug("truncate raw string",
			zap.Int("width", Width[T]()),
			zap.Int("max", max))
		n = max
	}
	return NewFrom(unsafe.Slice(p, n))
}

// NewFromPtrUnchecked copies size units from p into a new owned string
// whose logical length is taken to be length, without scanning.
//
// p must point to at least size readable units, length must be below size
// and the unit at length must be zero. Anything else is undefined
// behaviour.
func NewFromPtrUnchecked[T Unit](p *T, length, size int) *CString[T] {
	buf := make([]T, size)
	copy(buf, unsafe.Slice(p, size))
	return &CString[T]{buf: buf, hint: length}
}

// NewFromPtrUncheckedCalcLen is NewFromPtrUnchecked with the length found
// by scanning the copied units.
func NewFromPtrUncheckedCalcLen[T Unit](p *T, size int) *CString[T] {
	c := NewFromPtrUnchecked(p, 0, size)
	c.Refresh()
	return c
}

// StaticFromPtr copies the string at p into a new Static, scanning at most
// N+1 units. It fails with ErrNulNotFound when no terminator is found in
// range.
func StaticFromPtr[T Unit, B any](p *T) (Static[T, B], error) {
	var s Static[T, B]
	v, err := FromPtrN(p, s.Capacity()+1)
	if err != nil {
		return s, err
	}
	copy(s.Writable(), v.Units())
	return s, nil
}

// StaticFromPtrUnchecked copies N units from p into a new Static. Slot N is
// zero regardless of the source.
//
// p must point to at least N readable units.
func StaticFromPtrUnchecked[T Unit, B any](p *T) Static[T, B] {
	var s Static[T, B]
	w := s.Writable()
	if len(w) > 0 {
		copy(w, unsafe.Slice(p, len(w)))
	}
	return s
}
