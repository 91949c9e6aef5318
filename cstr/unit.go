package cstr

import (
	"unicode/utf8"
	"unsafe"
)

// Unit is the set of code-unit types a string can be built from.
// Zero is reserved as the terminator.
type Unit interface {
	uint8 | uint16 | uint32
}

// Width returns the size of T in bits.
func Width[T Unit]() int {
	var u T
	return int(unsafe.Sizeof(u)) * 8
}

// MaxScalar returns the largest scalar value a single T can hold.
func MaxScalar[T Unit]() uint32 {
	var u T
	if m := uint32(^u); m < utf8.MaxRune {
		return m
	}
	return utf8.MaxRune
}

// Fits reports whether r is a scalar value storable as one T.
func Fits[T Unit](r rune) bool {
	return utf8.ValidRune(r) && uint32(r) <= MaxScalar[T]()
}

func unitSize[T Unit]() uintptr {
	var u T
	return unsafe.Sizeof(u)
}

// index returns the position of the first terminator in units, or -1.
func index[T Unit](units []T) int {
	for i, u := range units {
		if u == 0 {
			return i
		}
	}
	return -1
}
