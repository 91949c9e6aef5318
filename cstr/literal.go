package cstr

import "fmt"

// Lit encodes a literal into a borrowed view over freshly allocated
// storage. It panics when text holds a scalar that does not fit T, so it is
// meant for package-level variables:
//
//	var greeting = cstr.Lit[uint16]("hello")
func Lit[T Unit](text string) CStr[T] {
	units, ok := Encode[T](text)
	if !ok {
		panic(fmt.Sprintf("cstr: literal %q does not fit %d-bit units", text, Width[T]()))
	}
	return CStr[T]{units: append(units, 0)}
}

// LitOwned is Lit returning an owned string.
func LitOwned[T Unit](text string) *CString[T] {
	return NewOwned(Lit[T](text).units)
}

// StaticLit is Lit for fixed-capacity storage. It also panics when text is
// longer than N units.
func StaticLit[T Unit, B any](text string) Static[T, B] {
	s, err := StaticEncode[T, B](text)
	if err != nil {
		panic(fmt.Sprintf("cstr: literal %q: %v", text, err))
	}
	return s
}

// Sprintf formats into a new owned string. Output the width cannot
// represent ends the string early; no error is reported.
func Sprintf[T Unit](format string, args ...any) *CString[T] {
	s := New[T]()
	fmt.Fprintf(s, format, args...)
	return s
}

// StaticSprintf formats into a new fixed-capacity string, truncating
// output that does not fit.
func StaticSprintf[T Unit, B any](format string, args ...any) Static[T, B] {
	var s Static[T, B]
	fmt.Fprintf(&s, format, args...)
	return s
}
