// Package cstr provides nul-terminated strings of 8, 16 and 32-bit code
// units for passing text across native and WebAssembly boundaries.
//
// # Types
//
// Three storage strategies share one generic implementation:
//
//	CStr[T]       - borrowed view over units that contain a zero
//	Static[T, B]  - fixed capacity, stored inline in B = [N+1]T
//	CString[T]    - owned and growable, with zeroed slack past the terminator
//
// T is uint8, uint16 or uint32. Every type yields a zero-copy CStr through
// View, and all of them compare by logical content only:
//
//	a := cstr.Lit[uint8]("abc")
//	var b cstr.StaticU8[[8]uint8]
//	b.WriteString("abc")
//	cstr.Equal[uint8](a, &b) // true
//
// # Code Units
//
// One scalar value maps to exactly one unit. A scalar greater than
// MaxScalar[T] cannot be stored: encoding fails and writes stop in front of
// it. The 16-bit width is therefore a UCS-2 style encoding, not UTF-16; use
// OSString and FromOSString for native wide-character interop.
//
//	Width   MaxScalar
//	─────────────────
//	8       U+00FF
//	16      U+FFFF
//	32      U+10FFFF
//
// # Writing
//
// Static, CString and Cursor implement io.Writer and io.StringWriter, so
// fmt.Fprintf targets them directly. A fixed-capacity write stores as many
// whole scalars as fit, terminates, and reports the source bytes consumed:
//
//	var s cstr.StaticU16[[4]uint16]
//	n, err := s.WriteString("hello") // n == 3, errors.Is(err, io.ErrShortWrite)
//	_, err = s.WriteString("!")      // errors.Is(err, cstr.ErrWriteZero)
//
// WriteAll and WriteUnitsAll loop until everything is written or no
// progress is possible.
//
// # Raw Memory
//
// FromPtrN, NewFromPtrN and StaticFromPtr scan a bounded number of units
// for the terminator and are safe on untrusted memory. The Unchecked
// constructors and FromPtr trust the caller; violating their preconditions
// is undefined behaviour.
//
// # Length Hint
//
// A CString caches its length, but native code may write through Ptr, so
// every read rescans via Refresh. LenHint returns the cached value without
// scanning.
package cstr
