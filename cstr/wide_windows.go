//go:build windows

package cstr

import (
	"golang.org/x/sys/windows"

	"github.com/asakhar/cutils/errors"
)

// WideUnit is the unit of wchar_t strings, 16 bits on Windows.
type WideUnit = uint16

// OSString converts a wide string returned by a Windows API to Go text.
// Unlike Decode it treats the units as UTF-16, so surrogate pairs combine.
func OSString(v WideCStr) string {
	return windows.UTF16ToString(v.Units())
}

// FromOSString converts Go text into a UTF-16 string for Windows APIs.
// It fails when s contains a NUL byte.
func FromOSString(s string) (*WideCString, error) {
	units, err := windows.UTF16FromString(s)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidInput, err, "text contains NUL")
	}
	return NewOwned(units), nil
}
