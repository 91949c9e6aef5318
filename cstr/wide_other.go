//go:build !windows

package cstr

import (
	"strings"

	"github.com/asakhar/cutils/errors"
)

// WideUnit is the unit of wchar_t strings, 32 bits outside Windows.
type WideUnit = uint32

// OSString converts a wide string to Go text, substituting U+FFFD for
// units that are not scalar values.
func OSString(v WideCStr) string {
	return decodeLossy(v.Units())
}

// FromOSString converts Go text into a wide string. It fails when s
// contains a NUL byte or is not valid UTF-8.
func FromOSString(s string) (*WideCString, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, errors.InvalidInput(errors.PhaseEncode, "text contains NUL")
	}
	return NewEncoded[WideUnit](s)
}
