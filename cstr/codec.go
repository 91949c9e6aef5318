package cstr

import (
	"strings"
	"unicode/utf8"

	"github.com/asakhar/cutils/cstr/internal/scan"
	"github.com/asakhar/cutils/errors"
)

// Encode converts text to code units of type T, one unit per scalar value.
// It fails if text is not valid UTF-8 or holds a scalar greater than
// MaxScalar[T]; there is no partial output. The 32-bit width only fails on
// invalid UTF-8.
func Encode[T Unit](text string) ([]T, bool) {
	n, ok := EncodedLen[T](text)
	if !ok {
		return nil, false
	}
	out := make([]T, n)
	transcode(out, text, errors.PhaseEncode)
	return out, true
}

// EncodedLen returns the number of code units Encode would produce.
func EncodedLen[T Unit](text string) (int, bool) {
	if _, ok := scan.Valid(text); !ok {
		return 0, false
	}
	units, _, blocked := scan.Measure(text, MaxScalar[T](), -1)
	return units, !blocked
}

// Decode converts code units back to a Go string. It fails if any unit is a
// surrogate half or lies above U+10FFFF. A zero unit decodes to U+0000;
// callers pass content slices when they want the logical string.
func Decode[T Unit](units []T) (string, bool) {
	var b strings.Builder
	b.Grow(len(units))
	for _, u := range units {
		r := rune(u)
		if uint32(u) > utf8.MaxRune || !utf8.ValidRune(r) {
			return "", false
		}
		b.WriteRune(r)
	}
	return b.String(), true
}

// decodeLossy is Decode with U+FFFD substituted for invalid units.
func decodeLossy[T Unit](units []T) string {
	var b strings.Builder
	b.Grow(len(units))
	for _, u := range units {
		r := rune(u)
		if uint32(u) > utf8.MaxRune || !utf8.ValidRune(r) {
			r = utf8.RuneError
		}
		b.WriteRune(r)
	}
	return b.String()
}

// transcode stores the scalar values of src into dst, one unit each, until
// src is exhausted or dst is full. It returns the units stored and the
// source bytes they consumed. A full dst is not an error: callers compare
// size against len(src). err reports the invalid UTF-8 or unrepresentable
// scalar that stopped the walk.
func transcode[T Unit, S scan.Text](dst []T, src S, phase errors.Phase) (units, size int, err error) {
	valid, ok := scan.Valid(src)
	max := MaxScalar[T]()
	rest := src[:valid]
	for {
		r, next, more := scan.Next(rest)
		if !more {
			break
		}
		if units == len(dst) {
			return units, size, nil
		}
		if uint32(r) > max {
			return units, size, errors.Unrepresentable(phase, r, Width[T]())
		}
		dst[units] = T(r)
		units++
		size += len(rest) - len(next)
		rest = next
	}
	if !ok {
		return units, size, errors.InvalidUTF8(phase, []byte(src[valid:]), valid)
	}
	return units, size, nil
}
