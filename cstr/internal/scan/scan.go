package scan

// Text is the set of byte sequences the scanner accepts.
type Text interface {
	~string | ~[]byte
}

const contMask = 0b0011_1111

// Next decodes the scalar value at the front of s and returns it with the
// remaining input. It returns ok=false once s is exhausted.
//
// s must be valid UTF-8. A truncated trailing sequence reports ok=false;
// any other malformed input yields an unspecified value.
func Next[S Text](s S) (r rune, rest S, ok bool) {
	n := len(s)
	if n == 0 {
		return 0, s, false
	}
	b0 := s[0]
	switch {
	case b0 < 0x80:
		return rune(b0), s[1:], true
	case b0 < 0xE0:
		if n < 2 {
			return 0, s, false
		}
		r = rune(b0&0b0001_1111)<<6 | rune(s[1]&contMask)
		return r, s[2:], true
	case b0 < 0xF0:
		if n < 3 {
			return 0, s, false
		}
		r = rune(b0&0b0000_1111)<<12 | rune(s[1]&contMask)<<6 | rune(s[2]&contMask)
		return r, s[3:], true
	default:
		if n < 4 {
			return 0, s, false
		}
		r = rune(b0&0b0000_0111)<<18 | rune(s[1]&contMask)<<12 |
			rune(s[2]&contMask)<<6 | rune(s[3]&contMask)
		return r, s[4:], true
	}
}

// Valid reports whether s is well-formed UTF-8. When it is not, n is the
// length of the longest valid prefix.
func Valid[S Text](s S) (n int, ok bool) {
	end := len(s)
	i := 0
	for i < end {
		c := s[i]
		if c < 0x80 {
			i++
			continue
		}
		size := 0
		lo, hi := byte(0x80), byte(0xBF)
		switch {
		case c >= 0xC2 && c <= 0xDF:
			size = 2
		case c == 0xE0:
			size, lo = 3, 0xA0
		case c == 0xED:
			size, hi = 3, 0x9F
		case c >= 0xE1 && c <= 0xEF:
			size = 3
		case c == 0xF0:
			size, lo = 4, 0x90
		case c >= 0xF1 && c <= 0xF3:
			size = 4
		case c == 0xF4:
			size, hi = 4, 0x8F
		default:
			return i, false
		}
		if i+size > end {
			return i, false
		}
		if c1 := s[i+1]; c1 < lo || c1 > hi {
			return i, false
		}
		for j := 2; j < size; j++ {
			if cj := s[i+j]; cj < 0x80 || cj > 0xBF {
				return i, false
			}
		}
		i += size
	}
	return end, true
}

// Measure walks valid UTF-8 input and counts the scalar values that can be
// stored as code units no greater than max, stopping after limit units when
// limit is non-negative. It returns the unit count, the number of source
// bytes those units came from, and whether the walk stopped at a scalar
// greater than max.
func Measure[S Text](s S, max uint32, limit int) (units, size int, blocked bool) {
	rest := s
	for limit < 0 || units < limit {
		r, next, ok := Next(rest)
		if !ok {
			break
		}
		if uint32(r) > max {
			return units, size, true
		}
		size += len(rest) - len(next)
		units++
		rest = next
	}
	return units, size, false
}
