package cstr

import (
	"io"

	"github.com/asakhar/cutils/errors"
)

// UnitWriter is implemented by every writable string type. WriteUnits
// copies as many raw code units as fit and reports how many it stored.
type UnitWriter[T Unit] interface {
	WriteUnits(units []T) (int, error)
}

// finishWrite converts a transcoding result into io.Writer semantics: a
// write that made no progress fails with ErrWriteZero and one that stopped
// early fails with ErrShortWrite, unless a more specific error stopped it.
func finishWrite(n, want int, err error) (int, error) {
	switch {
	case err != nil:
		return n, err
	case n == want:
		return n, nil
	case n == 0:
		return 0, errors.WriteZero(errors.PhaseWrite, want)
	default:
		return n, errors.ShortWrite(errors.PhaseWrite, n, want)
	}
}

// WriteAll writes p to w in full, retrying short writes. It stops at the
// first error that is not a short write, which for the fixed-capacity types
// is ErrWriteZero once the buffer is full.
func WriteAll(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		p = p[n:]
		if err != nil && !errors.Is(err, io.ErrShortWrite) {
			return err
		}
		if err == nil && n == 0 {
			return errors.WriteZero(errors.PhaseWrite, len(p))
		}
	}
	return nil
}

// WriteUnitsAll is WriteAll for raw code units.
func WriteUnitsAll[T Unit](w UnitWriter[T], units []T) error {
	for len(units) > 0 {
		n, err := w.WriteUnits(units)
		units = units[n:]
		if err != nil && !errors.Is(err, io.ErrShortWrite) {
			return err
		}
		if err == nil && n == 0 {
			return errors.WriteZero(errors.PhaseWrite, len(units))
		}
	}
	return nil
}

// fill copies units into dst, which excludes the terminator slot, and
// reports io-style results for the fixed-capacity writers.
func fill[T Unit](dst, units []T) (int, error) {
	n := copy(dst, units)
	return finishWrite(n, len(units), nil)
}
