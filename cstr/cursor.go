package cstr

import (
	"unicode/utf8"

	"github.com/asakhar/cutils/cstr/internal/scan"
	"github.com/asakhar/cutils/errors"
)

// Cursor writes through a borrowed view. Each write starts at the front of
// the remaining view, overwriting what is there, terminates the written
// units, and then advances the view past them. Existing units beyond the
// new terminator are left untouched, so an earlier terminator further on
// may survive as unreachable slack.
//
// Cursor is the streaming counterpart of the fixed-capacity writers: it
// fills caller-owned memory, for example a buffer handed over by native
// code, without knowing where that memory came from.
type Cursor[T Unit] struct {
	view CStr[T]
}

// NewCursor returns a cursor positioned at the start of v.
func NewCursor[T Unit](v CStr[T]) *Cursor[T] {
	return &Cursor[T]{view: v}
}

// View returns the part of the buffer that has not been written yet.
func (c *Cursor[T]) View() CStr[T] {
	return c.view
}

// Remaining returns how many more units fit before the final slot.
func (c *Cursor[T]) Remaining() int {
	return c.view.Cap()
}

// Write implements io.Writer.
func (c *Cursor[T]) Write(p []byte) (int, error) {
	n, err := cursorWrite(c, p)
	return finishWrite(n, len(p), err)
}

// WriteString implements io.StringWriter.
func (c *Cursor[T]) WriteString(s string) (int, error) {
	n, err := cursorWrite(c, s)
	return finishWrite(n, len(s), err)
}

// WriteRune writes a single scalar value.
func (c *Cursor[T]) WriteRune(r rune) (int, error) {
	var buf [utf8.UTFMax]byte
	return c.Write(utf8.AppendRune(buf[:0], r))
}

// WriteUnits writes raw code units.
func (c *Cursor[T]) WriteUnits(units []T) (int, error) {
	if len(units) == 0 {
		return 0, nil
	}
	full := c.view.units
	if len(full) == 0 {
		return 0, errors.WriteZero(errors.PhaseWrite, len(units))
	}
	written, err := fill(full[:len(full)-1], units)
	c.advance(written)
	return written, err
}

func cursorWrite[T Unit, S scan.Text](c *Cursor[T], src S) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}
	full := c.view.units
	if len(full) == 0 {
		return 0, nil
	}
	written, size, err := transcode(full[:len(full)-1], src, errors.PhaseWrite)
	c.advance(written)
	return size, err
}

func (c *Cursor[T]) advance(written int) {
	full := c.view.units
	full[written] = 0
	c.view = CStr[T]{units: full[written:]}
}
