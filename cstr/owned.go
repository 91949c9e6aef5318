package cstr

import (
	"slices"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/asakhar/cutils/cstr/internal/scan"
	"github.com/asakhar/cutils/errors"
)

// CString is an owned, growable, nul-terminated string of T code units.
//
// The buffer always spans its full capacity and everything past the
// terminator is zero, so the slack can absorb growth without reallocating.
// The cached length is a hint only: memory handed out through Ptr may be
// rewritten by native code, so every reader calls Refresh first.
//
// The zero CString is an empty string ready to use.
type CString[T Unit] struct {
	buf  []T
	hint int
}

// New returns an empty string.
func New[T Unit]() *CString[T] {
	return WithCapacity[T](0)
}

// WithCapacity returns an empty string with room for at least n units of content.
func WithCapacity[T Unit](n int) *CString[T] {
	buf := make([]T, n+1)
	return &CString[T]{buf: buf[:cap(buf)]}
}

// NewFrom copies units into a new string. Content ends at the first zero,
// or at the end of units when there is none.
func NewFrom[T Unit](units []T) *CString[T] {
	buf := make([]T, len(units), len(units)+1)
	copy(buf, units)
	return NewOwned(buf)
}

// NewOwned takes ownership of buf. A terminator is appended when buf holds
// none and everything after the terminator is zeroed. The caller must not
// use buf afterwards.
func NewOwned[T Unit](buf []T) *CString[T] {
	n := index(buf)
	if n < 0 {
		n = len(buf)
		buf = append(buf, 0)
	}
	full := buf[:cap(buf)]
	clear(full[n+1:])
	return &CString[T]{buf: full, hint: n}
}

// NewEncoded encodes text into a new string.
func NewEncoded[T Unit](text string) (*CString[T], error) {
	s := New[T]()
	if _, err := s.WriteString(text); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh rescans the buffer, stores the logical length as the new hint and
// returns it.
func (c *CString[T]) Refresh() int {
	if len(c.buf) == 0 {
		c.buf = make([]T, 1)
	}
	n := index(c.buf)
	if n < 0 {
		panic("cstr: owned buffer lost its terminator")
	}
	c.hint = n
	return n
}

// LenHint returns the cached length without rescanning. It may be stale
// after native code wrote through Ptr.
func (c *CString[T]) LenHint() int {
	return c.hint
}

// Len returns the logical length.
func (c *CString[T]) Len() int {
	return c.Refresh()
}

// LenWithNul returns Len()+1.
func (c *CString[T]) LenWithNul() int {
	return c.Refresh() + 1
}

// IsEmpty reports whether the logical content is empty.
func (c *CString[T]) IsEmpty() bool {
	return c.Refresh() == 0
}

// Cap returns how many units of content fit without reallocating.
func (c *CString[T]) Cap() int {
	c.Refresh()
	return len(c.buf) - 1
}

// Reserve grows the buffer so that at least n more units fit after the
// current content. Existing content and slack are preserved.
func (c *CString[T]) Reserve(n int) {
	c.grow(c.Refresh() + n + 1)
}

// Units returns the logical content. The slice aliases the buffer.
func (c *CString[T]) Units() []T {
	n := c.Refresh()
	return c.buf[:n:n]
}

// UnitsWithNul returns the logical content and its terminator.
func (c *CString[T]) UnitsWithNul() []T {
	n := c.Refresh() + 1
	return c.buf[:n:n]
}

// Full returns the whole buffer, slack included.
func (c *CString[T]) Full() []T {
	c.Refresh()
	return c.buf
}

// MutUnits returns the logical content for in-place edits.
func (c *CString[T]) MutUnits() []T {
	return c.Units()
}

// View returns a borrowed view over the whole buffer.
func (c *CString[T]) View() CStr[T] {
	c.Refresh()
	return CStr[T]{units: c.buf}
}

// Ptr returns a pointer to the first unit. Native code may write up to
// Cap() units plus a terminator through it; call Refresh afterwards.
func (c *CString[T]) Ptr() *T {
	c.Refresh()
	return &c.buf[0]
}

// Clone returns a copy with the same content and capacity.
func (c *CString[T]) Clone() *CString[T] {
	n := c.Refresh()
	return &CString[T]{buf: slices.Clone(c.buf), hint: n}
}

// Release hands the buffer to the caller. The string is left empty.
func (c *CString[T]) Release() []T {
	c.Refresh()
	buf := c.buf
	c.buf, c.hint = nil, 0
	return buf
}

// Clear truncates the string to zero length without releasing memory.
func (c *CString[T]) Clear() {
	c.Refresh()
	c.buf[0] = 0
	c.hint = 0
}

// Equal reports whether c and o hold the same logical content.
func (c *CString[T]) Equal(o Viewer[T]) bool {
	return slices.Equal(c.Units(), o.View().Units())
}

// Display returns a formatting adapter over the logical content.
func (c *CString[T]) Display() Display[T] {
	return Display[T]{units: c.Units()}
}

// String decodes the logical content lossily.
func (c *CString[T]) String() string {
	return decodeLossy(c.Units())
}

// Append decodes p as UTF-8 and appends every scalar value, growing the
// buffer as needed. It stops early only at invalid UTF-8 or at a scalar
// that does not fit T, and returns the number of bytes of p consumed.
func (c *CString[T]) Append(p []byte) int {
	n, _ := c.write(p)
	return n
}

// Write implements io.Writer.
func (c *CString[T]) Write(p []byte) (int, error) {
	n, err := c.write(p)
	return finishWrite(n, len(p), err)
}

// WriteString implements io.StringWriter.
func (c *CString[T]) WriteString(s string) (int, error) {
	n, err := appendOwned(c, s)
	return finishWrite(n, len(s), err)
}

// WriteRune appends a single scalar value.
func (c *CString[T]) WriteRune(r rune) (int, error) {
	var buf [utf8.UTFMax]byte
	return c.Write(utf8.AppendRune(buf[:0], r))
}

func (c *CString[T]) write(p []byte) (int, error) {
	return appendOwned(c, p)
}

func appendOwned[T Unit, S scan.Text](c *CString[T], src S) (int, error) {
	n := c.Refresh()
	valid, _ := scan.Valid(src)
	units, _, _ := scan.Measure(src[:valid], MaxScalar[T](), -1)
	c.grow(n + units + 1)
	written, size, err := transcode(c.buf[n:], src, errors.PhaseWrite)
	c.buf[n+written] = 0
	c.hint = n + written
	return size, err
}

// WriteUnits appends raw code units without transcoding. A zero among them
// ends the logical content there.
func (c *CString[T]) WriteUnits(units []T) (int, error) {
	n := c.Refresh()
	c.grow(n + len(units) + 1)
	copy(c.buf[n:], units)
	c.buf[n+len(units)] = 0
	c.Refresh()
	return len(units), nil
}

// WriteCStr appends the logical content of v.
func (c *CString[T]) WriteCStr(v Viewer[T]) error {
	_, err := c.WriteUnits(v.View().Units())
	return err
}

// WriteUnit appends a single code unit.
func (c *CString[T]) WriteUnit(u T) error {
	_, err := c.WriteUnits([]T{u})
	return err
}

// grow makes the buffer at least need units long, zero-filling the new slack.
func (c *CString[T]) grow(need int) {
	old := len(c.buf)
	if need <= old {
		return
	}
	c.buf = slices.Grow(c.buf, need-old)
	c.buf = c.buf[:cap(c.buf)]
	clear(c.buf[old:])
	Logger().Debug("cstring grow",
		zap.Int("width", Width[T]()),
		zap.Int("from", old),
		zap.Int("to", len(c.buf)))
}
