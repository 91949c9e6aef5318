package guestmem

import (
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/asakhar/cutils"
	"github.com/asakhar/cutils/cstr"
	"github.com/asakhar/cutils/errors"
)

func unitBytes[T cstr.Unit]() uint32 {
	return uint32(cstr.Width[T]() / 8)
}

// decodeUnits converts little-endian bytes to code units.
func decodeUnits[T cstr.Unit](data []byte) []T {
	w := int(unitBytes[T]())
	out := make([]T, len(data)/w)
	for i := range out {
		b := data[i*w:]
		switch w {
		case 1:
			out[i] = T(b[0])
		case 2:
			out[i] = T(uint16(b[0]) | uint16(b[1])<<8)
		default:
			out[i] = T(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24)
		}
	}
	return out
}

// encodeUnits converts code units to little-endian bytes.
func encodeUnits[T cstr.Unit](units []T) []byte {
	w := int(unitBytes[T]())
	out := make([]byte, len(units)*w)
	for i, u := range units {
		v := uint32(u)
		for j := 0; j < w; j++ {
			out[i*w+j] = byte(v >> (8 * j))
		}
	}
	return out
}

// ReadCString copies the string at ptr out of guest memory, scanning at
// most maxUnits units for the terminator. It fails with cstr.ErrNulNotFound
// when there is none in range, or with an out of bounds error when the
// range runs past the end of memory before a terminator is found.
func ReadCString[T cstr.Unit](mem cutils.Memory, ptr uint32, maxUnits int) (*cstr.CString[T], error) {
	w := unitBytes[T]()
	if ptr%w != 0 {
		return nil, errors.New(errors.PhaseMemory, errors.KindInvalidInput).
			Width(cstr.Width[T]()).
			Value(ptr).
			Detail("pointer %#x is not aligned to %d bytes", ptr, w).
			Build()
	}
	maxUnits = max(maxUnits, 0)

	var units []T
	var err error
	if sizer, ok := mem.(cutils.MemorySizer); ok {
		units, err = readSized[T](mem, sizer.Size(), ptr, maxUnits)
	} else {
		units, err = readChunked[T](mem, ptr, maxUnits)
	}
	if err != nil {
		return nil, err
	}
	v, err := cstr.From(units)
	if err != nil {
		return nil, errors.NulNotFound(errors.PhaseMemory, maxUnits)
	}
	s := v.Clone()
	logger().Debug("read guest string",
		zap.Uint32("ptr", ptr),
		zap.Int("width", cstr.Width[T]()),
		zap.Int("units", s.Len()))
	return s, nil
}

// readSized reads the whole scan range in one call, clipped to the memory
// size. A range clipped short of maxUnits without a terminator is out of
// bounds.
func readSized[T cstr.Unit](mem cutils.Memory, size, ptr uint32, maxUnits int) ([]T, error) {
	w := uint64(unitBytes[T]())
	want := min(uint64(maxUnits), 1<<32) * w
	if ptr >= size {
		return nil, errors.OutOfBounds(errors.PhaseMemory, []string{"ReadCString"}, uint64(ptr), want)
	}
	avail := min(want, (uint64(size)-uint64(ptr))/w*w, math.MaxUint32&^(w-1))
	data, err := mem.Read(ptr, uint32(avail))
	if err != nil {
		return nil, err
	}
	units := decodeUnits[T](data)
	if avail < want && slices.Index(units, 0) < 0 {
		return nil, errors.OutOfBounds(errors.PhaseMemory, []string{"ReadCString"}, uint64(ptr), want)
	}
	return units, nil
}

// readChunk is the number of units fetched per read when the memory cannot
// report its size.
const readChunk = 64

// readChunked scans forward in small reads until a terminator or maxUnits.
// A chunk that runs off the end of memory is retried unit by unit so a
// string ending just before the boundary is still found.
func readChunked[T cstr.Unit](mem cutils.Memory, ptr uint32, maxUnits int) ([]T, error) {
	w := unitBytes[T]()
	var units []T
	for len(units) < maxUnits {
		off := uint64(ptr) + uint64(len(units))*uint64(w)
		if off > math.MaxUint32 {
			return nil, errors.OutOfBounds(errors.PhaseMemory, []string{"ReadCString"}, off, uint64(w))
		}
		n := min(maxUnits-len(units), readChunk)
		data, err := mem.Read(uint32(off), uint32(n)*w)
		if err != nil {
			if n == 1 {
				return nil, err
			}
			data, err = mem.Read(uint32(off), w)
			if err != nil {
				return nil, err
			}
		}
		chunk := decodeUnits[T](data)
		if i := slices.Index(chunk, 0); i >= 0 {
			return append(units, chunk[:i+1]...), nil
		}
		units = append(units, chunk...)
	}
	return units, nil
}

// ReadString reads the string at ptr and decodes it to Go text. It fails on
// units that are not scalar values.
func ReadString[T cstr.Unit](mem cutils.Memory, ptr uint32, maxUnits int) (string, error) {
	s, err := ReadCString[T](mem, ptr, maxUnits)
	if err != nil {
		return "", err
	}
	for i, u := range s.Units() {
		if !cstr.Fits[T](rune(u)) {
			return "", errors.InvalidUnit(errors.PhaseDecode, uint32(u), i)
		}
	}
	text, _ := cstr.Decode(s.Units())
	return text, nil
}

// WriteCStr stores the logical content of v and its terminator at ptr.
func WriteCStr[T cstr.Unit](mem cutils.Memory, ptr uint32, v cstr.Viewer[T]) error {
	data := encodeUnits(v.View().UnitsWithNul())
	if len(data) == 0 {
		data = make([]byte, unitBytes[T]())
	}
	if err := mem.Write(ptr, data); err != nil {
		return err
	}
	logger().Debug("wrote guest string",
		zap.Uint32("ptr", ptr),
		zap.Int("bytes", len(data)))
	return nil
}

// Lower encodes text, copies it into guest memory obtained from alloc and
// records the block in list when list is not nil. It returns the guest
// pointer and the length in units, terminator excluded.
func Lower[T cstr.Unit](mem cutils.Memory, alloc cutils.Allocator, text string, list *AllocationList) (uint32, int, error) {
	s, err := cstr.NewEncoded[T](text)
	if err != nil {
		return 0, 0, err
	}
	return LowerCStr[T](mem, alloc, s, list)
}

// LowerCStr is Lower for a string that is already encoded. When the store
// fails the block is freed, unless list already owns it.
func LowerCStr[T cstr.Unit](mem cutils.Memory, alloc cutils.Allocator, v cstr.Viewer[T], list *AllocationList) (uint32, int, error) {
	if alloc == nil {
		return 0, 0, errors.AllocationFailed(errors.PhaseMemory, 0, 0, errors.InvalidInput(errors.PhaseMemory, "nil allocator"))
	}
	n := v.View().Len()
	w := unitBytes[T]()
	size := uint32(n+1) * w
	ptr, err := alloc.Alloc(size, w)
	if err != nil {
		logger().Warn("guest allocation failed", zap.Uint32("size", size), zap.Error(err))
		return 0, 0, err
	}
	if list != nil {
		list.Add(ptr, size, w)
	}
	if err := WriteCStr(mem, ptr, v); err != nil {
		if list == nil {
			alloc.Free(ptr, size, w)
		}
		return 0, 0, err
	}
	return ptr, n, nil
}
