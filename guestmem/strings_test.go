package guestmem

import (
	"errors"
	"testing"

	"github.com/asakhar/cutils/cstr"
	cerrors "github.com/asakhar/cutils/errors"
)

func TestReadCString(t *testing.T) {
	mem, _ := newGuestMemory(t)

	mem.Write(100, []byte("hello\x00"))
	mem.Write(200, []byte{'h', 0, 0xE9, 0, 0xAC, 0x20, 0, 0})
	mem.Write(300, []byte{0x00, 0xF6, 0x01, 0x00, 0, 0, 0, 0})

	s8, err := ReadCString[uint8](mem, 100, 64)
	if err != nil || s8.String() != "hello" {
		t.Errorf("u8 = %q, %v", s8, err)
	}
	s16, err := ReadCString[uint16](mem, 200, 64)
	if err != nil || s16.String() != "hé€" {
		t.Errorf("u16 = %q, %v", s16, err)
	}
	s32, err := ReadCString[uint32](mem, 300, 64)
	if err != nil || s32.String() != "😀" {
		t.Errorf("u32 = %q, %v", s32, err)
	}
}

func TestReadCString_Bounded(t *testing.T) {
	mem, _ := newGuestMemory(t)
	mem.Write(0, []byte("abcdef\x00"))

	if _, err := ReadCString[uint8](mem, 0, 6); !errors.Is(err, cstr.ErrNulNotFound) {
		t.Errorf("expected ErrNulNotFound, got %v", err)
	}
	if s, err := ReadCString[uint8](mem, 0, 7); err != nil || s.Len() != 6 {
		t.Errorf("ReadCString = %v, %v", s, err)
	}
}

func TestReadCString_EndOfMemory(t *testing.T) {
	mem, _ := newGuestMemory(t)
	mem.Write(pageSize-4, []byte("abcd"))

	if _, err := ReadCString[uint8](mem, pageSize-4, 64); !errors.Is(err, errOutOfBounds) {
		t.Errorf("expected out of bounds error, got %v", err)
	}
	if _, err := ReadCString[uint8](mem, pageSize, 1); !errors.Is(err, errOutOfBounds) {
		t.Errorf("expected out of bounds error past the end, got %v", err)
	}

	mem.Write(pageSize-2, []byte{'z', 0})
	if s, err := ReadCString[uint8](mem, pageSize-2, 64); err != nil || s.String() != "z" {
		t.Errorf("string ending at the last byte = %v, %v", s, err)
	}
}

func TestReadCString_Misaligned(t *testing.T) {
	mem, _ := newGuestMemory(t)
	_, err := ReadCString[uint32](mem, 2, 8)
	var e *cerrors.Error
	if !errors.As(err, &e) || e.Kind != cerrors.KindInvalidInput {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestReadCString_WithoutSizer(t *testing.T) {
	mem := sliceMemory("hi\x00xxxx")
	s, err := ReadCString[uint8](mem, 0, 4)
	if err != nil || s.String() != "hi" {
		t.Errorf("ReadCString = %v, %v", s, err)
	}
	if _, err := ReadCString[uint8](mem, 3, 16); !errors.Is(err, errOutOfBounds) {
		t.Errorf("expected out of bounds error, got %v", err)
	}

	wide := sliceMemory{'h', 0, 0, 0, 'i', 0, 0, 0, 0, 0, 0, 0}
	for _, maxUnits := range []int{3, 16, 1 << 30} {
		s, err := ReadCString[uint32](wide, 0, maxUnits)
		if err != nil || s.String() != "hi" {
			t.Errorf("ReadCString(max=%d) = %v, %v", maxUnits, s, err)
		}
	}
	if _, err := ReadCString[uint32](wide, 0, 2); !errors.Is(err, cstr.ErrNulNotFound) {
		t.Errorf("expected ErrNulNotFound, got %v", err)
	}
}

func TestReadCString_HugeBound(t *testing.T) {
	mem, _ := newGuestMemory(t)
	mem.Write(0, []byte{'h', 0, 0, 0, 'i', 0, 0, 0, 0, 0, 0, 0})

	s, err := ReadCString[uint32](mem, 0, 1<<30)
	if err != nil || s.String() != "hi" {
		t.Errorf("ReadCString = %v, %v", s, err)
	}
}

func TestReadString(t *testing.T) {
	mem, _ := newGuestMemory(t)
	mem.Write(0, []byte{'o', 0, 'k', 0, 0, 0})
	mem.Write(16, []byte{'x', 0, 0x00, 0xD8, 0, 0})

	if s, err := ReadString[uint16](mem, 0, 16); err != nil || s != "ok" {
		t.Errorf("ReadString = %q, %v", s, err)
	}
	if _, err := ReadString[uint16](mem, 16, 16); !errors.Is(err, cstr.ErrUnrepresentable) {
		t.Errorf("expected ErrUnrepresentable for a surrogate, got %v", err)
	}
}

func TestWriteCStr(t *testing.T) {
	mem, _ := newGuestMemory(t)
	mem.Write(0, []byte{0xFF, 0xFF, 0xFF, 0xFF})

	if err := WriteCStr[uint16](mem, 0, cstr.Lit[uint16]("€")); err != nil {
		t.Fatalf("WriteCStr failed: %v", err)
	}
	b, _ := mem.Read(0, 4)
	if b[0] != 0xAC || b[1] != 0x20 || b[2] != 0 || b[3] != 0 {
		t.Errorf("memory = % x", b)
	}

	mem.Write(8, []byte{0xFF, 0xFF})
	if err := WriteCStr[uint16](mem, 8, cstr.CStr[uint16]{}); err != nil {
		t.Fatalf("WriteCStr of the zero view failed: %v", err)
	}
	if v, _ := mem.ReadU16(8); v != 0 {
		t.Errorf("zero view should write a terminator, got %#x", v)
	}

	if err := WriteCStr[uint8](mem, pageSize-1, cstr.Lit[uint8]("ab")); !errors.Is(err, errOutOfBounds) {
		t.Errorf("expected out of bounds error, got %v", err)
	}
}

func TestLower_RoundTrip(t *testing.T) {
	mem, _ := newGuestMemory(t)
	bump := NewBump(1024, pageSize)
	list := NewAllocationList()

	ptr, n, err := Lower[uint32](mem, bump, "a😀b", list)
	if err != nil {
		t.Fatalf("Lower failed: %v", err)
	}
	if n != 3 || ptr%4 != 0 {
		t.Errorf("ptr=%d n=%d", ptr, n)
	}
	if bump.Used() != 16 {
		t.Errorf("Used = %d, want 16", bump.Used())
	}
	got, err := ReadString[uint32](mem, ptr, 16)
	if err != nil || got != "a😀b" {
		t.Errorf("read back %q, %v", got, err)
	}

	if _, _, err := Lower[uint8](mem, bump, "hi", list); err != nil {
		t.Fatalf("Lower failed: %v", err)
	}
	if list.Count() != 2 {
		t.Errorf("Count = %d, want 2", list.Count())
	}
	list.FreeAndRelease(bump)
	if bump.Used() != 0 {
		t.Errorf("Used after free = %d, want 0", bump.Used())
	}
}

func TestLower_Errors(t *testing.T) {
	mem, _ := newGuestMemory(t)

	if _, _, err := Lower[uint8](mem, NewBump(8, 64), "Ā", nil); !errors.Is(err, cstr.ErrUnrepresentable) {
		t.Errorf("expected ErrUnrepresentable, got %v", err)
	}
	if _, _, err := Lower[uint8](mem, NewBump(8, 12), "too long", nil); !errors.Is(err, errAllocation) {
		t.Errorf("expected allocation error, got %v", err)
	}
	if _, _, err := Lower[uint8](mem, nil, "x", nil); !errors.Is(err, errAllocation) {
		t.Errorf("expected allocation error for a nil allocator, got %v", err)
	}
}

func TestLowerCStr_Static(t *testing.T) {
	mem, _ := newGuestMemory(t)
	s := cstr.StaticLit[uint16, [8]uint16]("wide")

	ptr, n, err := LowerCStr[uint16](mem, NewBump(64, 128), &s, nil)
	if err != nil || n != 4 {
		t.Fatalf("LowerCStr = %d, %d, %v", ptr, n, err)
	}
	back, err := ReadCString[uint16](mem, ptr, 8)
	if err != nil || !back.Equal(&s) {
		t.Errorf("read back %v, %v", back, err)
	}
}

func TestLowerCStr_FreesOnFailedStore(t *testing.T) {
	mem := make(sliceMemory, 16)
	bump := NewBump(32, 1024)

	if _, _, err := Lower[uint8](mem, bump, "out of range", nil); !errors.Is(err, errOutOfBounds) {
		t.Fatalf("expected out of bounds error, got %v", err)
	}
	if bump.Used() != 0 {
		t.Errorf("Used = %d, want 0 after a failed store", bump.Used())
	}

	list := NewAllocationList()
	if _, _, err := Lower[uint8](mem, bump, "out of range", list); !errors.Is(err, errOutOfBounds) {
		t.Fatalf("expected out of bounds error, got %v", err)
	}
	if list.Count() != 1 || bump.Used() == 0 {
		t.Errorf("Count = %d, Used = %d: the list should own the block", list.Count(), bump.Used())
	}
	list.FreeAndRelease(bump)
	if bump.Used() != 0 {
		t.Errorf("Used after free = %d, want 0", bump.Used())
	}
}
