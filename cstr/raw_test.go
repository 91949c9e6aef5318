package cstr

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	cerrors "github.com/asakhar/cutils/errors"
)

func TestFromPtr(t *testing.T) {
	buf := []uint16{'h', 'i', 0, 'x', 0}
	v := FromPtr(&buf[0])
	if v.String() != "hi" {
		t.Errorf("String = %q", v.String())
	}
	if v.BackingLen() != 3 || v.Cap() != 2 {
		t.Errorf("BackingLen=%d Cap=%d, want 3 and 2", v.BackingLen(), v.Cap())
	}
	if v.Ptr() != &buf[0] {
		t.Error("FromPtr should not copy")
	}
}

func TestFromPtrUnchecked(t *testing.T) {
	buf := []uint8("ab\x00cd")
	v := FromPtrUnchecked(&buf[0], len(buf))
	if v.Len() != 2 || v.Cap() != 4 {
		t.Errorf("Len=%d Cap=%d", v.Len(), v.Cap())
	}
}

func TestFromPtrN(t *testing.T) {
	buf := []uint32{'a', 'b', 0}

	tests := []struct {
		name    string
		max     int
		wantErr bool
	}{
		{"bound excludes nul", 2, true},
		{"bound includes nul", 3, false},
		{"zero bound", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := FromPtrN(&buf[0], tc.max)
			if tc.wantErr {
				if !errors.Is(err, ErrNulNotFound) {
					t.Fatalf("expected ErrNulNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromPtrN failed: %v", err)
			}
			if v.String() != "ab" {
				t.Errorf("String = %q", v.String())
			}
		})
	}
}

func TestFromPtrN_Nil(t *testing.T) {
	_, err := FromPtrN[uint8](nil, 16)
	var e *cerrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %v", err)
	}
	if e.Kind != cerrors.KindInvalidInput || e.Phase != cerrors.PhaseConstruct {
		t.Errorf("Kind=%s Phase=%s", e.Kind, e.Phase)
	}
}

func TestNewFromPtr(t *testing.T) {
	buf := []uint8("abc\x00")
	c := NewFromPtr(&buf[0])
	buf[0] = 'z'
	if c.String() != "abc" {
		t.Errorf("NewFromPtr should copy, got %q", c.String())
	}

	d, err := NewFromPtrN(&buf[0], 4)
	if err != nil || d.String() != "zbc" {
		t.Errorf("NewFromPtrN = %q, %v", d.String(), err)
	}
	if _, err := NewFromPtrN(&buf[0], 3); !errors.Is(err, ErrNulNotFound) {
		t.Errorf("expected ErrNulNotFound, got %v", err)
	}
}

func TestNewFromPtrTruncate(t *testing.T) {
	noNul := []uint16{'a', 'b', 'c', 'd', 'e', 'f'}
	if c := NewFromPtrTruncate(&noNul[0], 3); c.String() != "abc" {
		t.Errorf("truncated copy = %q", c.String())
	}

	early := []uint16{'a', 'b', 0, 'd'}
	if c := NewFromPtrTruncate(&early[0], 4); c.String() != "ab" {
		t.Errorf("copy with early nul = %q", c.String())
	}

	if c := NewFromPtrTruncate[uint16](nil, 4); !c.IsEmpty() {
		t.Error("nil pointer should give an empty string")
	}
}

func TestNewFromPtrTruncate_Logs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	early := []uint8("ab\x00d")
	NewFromPtrTruncate(&early[0], 4)
	if n := logs.FilterMessage("truncate raw string").Len(); n != 0 {
		t.Errorf("terminated copy logged %d truncations", n)
	}

	noNul := []uint8("abcdef")
	NewFromPtrTruncate(&noNul[0], 3)
	entries := logs.FilterMessage("truncate raw string").All()
	if len(entries) != 1 {
		t.Fatalf("expected one truncation entry, got %d", len(entries))
	}
	if m := entries[0].ContextMap()["max"]; m != int64(3) {
		t.Errorf("max field = %v", m)
	}
}

func TestNewFromPtrUnchecked(t *testing.T) {
	buf := []uint8("ab\x00\x00")
	c := NewFromPtrUnchecked(&buf[0], 2, len(buf))
	if c.LenHint() != 2 || c.Len() != 2 || c.Cap() != 3 {
		t.Errorf("LenHint=%d Len=%d Cap=%d", c.LenHint(), c.Len(), c.Cap())
	}

	d := NewFromPtrUncheckedCalcLen(&buf[0], len(buf))
	if d.LenHint() != 2 {
		t.Errorf("LenHint = %d, want 2", d.LenHint())
	}
	buf[0] = 'x'
	if d.String() != "ab" {
		t.Error("NewFromPtrUncheckedCalcLen should copy")
	}
}

func TestStaticFromPtr(t *testing.T) {
	fits := []uint8("abc\x00")
	s, err := StaticFromPtr[uint8, [4]uint8](&fits[0])
	if err != nil || s.String() != "abc" {
		t.Errorf("StaticFromPtr = %q, %v", s.String(), err)
	}

	long := []uint8("abcd\x00")
	if _, err := StaticFromPtr[uint8, [4]uint8](&long[0]); !errors.Is(err, ErrNulNotFound) {
		t.Errorf("expected ErrNulNotFound, got %v", err)
	}

	u := StaticFromPtrUnchecked[uint8, [4]uint8](&long[0])
	if u.String() != "abc" || u.Full()[3] != 0 {
		t.Errorf("StaticFromPtrUnchecked = %q", u.Full())
	}
}
