package cstr

import (
	"errors"
	"slices"
	"testing"

	cerrors "github.com/asakhar/cutils/errors"
)

func TestEncode_U8(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []uint8
		ok   bool
	}{
		{"ascii", "abc", []uint8{'a', 'b', 'c'}, true},
		{"latin1", "é", []uint8{0xE9}, true},
		{"empty", "", []uint8{}, true},
		{"above 0xFF", "aĀ", nil, false},
		{"invalid utf8", "a\xff", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Encode[uint8](tc.text)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEncode_WidthSelection(t *testing.T) {
	text := "Āb😀"

	if _, ok := Encode[uint8](text); ok {
		t.Error("8-bit encode should reject U+0100")
	}
	if _, ok := Encode[uint16](text); ok {
		t.Error("16-bit encode should reject U+1F600")
	}
	got, ok := Encode[uint32](text)
	if !ok {
		t.Fatal("32-bit encode should accept every scalar")
	}
	want := []uint32{0x100, 'b', 0x1F600}
	if !slices.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}

	u16, ok := Encode[uint16]("Āb€")
	if !ok {
		t.Fatal("16-bit encode should accept the BMP")
	}
	if !slices.Equal(u16, []uint16{0x100, 'b', 0x20AC}) {
		t.Errorf("got %x", u16)
	}
}

func TestEncodedLen(t *testing.T) {
	n, ok := EncodedLen[uint16]("héllo")
	if !ok || n != 5 {
		t.Errorf("EncodedLen = %d, %v; want 5, true", n, ok)
	}
	if _, ok := EncodedLen[uint8]("€"); ok {
		t.Error("EncodedLen[uint8] should reject U+20AC")
	}
}

func TestDecode(t *testing.T) {
	if s, ok := Decode([]uint8{'h', 0xE9}); !ok || s != "hé" {
		t.Errorf("Decode u8 = %q, %v", s, ok)
	}
	if s, ok := Decode([]uint32{0x1F600}); !ok || s != "😀" {
		t.Errorf("Decode u32 = %q, %v", s, ok)
	}
	if _, ok := Decode([]uint16{'a', 0xD800}); ok {
		t.Error("Decode should reject a surrogate half")
	}
	if _, ok := Decode([]uint32{0x110000}); ok {
		t.Error("Decode should reject units above U+10FFFF")
	}
	if s, ok := Decode([]uint16{}); !ok || s != "" {
		t.Errorf("Decode empty = %q, %v", s, ok)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	texts := []string{"", "hello", "héllo wörld", "tab\tnewline\n"}
	for _, text := range texts {
		u8, ok := Encode[uint8](text)
		if !ok {
			t.Fatalf("Encode[uint8](%q) failed", text)
		}
		if got, ok := Decode(u8); !ok || got != text {
			t.Errorf("u8 round trip %q -> %q", text, got)
		}
		u16, _ := Encode[uint16](text)
		if got, ok := Decode(u16); !ok || got != text {
			t.Errorf("u16 round trip %q -> %q", text, got)
		}
	}

	astral := "a😀b"
	u32, _ := Encode[uint32](astral)
	if got, ok := Decode(u32); !ok || got != astral {
		t.Errorf("u32 round trip %q -> %q", astral, got)
	}
}

func TestDecodeLossy(t *testing.T) {
	got := decodeLossy([]uint16{'a', 0xDC00, 'b'})
	if got != "a�b" {
		t.Errorf("decodeLossy = %q", got)
	}
}

func TestTranscode_StopsWhenFull(t *testing.T) {
	dst := make([]uint16, 2)
	units, size, err := transcode(dst, "héllo", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if units != 2 || size != 3 {
		t.Errorf("units=%d size=%d, want 2 and 3", units, size)
	}
	if dst[0] != 'h' || dst[1] != 0xE9 {
		t.Errorf("dst = %x", dst)
	}
}

func TestTranscode_UnrepresentableDetail(t *testing.T) {
	dst := make([]uint8, 4)
	units, size, err := transcode(dst, "aĀb", cerrors.PhaseWrite)
	if units != 1 || size != 1 {
		t.Errorf("units=%d size=%d, want 1 and 1", units, size)
	}
	var e *cerrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %v", err)
	}
	if e.Phase != cerrors.PhaseWrite || e.Kind != cerrors.KindUnrepresentable {
		t.Errorf("Phase=%v Kind=%v", e.Phase, e.Kind)
	}
	if e.Width != 8 || e.Value != 'Ā' {
		t.Errorf("Width=%d Value=%v, want 8 and U+0100", e.Width, e.Value)
	}
}
