package format

import (
	"errors"
	"testing"
)

func TestReadMarkerInlineCount(t *testing.T) {
	m, err := ReadMarker([]byte{0xA3}, 0)
	if err != nil {
		t.Fatalf("ReadMarker: %v", err)
	}
	if m.Tag != TagArray || m.Count != 3 || m.Next != 1 {
		t.Fatalf("unexpected marker: %+v", m)
	}
}

func TestReadMarkerLongCount(t *testing.T) {
	// Data object with a 2-byte count of 300 following the marker.
	b := []byte{0x4F, 0x11, 0x01, 0x2C}
	m, err := ReadMarker(b, 0)
	if err != nil {
		t.Fatalf("ReadMarker: %v", err)
	}
	if m.Tag != TagData || m.Count != 300 || m.Next != 4 {
		t.Fatalf("unexpected marker: %+v", m)
	}
}

func TestReadMarkerLongCountNotAnInt(t *testing.T) {
	b := []byte{0x4F, 0x50}
	if _, err := ReadMarker(b, 0); !errors.Is(err, ErrUnknownTypeTag) {
		t.Fatalf("expected ErrUnknownTypeTag, got %v", err)
	}
}

func TestReadMarkerLongCountTruncated(t *testing.T) {
	b := []byte{0x4F, 0x13, 0x00}
	if _, err := ReadMarker(b, 0); !errors.Is(err, ErrIntegerOverflow) {
		t.Fatalf("expected ErrIntegerOverflow, got %v", err)
	}
}

func TestReadMarkerIntKeepsFillNibble(t *testing.T) {
	// 0x1F would be a 2^15-byte integer: the low nibble of single-value
	// types is a width exponent, never a trailing count.
	m, err := ReadMarker([]byte{0x13}, 0)
	if err != nil {
		t.Fatalf("ReadMarker: %v", err)
	}
	if m.Tag != TagInt || m.Count != 3 || m.Next != 1 {
		t.Fatalf("unexpected marker: %+v", m)
	}
}

func TestReadSizedInt(t *testing.T) {
	cases := []struct {
		name  string
		b     []byte
		width int
		want  int64
	}{
		{"u8", []byte{0x2A}, 1, 42},
		{"u16", []byte{0x01, 0x00}, 2, 256},
		{"u32", []byte{0x00, 0x01, 0x00, 0x00}, 4, 65536},
		{"i64 negative", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 8, -1},
		{"i128 positive", []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 7}, 16, 7},
		{"i128 negative", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE}, 16, -2},
	}
	for _, tc := range cases {
		got, err := ReadSizedInt(tc.b, 0, tc.width)
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestReadSizedIntOverflow(t *testing.T) {
	// 2^64 does not fit a signed 64-bit integer.
	b := []byte{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0}
	if _, err := ReadSizedInt(b, 0, 16); !errors.Is(err, ErrIntegerOverflow) {
		t.Fatalf("expected ErrIntegerOverflow, got %v", err)
	}
	if _, err := ReadSizedInt([]byte{1, 2}, 0, 4); !errors.Is(err, ErrIntegerOverflow) {
		t.Fatalf("expected ErrIntegerOverflow for truncated payload, got %v", err)
	}
}

func TestIntWidthExponent(t *testing.T) {
	cases := []struct {
		v    int64
		want int
	}{
		{0, 0}, {255, 0}, {256, 1}, {65535, 1}, {65536, 2}, {1 << 32, 3}, {-1, 3},
	}
	for _, tc := range cases {
		if got := IntWidthExponent(tc.v); got != tc.want {
			t.Errorf("IntWidthExponent(%d) = %d, want %d", tc.v, got, tc.want)
		}
	}
}
