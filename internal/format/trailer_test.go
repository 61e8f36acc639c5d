package format

import (
	"errors"
	"testing"
)

// minimalPlist hand-assembles the smallest useful binary plist: a single
// ASCII string object "a".
//
//	0x00  'bplist00'
//	0x08  0x51 'a'      object 0: ASCII string, length 1
//	0x0A  0x08          offset table: one 1-byte entry
//	0x0B  trailer
func minimalPlist() []byte {
	b := append([]byte{}, Magic...)
	b = append(b, 0x51, 'a')
	b = append(b, 0x08)
	return AppendTrailer(b, Trailer{
		OffsetSize:        1,
		RefSize:           1,
		NumObjects:        1,
		RootObject:        0,
		OffsetTableOffset: 10,
	})
}

func TestCheckMagic(t *testing.T) {
	if err := CheckMagic(minimalPlist()); err != nil {
		t.Fatalf("CheckMagic: %v", err)
	}
	if err := CheckMagic([]byte("<?xml version")); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
	if err := CheckMagic([]byte("bpl")); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic for short buffer, got %v", err)
	}
}

func TestParseTrailerValid(t *testing.T) {
	tr, err := ParseTrailer(minimalPlist())
	if err != nil {
		t.Fatalf("ParseTrailer: %v", err)
	}
	if tr.NumObjects != 1 || tr.RootObject != 0 || tr.OffsetTableOffset != 10 {
		t.Fatalf("unexpected trailer: %+v", tr)
	}
	if tr.OffsetSize != 1 || tr.RefSize != 1 {
		t.Fatalf("unexpected widths: %+v", tr)
	}
}

func TestParseTrailerRejects(t *testing.T) {
	base := minimalPlist()

	mutate := func(f func(b []byte)) []byte {
		b := append([]byte{}, base...)
		f(b)
		return b
	}

	cases := []struct {
		name string
		in   []byte
		want error
	}{
		{"too short", base[:20], ErrTruncatedTrailer},
		{"zero offset width", mutate(func(b []byte) { b[len(b)-TrailerSize+TrailerOffsetSizeOffset] = 0 }), ErrTruncatedTrailer},
		{"huge ref width", mutate(func(b []byte) { b[len(b)-TrailerSize+TrailerRefSizeOffset] = 17 }), ErrTruncatedTrailer},
		{"root out of range", mutate(func(b []byte) { b[len(b)-TrailerSize+TrailerRootObjectOffset+7] = 9 }), ErrDanglingReference},
		{"zero objects", mutate(func(b []byte) { b[len(b)-TrailerSize+TrailerNumObjectsOffset+7] = 0 }), ErrInvalidOffsetTable},
		{"table offset past end", mutate(func(b []byte) { b[len(b)-TrailerSize+TrailerTableOffsetOffset+7] = 0xFF }), ErrInvalidOffsetTable},
		{"object count overflows file", mutate(func(b []byte) { b[len(b)-TrailerSize+TrailerNumObjectsOffset+4] = 0xFF }), ErrInvalidOffsetTable},
	}

	for _, tc := range cases {
		if _, err := ParseTrailer(tc.in); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestParseOffsetTableRejectsWildEntry(t *testing.T) {
	b := minimalPlist()
	tr, err := ParseTrailer(b)
	if err != nil {
		t.Fatalf("ParseTrailer: %v", err)
	}

	// Point the sole entry at the magic header.
	b[10] = 0x02
	if _, err := ParseOffsetTable(b, tr); !errors.Is(err, ErrInvalidOffsetTable) {
		t.Fatalf("expected ErrInvalidOffsetTable, got %v", err)
	}

	// Point it at the offset table itself.
	b[10] = 0x0A
	if _, err := ParseOffsetTable(b, tr); !errors.Is(err, ErrInvalidOffsetTable) {
		t.Fatalf("expected ErrInvalidOffsetTable, got %v", err)
	}

	b[10] = 0x08
	offsets, err := ParseOffsetTable(b, tr)
	if err != nil || len(offsets) != 1 || offsets[0] != 8 {
		t.Fatalf("ParseOffsetTable: %v %v", offsets, err)
	}
}

func TestMinByteWidth(t *testing.T) {
	cases := []struct {
		v    uint64
		want int
	}{
		{0, 1}, {0xFF, 1}, {0x100, 2}, {0xFFFF, 2}, {0x10000, 4}, {0xFFFFFFFF, 4}, {0x100000000, 8},
	}
	for _, tc := range cases {
		if got := MinByteWidth(tc.v); got != tc.want {
			t.Errorf("MinByteWidth(0x%x) = %d, want %d", tc.v, got, tc.want)
		}
	}
}
