package plist_test

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sr-murthy/plistkit/internal/format"
	"github.com/sr-murthy/plistkit/plist"
)

// buildBplist assembles a complete binary plist from raw object encodings.
// Object 0 is the root. Offsets are emitted at the smallest width that fits;
// refSize is whatever width the caller baked into the container objects.
func buildBplist(t *testing.T, refSize int, objects ...[]byte) []byte {
	t.Helper()

	out := append([]byte(nil), format.Magic...)
	offsets := make([]uint64, len(objects))
	for i, o := range objects {
		offsets[i] = uint64(len(out))
		out = append(out, o...)
	}
	tableOffset := uint64(len(out))
	offsetSize := format.MinByteWidth(tableOffset)
	for _, off := range offsets {
		switch offsetSize {
		case 1:
			out = append(out, byte(off))
		case 2:
			out = binary.BigEndian.AppendUint16(out, uint16(off))
		case 4:
			out = binary.BigEndian.AppendUint32(out, uint32(off))
		default:
			out = binary.BigEndian.AppendUint64(out, off)
		}
	}
	trailer := format.Trailer{
		OffsetSize:        offsetSize,
		RefSize:           refSize,
		NumObjects:        uint64(len(objects)),
		RootObject:        0,
		OffsetTableOffset: tableOffset,
	}
	return format.AppendTrailer(out, trailer)
}

func TestDecodeBinaryString(t *testing.T) {
	data := buildBplist(t, 1, []byte{0x51, 'a'})

	v, err := plist.DecodeBinary(data)
	require.NoError(t, err)
	require.Equal(t, plist.KindString, v.Kind())
	require.Equal(t, "a", v.Text())
}

func TestDecodeBinaryScalars(t *testing.T) {
	cases := []struct {
		name   string
		object []byte
		check  func(t *testing.T, v *plist.Value)
	}{
		{"null", []byte{0x00}, func(t *testing.T, v *plist.Value) {
			require.Equal(t, plist.KindNull, v.Kind())
		}},
		{"false", []byte{0x08}, func(t *testing.T, v *plist.Value) {
			require.Equal(t, plist.KindBool, v.Kind())
			require.False(t, v.Bool())
		}},
		{"true", []byte{0x09}, func(t *testing.T, v *plist.Value) {
			require.True(t, v.Bool())
		}},
		{"int8", []byte{0x10, 0x2A}, func(t *testing.T, v *plist.Value) {
			require.Equal(t, int64(42), v.Int())
		}},
		{"int64-negative", append([]byte{0x13}, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE), func(t *testing.T, v *plist.Value) {
			require.Equal(t, int64(-2), v.Int())
		}},
		{"real32", []byte{0x22, 0x3F, 0x80, 0x00, 0x00}, func(t *testing.T, v *plist.Value) {
			require.Equal(t, plist.KindReal, v.Kind())
			require.Equal(t, 1.0, v.Float())
		}},
		{"real64", []byte{0x23, 0x40, 0x09, 0x21, 0xFB, 0x54, 0x44, 0x2D, 0x18}, func(t *testing.T, v *plist.Value) {
			require.InDelta(t, 3.14159265358979, v.Float(), 1e-12)
		}},
		{"date-epoch", []byte{0x33, 0, 0, 0, 0, 0, 0, 0, 0}, func(t *testing.T, v *plist.Value) {
			require.Equal(t, plist.KindDate, v.Kind())
			require.Equal(t, "2001-01-01T00:00:00Z", v.Time().UTC().Format("2006-01-02T15:04:05Z07:00"))
		}},
		{"data", []byte{0x42, 0xDE, 0xAD}, func(t *testing.T, v *plist.Value) {
			require.Equal(t, []byte{0xDE, 0xAD}, v.Bytes())
		}},
		{"utf16", []byte{0x62, 0x00, 'h', 0x00, 'i'}, func(t *testing.T, v *plist.Value) {
			require.Equal(t, "hi", v.Text())
		}},
		{"uid", []byte{0x81, 0x00, 0x07}, func(t *testing.T, v *plist.Value) {
			require.Equal(t, plist.KindUID, v.Kind())
			require.Equal(t, uint64(7), v.UID())
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := plist.DecodeBinary(buildBplist(t, 1, tc.object))
			require.NoError(t, err)
			tc.check(t, v)
		})
	}
}

func TestDecodeBinaryLongCount(t *testing.T) {
	// A 20-byte ASCII string spills its count into a trailing int object.
	payload := strings.Repeat("x", 20)
	obj := append([]byte{0x5F, 0x10, 20}, payload...)

	v, err := plist.DecodeBinary(buildBplist(t, 1, obj))
	require.NoError(t, err)
	require.Equal(t, payload, v.Text())
}

func TestDecodeBinaryContainers(t *testing.T) {
	// {"k": [true, 7]}
	data := buildBplist(t, 1,
		[]byte{0xD1, 1, 2}, // dict: key ref 1, value ref 2
		[]byte{0x51, 'k'},
		[]byte{0xA2, 3, 4}, // array of refs 3 and 4
		[]byte{0x09},
		[]byte{0x10, 0x07},
	)

	v, err := plist.DecodeBinary(data)
	require.NoError(t, err)
	require.Equal(t, plist.KindDictionary, v.Kind())
	arr, ok := v.Get("k")
	require.True(t, ok)
	require.Equal(t, 2, arr.Len())
	require.True(t, arr.At(0).Bool())
	require.Equal(t, int64(7), arr.At(1).Int())
}

func TestDecodeBinarySetsBecomeArrays(t *testing.T) {
	for _, tag := range []byte{0xB0, 0xC0} {
		data := buildBplist(t, 1,
			[]byte{tag | 2, 1, 2},
			[]byte{0x10, 0x01},
			[]byte{0x10, 0x02},
		)
		v, err := plist.DecodeBinary(data)
		require.NoError(t, err)
		require.Equal(t, plist.KindArray, v.Kind())
		require.Equal(t, 2, v.Len())
	}
}

func TestDecodeBinarySharedObjectsAreCopied(t *testing.T) {
	// Both keys reference the same array object. The decoded tree must own
	// its nodes: growing one branch may not be visible through the other.
	data := buildBplist(t, 1,
		[]byte{0xD2, 1, 2, 3, 3}, // keys "a","b" both -> object 3
		[]byte{0x51, 'a'},
		[]byte{0x51, 'b'},
		[]byte{0xA1, 4},
		[]byte{0x10, 0x01},
	)

	v, err := plist.DecodeBinary(data)
	require.NoError(t, err)

	first, _ := v.Get("a")
	second, _ := v.Get("b")
	require.True(t, first.Equal(second))

	first.Append(plist.Int(99))
	require.Equal(t, 2, first.Len())
	require.Equal(t, 1, second.Len())
}

func TestDecodeBinaryAliasingTransparency(t *testing.T) {
	// The same logical array, stored once with the repeated string shared
	// through the object table and once with it duplicated. The decoded
	// trees must compare equal: aliasing is a storage optimisation with no
	// semantic effect.
	shared := buildBplist(t, 1,
		[]byte{0xA2, 1, 1},
		append([]byte{0x59}, "/bin/bash"...),
	)
	duplicated := buildBplist(t, 1,
		[]byte{0xA2, 1, 2},
		append([]byte{0x59}, "/bin/bash"...),
		append([]byte{0x59}, "/bin/bash"...),
	)

	a, err := plist.DecodeBinary(shared)
	require.NoError(t, err)
	b, err := plist.DecodeBinary(duplicated)
	require.NoError(t, err)
	require.True(t, plist.Compare(a, b).Equal())
}

func TestDecodeBinaryMalformed(t *testing.T) {
	valid := buildBplist(t, 1, []byte{0x51, 'a'})

	cases := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, format.ErrBadMagic},
		{"bad magic", []byte("bplist99" + "rest of the buffer padding out"), format.ErrBadMagic},
		{"magic only", []byte(format.Magic), format.ErrTruncatedTrailer},
		{"truncated mid-trailer", valid[:len(valid)-4], format.ErrTruncatedTrailer},
		{
			"dangling container ref",
			buildBplist(t, 1, []byte{0xA1, 9}),
			format.ErrDanglingReference,
		},
		{
			"self cycle",
			buildBplist(t, 1, []byte{0xA1, 0}),
			format.ErrCyclicReference,
		},
		{
			"mutual cycle",
			buildBplist(t, 1, []byte{0xA1, 1}, []byte{0xA1, 0}),
			format.ErrCyclicReference,
		},
		{
			"unknown tag",
			buildBplist(t, 1, []byte{0x70}),
			format.ErrUnknownTypeTag,
		},
		{
			"fill marker",
			buildBplist(t, 1, []byte{0x0F}),
			format.ErrUnknownTypeTag,
		},
		{
			"non-string dict key",
			buildBplist(t, 1, []byte{0xD1, 1, 1}, []byte{0x10, 0x01}),
			format.ErrNonStringKey,
		},
		{
			"string past body",
			buildBplist(t, 1, []byte{0x5F, 0x10, 0xFF, 'x'}),
			format.ErrIntegerOverflow,
		},
		{
			"data past body",
			buildBplist(t, 1, []byte{0x4A, 0x01}),
			format.ErrIntegerOverflow,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := plist.DecodeBinary(tc.data)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDecodeBinaryCorruptOffsetTable(t *testing.T) {
	// Rewrite the single offset entry to point into the trailer.
	data := buildBplist(t, 1, []byte{0x51, 'a'})
	data[len(data)-format.TrailerSize-1] = 0xF0

	_, err := plist.DecodeBinary(data)
	require.ErrorIs(t, err, format.ErrInvalidOffsetTable)
}

func TestDecodeBinaryDepthLimit(t *testing.T) {
	// A chain of single-element arrays two levels past the depth bound.
	var objects [][]byte
	n := format.MaxDepth + 2
	for i := 0; i < n; i++ {
		next := i + 1
		objects = append(objects, []byte{0xA1, byte(next >> 8), byte(next)})
	}
	objects = append(objects, []byte{0x09})

	_, err := plist.DecodeBinary(buildBplist(t, 2, objects...))
	require.ErrorIs(t, err, format.ErrDepthExceeded)
}

func TestDecodeBinaryExpansionBudget(t *testing.T) {
	// Each level references the previous one twice, so the ownership tree
	// doubles per level. 25 levels of a legitimate 27-object file would
	// materialise tens of millions of nodes; the budget must refuse.
	const levels = 25
	var objects [][]byte
	objects = append(objects, []byte{0xA2, 1, 1})
	for i := 1; i < levels; i++ {
		objects = append(objects, []byte{0xA2, byte(i + 1), byte(i + 1)})
	}
	objects = append(objects, []byte{0x10, 0x01})

	_, err := plist.DecodeBinary(buildBplist(t, 1, objects...))
	require.ErrorIs(t, err, format.ErrIntegerOverflow)
}

func TestIsBinary(t *testing.T) {
	require.True(t, plist.IsBinary([]byte("bplist00whatever")))
	require.False(t, plist.IsBinary([]byte("<?xml version")))
	require.False(t, plist.IsBinary(nil))
}
