package plist

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sr-murthy/plistkit/internal/buf"
	"github.com/sr-murthy/plistkit/internal/format"
)

// EncodeBinary serialises a Value tree as a binary plist.
//
// Equal leaf values (strings, data blobs, numbers, dates, booleans, UIDs)
// are stored once in the object table and referenced from every position
// they occupy, mirroring how the format aliases repeated values. Reference
// and offset widths are the minimal sizes that fit the final counts, integer
// payloads use their minimal 1/2/4/8-byte form, and dictionary entries keep
// the tree's insertion order, so encoding the same tree always produces the
// same bytes.
func EncodeBinary(root *Value) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("%w (nil root)", format.ErrUnsupportedValue)
	}
	e := &binaryEncoder{dedupe: make(map[leafKey]uint64)}
	if _, err := e.flatten(root); err != nil {
		return nil, err
	}
	if uint64(len(e.objects)) > format.MaxObjectCount {
		return nil, fmt.Errorf("%w (%d objects)", format.ErrCountOverflow, len(e.objects))
	}
	return e.assemble()
}

// leafKey identifies a de-duplicatable leaf object by kind and payload.
type leafKey struct {
	kind    Kind
	payload string
}

type binaryEncoder struct {
	objects []*Value
	refs    [][]uint64 // container child references, parallel to objects
	dedupe  map[leafKey]uint64
}

// flatten assigns object-table indices in pre-order, reusing the index of an
// already-seen equal leaf.
func (e *binaryEncoder) flatten(v *Value) (uint64, error) {
	switch v.Kind() {
	case KindArray, KindDictionary:
	default:
		key, err := leafKeyOf(v)
		if err != nil {
			return 0, err
		}
		if idx, ok := e.dedupe[key]; ok {
			return idx, nil
		}
		idx := e.push(v)
		e.dedupe[key] = idx
		return idx, nil
	}

	idx := e.push(v)
	switch v.Kind() {
	case KindArray:
		refs := make([]uint64, v.Len())
		for i := 0; i < v.Len(); i++ {
			child, err := e.flatten(v.At(i))
			if err != nil {
				return 0, err
			}
			refs[i] = child
		}
		e.refs[idx] = refs
	case KindDictionary:
		keys := v.Keys()
		refs := make([]uint64, 0, 2*len(keys))
		for _, k := range keys {
			ref, err := e.flatten(String(k))
			if err != nil {
				return 0, err
			}
			refs = append(refs, ref)
		}
		for _, k := range keys {
			val, _ := v.Get(k)
			ref, err := e.flatten(val)
			if err != nil {
				return 0, err
			}
			refs = append(refs, ref)
		}
		e.refs[idx] = refs
	}
	return idx, nil
}

func (e *binaryEncoder) push(v *Value) uint64 {
	e.objects = append(e.objects, v)
	e.refs = append(e.refs, nil)
	return uint64(len(e.objects) - 1)
}

func leafKeyOf(v *Value) (leafKey, error) {
	switch v.Kind() {
	case KindNull:
		return leafKey{kind: KindNull}, nil
	case KindBool:
		if v.Bool() {
			return leafKey{kind: KindBool, payload: "1"}, nil
		}
		return leafKey{kind: KindBool, payload: "0"}, nil
	case KindInteger:
		return leafKey{kind: KindInteger, payload: u64key(uint64(v.Int()))}, nil
	case KindReal:
		return leafKey{kind: KindReal, payload: u64key(math.Float64bits(v.Float()))}, nil
	case KindDate:
		return leafKey{kind: KindDate, payload: u64key(math.Float64bits(format.AppleSecondsFromTime(v.Time())))}, nil
	case KindData:
		return leafKey{kind: KindData, payload: string(v.Bytes())}, nil
	case KindString:
		return leafKey{kind: KindString, payload: v.Text()}, nil
	case KindUID:
		return leafKey{kind: KindUID, payload: u64key(v.UID())}, nil
	default:
		return leafKey{}, fmt.Errorf("%w (%s)", format.ErrUnsupportedValue, v.Kind())
	}
}

func u64key(v uint64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return string(b[:])
}

// assemble emits objects in index order, then the offset table and trailer.
func (e *binaryEncoder) assemble() ([]byte, error) {
	refSize := format.MinByteWidth(uint64(len(e.objects) - 1))
	out := append([]byte{}, format.Magic...)
	offsets := make([]uint64, len(e.objects))

	for i, v := range e.objects {
		offsets[i] = uint64(len(out))
		var err error
		out, err = e.appendObject(out, v, e.refs[i], refSize)
		if err != nil {
			return nil, err
		}
	}

	tableOffset := uint64(len(out))
	offsetSize := format.MinByteWidth(tableOffset)
	entry := make([]byte, offsetSize)
	for _, off := range offsets {
		buf.PutSizedBE(entry, offsetSize, off)
		out = append(out, entry...)
	}

	return format.AppendTrailer(out, format.Trailer{
		OffsetSize:        offsetSize,
		RefSize:           refSize,
		NumObjects:        uint64(len(e.objects)),
		RootObject:        0,
		OffsetTableOffset: tableOffset,
	}), nil
}

func (e *binaryEncoder) appendObject(out []byte, v *Value, refs []uint64, refSize int) ([]byte, error) {
	switch v.Kind() {
	case KindNull:
		return append(out, format.TagNull), nil

	case KindBool:
		if v.Bool() {
			return append(out, format.TagBoolTrue), nil
		}
		return append(out, format.TagBoolFalse), nil

	case KindInteger:
		exp := format.IntWidthExponent(v.Int())
		out = append(out, format.TagInt|byte(exp))
		return appendSizedBE(out, 1<<exp, uint64(v.Int())), nil

	case KindReal:
		out = append(out, format.TagReal|0x03)
		return appendSizedBE(out, 8, math.Float64bits(v.Float())), nil

	case KindDate:
		out = append(out, format.TagDate|0x03)
		return appendSizedBE(out, 8, math.Float64bits(format.AppleSecondsFromTime(v.Time()))), nil

	case KindData:
		out = appendMarker(out, format.TagData, len(v.Bytes()))
		return append(out, v.Bytes()...), nil

	case KindString:
		s := v.Text()
		if isASCII(s) {
			out = appendMarker(out, format.TagASCII, len(s))
			return append(out, s...), nil
		}
		encoded, err := utf16BE.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("%w (string %q: %v)", format.ErrUnsupportedValue, s, err)
		}
		out = appendMarker(out, format.TagUnicode, len(encoded)/2)
		return append(out, encoded...), nil

	case KindUID:
		width := format.MinByteWidth(v.UID())
		out = append(out, format.TagUID|byte(width-1))
		return appendSizedBE(out, width, v.UID()), nil

	case KindArray:
		out = appendMarker(out, format.TagArray, v.Len())
		return appendRefs(out, refs, refSize), nil

	case KindDictionary:
		out = appendMarker(out, format.TagDict, v.Len())
		return appendRefs(out, refs, refSize), nil

	default:
		return nil, fmt.Errorf("%w (%s)", format.ErrUnsupportedValue, v.Kind())
	}
}

// appendMarker writes a marker byte, spilling counts of 15 and above into a
// trailing integer object.
func appendMarker(out []byte, tag byte, count int) []byte {
	if count < int(format.CountFollows) {
		return append(out, tag|byte(count))
	}
	out = append(out, tag|format.CountFollows)
	exp := format.IntWidthExponent(int64(count))
	out = append(out, format.TagInt|byte(exp))
	return appendSizedBE(out, 1<<exp, uint64(count))
}

func appendRefs(out []byte, refs []uint64, refSize int) []byte {
	entry := make([]byte, refSize)
	for _, ref := range refs {
		buf.PutSizedBE(entry, refSize, ref)
		out = append(out, entry...)
	}
	return out
}

func appendSizedBE(out []byte, width int, v uint64) []byte {
	b := make([]byte, width)
	buf.PutSizedBE(b, width, v)
	return append(out, b...)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
