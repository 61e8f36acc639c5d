package plist

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/text/encoding/unicode"

	"github.com/sr-murthy/plistkit/internal/buf"
	"github.com/sr-murthy/plistkit/internal/format"
)

// DecodeBinary parses a complete binary plist buffer into a Value tree.
//
// The input is treated as hostile: every offset, length, count, and object
// reference is validated against the buffer before use, object references
// are resolved at most once per index (re-references yield independent
// copies, so the returned tree owns all of its nodes), cyclic reference
// graphs are detected, and nesting is bounded. On malformed input the error
// wraps one of the format sentinel errors (format.ErrBadMagic and friends)
// together with the offset or object index where the problem was found.
func DecodeBinary(data []byte) (*Value, error) {
	if err := format.CheckMagic(data); err != nil {
		return nil, err
	}
	trailer, err := format.ParseTrailer(data)
	if err != nil {
		return nil, err
	}
	offsets, err := format.ParseOffsetTable(data, trailer)
	if err != nil {
		return nil, err
	}

	d := &binaryDecoder{
		// Object payloads live strictly between the magic and the offset
		// table; clipping the buffer here means no object read can stray
		// into the table or trailer.
		body:     data[:trailer.OffsetTableOffset],
		trailer:  trailer,
		offsets:  offsets,
		memo:     make([]*Value, len(offsets)),
		memoSize: make([]int, len(offsets)),
		inFlight: make([]bool, len(offsets)),
	}
	return d.object(trailer.RootObject, 0)
}

// IsBinary reports whether data begins with the binary plist signature.
func IsBinary(data []byte) bool {
	return format.CheckMagic(data) == nil
}

var (
	utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
)

type binaryDecoder struct {
	body    []byte
	trailer format.Trailer
	offsets []uint64

	// memo holds each object decoded at most once; re-references return a
	// deep copy so the result stays an ownership tree. memoSize tracks the
	// node count of each memoised subtree for the expansion budget.
	memo     []*Value
	memoSize []int
	inFlight []bool
	nodes    int
}

func (d *binaryDecoder) object(idx uint64, depth int) (*Value, error) {
	if idx >= uint64(len(d.offsets)) {
		return nil, fmt.Errorf("%w (object %d of %d)", format.ErrDanglingReference, idx, len(d.offsets))
	}
	if depth > format.MaxDepth {
		return nil, fmt.Errorf("%w (object %d)", format.ErrDepthExceeded, idx)
	}
	if d.inFlight[idx] {
		return nil, fmt.Errorf("%w (object %d)", format.ErrCyclicReference, idx)
	}
	if v := d.memo[idx]; v != nil {
		if err := d.charge(d.memoSize[idx], idx); err != nil {
			return nil, err
		}
		return v.Copy(), nil
	}

	d.inFlight[idx] = true
	before := d.nodes
	v, err := d.decodeAt(idx, int(d.offsets[idx]), depth)
	d.inFlight[idx] = false
	if err != nil {
		return nil, err
	}
	d.memo[idx] = v
	d.memoSize[idx] = d.nodes - before
	return v, nil
}

// charge accounts sz nodes against the expansion budget.
func (d *binaryDecoder) charge(sz int, idx uint64) error {
	next, ok := buf.AddOverflowSafe(d.nodes, sz)
	if !ok || next > format.MaxNodeCount {
		return fmt.Errorf("%w (object %d expands past %d nodes)", format.ErrIntegerOverflow, idx, format.MaxNodeCount)
	}
	d.nodes = next
	return nil
}

func (d *binaryDecoder) decodeAt(idx uint64, off, depth int) (*Value, error) {
	m, err := format.ReadMarker(d.body, off)
	if err != nil {
		return nil, err
	}
	if err := d.charge(1, idx); err != nil {
		return nil, err
	}

	switch m.Tag {
	case format.TagNull:
		switch d.body[off] {
		case format.TagNull:
			return Null(), nil
		case format.TagBoolFalse:
			return Bool(false), nil
		case format.TagBoolTrue:
			return Bool(true), nil
		default:
			return nil, fmt.Errorf("%w (marker 0x%02x at 0x%x)", format.ErrUnknownTypeTag, d.body[off], off)
		}

	case format.TagInt:
		width := 1 << m.Count
		if width > format.MaxIntPayload {
			return nil, fmt.Errorf("%w (integer width %d at 0x%x)", format.ErrUnknownTypeTag, width, off)
		}
		n, err := format.ReadSizedInt(d.body, m.Next, width)
		if err != nil {
			return nil, err
		}
		return Int(n), nil

	case format.TagReal:
		switch width := 1 << m.Count; width {
		case 4:
			raw, ok := buf.Slice(d.body, m.Next, 4)
			if !ok {
				return nil, fmt.Errorf("%w (real payload at 0x%x)", format.ErrIntegerOverflow, off)
			}
			return Real(float64(math.Float32frombits(binary.BigEndian.Uint32(raw)))), nil
		case 8:
			raw, ok := buf.Slice(d.body, m.Next, 8)
			if !ok {
				return nil, fmt.Errorf("%w (real payload at 0x%x)", format.ErrIntegerOverflow, off)
			}
			return Real(math.Float64frombits(binary.BigEndian.Uint64(raw))), nil
		default:
			return nil, fmt.Errorf("%w (real width %d at 0x%x)", format.ErrUnknownTypeTag, width, off)
		}

	case format.TagDate:
		if m.Count != 3 {
			return nil, fmt.Errorf("%w (marker 0x%02x at 0x%x)", format.ErrUnknownTypeTag, d.body[off], off)
		}
		raw, ok := buf.Slice(d.body, m.Next, 8)
		if !ok {
			return nil, fmt.Errorf("%w (date payload at 0x%x)", format.ErrIntegerOverflow, off)
		}
		secs := math.Float64frombits(binary.BigEndian.Uint64(raw))
		return Date(format.TimeFromAppleSeconds(secs)), nil

	case format.TagData:
		raw, ok := buf.Slice(d.body, m.Next, m.Count)
		if !ok {
			return nil, fmt.Errorf("%w (data of %d bytes at 0x%x)", format.ErrIntegerOverflow, m.Count, off)
		}
		return Data(raw), nil

	case format.TagASCII:
		raw, ok := buf.Slice(d.body, m.Next, m.Count)
		if !ok {
			return nil, fmt.Errorf("%w (string of %d bytes at 0x%x)", format.ErrIntegerOverflow, m.Count, off)
		}
		return String(string(raw)), nil

	case format.TagUnicode:
		byteLen, ok := buf.MulOverflowSafe(m.Count, 2)
		if !ok {
			return nil, fmt.Errorf("%w (utf16 length at 0x%x)", format.ErrIntegerOverflow, off)
		}
		raw, ok := buf.Slice(d.body, m.Next, byteLen)
		if !ok {
			return nil, fmt.Errorf("%w (utf16 string of %d units at 0x%x)", format.ErrIntegerOverflow, m.Count, off)
		}
		decoded, err := utf16BE.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("%w (utf16 string at 0x%x: %v)", format.ErrUnknownTypeTag, off, err)
		}
		return String(string(decoded)), nil

	case format.TagUID:
		width := m.Count + 1
		if width > 8 {
			return nil, fmt.Errorf("%w (uid width %d at 0x%x)", format.ErrUnknownTypeTag, width, off)
		}
		raw, ok := buf.Slice(d.body, m.Next, width)
		if !ok {
			return nil, fmt.Errorf("%w (uid payload at 0x%x)", format.ErrIntegerOverflow, off)
		}
		u, _ := buf.SizedBE(raw, width)
		return UID(u), nil

	case format.TagArray, format.TagOrdSet, format.TagSet:
		refs, err := d.references(off, m, 1)
		if err != nil {
			return nil, err
		}
		arr := &Value{kind: KindArray, elems: make([]*Value, len(refs))}
		for i, ref := range refs {
			elem, err := d.object(ref, depth+1)
			if err != nil {
				return nil, err
			}
			arr.elems[i] = elem
		}
		return arr, nil

	case format.TagDict:
		refs, err := d.references(off, m, 2)
		if err != nil {
			return nil, err
		}
		dict := Dict()
		for i := 0; i < m.Count; i++ {
			key, err := d.object(refs[i], depth+1)
			if err != nil {
				return nil, err
			}
			if key.Kind() != KindString {
				return nil, fmt.Errorf("%w (%s key in dictionary at 0x%x)", format.ErrNonStringKey, key.Kind(), off)
			}
			val, err := d.object(refs[i+m.Count], depth+1)
			if err != nil {
				return nil, err
			}
			dict.Set(key.Text(), val)
		}
		return dict, nil

	default:
		return nil, fmt.Errorf("%w (marker 0x%02x at 0x%x)", format.ErrUnknownTypeTag, d.body[off], off)
	}
}

// references reads groups * marker-count object references following the
// marker at off, validating the whole run against the body first.
func (d *binaryDecoder) references(off int, m format.Marker, groups int) ([]uint64, error) {
	total, ok := buf.MulOverflowSafe(m.Count, groups)
	if !ok {
		return nil, fmt.Errorf("%w (container count at 0x%x)", format.ErrIntegerOverflow, off)
	}
	if _, err := buf.CheckElementBounds(len(d.body), m.Next, total, d.trailer.RefSize); err != nil {
		return nil, fmt.Errorf("%w (container refs at 0x%x: %v)", format.ErrIntegerOverflow, off, err)
	}
	refs := make([]uint64, total)
	pos := m.Next
	for i := range refs {
		ref, _ := buf.SizedBE(d.body[pos:], d.trailer.RefSize)
		if ref >= d.trailer.NumObjects {
			return nil, fmt.Errorf("%w (reference %d at 0x%x)", format.ErrDanglingReference, ref, pos)
		}
		refs[i] = ref
		pos += d.trailer.RefSize
	}
	return refs, nil
}
