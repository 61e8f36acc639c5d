package format

import (
	"fmt"
	"math"

	"github.com/sr-murthy/plistkit/internal/buf"
)

// Marker is one decoded object marker: the type nibble plus the resolved
// element count. Next is the offset of the first payload byte, after any
// trailing count integer.
type Marker struct {
	Tag   byte
	Count int
	Next  int
}

// ReadMarker decodes the marker byte at off, resolving a low-nibble count of
// CountFollows by reading the integer object that follows the marker. The
// resolved count is validated to be representable as a non-negative int; it
// is NOT validated against the remaining buffer, since the element width
// depends on the type and is the caller's business.
func ReadMarker(b []byte, off int) (Marker, error) {
	if !buf.Has(b, off, 1) {
		return Marker{}, fmt.Errorf("%w (marker at 0x%x)", ErrInvalidOffsetTable, off)
	}
	m := b[off]
	tag := m & TagMask
	count := int(m & CountMask)
	next := off + 1

	if count == int(CountFollows) {
		switch tag {
		case TagNull, TagInt, TagReal, TagUID:
			// Single-value types never carry a trailing count; 0x0F is
			// either the fill byte or part of the width encoding.
		default:
			n, after, err := readCountInt(b, next)
			if err != nil {
				return Marker{}, err
			}
			count = n
			next = after
		}
	}
	return Marker{Tag: tag, Count: count, Next: next}, nil
}

// readCountInt reads the integer object that carries a long count. The
// format requires a plain integer marker here (0x10 + width exponent).
func readCountInt(b []byte, off int) (int, int, error) {
	if !buf.Has(b, off, 1) {
		return 0, 0, fmt.Errorf("%w (count marker at 0x%x)", ErrIntegerOverflow, off)
	}
	m := b[off]
	if m&TagMask != TagInt {
		return 0, 0, fmt.Errorf("%w (count marker 0x%02x at 0x%x)", ErrUnknownTypeTag, m, off)
	}
	width := 1 << (m & CountMask)
	if width > 8 {
		return 0, 0, fmt.Errorf("%w (count width %d at 0x%x)", ErrIntegerOverflow, width, off)
	}
	raw, ok := buf.Slice(b, off+1, width)
	if !ok {
		return 0, 0, fmt.Errorf("%w (count payload at 0x%x)", ErrIntegerOverflow, off)
	}
	v, _ := buf.SizedBE(raw, width)
	if v > math.MaxInt32 {
		// No genuine plist holds over 2^31 elements in one container.
		return 0, 0, fmt.Errorf("%w (count %d at 0x%x)", ErrIntegerOverflow, v, off)
	}
	return int(v), off + 1 + width, nil
}

// ReadSizedInt decodes an integer payload of width bytes at off. Payloads of
// 1, 2, and 4 bytes are unsigned; 8-byte payloads are two's-complement
// signed; 16-byte payloads carry the value in the low 8 bytes and must fit
// int64. This mirrors how CoreFoundation writes integers.
func ReadSizedInt(b []byte, off, width int) (int64, error) {
	raw, ok := buf.Slice(b, off, width)
	if !ok {
		return 0, fmt.Errorf("%w (integer payload %d bytes at 0x%x)", ErrIntegerOverflow, width, off)
	}
	switch width {
	case 1, 2, 4:
		v, _ := buf.SizedBE(raw, width)
		return int64(v), nil
	case 8:
		v, _ := buf.SizedBE(raw, 8)
		return int64(v), nil
	case 16:
		hi, _ := buf.SizedBE(raw, 8)
		lo, _ := buf.SizedBE(raw[8:], 8)
		// The high word must be a sign extension of the low word.
		if !(hi == 0 && lo <= math.MaxInt64) && !(hi == math.MaxUint64 && lo > math.MaxInt64) {
			return 0, fmt.Errorf("%w (128-bit integer at 0x%x)", ErrIntegerOverflow, off)
		}
		return int64(lo), nil
	default:
		return 0, fmt.Errorf("%w (integer width %d at 0x%x)", ErrUnknownTypeTag, width, off)
	}
}

// IntWidthExponent returns the exponent n such that a 2^n byte payload is
// the minimal encoding of v, matching the integer forms the format defines.
// Negative values always use the 8-byte two's-complement form.
func IntWidthExponent(v int64) int {
	switch {
	case v < 0:
		return 3
	case v <= 0xFF:
		return 0
	case v <= 0xFFFF:
		return 1
	case v <= 0xFFFFFFFF:
		return 2
	default:
		return 3
	}
}
