package buf

import "encoding/binary"

// Binary plists store every multi-byte integer big-endian: trailer fields,
// offset-table entries, object references, and sized integer payloads.

// U16BE reads a big-endian uint16 from b. Returns 0 when b is too short.
func U16BE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// U32BE reads a big-endian uint32 from b. Returns 0 when b is too short.
func U32BE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// U64BE reads a big-endian uint64 from b. Returns 0 when b is too short.
func U64BE(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// SizedBE reads a big-endian unsigned integer of width bytes (1..8) from b.
// Offset-table entries and object references use trailer-declared widths, so
// the width is data-driven rather than fixed. Returns ok = false when the
// width is unsupported or b is too short.
func SizedBE(b []byte, width int) (uint64, bool) {
	if width < 1 || width > 8 || len(b) < width {
		return 0, false
	}
	var v uint64
	for _, c := range b[:width] {
		v = v<<8 | uint64(c)
	}
	return v, true
}

// PutSizedBE writes v into b as a big-endian unsigned integer of width bytes
// (1..8). The value must fit the width; callers pick the width with
// format.MinByteWidth first. Returns false when b is too short or the width
// is unsupported.
func PutSizedBE(b []byte, width int, v uint64) bool {
	if width < 1 || width > 8 || len(b) < width {
		return false
	}
	for i := width - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return true
}
