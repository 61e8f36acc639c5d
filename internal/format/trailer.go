package format

import (
	"bytes"
	"fmt"

	"github.com/sr-murthy/plistkit/internal/buf"
)

// Trailer captures the fixed 32-byte footer of a binary plist. The trailer
// is the entry point for decoding: it locates the offset table and declares
// the widths used by every offset entry and object reference.
type Trailer struct {
	SortVersion       uint8
	OffsetSize        int
	RefSize           int
	NumObjects        uint64
	RootObject        uint64
	OffsetTableOffset uint64
}

// CheckMagic validates the file signature.
func CheckMagic(b []byte) error {
	if len(b) < MagicSize || !bytes.Equal(b[:len(MagicPrefix)], MagicPrefix) {
		return ErrBadMagic
	}
	return nil
}

// ParseTrailer reads and validates the trailer of a complete buffer. Every
// field is cross-checked against the buffer length before the caller makes
// any indexed access, so a hostile trailer cannot steer reads out of bounds.
func ParseTrailer(b []byte) (Trailer, error) {
	if len(b) < MinFileSize {
		return Trailer{}, fmt.Errorf("%w (file is %d bytes, minimum %d)", ErrTruncatedTrailer, len(b), MinFileSize)
	}
	raw := b[len(b)-TrailerSize:]
	t := Trailer{
		SortVersion:       raw[TrailerSortVersionOffset],
		OffsetSize:        int(raw[TrailerOffsetSizeOffset]),
		RefSize:           int(raw[TrailerRefSizeOffset]),
		NumObjects:        buf.U64BE(raw[TrailerNumObjectsOffset:]),
		RootObject:        buf.U64BE(raw[TrailerRootObjectOffset:]),
		OffsetTableOffset: buf.U64BE(raw[TrailerTableOffsetOffset:]),
	}

	if t.OffsetSize < 1 || t.OffsetSize > 8 {
		return Trailer{}, fmt.Errorf("%w (offset width %d)", ErrTruncatedTrailer, t.OffsetSize)
	}
	if t.RefSize < 1 || t.RefSize > 8 {
		return Trailer{}, fmt.Errorf("%w (reference width %d)", ErrTruncatedTrailer, t.RefSize)
	}
	if t.NumObjects == 0 {
		return Trailer{}, fmt.Errorf("%w (zero objects)", ErrInvalidOffsetTable)
	}
	if t.NumObjects > MaxObjectCount {
		return Trailer{}, fmt.Errorf("%w (object count %d)", ErrIntegerOverflow, t.NumObjects)
	}
	if t.RootObject >= t.NumObjects {
		return Trailer{}, fmt.Errorf("%w (root index %d of %d objects)", ErrDanglingReference, t.RootObject, t.NumObjects)
	}

	// The offset table must sit between the header and the trailer, and
	// hold exactly NumObjects entries of OffsetSize bytes.
	bodyEnd := len(b) - TrailerSize
	if t.OffsetTableOffset < MagicSize+1 || t.OffsetTableOffset > uint64(bodyEnd) {
		return Trailer{}, fmt.Errorf("%w (table offset 0x%x)", ErrInvalidOffsetTable, t.OffsetTableOffset)
	}
	end, err := buf.CheckElementBounds(bodyEnd, int(t.OffsetTableOffset), int(t.NumObjects), t.OffsetSize)
	if err != nil {
		return Trailer{}, fmt.Errorf("%w (%v)", ErrInvalidOffsetTable, err)
	}
	if end != bodyEnd {
		return Trailer{}, fmt.Errorf("%w (table ends at 0x%x, trailer starts at 0x%x)", ErrInvalidOffsetTable, end, bodyEnd)
	}
	return t, nil
}

// ParseOffsetTable reads the offset table described by t. Every entry must
// point into the object body, past the magic and before the table itself.
func ParseOffsetTable(b []byte, t Trailer) ([]uint64, error) {
	offsets := make([]uint64, t.NumObjects)
	pos := int(t.OffsetTableOffset)
	for i := range offsets {
		entry, ok := buf.SizedBE(b[pos:], t.OffsetSize)
		if !ok {
			return nil, fmt.Errorf("%w (entry %d)", ErrInvalidOffsetTable, i)
		}
		if entry < MagicSize || entry >= t.OffsetTableOffset {
			return nil, fmt.Errorf("%w (entry %d points at 0x%x)", ErrInvalidOffsetTable, i, entry)
		}
		offsets[i] = entry
		pos += t.OffsetSize
	}
	return offsets, nil
}

// AppendTrailer serialises t onto b in the fixed trailer layout.
func AppendTrailer(b []byte, t Trailer) []byte {
	raw := make([]byte, TrailerSize)
	raw[TrailerSortVersionOffset] = t.SortVersion
	raw[TrailerOffsetSizeOffset] = byte(t.OffsetSize)
	raw[TrailerRefSizeOffset] = byte(t.RefSize)
	buf.PutSizedBE(raw[TrailerNumObjectsOffset:], 8, t.NumObjects)
	buf.PutSizedBE(raw[TrailerRootObjectOffset:], 8, t.RootObject)
	buf.PutSizedBE(raw[TrailerTableOffsetOffset:], 8, t.OffsetTableOffset)
	return append(b, raw...)
}

// MinByteWidth returns the smallest of the widths 1, 2, 4, 8 that can
// represent v. Offset-table entries and object references use the minimal
// width that fits the largest value they must carry.
func MinByteWidth(v uint64) int {
	switch {
	case v <= 0xFF:
		return 1
	case v <= 0xFFFF:
		return 2
	case v <= 0xFFFFFFFF:
		return 4
	default:
		return 8
	}
}
