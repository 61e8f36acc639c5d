package format

import "errors"

// Decode failures. Each malformed-input class gets its own sentinel so
// callers can classify with errors.Is; the wrapping error carries the byte
// offset or object index where the problem was detected.
var (
	// ErrBadMagic indicates the buffer does not start with the bplist signature.
	ErrBadMagic = errors.New("bplist: bad magic")
	// ErrTruncatedTrailer indicates the buffer is too short to hold the
	// fixed trailer, or the trailer widths are out of range.
	ErrTruncatedTrailer = errors.New("bplist: truncated trailer")
	// ErrInvalidOffsetTable indicates the offset table or one of its
	// entries is inconsistent with the buffer length.
	ErrInvalidOffsetTable = errors.New("bplist: invalid offset table")
	// ErrDanglingReference indicates an object reference outside the
	// declared object count.
	ErrDanglingReference = errors.New("bplist: dangling object reference")
	// ErrCyclicReference indicates an object that transitively references
	// itself. The format forbids cycles.
	ErrCyclicReference = errors.New("bplist: cyclic object reference")
	// ErrUnknownTypeTag indicates a marker byte with a reserved or
	// unsupported type nibble.
	ErrUnknownTypeTag = errors.New("bplist: unknown type tag")
	// ErrDepthExceeded indicates object nesting beyond MaxDepth.
	ErrDepthExceeded = errors.New("bplist: nesting depth exceeded")
	// ErrIntegerOverflow indicates a length or count field that cannot be
	// represented, or that implies more data than the buffer holds.
	ErrIntegerOverflow = errors.New("bplist: integer overflow")
	// ErrNonStringKey indicates a dictionary key object that is not a string.
	ErrNonStringKey = errors.New("bplist: non-string dictionary key")
)

// Encode failures.
var (
	// ErrUnsupportedValue indicates a value kind the encoder cannot emit.
	ErrUnsupportedValue = errors.New("bplist: unsupported value")
	// ErrCountOverflow indicates more objects than the format can address.
	ErrCountOverflow = errors.New("bplist: object count overflow")
)
