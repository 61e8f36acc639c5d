// Package format houses the low-level structures of the binary plist
// ("bplist00") file format: the magic header, the one-byte object markers,
// the fixed 32-byte trailer, and the width arithmetic shared by the decoder
// and encoder. The goal is to keep the byte-level rules in one place and
// independent from the public API so higher-level packages can orchestrate
// the data in a more ergonomic form.
package format

var (
	// Magic is the eight-byte signature at the start of every binary plist.
	// Layout:
	//   0x00  'b' 'p' 'l' 'i' 's' 't' '0' '0'
	// The final byte carries the minor version; 0x30 ('0') is the only
	// version produced by this package, but any '0x' version is accepted
	// on read since the object layer is unchanged across them.
	Magic = []byte{'b', 'p', 'l', 'i', 's', 't', '0', '0'}

	// MagicPrefix is the version-independent part of the signature.
	MagicPrefix = []byte{'b', 'p', 'l', 'i', 's', 't', '0'}
)

const (
	// MagicSize is the length of the file signature in bytes.
	MagicSize = 8

	// TrailerSize is the fixed size of the trailer at the end of the file.
	TrailerSize = 32

	// MinFileSize is the smallest possible binary plist: magic, a single
	// one-byte object, a one-byte offset table entry, and the trailer.
	MinFileSize = MagicSize + 1 + 1 + TrailerSize
)

// Trailer field offsets, relative to the start of the 32-byte trailer.
// All integer fields are big-endian.
//
//	Offset  Size  Field
//	0x00    5     Unused (zero)
//	0x05    1     Sort version
//	0x06    1     Offset-table entry width in bytes (1..8)
//	0x07    1     Object reference width in bytes (1..8)
//	0x08    8     Object count
//	0x10    8     Root object index
//	0x18    8     Offset-table file offset
const (
	TrailerSortVersionOffset = 5
	TrailerOffsetSizeOffset  = 6
	TrailerRefSizeOffset     = 7
	TrailerNumObjectsOffset  = 8
	TrailerRootObjectOffset  = 16
	TrailerTableOffsetOffset = 24
)

// Object marker tags. The high nibble of the marker byte selects the type;
// the low nibble holds a small count or a sub-type, except where noted.
const (
	TagNull      byte = 0x00 // 0x00 null, 0x08 false, 0x09 true, 0x0F fill
	TagBoolFalse byte = 0x08
	TagBoolTrue  byte = 0x09
	TagFill      byte = 0x0F
	TagInt       byte = 0x10 // low nibble n: 2^n byte big-endian integer
	TagReal      byte = 0x20 // low nibble n: 2^n byte big-endian IEEE float
	TagDate      byte = 0x30 // full marker is 0x33: 8-byte big-endian float64, seconds from the Apple epoch
	TagData      byte = 0x40 // low nibble: byte count
	TagASCII     byte = 0x50 // low nibble: character count (1 byte each)
	TagUnicode   byte = 0x60 // low nibble: UTF-16BE code unit count (2 bytes each)
	TagUID       byte = 0x80 // low nibble: byte count - 1
	TagArray     byte = 0xA0 // low nibble: element count (object references)
	TagOrdSet    byte = 0xB0 // ordered set, same layout as array
	TagSet       byte = 0xC0 // set, same layout as array
	TagDict      byte = 0xD0 // low nibble: pair count (key refs then value refs)

	// TagMask extracts the type nibble, CountMask the inline count.
	TagMask   byte = 0xF0
	CountMask byte = 0x0F

	// CountFollows in the low nibble means the real count follows the
	// marker as an integer object.
	CountFollows byte = 0x0F
)

const (
	// MaxDepth bounds recursion during decode and comparison. Apple's own
	// reader tolerates far deeper nesting, but no legitimate property list
	// approaches this and the workload is adversarial.
	MaxDepth = 512

	// MaxObjectCount caps the declared object count. The reference width
	// tops out at 8 bytes so the format can address more, but a plist
	// with over 2^32 objects is not something this tool should try to
	// materialise in memory.
	MaxObjectCount = 1 << 32

	// MaxNodeCount caps the number of tree nodes one decode may
	// materialise. The object table is a DAG, and expanding shared
	// subtrees into owned copies can multiply a small file into a huge
	// tree; the budget turns that amplification into a clean error.
	MaxNodeCount = 1 << 21

	// MaxIntPayload is the largest integer payload accepted: 16 bytes.
	// CoreFoundation emits 16-byte integers for values above the signed
	// 64-bit range; only the low 8 bytes can be represented here.
	MaxIntPayload = 16
)
