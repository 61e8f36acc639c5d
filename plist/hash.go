package plist

import (
	"encoding/binary"
	"math"
	"sort"

	"golang.org/x/crypto/blake2b"

	"github.com/sr-murthy/plistkit/internal/format"
)

// Fingerprint returns a 256-bit BLAKE2b digest of the value tree that is
// stable across re-encoding: two trees that Compare as equal always produce
// the same fingerprint regardless of how the bytes on disk were laid out.
// Dictionary keys are folded in sorted order so insertion order does not
// leak into the digest.
func Fingerprint(v *Value) [32]byte {
	h, _ := blake2b.New256(nil)
	var scratch [8]byte
	fold(h.Write, scratch[:], v)
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

func fold(write func([]byte) (int, error), scratch []byte, v *Value) {
	if v == nil {
		_, _ = write([]byte{0xFF})
		return
	}
	_, _ = write([]byte{byte(v.Kind())})
	switch v.Kind() {
	case KindNull:
	case KindBool:
		if v.Bool() {
			_, _ = write([]byte{1})
		} else {
			_, _ = write([]byte{0})
		}
	case KindInteger:
		binary.BigEndian.PutUint64(scratch, uint64(v.Int()))
		_, _ = write(scratch)
	case KindReal:
		binary.BigEndian.PutUint64(scratch, math.Float64bits(v.Float()))
		_, _ = write(scratch)
	case KindDate:
		// Fold the float64 seconds the wire format stores, not the full
		// nanosecond instant, so the digest survives a round-trip.
		binary.BigEndian.PutUint64(scratch, math.Float64bits(format.AppleSecondsFromTime(v.Time())))
		_, _ = write(scratch)
	case KindData:
		b := v.Bytes()
		binary.BigEndian.PutUint64(scratch, uint64(len(b)))
		_, _ = write(scratch)
		_, _ = write(b)
	case KindString:
		s := v.Text()
		binary.BigEndian.PutUint64(scratch, uint64(len(s)))
		_, _ = write(scratch)
		_, _ = write([]byte(s))
	case KindUID:
		binary.BigEndian.PutUint64(scratch, v.UID())
		_, _ = write(scratch)
	case KindArray:
		binary.BigEndian.PutUint64(scratch, uint64(v.Len()))
		_, _ = write(scratch)
		for i := 0; i < v.Len(); i++ {
			fold(write, scratch, v.At(i))
		}
	case KindDictionary:
		// Keys() exposes the dictionary's own backing slice; sort a copy
		// so digesting never reorders the tree.
		keys := append([]string(nil), v.Keys()...)
		sort.Strings(keys)
		binary.BigEndian.PutUint64(scratch, uint64(len(keys)))
		_, _ = write(scratch)
		for _, k := range keys {
			binary.BigEndian.PutUint64(scratch, uint64(len(k)))
			_, _ = write(scratch)
			_, _ = write([]byte(k))
			val, _ := v.Get(k)
			fold(write, scratch, val)
		}
	}
}
