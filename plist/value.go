package plist

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sr-murthy/plistkit/internal/format"
)

// Kind identifies the variant held by a Value. The set is closed: it covers
// exactly the types the property-list format can express.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindReal
	KindDate
	KindData
	KindString
	KindUID
	KindArray
	KindDictionary
)

var kindNames = map[Kind]string{
	KindNull:       "null",
	KindBool:       "bool",
	KindInteger:    "integer",
	KindReal:       "real",
	KindDate:       "date",
	KindData:       "data",
	KindString:     "string",
	KindUID:        "uid",
	KindArray:      "array",
	KindDictionary: "dictionary",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is one node of a property-list tree. A tree is produced by a decoder
// or built programmatically; it owns all of its children (decoders copy
// aliased storage rather than sharing nodes) and must not be mutated while a
// comparison is in flight.
//
// Integers and reals are held width-independently: a value decoded from a
// 1-byte integer object compares equal to the same value decoded from an
// 8-byte object.
type Value struct {
	kind Kind

	b bool
	i int64 // integer, or uid
	f float64
	t time.Time
	s string
	d []byte

	elems []*Value // array

	// Dictionary storage. Insertion order is preserved for deterministic
	// re-encoding; index gives O(1) key lookup.
	keys  []string
	vals  []*Value
	index map[string]int
}

// Null returns the null value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) *Value { return &Value{kind: KindInteger, i: i} }

// Real returns a floating-point value.
func Real(f float64) *Value { return &Value{kind: KindReal, f: f} }

// Date returns a date value. The instant is stored in UTC.
func Date(t time.Time) *Value { return &Value{kind: KindDate, t: t.UTC()} }

// Data returns a byte-blob value. The slice is copied.
func Data(d []byte) *Value {
	cp := make([]byte, len(d))
	copy(cp, d)
	return &Value{kind: KindData, d: cp}
}

// String returns a text value.
func String(s string) *Value { return &Value{kind: KindString, s: s} }

// UID returns a keyed-archiver object reference.
func UID(u uint64) *Value { return &Value{kind: KindUID, i: int64(u)} }

// Array returns an array of the given elements, in order.
func Array(elems ...*Value) *Value {
	return &Value{kind: KindArray, elems: elems}
}

// Dict returns an empty dictionary. Populate it with Set; key order is
// insertion order.
func Dict() *Value {
	return &Value{kind: KindDictionary, index: make(map[string]int)}
}

// Kind reports which variant v holds.
func (v *Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload. Valid only for KindBool.
func (v *Value) Bool() bool { return v.b }

// Int returns the integer payload. Valid only for KindInteger.
func (v *Value) Int() int64 { return v.i }

// Float returns the real payload. Valid only for KindReal.
func (v *Value) Float() float64 { return v.f }

// Time returns the date payload. Valid only for KindDate.
func (v *Value) Time() time.Time { return v.t }

// Bytes returns the data payload. Callers must not mutate it.
func (v *Value) Bytes() []byte { return v.d }

// Text returns the string payload. Valid only for KindString.
func (v *Value) Text() string { return v.s }

// UID returns the object-reference payload. Valid only for KindUID.
func (v *Value) UID() uint64 { return uint64(v.i) }

// Len returns the element count of an array or the entry count of a
// dictionary, and 0 for every leaf kind.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.elems)
	case KindDictionary:
		return len(v.keys)
	}
	return 0
}

// At returns element i of an array, or nil when out of range or not an array.
func (v *Value) At(i int) *Value {
	if v.kind != KindArray || i < 0 || i >= len(v.elems) {
		return nil
	}
	return v.elems[i]
}

// Append adds an element to an array.
func (v *Value) Append(elem *Value) {
	if v.kind == KindArray {
		v.elems = append(v.elems, elem)
	}
}

// Keys returns the dictionary keys in insertion order. The returned slice is
// shared; callers must not mutate it.
func (v *Value) Keys() []string {
	if v.kind != KindDictionary {
		return nil
	}
	return v.keys
}

// Get looks up a dictionary entry by key.
func (v *Value) Get(key string) (*Value, bool) {
	if v.kind != KindDictionary {
		return nil, false
	}
	i, ok := v.index[key]
	if !ok {
		return nil, false
	}
	return v.vals[i], true
}

// Set inserts or replaces a dictionary entry. A new key is appended after
// all existing keys; replacing keeps the original position.
func (v *Value) Set(key string, val *Value) {
	if v.kind != KindDictionary {
		return
	}
	if i, ok := v.index[key]; ok {
		v.vals[i] = val
		return
	}
	v.index[key] = len(v.keys)
	v.keys = append(v.keys, key)
	v.vals = append(v.vals, val)
}

// Copy returns a fully independent deep copy of v.
func (v *Value) Copy() *Value {
	if v == nil {
		return nil
	}
	cp := &Value{kind: v.kind, b: v.b, i: v.i, f: v.f, t: v.t, s: v.s}
	if v.d != nil {
		cp.d = make([]byte, len(v.d))
		copy(cp.d, v.d)
	}
	if v.elems != nil {
		cp.elems = make([]*Value, len(v.elems))
		for i, e := range v.elems {
			cp.elems[i] = e.Copy()
		}
	}
	if v.kind == KindDictionary {
		cp.keys = append([]string(nil), v.keys...)
		cp.vals = make([]*Value, len(v.vals))
		for i, e := range v.vals {
			cp.vals[i] = e.Copy()
		}
		cp.index = make(map[string]int, len(v.keys))
		for k, i := range v.index {
			cp.index[k] = i
		}
	}
	return cp
}

// Equal reports structural equivalence under the comparison rules: arrays
// ordered, dictionaries unordered, numerics width-independent, dates at the
// float64-seconds resolution the binary format can store, and no cross-kind
// coercion (Int(3) is not Real(3.0)). It allocates nothing and is the fast
// pre-pass used by Compare.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInteger, KindUID:
		return v.i == o.i
	case KindReal:
		return v.f == o.f
	case KindDate:
		// The binary format stores dates as float64 seconds, so instants
		// closer together than that resolution are the same date.
		return format.AppleSecondsFromTime(v.t) == format.AppleSecondsFromTime(o.t)
	case KindData:
		return string(v.d) == string(o.d)
	case KindString:
		return v.s == o.s
	case KindArray:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	case KindDictionary:
		if len(v.keys) != len(o.keys) {
			return false
		}
		for i, k := range v.keys {
			ov, ok := o.Get(k)
			if !ok || !v.vals[i].Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders a compact single-line debug form. It is not a plist
// serialisation; use the codecs for that.
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindDate:
		return v.t.Format(time.RFC3339)
	case KindData:
		return fmt.Sprintf("<%d bytes>", len(v.d))
	case KindString:
		return strconv.Quote(v.s)
	case KindUID:
		return fmt.Sprintf("uid(%d)", uint64(v.i))
	case KindArray:
		parts := make([]string, len(v.elems))
		for i, e := range v.elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindDictionary:
		parts := make([]string, len(v.keys))
		for i, k := range v.keys {
			parts[i] = strconv.Quote(k) + ": " + v.vals[i].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "<invalid>"
}
