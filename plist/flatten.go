package plist

import (
	"sort"
	"strconv"
	"strings"
)

// Flatten renders a tree as a map from dotted paths to leaf values, the shape
// most convenient for grepping and for feeding rule engines. Dictionary keys
// are joined with "." and array elements addressed with "[i]", so a launchd
// job's second argument shows up as "ProgramArguments[1]". Keys containing a
// dot are wrapped in brackets and quotes to keep paths unambiguous. Leaves
// are the returned Values themselves, not copies.
func Flatten(root *Value) map[string]*Value {
	out := make(map[string]*Value)
	flattenInto(out, "", root)
	return out
}

// FlattenPaths returns the sorted dotted paths of every leaf under root.
func FlattenPaths(root *Value) []string {
	m := Flatten(root)
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func flattenInto(out map[string]*Value, prefix string, v *Value) {
	if v == nil {
		return
	}
	switch v.Kind() {
	case KindArray:
		if v.Len() == 0 {
			out[leafPath(prefix)] = v
			return
		}
		for i := 0; i < v.Len(); i++ {
			flattenInto(out, prefix+"["+strconv.Itoa(i)+"]", v.At(i))
		}
	case KindDictionary:
		if v.Len() == 0 {
			out[leafPath(prefix)] = v
			return
		}
		for _, k := range v.Keys() {
			val, _ := v.Get(k)
			flattenInto(out, joinPath(prefix, k), val)
		}
	default:
		out[leafPath(prefix)] = v
	}
}

// leafPath maps the empty prefix to "$" so a leaf at the root, scalar or
// empty container alike, gets an addressable path.
func leafPath(prefix string) string {
	if prefix == "" {
		return "$"
	}
	return prefix
}

func joinPath(prefix, key string) string {
	if strings.ContainsAny(key, ".[]") {
		return prefix + `["` + key + `"]`
	}
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
