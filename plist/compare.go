package plist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sr-murthy/plistkit/internal/format"
)

// DiffKind classifies one discrepancy between two trees.
type DiffKind int

const (
	// DiffTypeMismatch means the two sides hold different value kinds at
	// the same path. Integer versus Real counts: numeric equality across
	// kinds is still a type mismatch, because storage type fidelity
	// matters when a plist is inspection evidence.
	DiffTypeMismatch DiffKind = iota
	// DiffValueMismatch means same kind, different payload.
	DiffValueMismatch
	// DiffMissingKey means the key exists on the left side only.
	DiffMissingKey
	// DiffExtraKey means the key exists on the right side only.
	DiffExtraKey
	// DiffLengthMismatch means two arrays differ in element count.
	DiffLengthMismatch
)

var diffKindNames = map[DiffKind]string{
	DiffTypeMismatch:   "type-mismatch",
	DiffValueMismatch:  "value-mismatch",
	DiffMissingKey:     "missing-key",
	DiffExtraKey:       "extra-key",
	DiffLengthMismatch: "length-mismatch",
}

func (k DiffKind) String() string {
	if n, ok := diffKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("diff-kind(%d)", int(k))
}

// PathStep is one hop from a node to a child: a dictionary key or an array
// index.
type PathStep struct {
	Key     string
	Index   int
	indexed bool
}

// KeyStep returns a dictionary-key path step.
func KeyStep(key string) PathStep { return PathStep{Key: key} }

// IndexStep returns an array-index path step.
func IndexStep(i int) PathStep { return PathStep{Index: i, indexed: true} }

// IsIndex reports whether the step is an array index.
func (s PathStep) IsIndex() bool { return s.indexed }

func (s PathStep) String() string {
	if s.indexed {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return strconv.Quote(s.Key)
}

// Path locates a node from the root.
type Path []PathStep

func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	var b strings.Builder
	b.WriteString("$")
	for _, s := range p {
		if s.indexed {
			b.WriteString(s.String())
		} else {
			b.WriteString(".")
			b.WriteString(s.Key)
		}
	}
	return b.String()
}

// Discrepancy is one localized difference between two trees.
type Discrepancy struct {
	Path   Path
	Kind   DiffKind
	Detail string
}

func (d Discrepancy) String() string {
	if d.Detail == "" {
		return fmt.Sprintf("%s: %s", d.Path, d.Kind)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Path, d.Kind, d.Detail)
}

// Report is the outcome of comparing two trees: either equal, or an ordered
// list of discrepancies in depth-first document order of the left tree.
type Report struct {
	diffs []Discrepancy
}

// Equal reports whether no discrepancies were found.
func (r *Report) Equal() bool { return len(r.diffs) == 0 }

// Discrepancies returns the located differences. Empty means equal.
func (r *Report) Discrepancies() []Discrepancy { return r.diffs }

func (r *Report) String() string {
	if r.Equal() {
		return "equal"
	}
	lines := make([]string, len(r.diffs))
	for i, d := range r.diffs {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

var equalReport = &Report{}

// Compare computes a structural diff between two trees, regardless of which
// codec produced them. Neither input is mutated. Comparison is total: it
// cannot fail, and a missing or extra node is a reported discrepancy rather
// than an error. When the trees are equal the shared empty report is
// returned without allocation.
//
// Swapping the arguments yields the mirrored report: missing-key and
// extra-key trade places, everything else is symmetric.
func Compare(a, b *Value) *Report {
	if a.Equal(b) {
		return equalReport
	}
	r := &Report{}
	r.walk(nil, a, b, 0)
	return r
}

func (r *Report) add(path Path, kind DiffKind, detail string) {
	// Paths share backing arrays up the recursion; clone for the report.
	r.diffs = append(r.diffs, Discrepancy{Path: append(Path(nil), path...), Kind: kind, Detail: detail})
}

func (r *Report) walk(path Path, a, b *Value, depth int) {
	if a.Equal(b) {
		return
	}
	if a == nil || b == nil {
		r.add(path, DiffTypeMismatch, "absent node on one side")
		return
	}
	if a.Kind() != b.Kind() {
		r.add(path, DiffTypeMismatch, fmt.Sprintf("left %s, right %s", a.Kind(), b.Kind()))
		return
	}
	if depth > format.MaxDepth {
		// Bounded symmetrically with the decoder so a maliciously deep
		// tree cannot exhaust the stack here either. The subtrees are
		// known unequal at this point.
		r.add(path, DiffValueMismatch, "differences beyond depth limit")
		return
	}

	switch a.Kind() {
	case KindArray:
		n := a.Len()
		if b.Len() < n {
			n = b.Len()
		}
		for i := 0; i < n; i++ {
			r.walk(append(path, IndexStep(i)), a.At(i), b.At(i), depth+1)
		}
		if a.Len() != b.Len() {
			r.add(path, DiffLengthMismatch, lengthDetail(a.Len(), b.Len()))
		}

	case KindDictionary:
		for _, k := range a.Keys() {
			av, _ := a.Get(k)
			bv, ok := b.Get(k)
			if !ok {
				r.add(append(path, KeyStep(k)), DiffMissingKey, "key absent on right")
				continue
			}
			r.walk(append(path, KeyStep(k)), av, bv, depth+1)
		}
		for _, k := range b.Keys() {
			if _, ok := a.Get(k); !ok {
				r.add(append(path, KeyStep(k)), DiffExtraKey, "key absent on left")
			}
		}

	default:
		r.add(path, DiffValueMismatch, fmt.Sprintf("left %s, right %s", a, b))
	}
}

// lengthDetail names the indices present only on the longer side.
func lengthDetail(left, right int) string {
	if left > right {
		return fmt.Sprintf("left has %d elements, right has %d; extra left indices %s", left, right, indexRange(right, left))
	}
	return fmt.Sprintf("left has %d elements, right has %d; extra right indices %s", left, right, indexRange(left, right))
}

func indexRange(from, to int) string {
	if to-from == 1 {
		return strconv.Itoa(from)
	}
	return fmt.Sprintf("%d..%d", from, to-1)
}
