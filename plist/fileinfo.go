package plist

import (
	"fmt"
	"os"
	"time"
)

// FileInfo summarises a property list file without exposing the tree itself:
// enough to triage a directory of artifacts before deciding which ones to
// inspect in depth.
type FileInfo struct {
	Path        string
	Size        int64
	Mode        os.FileMode
	Modified    time.Time
	Format      Format
	Fingerprint [32]byte

	// RootKind is the kind of the top-level value, almost always a
	// dictionary for real-world plists.
	RootKind Kind

	// Objects counts leaves plus containers in the decoded tree.
	Objects int
}

// Stat loads and decodes the file at path and returns its summary.
func Stat(path string) (*FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("plist: stat %s: %w", path, err)
	}
	root, format, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &FileInfo{
		Path:        path,
		Size:        st.Size(),
		Mode:        st.Mode(),
		Modified:    st.ModTime(),
		Format:      format,
		Fingerprint: Fingerprint(root),
		RootKind:    root.Kind(),
		Objects:     countObjects(root),
	}, nil
}

func countObjects(v *Value) int {
	if v == nil {
		return 0
	}
	n := 1
	switch v.Kind() {
	case KindArray:
		for i := 0; i < v.Len(); i++ {
			n += countObjects(v.At(i))
		}
	case KindDictionary:
		for _, k := range v.Keys() {
			val, _ := v.Get(k)
			n += countObjects(val)
		}
	}
	return n
}
