package plist

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FindResult is one entry from a directory scan. Files that carried a .plist
// extension but failed to decode are reported with Err set rather than
// silently dropped, since a plist that refuses to parse is itself a signal.
type FindResult struct {
	Path string
	Info *FileInfo
	Err  error
}

// FindOptions controls a directory scan.
type FindOptions struct {
	// Recursive descends into subdirectories.
	// Default: false (top level only)
	Recursive bool
}

// Find walks root and returns a result for every .plist file found, in
// lexical walk order. Unreadable directories abort the walk; unreadable or
// malformed plist files do not.
func Find(root string, opts FindOptions) ([]FindResult, error) {
	var results []FindResult
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !opts.Recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".plist") {
			return nil
		}
		info, statErr := Stat(path)
		results = append(results, FindResult{Path: path, Info: info, Err: statErr})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
