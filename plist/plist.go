// Package plist reads, writes, and compares Apple property-list files.
//
// A property list is a typed hierarchical data container used across Apple
// operating systems for configuration, launch descriptors, and application
// metadata. It travels in two encodings: an XML document and the compact
// binary "bplist00" form. This package decodes both into one encoding-
// independent Value tree, re-encodes trees into either form, and computes
// structural diffs between trees so that two plists can be compared
// regardless of how they were stored.
//
// The binary decoder is written for adversarial input: plists pulled off a
// device during an investigation are frequently attacker-influenced, so
// every offset, length, and object reference is validated before use and
// malformed files fail fast with a classified error instead of a partial
// parse.
//
// # Reading
//
//	v, fmt, err := plist.Load("/Library/LaunchAgents/com.example.agent.plist")
//	if err != nil {
//		return err
//	}
//
// # Comparing
//
//	report := plist.Compare(candidate, reference)
//	for _, d := range report.Discrepancies() {
//		log.Printf("%s", d)
//	}
package plist

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/sr-murthy/plistkit/internal/mmfile"
)

// Format identifies a plist encoding.
type Format int

const (
	FormatUnknown Format = iota
	FormatBinary
	FormatXML
)

func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary"
	case FormatXML:
		return "xml"
	default:
		return "unknown"
	}
}

// ErrUnknownFormat indicates a buffer that is neither a binary nor an XML
// property list.
var ErrUnknownFormat = errors.New("plist: unrecognized format")

// DetectFormat sniffs the encoding of data without parsing it.
func DetectFormat(data []byte) Format {
	if IsBinary(data) {
		return FormatBinary
	}
	// XML plists may start with a BOM, an XML declaration, or the bare
	// <plist> or doctype line.
	trimmed := bytes.TrimLeft(data, "\xef\xbb\xbf \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<!DOCTYPE plist")) || bytes.HasPrefix(trimmed, []byte("<plist")) {
		return FormatXML
	}
	return FormatUnknown
}

// Decode parses a complete plist buffer in either encoding, reporting which
// encoding was found. The returned tree holds no references into data.
func Decode(data []byte) (*Value, Format, error) {
	switch DetectFormat(data) {
	case FormatBinary:
		v, err := DecodeBinary(data)
		return v, FormatBinary, err
	case FormatXML:
		v, err := DecodeXML(data)
		return v, FormatXML, err
	default:
		return nil, FormatUnknown, ErrUnknownFormat
	}
}

// Load memory-maps the file at path and decodes it. The mapping is released
// before returning; the resulting tree owns all of its memory.
func Load(path string) (*Value, Format, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("plist: load %s: %w", path, err)
	}
	defer func() { _ = cleanup() }()
	v, f, err := Decode(data)
	if err != nil {
		return nil, f, fmt.Errorf("plist: load %s: %w", path, err)
	}
	return v, f, nil
}
