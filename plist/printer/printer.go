// Package printer renders decoded property-list trees and comparison reports
// for terminals and for machine consumption.
package printer

import (
	"io"

	"github.com/sr-murthy/plistkit/plist"
)

const (
	DefaultIndentSize   = 2
	DefaultMaxDepth     = 0
	DefaultMaxDataBytes = 32
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable text format.
	FormatText Format = "text"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// IndentSize is the number of spaces per indent level (text format only).
	// Default: 2
	IndentSize int

	// MaxDepth limits recursion depth (0 = unlimited).
	// Default: 0 (unlimited)
	MaxDepth int

	// ShowKinds includes value kind names in text output.
	// Default: true
	ShowKinds bool

	// MaxDataBytes limits how many bytes of data values to display.
	// Longer values are truncated. Set to 0 for no limit.
	// Default: 32
	MaxDataBytes int
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:       FormatText,
		IndentSize:   DefaultIndentSize,
		MaxDepth:     DefaultMaxDepth,
		ShowKinds:    true,
		MaxDataBytes: DefaultMaxDataBytes,
	}
}

// Printer handles formatted output of plist structures.
type Printer struct {
	opts   Options
	writer io.Writer
}

// New creates a new Printer writing to w.
//
// Example:
//
//	root, _, _ := plist.Load("com.example.agent.plist")
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintValue(root)
func New(w io.Writer, opts Options) *Printer {
	return &Printer{
		writer: w,
		opts:   opts,
	}
}

// PrintValue prints a value tree.
func (p *Printer) PrintValue(v *plist.Value) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printValueJSON(v)
	case FormatText:
		return p.printValueText(v, "", 0)
	default:
		return p.printValueText(v, "", 0)
	}
}

// PrintReport prints a comparison report.
func (p *Printer) PrintReport(r *plist.Report) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printReportJSON(r)
	case FormatText:
		return p.printReportText(r)
	default:
		return p.printReportText(r)
	}
}

// PrintFileInfo prints a file summary.
func (p *Printer) PrintFileInfo(info *plist.FileInfo) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printFileInfoJSON(info)
	case FormatText:
		return p.printFileInfoText(info)
	default:
		return p.printFileInfoText(info)
	}
}

func formatName(f plist.Format) string {
	switch f {
	case plist.FormatBinary:
		return "binary"
	case plist.FormatXML:
		return "xml"
	default:
		return "unknown"
	}
}
