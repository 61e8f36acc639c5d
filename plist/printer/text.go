package printer

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/sr-murthy/plistkit/plist"
)

// printValueText prints a value tree in human-readable text format.
func (p *Printer) printValueText(v *plist.Value, label string, depth int) error {
	if p.opts.MaxDepth > 0 && depth >= p.opts.MaxDepth {
		return nil
	}

	indent := strings.Repeat(" ", depth*p.opts.IndentSize)

	prefix := indent
	if label != "" {
		prefix = fmt.Sprintf("%s%s", indent, label)
		if p.opts.ShowKinds {
			prefix += fmt.Sprintf(" [%s]", v.Kind())
		}
		prefix += " = "
	} else if p.opts.ShowKinds {
		prefix = fmt.Sprintf("%s[%s] ", indent, v.Kind())
	}

	switch v.Kind() {
	case plist.KindDictionary:
		if _, err := fmt.Fprintf(p.writer, "%s{\n", prefix); err != nil {
			return err
		}
		for _, k := range v.Keys() {
			child, _ := v.Get(k)
			if err := p.printValueText(child, fmt.Sprintf("%q", k), depth+1); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(p.writer, "%s}\n", indent)
		return err

	case plist.KindArray:
		if _, err := fmt.Fprintf(p.writer, "%s[\n", prefix); err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			if err := p.printValueText(v.At(i), "", depth+1); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(p.writer, "%s]\n", indent)
		return err

	case plist.KindData:
		_, err := fmt.Fprintf(p.writer, "%s%s\n", prefix, p.formatData(v.Bytes()))
		return err

	default:
		_, err := fmt.Fprintf(p.writer, "%s%s\n", prefix, formatScalar(v))
		return err
	}
}

// formatData hex-dumps a data payload, truncating past MaxDataBytes.
func (p *Printer) formatData(data []byte) string {
	maxBytes := p.opts.MaxDataBytes
	if maxBytes == 0 || maxBytes > len(data) {
		maxBytes = len(data)
	}
	if len(data) == 0 {
		return "<empty>"
	}
	out := strings.ToUpper(hex.EncodeToString(data[:maxBytes]))
	if maxBytes < len(data) {
		out += fmt.Sprintf(" (truncated, %d total bytes)", len(data))
	}
	return out
}

func formatScalar(v *plist.Value) string {
	switch v.Kind() {
	case plist.KindNull:
		return "<null>"
	case plist.KindBool:
		return fmt.Sprintf("%t", v.Bool())
	case plist.KindInteger:
		return fmt.Sprintf("%d", v.Int())
	case plist.KindReal:
		return fmt.Sprintf("%g", v.Float())
	case plist.KindDate:
		return v.Time().UTC().Format(time.RFC3339)
	case plist.KindString:
		return fmt.Sprintf("%q", v.Text())
	case plist.KindUID:
		return fmt.Sprintf("UID(%d)", v.UID())
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

// printReportText prints a comparison report, one discrepancy per line.
func (p *Printer) printReportText(r *plist.Report) error {
	if r.Equal() {
		_, err := fmt.Fprintln(p.writer, "equal")
		return err
	}
	diffs := r.Discrepancies()
	fmt.Fprintf(p.writer, "%d discrepancies\n", len(diffs))
	for _, d := range diffs {
		if _, err := fmt.Fprintf(p.writer, "  %s\n", d); err != nil {
			return err
		}
	}
	return nil
}

// printFileInfoText prints a file summary in text format.
func (p *Printer) printFileInfoText(info *plist.FileInfo) error {
	fmt.Fprintf(p.writer, "Path:        %s\n", info.Path)
	fmt.Fprintf(p.writer, "Size:        %d bytes\n", info.Size)
	fmt.Fprintf(p.writer, "Mode:        %s\n", info.Mode)
	fmt.Fprintf(p.writer, "Modified:    %s\n", info.Modified.UTC().Format(time.RFC3339))
	fmt.Fprintf(p.writer, "Format:      %s\n", formatName(info.Format))
	fmt.Fprintf(p.writer, "Root:        %s\n", info.RootKind)
	fmt.Fprintf(p.writer, "Objects:     %d\n", info.Objects)
	_, err := fmt.Fprintf(p.writer, "Fingerprint: %x\n", info.Fingerprint)
	return err
}
