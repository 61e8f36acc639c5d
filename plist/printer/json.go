package printer

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sr-murthy/plistkit/plist"
)

// jsonDiscrepancy represents one comparison difference in JSON format.
type jsonDiscrepancy struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

// jsonReport represents a comparison report in JSON format.
type jsonReport struct {
	Equal         bool              `json:"equal"`
	Discrepancies []jsonDiscrepancy `json:"discrepancies,omitempty"`
}

// jsonFileInfo represents a file summary in JSON format.
type jsonFileInfo struct {
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	Mode        string `json:"mode"`
	Modified    string `json:"modified"`
	Format      string `json:"format"`
	RootKind    string `json:"root_kind"`
	Objects     int    `json:"objects"`
	Fingerprint string `json:"fingerprint"`
}

// printValueJSON prints a value tree as indented JSON.
func (p *Printer) printValueJSON(v *plist.Value) error {
	data, err := json.MarshalIndent(jsonValue(v), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

// jsonValue converts a plist value into the nearest JSON-native shape.
// Data becomes base64, dates RFC3339, UIDs a tagged object. JSON has no
// distinct integer and real types, so that distinction is lost here; use
// the text format when storage fidelity matters.
func jsonValue(v *plist.Value) any {
	if v == nil {
		return nil
	}
	switch v.Kind() {
	case plist.KindNull:
		return nil
	case plist.KindBool:
		return v.Bool()
	case plist.KindInteger:
		return v.Int()
	case plist.KindReal:
		return v.Float()
	case plist.KindDate:
		return v.Time().UTC().Format(time.RFC3339)
	case plist.KindData:
		return base64.StdEncoding.EncodeToString(v.Bytes())
	case plist.KindString:
		return v.Text()
	case plist.KindUID:
		return map[string]uint64{"uid": v.UID()}
	case plist.KindArray:
		out := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			out = append(out, jsonValue(v.At(i)))
		}
		return out
	case plist.KindDictionary:
		// json.Marshal sorts map keys, which loses document order but
		// keeps output stable across runs.
		out := make(map[string]any, v.Len())
		for _, k := range v.Keys() {
			val, _ := v.Get(k)
			out[k] = jsonValue(val)
		}
		return out
	default:
		return nil
	}
}

// printReportJSON prints a comparison report as indented JSON.
func (p *Printer) printReportJSON(r *plist.Report) error {
	out := jsonReport{Equal: r.Equal()}
	for _, d := range r.Discrepancies() {
		out.Discrepancies = append(out.Discrepancies, jsonDiscrepancy{
			Path:   d.Path.String(),
			Kind:   d.Kind.String(),
			Detail: d.Detail,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

// printFileInfoJSON prints a file summary as indented JSON.
func (p *Printer) printFileInfoJSON(info *plist.FileInfo) error {
	out := jsonFileInfo{
		Path:        info.Path,
		Size:        info.Size,
		Mode:        info.Mode.String(),
		Modified:    info.Modified.UTC().Format(time.RFC3339),
		Format:      formatName(info.Format),
		RootKind:    info.RootKind.String(),
		Objects:     info.Objects,
		Fingerprint: fmt.Sprintf("%x", info.Fingerprint),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}
