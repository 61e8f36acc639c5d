package plist

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"
)

const (
	xmlHeader  = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	xmlDoctype = `<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n"

	// Base64 data payloads wrap at the column Apple's tools use.
	xmlDataWrap = 68
)

// EncodeXML serialises a Value tree as an XML property list, indented with
// tabs the way Apple's tooling writes them.
func EncodeXML(root *Value) ([]byte, error) {
	var out bytes.Buffer
	if err := WriteXML(&out, root); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// WriteXML streams the XML encoding of root to w.
func WriteXML(w io.Writer, root *Value) error {
	g := &xmlGenerator{w: bufio.NewWriter(w), indent: "\t"}
	g.raw(xmlHeader)
	g.raw(xmlDoctype)
	g.raw("<plist version=\"1.0\">\n")
	if err := g.value(root); err != nil {
		return err
	}
	g.raw("</plist>\n")
	if g.err != nil {
		return g.err
	}
	return g.w.Flush()
}

type xmlGenerator struct {
	w      *bufio.Writer
	indent string
	depth  int
	err    error
}

func (g *xmlGenerator) raw(s string) {
	if g.err == nil {
		_, g.err = g.w.WriteString(s)
	}
}

func (g *xmlGenerator) pad() {
	for i := 0; i < g.depth; i++ {
		g.raw(g.indent)
	}
}

// element writes a one-line element, self-closing when body is empty.
func (g *xmlGenerator) element(tag, body string) {
	g.pad()
	if body == "" {
		g.raw("<" + tag + "/>\n")
		return
	}
	g.raw("<" + tag + ">")
	g.escaped(body)
	g.raw("</" + tag + ">\n")
}

func (g *xmlGenerator) escaped(s string) {
	if g.err == nil {
		g.err = xml.EscapeText(g.w, []byte(s))
	}
}

func (g *xmlGenerator) value(v *Value) error {
	if v == nil {
		return fmt.Errorf("plist: cannot encode nil value as xml")
	}
	switch v.Kind() {
	case KindString:
		g.element("string", v.Text())
	case KindInteger:
		g.element("integer", strconv.FormatInt(v.Int(), 10))
	case KindReal:
		g.element("real", formatXMLReal(v.Float()))
	case KindBool:
		if v.Bool() {
			g.element("true", "")
		} else {
			g.element("false", "")
		}
	case KindDate:
		g.element("date", v.Time().UTC().Format(time.RFC3339))
	case KindData:
		g.data(v.Bytes())
	case KindUID:
		// The XML encoding has no UID element; CoreFoundation spells it
		// as a single-entry dictionary.
		d := Dict()
		d.Set(uidKey, Int(int64(v.UID())))
		return g.value(d)
	case KindNull:
		// No XML element exists for null; emit an empty string, the
		// closest lossless-ish spelling plutil accepts.
		g.element("string", "")
	case KindArray:
		return g.array(v)
	case KindDictionary:
		return g.dict(v)
	default:
		return fmt.Errorf("plist: cannot encode %s as xml", v.Kind())
	}
	return g.err
}

func (g *xmlGenerator) array(v *Value) error {
	if v.Len() == 0 {
		g.pad()
		g.raw("<array/>\n")
		return g.err
	}
	g.pad()
	g.raw("<array>\n")
	g.depth++
	for i := 0; i < v.Len(); i++ {
		if err := g.value(v.At(i)); err != nil {
			return err
		}
	}
	g.depth--
	g.pad()
	g.raw("</array>\n")
	return g.err
}

func (g *xmlGenerator) dict(v *Value) error {
	if v.Len() == 0 {
		g.pad()
		g.raw("<dict/>\n")
		return g.err
	}
	g.pad()
	g.raw("<dict>\n")
	g.depth++
	for _, k := range v.Keys() {
		g.pad()
		g.raw("<key>")
		g.escaped(k)
		g.raw("</key>\n")
		val, _ := v.Get(k)
		if err := g.value(val); err != nil {
			return err
		}
	}
	g.depth--
	g.pad()
	g.raw("</dict>\n")
	return g.err
}

func (g *xmlGenerator) data(b []byte) {
	enc := base64.StdEncoding.EncodeToString(b)
	if len(enc) <= xmlDataWrap {
		g.element("data", enc)
		return
	}
	g.pad()
	g.raw("<data>\n")
	for i := 0; i < len(enc); i += xmlDataWrap {
		end := i + xmlDataWrap
		if end > len(enc) {
			end = len(enc)
		}
		g.pad()
		g.raw(enc[i:end])
		g.raw("\n")
	}
	g.pad()
	g.raw("</data>\n")
}

func formatXMLReal(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
