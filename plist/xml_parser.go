package plist

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sr-murthy/plistkit/internal/format"
)

// ErrInvalidXML indicates a buffer that looked like an XML plist but does
// not parse as one.
var ErrInvalidXML = errors.New("plist: invalid xml plist")

// uidKey is the dictionary key CoreFoundation uses to spell a keyed-archiver
// UID in the XML encoding, which has no native UID element.
const uidKey = "CF$UID"

// DecodeXML parses an XML property list into a Value tree.
func DecodeXML(data []byte) (*Value, error) {
	p := &xmlParser{
		dec: xml.NewDecoder(bytes.NewReader(data)),
		ws:  strings.NewReplacer("\t", "", "\n", "", " ", "", "\r", ""),
	}
	return p.document()
}

type xmlParser struct {
	dec   *xml.Decoder
	ws    *strings.Replacer
	depth int
}

func (p *xmlParser) document() (*Value, error) {
	for {
		token, err := p.dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidXML, err)
		}
		el, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if el.Name.Local != "plist" {
			return nil, fmt.Errorf("%w: root element <%s>", ErrInvalidXML, el.Name.Local)
		}
		return p.plistBody(el)
	}
}

// plistBody returns the single value inside <plist>...</plist>.
func (p *xmlParser) plistBody(start xml.StartElement) (*Value, error) {
	for {
		token, err := p.dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidXML, err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			return p.element(t)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return nil, fmt.Errorf("%w: empty <plist>", ErrInvalidXML)
			}
		}
	}
}

func (p *xmlParser) element(el xml.StartElement) (*Value, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > format.MaxDepth {
		return nil, fmt.Errorf("%w: nesting too deep", ErrInvalidXML)
	}

	switch el.Name.Local {
	case "string":
		s, err := p.charData(&el)
		if err != nil {
			return nil, err
		}
		return String(s), nil

	case "integer":
		s, err := p.charData(&el)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: integer %q", ErrInvalidXML, s)
		}
		return Int(n), nil

	case "real":
		s, err := p.charData(&el)
		if err != nil {
			return nil, err
		}
		f, err := parseXMLReal(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: real %q", ErrInvalidXML, s)
		}
		return Real(f), nil

	case "true", "false":
		if err := p.dec.Skip(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidXML, err)
		}
		return Bool(el.Name.Local == "true"), nil

	case "date":
		s, err := p.charData(&el)
		if err != nil {
			return nil, err
		}
		t, err := time.ParseInLocation(time.RFC3339, strings.TrimSpace(s), time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: date %q", ErrInvalidXML, s)
		}
		return Date(t), nil

	case "data":
		s, err := p.charData(&el)
		if err != nil {
			return nil, err
		}
		raw, err := base64.StdEncoding.DecodeString(p.ws.Replace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: data payload: %v", ErrInvalidXML, err)
		}
		return Data(raw), nil

	case "dict":
		return p.dict(el)

	case "array":
		arr := Array()
		for {
			token, err := p.dec.Token()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidXML, err)
			}
			if end, ok := token.(xml.EndElement); ok && end.Name.Local == "array" {
				return arr, nil
			}
			if child, ok := token.(xml.StartElement); ok {
				elem, err := p.element(child)
				if err != nil {
					return nil, err
				}
				arr.Append(elem)
			}
		}

	default:
		return nil, fmt.Errorf("%w: unknown element <%s>", ErrInvalidXML, el.Name.Local)
	}
}

func (p *xmlParser) dict(el xml.StartElement) (*Value, error) {
	d := Dict()
	var key *string
	for {
		token, err := p.dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidXML, err)
		}
		if end, ok := token.(xml.EndElement); ok && end.Name.Local == "dict" {
			if key != nil {
				return nil, fmt.Errorf("%w: key %q has no value", ErrInvalidXML, *key)
			}
			return maybeUID(d), nil
		}
		child, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if child.Name.Local == "key" {
			if key != nil {
				return nil, fmt.Errorf("%w: key %q has no value", ErrInvalidXML, *key)
			}
			var k string
			if err := p.dec.DecodeElement(&k, &child); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidXML, err)
			}
			key = &k
			continue
		}
		if key == nil {
			return nil, fmt.Errorf("%w: value without key in dict", ErrInvalidXML)
		}
		v, err := p.element(child)
		if err != nil {
			return nil, err
		}
		d.Set(*key, v)
		key = nil
	}
}

// charData collects the text content of a simple element.
func (p *xmlParser) charData(el *xml.StartElement) (string, error) {
	var cd xml.CharData
	if err := p.dec.DecodeElement(&cd, el); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidXML, err)
	}
	return string(cd), nil
}

// maybeUID converts the {"CF$UID": n} dictionary spelling back into a UID
// value, matching how the binary codec represents archiver references.
func maybeUID(d *Value) *Value {
	if d.Len() != 1 {
		return d
	}
	v, ok := d.Get(uidKey)
	if !ok || v.Kind() != KindInteger || v.Int() < 0 {
		return d
	}
	return UID(uint64(v.Int()))
}

func parseXMLReal(s string) (float64, error) {
	switch s {
	case "inf", "+inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	case "nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
