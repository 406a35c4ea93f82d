package simpledoc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"reflect"
)

// Marshaller serializes bound values as indented UTF-8 XML. Output is
// staged in an internal buffer and copied to the sink only after the whole
// value has encoded, so a failed conversion never emits a partial document.
// A Marshaller is not safe for concurrent use.
type Marshaller struct {
	ctx     *XMLContext
	scratch bytes.Buffer
}

// Marshal encodes v and writes the complete document to w, reporting the
// number of bytes written.
func (m *Marshaller) Marshal(v any, w io.Writer) (int64, error) {
	if err := m.encode(v); err != nil {
		return 0, err
	}
	n, err := m.scratch.WriteTo(w)
	if err != nil {
		return n, &ConversionError{Format: FormatXML, Op: "write", Err: err}
	}
	return n, nil
}

// MarshalBytes encodes v into a freshly allocated buffer.
func (m *Marshaller) MarshalBytes(v any) ([]byte, error) {
	if err := m.encode(v); err != nil {
		return nil, err
	}
	out := make([]byte, m.scratch.Len())
	copy(out, m.scratch.Bytes())
	m.scratch.Reset()
	return out, nil
}

func (m *Marshaller) encode(v any) error {
	t := reflect.TypeOf(v)
	if t == nil {
		return &ConversionError{Format: FormatXML, Op: "marshal", Err: fmt.Errorf("cannot marshal nil value")}
	}
	if !m.ctx.IsBound(t) {
		return &ConversionError{Format: FormatXML, Op: "marshal", Err: fmt.Errorf("%w: %s", ErrNotBound, t)}
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return &ConversionError{Format: FormatXML, Op: "marshal", Err: fmt.Errorf("cannot marshal nil %s", t)}
	}
	m.scratch.Reset()
	m.scratch.WriteString(xml.Header)
	enc := xml.NewEncoder(&m.scratch)
	enc.Indent("", m.ctx.indent)
	if err := enc.Encode(v); err != nil {
		m.scratch.Reset()
		return &ConversionError{Format: FormatXML, Op: "marshal", Err: err}
	}
	if err := enc.Close(); err != nil {
		m.scratch.Reset()
		return &ConversionError{Format: FormatXML, Op: "marshal", Err: err}
	}
	m.scratch.WriteByte('\n')
	return nil
}

// Unmarshaller decodes UTF-8 XML documents into bound values. The document
// root element must match the root name resolved for the target type. An
// Unmarshaller is not safe for concurrent use.
type Unmarshaller struct {
	ctx *XMLContext
}

// Unmarshal decodes the document in r into out, which must be a non-nil
// pointer to a bound type.
func (u *Unmarshaller) Unmarshal(r io.Reader, out any) error {
	rv := reflect.ValueOf(out)
	if out == nil || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &ConversionError{Format: FormatXML, Op: "unmarshal", Err: ErrInvalidTarget}
	}
	t := rv.Type().Elem()
	root, bound := u.ctx.RootName(t)
	if !bound {
		return &ConversionError{Format: FormatXML, Op: "unmarshal", Err: fmt.Errorf("%w: %s", ErrNotBound, t)}
	}
	dec := xml.NewDecoder(r)
	start, err := firstStartElement(dec)
	if err != nil {
		return &ConversionError{Format: FormatXML, Op: "unmarshal", Err: err}
	}
	if start.Name.Local != root.Local || (root.Space != "" && start.Name.Space != root.Space) {
		return &ConversionError{
			Format: FormatXML,
			Op:     "unmarshal",
			Err:    fmt.Errorf("unexpected root element <%s>, bound root is <%s>", start.Name.Local, root.Local),
		}
	}
	if err := dec.DecodeElement(out, start); err != nil {
		return &ConversionError{Format: FormatXML, Op: "unmarshal", Err: err}
	}
	return nil
}

// firstStartElement advances the decoder past prolog tokens to the
// document root.
func firstStartElement(dec *xml.Decoder) (*xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return &start, nil
		}
	}
}
