package simpledoc

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
)

// XMLHandle adapts a typed value to the byte-stream document model using
// the XML wire format. Handles are created empty, over a conversion context
// that binds the types they convert; the zero value is not usable.
//
// Conversion machinery is created lazily from the context and cached on the
// handle. Neither the handle nor its converters are safe for concurrent
// use.
type XMLHandle[C any] struct {
	baseHandle
	xctx         *XMLContext
	content      C
	present      bool
	marshaller   *Marshaller
	unmarshaller *Unmarshaller
}

// NewXMLHandle creates an empty handle over the given conversion context.
func NewXMLHandle[C any](xctx *XMLContext) (*XMLHandle[C], error) {
	if xctx == nil {
		return nil, ErrNilContext
	}
	return newXMLHandle[C](xctx), nil
}

func newXMLHandle[C any](xctx *XMLContext) *XMLHandle[C] {
	return &XMLHandle[C]{
		baseHandle: newBaseHandle(FormatXML),
		xctx:       xctx,
	}
}

// Context returns the conversion context the handle was created over.
func (h *XMLHandle[C]) Context() *XMLContext {
	return h.xctx
}

// Get returns the current content, or the zero value when the handle is
// empty.
func (h *XMLHandle[C]) Get() C {
	return h.content
}

// HasContent reports whether the handle holds content.
func (h *XMLHandle[C]) HasContent() bool {
	return h.present
}

// GetAs stores the current content in out, which must be a non-nil
// pointer. The stored value is the identical content value, not a copy.
// An empty handle zeroes out. Content whose dynamic type is not assignable
// to out's element type fails with ErrTypeMismatch.
func (h *XMLHandle[C]) GetAs(out any) error {
	rv := reflect.ValueOf(out)
	if out == nil || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrInvalidTarget
	}
	target := rv.Elem()
	if !h.present {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	cv := reflect.ValueOf(h.content)
	if !cv.IsValid() {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	if !cv.Type().AssignableTo(target.Type()) {
		return fmt.Errorf("%w: %s is not assignable to %s", ErrTypeMismatch, cv.Type(), target.Type())
	}
	target.Set(cv)
	return nil
}

// Set replaces the handle's content.
func (h *XMLHandle[C]) Set(v C) {
	h.content = v
	h.present = true
}

// With sets the content and returns the handle for chaining.
func (h *XMLHandle[C]) With(v C) *XMLHandle[C] {
	h.Set(v)
	return h
}

// WithMimetype sets the mimetype and returns the handle for chaining.
func (h *XMLHandle[C]) WithMimetype(mimetype string) *XMLHandle[C] {
	h.SetMimetype(mimetype)
	return h
}

// Clear empties the handle.
func (h *XMLHandle[C]) Clear() {
	var zero C
	h.content = zero
	h.present = false
}

// Marshaller returns the handle's marshaller. With reuse the cached
// instance is returned, created on first use; without reuse a fresh
// instance replaces the cache, discarding any state an earlier conversion
// left behind.
func (h *XMLHandle[C]) Marshaller(reuse bool) *Marshaller {
	if !reuse || h.marshaller == nil {
		h.marshaller = h.xctx.NewMarshaller()
	}
	return h.marshaller
}

// Unmarshaller returns the handle's unmarshaller, with the same reuse
// semantics as Marshaller.
func (h *XMLHandle[C]) Unmarshaller(reuse bool) *Unmarshaller {
	if !reuse || h.unmarshaller == nil {
		h.unmarshaller = h.xctx.NewUnmarshaller()
	}
	return h.unmarshaller
}

// FromBuffer decodes content from buf. A nil or empty buffer clears the
// handle.
func (h *XMLHandle[C]) FromBuffer(buf []byte) error {
	if len(buf) == 0 {
		h.Clear()
		return nil
	}
	return h.Receive(bytes.NewReader(buf))
}

// ToBuffer encodes the current content into a freshly allocated buffer;
// later changes to the content do not alter buffers already returned. An
// empty handle yields nil.
func (h *XMLHandle[C]) ToBuffer() ([]byte, error) {
	if !h.present {
		return nil, nil
	}
	return h.Marshaller(true).MarshalBytes(h.content)
}

// Receive decodes the stream into a new content value, replacing the
// current content only on success. The stream is closed when it implements
// io.Closer, success or failure; close errors are discarded.
func (h *XMLHandle[C]) Receive(r io.Reader) error {
	defer closeQuietly(r)
	var out C
	if err := h.Unmarshaller(true).Unmarshal(r, &out); err != nil {
		return err
	}
	h.content = out
	h.present = true
	return nil
}

// Send returns the handle as its own sender, or ErrNoContent when empty.
func (h *XMLHandle[C]) Send() (io.WriterTo, error) {
	if !h.present {
		return nil, ErrNoContent
	}
	return h, nil
}

// WriteTo serializes the current content to w.
func (h *XMLHandle[C]) WriteTo(w io.Writer) (int64, error) {
	if !h.present {
		return 0, ErrNoContent
	}
	return h.Marshaller(true).Marshal(h.content, w)
}

// String renders the content for diagnostics; it returns the empty string
// when the handle is empty or serialization fails.
func (h *XMLHandle[C]) String() string {
	buf, err := h.ToBuffer()
	if err != nil {
		return ""
	}
	return string(buf)
}

var _ BufferableHandle = (*XMLHandle[any])(nil)
