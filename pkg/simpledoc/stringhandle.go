package simpledoc

import (
	"bytes"
	"errors"
	"io"
	"unicode/utf8"
)

// StringHandle adapts a text payload to the document model. It is pinned
// to FormatText and decodes incoming streams as UTF-8.
type StringHandle struct {
	baseHandle
	content string
	present bool
}

// NewStringHandle creates an empty text handle.
func NewStringHandle() *StringHandle {
	return &StringHandle{baseHandle: newBaseHandle(FormatText)}
}

// Get returns the current content, or the empty string when the handle is
// empty.
func (h *StringHandle) Get() string {
	return h.content
}

// HasContent reports whether the handle holds content.
func (h *StringHandle) HasContent() bool {
	return h.present
}

// Set replaces the handle's content.
func (h *StringHandle) Set(s string) {
	h.content = s
	h.present = true
}

// With sets the content and returns the handle for chaining.
func (h *StringHandle) With(s string) *StringHandle {
	h.Set(s)
	return h
}

// WithMimetype sets the mimetype and returns the handle for chaining.
func (h *StringHandle) WithMimetype(mimetype string) *StringHandle {
	h.SetMimetype(mimetype)
	return h
}

// Clear empties the handle.
func (h *StringHandle) Clear() {
	h.content = ""
	h.present = false
}

// FromBuffer decodes content from buf. A nil or empty buffer clears the
// handle.
func (h *StringHandle) FromBuffer(buf []byte) error {
	if len(buf) == 0 {
		h.Clear()
		return nil
	}
	return h.Receive(bytes.NewReader(buf))
}

// ToBuffer encodes the content into a fresh buffer, or returns nil when
// the handle is empty.
func (h *StringHandle) ToBuffer() ([]byte, error) {
	if !h.present {
		return nil, nil
	}
	return []byte(h.content), nil
}

// Receive reads the stream to its end and stores it as text. Streams that
// are not valid UTF-8 fail with a ConversionError. The stream is closed
// when it implements io.Closer; close errors are discarded.
func (h *StringHandle) Receive(r io.Reader) error {
	defer closeQuietly(r)
	data, err := io.ReadAll(r)
	if err != nil {
		return &ConversionError{Format: FormatText, Op: "receive", Err: err}
	}
	if !utf8.Valid(data) {
		return &ConversionError{Format: FormatText, Op: "receive", Err: errors.New("stream is not valid UTF-8")}
	}
	h.content = string(data)
	h.present = true
	return nil
}

// Send returns the handle as its own sender, or ErrNoContent when empty.
func (h *StringHandle) Send() (io.WriterTo, error) {
	if !h.present {
		return nil, ErrNoContent
	}
	return h, nil
}

// WriteTo writes the content to w.
func (h *StringHandle) WriteTo(w io.Writer) (int64, error) {
	if !h.present {
		return 0, ErrNoContent
	}
	n, err := io.WriteString(w, h.content)
	return int64(n), err
}

// String returns the content.
func (h *StringHandle) String() string {
	return h.content
}

var _ BufferableHandle = (*StringHandle)(nil)
