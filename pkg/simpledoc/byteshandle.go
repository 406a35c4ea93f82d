package simpledoc

import (
	"bytes"
	"io"
)

// BytesHandle adapts a raw byte slice to the document model. It is pinned
// to FormatBinary. Content is copied on the way in and out, so stored
// content and returned buffers are independent of caller slices.
type BytesHandle struct {
	baseHandle
	content []byte
}

// NewBytesHandle creates an empty binary handle.
func NewBytesHandle() *BytesHandle {
	return &BytesHandle{baseHandle: newBaseHandle(FormatBinary)}
}

// Get returns the current content; nil means empty.
func (h *BytesHandle) Get() []byte {
	return h.content
}

// HasContent reports whether the handle holds at least one byte.
func (h *BytesHandle) HasContent() bool {
	return len(h.content) > 0
}

// Set stores a copy of b as the content. A nil or empty slice clears the
// handle.
func (h *BytesHandle) Set(b []byte) {
	if len(b) == 0 {
		h.content = nil
		return
	}
	h.content = append([]byte(nil), b...)
}

// With sets the content and returns the handle for chaining.
func (h *BytesHandle) With(b []byte) *BytesHandle {
	h.Set(b)
	return h
}

// WithMimetype sets the mimetype and returns the handle for chaining.
func (h *BytesHandle) WithMimetype(mimetype string) *BytesHandle {
	h.SetMimetype(mimetype)
	return h
}

// Clear empties the handle.
func (h *BytesHandle) Clear() {
	h.content = nil
}

// FromBuffer stores a copy of buf. A nil or empty buffer clears the
// handle.
func (h *BytesHandle) FromBuffer(buf []byte) error {
	h.Set(buf)
	return nil
}

// ToBuffer returns a copy of the content, or nil when the handle is
// empty.
func (h *BytesHandle) ToBuffer() ([]byte, error) {
	if len(h.content) == 0 {
		return nil, nil
	}
	return append([]byte(nil), h.content...), nil
}

// Receive reads the stream to its end and stores the bytes. The stream is
// closed when it implements io.Closer; close errors are discarded.
func (h *BytesHandle) Receive(r io.Reader) error {
	defer closeQuietly(r)
	data, err := io.ReadAll(r)
	if err != nil {
		return &ConversionError{Format: FormatBinary, Op: "receive", Err: err}
	}
	if len(data) == 0 {
		h.content = nil
		return nil
	}
	h.content = data
	return nil
}

// Send returns the handle as its own sender, or ErrNoContent when empty.
func (h *BytesHandle) Send() (io.WriterTo, error) {
	if len(h.content) == 0 {
		return nil, ErrNoContent
	}
	return h, nil
}

// WriteTo writes the content to w.
func (h *BytesHandle) WriteTo(w io.Writer) (int64, error) {
	if len(h.content) == 0 {
		return 0, ErrNoContent
	}
	return bytes.NewReader(h.content).WriteTo(w)
}

var _ BufferableHandle = (*BytesHandle)(nil)
