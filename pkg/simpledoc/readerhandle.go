package simpledoc

import (
	"bytes"
	"io"
)

// ReaderHandle adapts a raw byte stream to the document model without
// buffering it. Receive adopts the stream as the handle's content rather
// than consuming it, so the stream stays open until the content is sent,
// drained with ToBuffer, or read by the caller. Sending and draining close
// the adopted stream; a stream taken over with Get is the caller's to
// close.
type ReaderHandle struct {
	baseHandle
	r io.Reader
}

// NewReaderHandle creates an empty stream handle.
func NewReaderHandle() *ReaderHandle {
	return &ReaderHandle{baseHandle: newBaseHandle(FormatBinary)}
}

// Get returns the adopted stream, or nil when the handle is empty.
func (h *ReaderHandle) Get() io.Reader {
	return h.r
}

// HasContent reports whether the handle holds a stream.
func (h *ReaderHandle) HasContent() bool {
	return h.r != nil
}

// Set replaces the handle's stream.
func (h *ReaderHandle) Set(r io.Reader) {
	h.r = r
}

// With sets the stream and returns the handle for chaining.
func (h *ReaderHandle) With(r io.Reader) *ReaderHandle {
	h.Set(r)
	return h
}

// WithMimetype sets the mimetype and returns the handle for chaining.
func (h *ReaderHandle) WithMimetype(mimetype string) *ReaderHandle {
	h.SetMimetype(mimetype)
	return h
}

// FromBuffer adopts a reader over a copy of buf. A nil or empty buffer
// clears the handle.
func (h *ReaderHandle) FromBuffer(buf []byte) error {
	if len(buf) == 0 {
		h.r = nil
		return nil
	}
	h.r = bytes.NewReader(append([]byte(nil), buf...))
	return nil
}

// ToBuffer drains the adopted stream into a fresh buffer and closes it,
// leaving the handle empty. It returns nil when the handle holds no
// stream.
func (h *ReaderHandle) ToBuffer() ([]byte, error) {
	if h.r == nil {
		return nil, nil
	}
	defer func() {
		closeQuietly(h.r)
		h.r = nil
	}()
	data, err := io.ReadAll(h.r)
	if err != nil {
		return nil, &ConversionError{Format: FormatBinary, Op: "read", Err: err}
	}
	return data, nil
}

// Receive adopts the stream as the handle's content. The stream is not
// consumed or closed here.
func (h *ReaderHandle) Receive(r io.Reader) error {
	h.r = r
	return nil
}

// Send returns the handle as its own sender, or ErrNoContent when empty.
func (h *ReaderHandle) Send() (io.WriterTo, error) {
	if h.r == nil {
		return nil, ErrNoContent
	}
	return h, nil
}

// WriteTo copies the adopted stream to w and closes it, leaving the handle
// empty.
func (h *ReaderHandle) WriteTo(w io.Writer) (int64, error) {
	if h.r == nil {
		return 0, ErrNoContent
	}
	defer func() {
		closeQuietly(h.r)
		h.r = nil
	}()
	return io.Copy(w, h.r)
}

var _ BufferableHandle = (*ReaderHandle)(nil)
