package simpledoc

import (
	"fmt"
	"io"
)

// ContentHandle is the surface shared by every handle kind. A handle is
// pinned to one wire format for its whole lifetime; only the mimetype may
// be adjusted for transport.
type ContentHandle interface {
	Format() Format
	SetFormat(format Format) error
	Mimetype() string
	SetMimetype(mimetype string)
}

// ReadHandle receives document content from a raw byte stream.
type ReadHandle interface {
	ContentHandle

	// Receive decodes the stream into the handle's content. The stream is
	// closed when it implements io.Closer, whether or not decoding
	// succeeds; close errors are discarded.
	Receive(r io.Reader) error
}

// WriteHandle produces document content as a raw byte stream.
type WriteHandle interface {
	ContentHandle

	// Send returns a sender for the current content, or ErrNoContent when
	// the handle is empty.
	Send() (io.WriterTo, error)
}

// BufferableHandle adds whole-document buffer conversions on top of the
// streaming contracts.
type BufferableHandle interface {
	ReadHandle
	WriteHandle

	// FromBuffer decodes content from buf. A nil or empty buffer clears
	// the handle.
	FromBuffer(buf []byte) error

	// ToBuffer encodes the current content into a freshly allocated
	// buffer, or returns nil when the handle is empty.
	ToBuffer() ([]byte, error)
}

// baseHandle carries the pinned format and mutable mimetype shared by all
// handle kinds.
type baseHandle struct {
	format   Format
	mimetype string
}

func newBaseHandle(format Format) baseHandle {
	return baseHandle{format: format, mimetype: format.DefaultMimetype()}
}

// Format returns the handle's pinned format.
func (h *baseHandle) Format() Format {
	return h.format
}

// SetFormat accepts only the pinned format; any other value fails with
// ErrFormatPinned.
func (h *baseHandle) SetFormat(format Format) error {
	if format == h.format {
		return nil
	}
	return fmt.Errorf("%w: cannot change %s handle to %s", ErrFormatPinned, h.format, format)
}

// Mimetype returns the mimetype the handle sends and receives as.
func (h *baseHandle) Mimetype() string {
	return h.mimetype
}

// SetMimetype overrides the handle's mimetype.
func (h *baseHandle) SetMimetype(mimetype string) {
	h.mimetype = mimetype
}

// closeQuietly closes r when it implements io.Closer and discards the
// error.
func closeQuietly(r any) {
	if c, ok := r.(io.Closer); ok {
		_ = c.Close()
	}
}
