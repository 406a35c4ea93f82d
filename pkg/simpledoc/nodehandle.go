package simpledoc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// NodeHandle adapts a parsed XML document tree to the document model. It
// is pinned to FormatXML and queries its tree with XPath expressions.
type NodeHandle struct {
	baseHandle
	doc *xmlquery.Node
}

// NewNodeHandle creates an empty tree handle.
func NewNodeHandle() *NodeHandle {
	return &NodeHandle{baseHandle: newBaseHandle(FormatXML)}
}

// Get returns the document node, or nil when the handle is empty.
func (h *NodeHandle) Get() *xmlquery.Node {
	return h.doc
}

// HasContent reports whether the handle holds a document.
func (h *NodeHandle) HasContent() bool {
	return h.doc != nil
}

// Set replaces the handle's document.
func (h *NodeHandle) Set(doc *xmlquery.Node) {
	h.doc = doc
}

// With sets the document and returns the handle for chaining.
func (h *NodeHandle) With(doc *xmlquery.Node) *NodeHandle {
	h.Set(doc)
	return h
}

// WithMimetype sets the mimetype and returns the handle for chaining.
func (h *NodeHandle) WithMimetype(mimetype string) *NodeHandle {
	h.SetMimetype(mimetype)
	return h
}

// Clear empties the handle.
func (h *NodeHandle) Clear() {
	h.doc = nil
}

// Query executes an XPath expression against the document and returns the
// matching nodes. Malformed expressions fail with a compile error.
func (h *NodeHandle) Query(expr string) ([]*xmlquery.Node, error) {
	if h.doc == nil {
		return nil, ErrNoContent
	}
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}
	nodes, err := xmlquery.QueryAll(h.doc, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	return nodes, nil
}

// QueryText returns the inner text of the first node matching the
// expression, or the empty string when nothing matches.
func (h *NodeHandle) QueryText(expr string) (string, error) {
	if h.doc == nil {
		return "", ErrNoContent
	}
	if _, err := xpath.Compile(expr); err != nil {
		return "", fmt.Errorf("invalid xpath %q: %w", expr, err)
	}
	node, err := xmlquery.Query(h.doc, expr)
	if err != nil {
		return "", fmt.Errorf("xpath query failed: %w", err)
	}
	if node == nil {
		return "", nil
	}
	return node.InnerText(), nil
}

// FromBuffer parses a document from buf. A nil or empty buffer clears the
// handle.
func (h *NodeHandle) FromBuffer(buf []byte) error {
	if len(buf) == 0 {
		h.doc = nil
		return nil
	}
	return h.Receive(bytes.NewReader(buf))
}

// ToBuffer serializes the document into a fresh buffer, or returns nil
// when the handle is empty.
func (h *NodeHandle) ToBuffer() ([]byte, error) {
	if h.doc == nil {
		return nil, nil
	}
	return []byte(h.doc.OutputXML(true)), nil
}

// Receive parses the stream into a document tree, replacing the current
// tree only on success. The stream is closed when it implements io.Closer;
// close errors are discarded.
func (h *NodeHandle) Receive(r io.Reader) error {
	defer closeQuietly(r)
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return &ConversionError{Format: FormatXML, Op: "parse", Err: err}
	}
	h.doc = doc
	return nil
}

// Send returns the handle as its own sender, or ErrNoContent when empty.
func (h *NodeHandle) Send() (io.WriterTo, error) {
	if h.doc == nil {
		return nil, ErrNoContent
	}
	return h, nil
}

// WriteTo serializes the document to w.
func (h *NodeHandle) WriteTo(w io.Writer) (int64, error) {
	if h.doc == nil {
		return 0, ErrNoContent
	}
	n, err := io.WriteString(w, h.doc.OutputXML(true))
	return int64(n), err
}

// String renders the document for diagnostics; it returns the empty
// string when the handle is empty.
func (h *NodeHandle) String() string {
	if h.doc == nil {
		return ""
	}
	return h.doc.OutputXML(true)
}

var _ BufferableHandle = (*NodeHandle)(nil)
