package simpledoc

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// Format identifies the wire format a handle is pinned to
type Format string

const (
	FormatUnknown Format = "unknown"
	FormatXML     Format = "xml"
	FormatJSON    Format = "json"
	FormatText    Format = "text"
	FormatBinary  Format = "binary"
)

// String returns the string representation of the format
func (f Format) String() string {
	return string(f)
}

// IsValid checks if the format is a known concrete format
func (f Format) IsValid() bool {
	switch f {
	case FormatXML, FormatJSON, FormatText, FormatBinary:
		return true
	default:
		return false
	}
}

// DefaultMimetype returns the mimetype used when neither the document
// identifier nor the handle carries one.
func (f Format) DefaultMimetype() string {
	switch f {
	case FormatXML:
		return "application/xml"
	case FormatJSON:
		return "application/json"
	case FormatText:
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// DocID identifies a document and optionally the mimetype recorded when it
// is written.
type DocID struct {
	URI      string
	Mimetype string
}

// NewDocID creates an identifier for the given URI.
func NewDocID(uri string) DocID {
	return DocID{URI: uri}
}

// WithMimetype returns a copy of the identifier with the mimetype set.
func (id DocID) WithMimetype(mimetype string) DocID {
	id.Mimetype = mimetype
	return id
}

// GenerateDocID mints an identifier under dir with a fresh UUID name and
// the given extension.
func GenerateDocID(dir, ext string) DocID {
	name := uuid.New().String()
	if ext != "" {
		name = name + "." + strings.TrimPrefix(ext, ".")
	}
	return DocID{URI: path.Join(dir, name)}
}

// objectKey maps the document URI to a storage object key.
func (id DocID) objectKey() string {
	return strings.TrimPrefix(id.URI, "/")
}
