package simpledoc

import (
	"encoding/xml"
	"time"
)

// FilterCapabilityNone reports that a stored object supports no content
// filtering. Binary payloads always report it.
const FilterCapabilityNone = "none"

// MetadataDocument is the structured document produced by metadata reads:
//
//	<metadata>
//	  <properties>
//	    <content-type>image/png</content-type>
//	    <filter-capabilities>none</filter-capabilities>
//	    <size>815</size>
//	  </properties>
//	</metadata>
//
// It is exported so callers can register it in their own factories and
// read metadata with a typed handle.
type MetadataDocument struct {
	XMLName    xml.Name           `xml:"metadata"`
	Properties MetadataProperties `xml:"properties"`
}

// MetadataProperties carries a stored object's descriptive properties.
type MetadataProperties struct {
	ContentType        string `xml:"content-type"`
	FilterCapabilities string `xml:"filter-capabilities"`
	Size               int64  `xml:"size"`
	Checksum           string `xml:"checksum,omitempty"`
	ETag               string `xml:"etag,omitempty"`
	LastModified       string `xml:"last-modified,omitempty"`
}

// metadataContext backs the package's own metadata serialization.
var metadataContext = newMetadataContext()

func newMetadataContext() *XMLContext {
	c := NewXMLContext()
	if err := c.Register(Bind[*MetadataDocument]()); err != nil {
		panic(err)
	}
	return c
}

// newMetadataDocument builds the metadata document for a stored object.
func newMetadataDocument(meta *ObjectMeta) *MetadataDocument {
	props := MetadataProperties{
		ContentType:        meta.ContentType,
		FilterCapabilities: filterCapabilities(meta),
		Size:               meta.Size,
		Checksum:           meta.Checksum,
		ETag:               meta.ETag,
	}
	if !meta.UpdatedAt.IsZero() {
		props.LastModified = meta.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return &MetadataDocument{Properties: props}
}

func filterCapabilities(meta *ObjectMeta) string {
	if v, ok := meta.Metadata["filter-capabilities"]; ok && v != "" {
		return v
	}
	return FilterCapabilityNone
}

// marshalMetadata serializes the document with the package's own
// conversion machinery.
func marshalMetadata(doc *MetadataDocument) ([]byte, error) {
	return metadataContext.NewMarshaller().MarshalBytes(doc)
}
