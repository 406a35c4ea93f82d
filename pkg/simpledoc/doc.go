// Package simpledoc provides typed content handles over pluggable document
// storage backends.
//
// A handle adapts a strongly typed in-memory value to the byte-stream
// document model. Each handle kind is pinned to a single wire format for its
// whole lifetime: XMLHandle marshals bound Go types as indented UTF-8 XML,
// NodeHandle carries a parsed XML tree, BytesHandle, StringHandle and
// ReaderHandle carry raw payloads. Handles created by one HandleFactory
// share a single conversion context; conversion machinery is created lazily
// and cached per handle.
//
// The Service interface performs the document operations: write a handle's
// content under a document identifier, read it back whole or as a byte
// range, read a structured metadata document, and delete. Storage backends
// (memory, filesystem, S3, Postgres, SQLite) are provided under subpackages
// and implement the Store interface.
//
// Handles, converters and the structures they hold are not safe for
// concurrent use; the Service and the storage backends are.
package simpledoc
