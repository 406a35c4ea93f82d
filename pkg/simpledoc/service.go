package simpledoc

import (
	"context"
)

// Service defines the document operations of the simple-doc library.
type Service interface {
	// Write stores the handle's content under id.
	Write(ctx context.Context, id DocID, h WriteHandle) error

	// Read loads the whole document into the handle.
	Read(ctx context.Context, id DocID, h ReadHandle) error

	// ReadRange loads length bytes of the document starting at offset
	// into the handle.
	ReadRange(ctx context.Context, id DocID, h ReadHandle, offset, length int64) error

	// ReadMetadata loads the document's metadata document into the
	// handle.
	ReadMetadata(ctx context.Context, id DocID, h ReadHandle) error

	// Exists reports whether a document is stored under id.
	Exists(ctx context.Context, id DocID) (bool, error)

	// Delete removes the document.
	Delete(ctx context.Context, id DocID) error

	// Storage backend operations
	RegisterStore(name string, store Store)
	GetStore(name string) (Store, error)
}
