package simpledoc

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNilContext indicates a handle or factory was given no conversion context
	ErrNilContext = errors.New("nil conversion context")

	// ErrNoTypes indicates a factory was constructed without any types to handle
	ErrNoTypes = errors.New("no types to handle")

	// ErrFormatPinned indicates an attempt to change a handle's pinned format
	ErrFormatPinned = errors.New("handle format is pinned")

	// ErrNotBound indicates a type the conversion context does not know
	ErrNotBound = errors.New("type not bound in conversion context")

	// ErrTypeMismatch indicates content could not be cast to the requested type
	ErrTypeMismatch = errors.New("content type mismatch")

	// ErrInvalidTarget indicates a nil or non-pointer cast target
	ErrInvalidTarget = errors.New("target must be a non-nil pointer")

	// ErrNoContent indicates a handle had nothing to write
	ErrNoContent = errors.New("no content to write")

	// ErrEmptyURI indicates a document identifier without a URI
	ErrEmptyURI = errors.New("document URI is empty")

	// ErrInvalidRange indicates an unsatisfiable byte range
	ErrInvalidRange = errors.New("invalid byte range")

	// ErrObjectNotFound indicates a stored object was not found
	ErrObjectNotFound = errors.New("object not found")

	// ErrUnknownStore indicates a storage backend name with no registration
	ErrUnknownStore = errors.New("unknown storage backend")
)

// ConversionError represents a marshal or unmarshal failure inside a handle
// or converter
type ConversionError struct {
	Format Format
	Op     string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Format, e.Op, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// DocumentError represents a document operation failure
type DocumentError struct {
	URI string
	Op  string
	Err error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document operation %s failed for %s: %v", e.Op, e.URI, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// StorageError represents a storage backend failure
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
