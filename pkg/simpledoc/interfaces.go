package simpledoc

import (
	"context"
	"io"
	"time"
)

// UploadParams describes an object being stored.
type UploadParams struct {
	ObjectKey string
	MimeType  string
	Checksum  string
}

// ObjectMeta describes a stored object.
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	Checksum    string
	ETag        string
	UpdatedAt   time.Time
	Metadata    map[string]string
}

// Store defines the interface for document storage backends.
type Store interface {
	// Upload stores the reader's bytes under objectKey.
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// UploadWithParams stores the reader's bytes with descriptive
	// parameters recorded alongside the object.
	UploadWithParams(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download opens the full object for reading. Missing objects fail
	// with ErrObjectNotFound.
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// DownloadRange opens length bytes of the object starting at offset.
	// A range whose head lies within the object is truncated at the
	// object's end; a negative offset, a non-positive length, or an
	// offset at or past the end fails with ErrInvalidRange.
	DownloadRange(ctx context.Context, objectKey string, offset, length int64) (io.ReadCloser, error)

	// GetObjectMeta returns the stored object's metadata.
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)

	// Delete removes the object.
	Delete(ctx context.Context, objectKey string) error
}
