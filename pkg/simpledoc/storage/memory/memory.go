package memory

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-doc/pkg/simpledoc"
)

// object is one stored document and its descriptive metadata.
type object struct {
	data      []byte
	mimeType  string
	checksum  string
	etag      string
	updatedAt time.Time
}

// Store is an in-memory implementation of the simpledoc.Store interface
type Store struct {
	mu      sync.RWMutex
	objects map[string]*object
}

// New creates a new in-memory storage backend
func New() simpledoc.Store {
	return &Store{
		objects: make(map[string]*object),
	}
}

// Upload stores content under objectKey with default parameters.
func (s *Store) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	return s.UploadWithParams(ctx, reader, simpledoc.UploadParams{ObjectKey: objectKey})
}

// UploadWithParams stores content with descriptive parameters. The data is
// copied, so the caller's buffers stay independent of the store.
func (s *Store) UploadWithParams(ctx context.Context, reader io.Reader, params simpledoc.UploadParams) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return &simpledoc.StorageError{Backend: "memory", Key: params.ObjectKey, Op: "upload", Err: err}
	}

	mimeType := params.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	etag := params.Checksum
	if etag == "" {
		etag = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[params.ObjectKey] = &object{
		data:      data,
		mimeType:  mimeType,
		checksum:  params.Checksum,
		etag:      etag,
		updatedAt: time.Now().UTC(),
	}
	return nil
}

// Download opens the full object for reading.
func (s *Store) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, exists := s.objects[objectKey]
	if !exists {
		return nil, &simpledoc.StorageError{Backend: "memory", Key: objectKey, Op: "download", Err: simpledoc.ErrObjectNotFound}
	}

	// Copy so later writes to the key cannot alter an open reader.
	data := append([]byte(nil), obj.data...)
	return io.NopCloser(bytes.NewReader(data)), nil
}

// DownloadRange opens length bytes of the object starting at offset. A
// range reaching past the end is truncated; an offset at or past the end
// is invalid.
func (s *Store) DownloadRange(ctx context.Context, objectKey string, offset, length int64) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, exists := s.objects[objectKey]
	if !exists {
		return nil, &simpledoc.StorageError{Backend: "memory", Key: objectKey, Op: "download-range", Err: simpledoc.ErrObjectNotFound}
	}

	size := int64(len(obj.data))
	if offset < 0 || length <= 0 || offset >= size {
		return nil, &simpledoc.StorageError{Backend: "memory", Key: objectKey, Op: "download-range", Err: simpledoc.ErrInvalidRange}
	}
	end := offset + length
	if end > size {
		end = size
	}

	data := append([]byte(nil), obj.data[offset:end]...)
	return io.NopCloser(bytes.NewReader(data)), nil
}

// GetObjectMeta retrieves metadata for a stored object.
func (s *Store) GetObjectMeta(ctx context.Context, objectKey string) (*simpledoc.ObjectMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, exists := s.objects[objectKey]
	if !exists {
		return nil, &simpledoc.StorageError{Backend: "memory", Key: objectKey, Op: "stat", Err: simpledoc.ErrObjectNotFound}
	}

	return &simpledoc.ObjectMeta{
		Key:         objectKey,
		Size:        int64(len(obj.data)),
		ContentType: obj.mimeType,
		Checksum:    obj.checksum,
		ETag:        obj.etag,
		UpdatedAt:   obj.updatedAt,
		Metadata:    map[string]string{"mime_type": obj.mimeType},
	}, nil
}

// Delete removes the object.
func (s *Store) Delete(ctx context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.objects[objectKey]; !exists {
		return &simpledoc.StorageError{Backend: "memory", Key: objectKey, Op: "delete", Err: simpledoc.ErrObjectNotFound}
	}

	delete(s.objects, objectKey)
	return nil
}
