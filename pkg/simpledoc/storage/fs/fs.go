package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-doc/pkg/simpledoc"
)

// sidecarSuffix names the JSON file written beside each object carrying
// the parameters the filesystem itself cannot record.
const sidecarSuffix = ".meta.json"

// sidecar is the persisted descriptive metadata of one object.
type sidecar struct {
	MimeType string `json:"mime_type,omitempty"`
	Checksum string `json:"checksum,omitempty"`
	ETag     string `json:"etag,omitempty"`
}

// Store is a filesystem implementation of the simpledoc.Store interface.
// Objects live under the base directory at their object key.
type Store struct {
	mu      sync.RWMutex
	baseDir string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Base directory for storing files
}

// New creates a new filesystem storage backend
func New(config Config) (simpledoc.Store, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Store{baseDir: config.BaseDir}, nil
}

// Upload stores content under objectKey with default parameters.
func (s *Store) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	return s.UploadWithParams(ctx, reader, simpledoc.UploadParams{ObjectKey: objectKey})
}

// UploadWithParams stores content and writes its sidecar metadata.
func (s *Store) UploadWithParams(ctx context.Context, reader io.Reader, params simpledoc.UploadParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := filepath.Join(s.baseDir, params.ObjectKey)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return &simpledoc.StorageError{Backend: "fs", Key: params.ObjectKey, Op: "upload", Err: err}
	}

	file, err := os.Create(filePath)
	if err != nil {
		return &simpledoc.StorageError{Backend: "fs", Key: params.ObjectKey, Op: "upload", Err: err}
	}
	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		return &simpledoc.StorageError{Backend: "fs", Key: params.ObjectKey, Op: "upload", Err: err}
	}
	if err := file.Close(); err != nil {
		return &simpledoc.StorageError{Backend: "fs", Key: params.ObjectKey, Op: "upload", Err: err}
	}

	etag := params.Checksum
	if etag == "" {
		etag = uuid.NewString()
	}
	sc := sidecar{MimeType: params.MimeType, Checksum: params.Checksum, ETag: etag}
	data, err := json.Marshal(sc)
	if err != nil {
		return &simpledoc.StorageError{Backend: "fs", Key: params.ObjectKey, Op: "upload", Err: err}
	}
	if err := os.WriteFile(filePath+sidecarSuffix, data, 0644); err != nil {
		return &simpledoc.StorageError{Backend: "fs", Key: params.ObjectKey, Op: "upload", Err: err}
	}
	return nil
}

// Download opens the full object for reading.
func (s *Store) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := filepath.Join(s.baseDir, objectKey)

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, &simpledoc.StorageError{Backend: "fs", Key: objectKey, Op: "download", Err: simpledoc.ErrObjectNotFound}
	} else if err != nil {
		return nil, &simpledoc.StorageError{Backend: "fs", Key: objectKey, Op: "download", Err: err}
	}

	return file, nil
}

// sectionReadCloser reads one byte range of an open file and closes the
// file when done.
type sectionReadCloser struct {
	io.Reader
	file *os.File
}

func (r *sectionReadCloser) Close() error {
	return r.file.Close()
}

// DownloadRange opens length bytes of the object starting at offset. A
// range reaching past the end is truncated; an offset at or past the end
// is invalid.
func (s *Store) DownloadRange(ctx context.Context, objectKey string, offset, length int64) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := filepath.Join(s.baseDir, objectKey)

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, &simpledoc.StorageError{Backend: "fs", Key: objectKey, Op: "download-range", Err: simpledoc.ErrObjectNotFound}
	} else if err != nil {
		return nil, &simpledoc.StorageError{Backend: "fs", Key: objectKey, Op: "download-range", Err: err}
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, &simpledoc.StorageError{Backend: "fs", Key: objectKey, Op: "download-range", Err: err}
	}

	size := info.Size()
	if offset < 0 || length <= 0 || offset >= size {
		file.Close()
		return nil, &simpledoc.StorageError{Backend: "fs", Key: objectKey, Op: "download-range", Err: simpledoc.ErrInvalidRange}
	}
	if offset+length > size {
		length = size - offset
	}

	return &sectionReadCloser{
		Reader: io.NewSectionReader(file, offset, length),
		file:   file,
	}, nil
}

// GetObjectMeta retrieves metadata for a stored object. The sidecar's
// mimetype wins; without one the content type is detected from the file's
// first bytes.
func (s *Store) GetObjectMeta(ctx context.Context, objectKey string) (*simpledoc.ObjectMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := filepath.Join(s.baseDir, objectKey)

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, &simpledoc.StorageError{Backend: "fs", Key: objectKey, Op: "stat", Err: simpledoc.ErrObjectNotFound}
	} else if err != nil {
		return nil, &simpledoc.StorageError{Backend: "fs", Key: objectKey, Op: "stat", Err: err}
	}

	var sc sidecar
	if data, err := os.ReadFile(filePath + sidecarSuffix); err == nil {
		_ = json.Unmarshal(data, &sc)
	}

	contentType := sc.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
		if file, err := os.Open(filePath); err == nil {
			defer file.Close()
			buffer := make([]byte, 512)
			if n, err := file.Read(buffer); err == nil {
				contentType = http.DetectContentType(buffer[:n])
			}
		}
	}

	return &simpledoc.ObjectMeta{
		Key:         objectKey,
		Size:        info.Size(),
		ContentType: contentType,
		Checksum:    sc.Checksum,
		ETag:        sc.ETag,
		UpdatedAt:   info.ModTime(),
		Metadata:    map[string]string{"content_type": contentType},
	}, nil
}

// Delete removes the object and its sidecar, then prunes empty
// directories.
func (s *Store) Delete(ctx context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := filepath.Join(s.baseDir, objectKey)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return &simpledoc.StorageError{Backend: "fs", Key: objectKey, Op: "delete", Err: simpledoc.ErrObjectNotFound}
	}

	if err := os.Remove(filePath); err != nil {
		return &simpledoc.StorageError{Backend: "fs", Key: objectKey, Op: "delete", Err: err}
	}
	_ = os.Remove(filePath + sidecarSuffix)

	s.cleanupEmptyDirectories(filepath.Dir(filePath))

	return nil
}

// cleanupEmptyDirectories recursively removes empty directories up to the
// base directory.
func (s *Store) cleanupEmptyDirectories(dir string) {
	if dir == s.baseDir {
		return
	}

	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		if os.Remove(dir) == nil {
			s.cleanupEmptyDirectories(filepath.Dir(dir))
		}
	}
}
