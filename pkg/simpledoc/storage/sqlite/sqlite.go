package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-doc/pkg/simpledoc"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// schema creates the table the backend stores documents in. Timestamps
// are stored as RFC 3339 text.
const schema = `
CREATE TABLE IF NOT EXISTS doc_objects (
    object_key TEXT PRIMARY KEY,
    mime_type  TEXT NOT NULL DEFAULT 'application/octet-stream',
    data       BLOB NOT NULL,
    checksum   TEXT NOT NULL DEFAULT '',
    etag       TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL
)`

// Config options for the SQLite backend
type Config struct {
	Path string // Database file path, or ":memory:" for a throwaway store
}

// Store is a SQLite implementation of the simpledoc.Store interface.
// Documents live in a single doc_objects table; ranged reads run as
// substr over the stored blob.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database file and ensures the
// schema.
func New(config Config) (*Store, error) {
	if config.Path == "" {
		return nil, errors.New("database path is required")
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if config.Path == ":memory:" {
		// An in-memory database exists per connection.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func wrapErr(op, key string, err error) error {
	return &simpledoc.StorageError{Backend: "sqlite", Key: key, Op: op, Err: err}
}

// Upload stores content under objectKey with default parameters.
func (s *Store) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	return s.UploadWithParams(ctx, reader, simpledoc.UploadParams{ObjectKey: objectKey})
}

// UploadWithParams stores content with descriptive parameters, replacing
// any previous object under the same key.
func (s *Store) UploadWithParams(ctx context.Context, reader io.Reader, params simpledoc.UploadParams) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return wrapErr("upload", params.ObjectKey, err)
	}

	mimeType := params.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	etag := params.Checksum
	if etag == "" {
		etag = uuid.NewString()
	}

	query := `
		INSERT INTO doc_objects (object_key, mime_type, data, checksum, etag, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (object_key) DO UPDATE SET
			mime_type  = excluded.mime_type,
			data       = excluded.data,
			checksum   = excluded.checksum,
			etag       = excluded.etag,
			updated_at = excluded.updated_at`

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, query, params.ObjectKey, mimeType, data, params.Checksum, etag, now); err != nil {
		return wrapErr("upload", params.ObjectKey, err)
	}
	return nil
}

// Download opens the full object for reading.
func (s *Store) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM doc_objects WHERE object_key = ?`, objectKey).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr("download", objectKey, simpledoc.ErrObjectNotFound)
		}
		return nil, wrapErr("download", objectKey, err)
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// DownloadRange opens length bytes of the object starting at offset.
// substr truncates ranges past the end of the data on its own; the offset
// bound is checked against length(data).
func (s *Store) DownloadRange(ctx context.Context, objectKey string, offset, length int64) (io.ReadCloser, error) {
	if offset < 0 || length <= 0 {
		return nil, wrapErr("download-range", objectKey, simpledoc.ErrInvalidRange)
	}

	query := `SELECT length(data), substr(data, ? + 1, ?) FROM doc_objects WHERE object_key = ?`

	var size int64
	var chunk []byte
	err := s.db.QueryRowContext(ctx, query, offset, length, objectKey).Scan(&size, &chunk)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr("download-range", objectKey, simpledoc.ErrObjectNotFound)
		}
		return nil, wrapErr("download-range", objectKey, err)
	}
	if offset >= size {
		return nil, wrapErr("download-range", objectKey, simpledoc.ErrInvalidRange)
	}

	return io.NopCloser(bytes.NewReader(chunk)), nil
}

// GetObjectMeta retrieves metadata for a stored object.
func (s *Store) GetObjectMeta(ctx context.Context, objectKey string) (*simpledoc.ObjectMeta, error) {
	query := `SELECT length(data), mime_type, checksum, etag, updated_at FROM doc_objects WHERE object_key = ?`

	var meta simpledoc.ObjectMeta
	var updatedAt string
	err := s.db.QueryRowContext(ctx, query, objectKey).Scan(
		&meta.Size, &meta.ContentType, &meta.Checksum, &meta.ETag, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr("stat", objectKey, simpledoc.ErrObjectNotFound)
		}
		return nil, wrapErr("stat", objectKey, err)
	}

	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		meta.UpdatedAt = t
	}
	meta.Key = objectKey
	meta.Metadata = map[string]string{"mime_type": meta.ContentType}
	return &meta, nil
}

// Delete removes the object.
func (s *Store) Delete(ctx context.Context, objectKey string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM doc_objects WHERE object_key = ?`, objectKey)
	if err != nil {
		return wrapErr("delete", objectKey, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return wrapErr("delete", objectKey, simpledoc.ErrObjectNotFound)
	}
	return nil
}

var _ simpledoc.Store = (*Store)(nil)
