package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-doc/pkg/simpledoc"
)

// DBTX is an interface that allows us to use either a connection pool or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Schema creates the table the backend stores documents in.
const Schema = `
CREATE TABLE IF NOT EXISTS doc_objects (
    object_key TEXT PRIMARY KEY,
    mime_type  TEXT NOT NULL DEFAULT 'application/octet-stream',
    data       BYTEA NOT NULL,
    checksum   TEXT NOT NULL DEFAULT '',
    etag       TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store is a PostgreSQL implementation of the simpledoc.Store interface.
// Documents live in a single doc_objects table; ranged reads run as
// substring over the stored bytea.
type Store struct {
	db DBTX
}

// New creates a new PostgreSQL storage backend
func New(db DBTX) simpledoc.Store {
	return &Store{db: db}
}

// NewWithPool creates a new PostgreSQL storage backend over a connection pool
func NewWithPool(pool *pgxpool.Pool) simpledoc.Store {
	return &Store{db: pool}
}

// EnsureSchema creates the doc_objects table if it doesn't exist.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// handlePostgresError maps driver errors onto readable failures.
func handlePostgresError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01": // undefined_table
			return fmt.Errorf("doc_objects table does not exist - run EnsureSchema or a migration")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", op, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", op, err)
}

func wrapErr(op, key string, err error) error {
	return &simpledoc.StorageError{Backend: "postgres", Key: key, Op: op, Err: err}
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
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (object_key) DO UPDATE SET
			mime_type  = EXCLUDED.mime_type,
			data       = EXCLUDED.data,
			checksum   = EXCLUDED.checksum,
			etag       = EXCLUDED.etag,
			updated_at = EXCLUDED.updated_at`

	if _, err := s.db.Exec(ctx, query, params.ObjectKey, mimeType, data, params.Checksum, etag, time.Now().UTC()); err != nil {
		return wrapErr("upload", params.ObjectKey, handlePostgresError("upload", err))
	}
	return nil
}

// Download opens the full object for reading.
func (s *Store) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `SELECT data FROM doc_objects WHERE object_key = $1`, objectKey).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wrapErr("download", objectKey, simpledoc.ErrObjectNotFound)
		}
		return nil, wrapErr("download", objectKey, handlePostgresError("download", err))
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// DownloadRange opens length bytes of the object starting at offset.
// substring truncates ranges past the end of the data on its own; the
// offset bound is checked against octet_length.
func (s *Store) DownloadRange(ctx context.Context, objectKey string, offset, length int64) (io.ReadCloser, error) {
	if offset < 0 || length <= 0 {
		return nil, wrapErr("download-range", objectKey, simpledoc.ErrInvalidRange)
	}

	query := `
		SELECT octet_length(data), substring(data FROM ($2::int + 1) FOR $3::int)
		FROM doc_objects WHERE object_key = $1`

	var size int64
	var chunk []byte
	err := s.db.QueryRow(ctx, query, objectKey, offset, length).Scan(&size, &chunk)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wrapErr("download-range", objectKey, simpledoc.ErrObjectNotFound)
		}
		return nil, wrapErr("download-range", objectKey, handlePostgresError("download-range", err))
	}
	if offset >= size {
		return nil, wrapErr("download-range", objectKey, simpledoc.ErrInvalidRange)
	}

	return io.NopCloser(bytes.NewReader(chunk)), nil
}

// GetObjectMeta retrieves metadata for a stored object.
func (s *Store) GetObjectMeta(ctx context.Context, objectKey string) (*simpledoc.ObjectMeta, error) {
	query := `
		SELECT octet_length(data), mime_type, checksum, etag, updated_at
		FROM doc_objects WHERE object_key = $1`

	var meta simpledoc.ObjectMeta
	err := s.db.QueryRow(ctx, query, objectKey).Scan(
		&meta.Size, &meta.ContentType, &meta.Checksum, &meta.ETag, &meta.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wrapErr("stat", objectKey, simpledoc.ErrObjectNotFound)
		}
		return nil, wrapErr("stat", objectKey, handlePostgresError("stat", err))
	}

	meta.Key = objectKey
	meta.Metadata = map[string]string{"mime_type": meta.ContentType}
	return &meta, nil
}

// Delete removes the object.
func (s *Store) Delete(ctx context.Context, objectKey string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM doc_objects WHERE object_key = $1`, objectKey)
	if err != nil {
		return wrapErr("delete", objectKey, handlePostgresError("delete", err))
	}
	if tag.RowsAffected() == 0 {
		return wrapErr("delete", objectKey, simpledoc.ErrObjectNotFound)
	}
	return nil
}
