package simpledoc

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zeebo/blake3"
)

// service implements the Service interface
type service struct {
	stores       map[string]Store
	defaultStore string
	logger       *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithStore adds a storage backend. The first backend registered becomes
// the default unless WithDefaultStore selects another.
func WithStore(name string, store Store) Option {
	return func(s *service) {
		if s.stores == nil {
			s.stores = make(map[string]Store)
		}
		s.stores[name] = store
		if s.defaultStore == "" {
			s.defaultStore = name
		}
	}
}

// WithDefaultStore selects the backend the document operations use.
func WithDefaultStore(name string) Option {
	return func(s *service) {
		s.defaultStore = name
	}
}

// WithLogger sets the logger used at the operation boundary.
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		stores: make(map[string]Store),
	}

	for _, option := range options {
		option(s)
	}

	if len(s.stores) == 0 {
		return nil, fmt.Errorf("at least one storage backend is required")
	}
	if _, ok := s.stores[s.defaultStore]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, s.defaultStore)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// RegisterStore adds a storage backend after construction.
func (s *service) RegisterStore(name string, store Store) {
	s.stores[name] = store
	if s.defaultStore == "" {
		s.defaultStore = name
	}
}

// GetStore returns a registered storage backend by name.
func (s *service) GetStore(name string) (Store, error) {
	store, ok := s.stores[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, name)
	}
	return store, nil
}

func (s *service) store() (Store, error) {
	return s.GetStore(s.defaultStore)
}

// fail wraps err with the operation context and logs it once. Handles and
// converters below this boundary never log.
func (s *service) fail(op string, id DocID, err error) error {
	s.logger.Error("document operation failed", "op", op, "uri", id.URI, "error", err)
	return &DocumentError{URI: id.URI, Op: op, Err: err}
}

// Write stores the handle's content under id. The content is buffered
// before upload, and a BLAKE3 checksum of the buffered bytes is recorded
// with the object.
func (s *service) Write(ctx context.Context, id DocID, h WriteHandle) error {
	if id.URI == "" {
		return s.fail("write", id, ErrEmptyURI)
	}
	store, err := s.store()
	if err != nil {
		return s.fail("write", id, err)
	}
	sender, err := h.Send()
	if err != nil {
		return s.fail("write", id, err)
	}
	var buf bytes.Buffer
	if _, err := sender.WriteTo(&buf); err != nil {
		return s.fail("write", id, err)
	}
	sum := blake3.Sum256(buf.Bytes())
	params := UploadParams{
		ObjectKey: id.objectKey(),
		MimeType:  writeMimetype(id, h),
		Checksum:  hex.EncodeToString(sum[:]),
	}
	if err := store.UploadWithParams(ctx, bytes.NewReader(buf.Bytes()), params); err != nil {
		return s.fail("write", id, err)
	}
	return nil
}

// writeMimetype resolves the mimetype recorded on write: the identifier's
// wins, then the handle's, then the handle format's default.
func writeMimetype(id DocID, h ContentHandle) string {
	if id.Mimetype != "" {
		return id.Mimetype
	}
	if mt := h.Mimetype(); mt != "" {
		return mt
	}
	return h.Format().DefaultMimetype()
}

// Read loads the whole document into the handle.
func (s *service) Read(ctx context.Context, id DocID, h ReadHandle) error {
	if id.URI == "" {
		return s.fail("read", id, ErrEmptyURI)
	}
	store, err := s.store()
	if err != nil {
		return s.fail("read", id, err)
	}
	rc, err := store.Download(ctx, id.objectKey())
	if err != nil {
		return s.fail("read", id, err)
	}
	if err := h.Receive(rc); err != nil {
		return s.fail("read", id, err)
	}
	return nil
}

// ReadRange loads length bytes of the document starting at offset into
// the handle.
func (s *service) ReadRange(ctx context.Context, id DocID, h ReadHandle, offset, length int64) error {
	if id.URI == "" {
		return s.fail("read-range", id, ErrEmptyURI)
	}
	if offset < 0 || length <= 0 {
		return s.fail("read-range", id, fmt.Errorf("%w: offset %d length %d", ErrInvalidRange, offset, length))
	}
	store, err := s.store()
	if err != nil {
		return s.fail("read-range", id, err)
	}
	rc, err := store.DownloadRange(ctx, id.objectKey(), offset, length)
	if err != nil {
		return s.fail("read-range", id, err)
	}
	if err := h.Receive(rc); err != nil {
		return s.fail("read-range", id, err)
	}
	return nil
}

// ReadMetadata loads the document's metadata document into the handle.
func (s *service) ReadMetadata(ctx context.Context, id DocID, h ReadHandle) error {
	if id.URI == "" {
		return s.fail("read-metadata", id, ErrEmptyURI)
	}
	store, err := s.store()
	if err != nil {
		return s.fail("read-metadata", id, err)
	}
	meta, err := store.GetObjectMeta(ctx, id.objectKey())
	if err != nil {
		return s.fail("read-metadata", id, err)
	}
	buf, err := marshalMetadata(newMetadataDocument(meta))
	if err != nil {
		return s.fail("read-metadata", id, err)
	}
	if err := h.Receive(bytes.NewReader(buf)); err != nil {
		return s.fail("read-metadata", id, err)
	}
	return nil
}

// Exists reports whether a document is stored under id.
func (s *service) Exists(ctx context.Context, id DocID) (bool, error) {
	if id.URI == "" {
		return false, s.fail("exists", id, ErrEmptyURI)
	}
	store, err := s.store()
	if err != nil {
		return false, s.fail("exists", id, err)
	}
	if _, err := store.GetObjectMeta(ctx, id.objectKey()); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return false, nil
		}
		return false, s.fail("exists", id, err)
	}
	return true, nil
}

// Delete removes the document.
func (s *service) Delete(ctx context.Context, id DocID) error {
	if id.URI == "" {
		return s.fail("delete", id, ErrEmptyURI)
	}
	store, err := s.store()
	if err != nil {
		return s.fail("delete", id, err)
	}
	if err := store.Delete(ctx, id.objectKey()); err != nil {
		return s.fail("delete", id, err)
	}
	return nil
}
