package simpledoc

import "context"

// Convenience functions for common document operations. These wrap the
// Service interface with handle plumbing for the frequent cases.

// WriteBytes stores raw bytes under id.
func WriteBytes(ctx context.Context, svc Service, id DocID, data []byte) error {
	return svc.Write(ctx, id, NewBytesHandle().With(data))
}

// ReadBytes loads the whole document as raw bytes.
func ReadBytes(ctx context.Context, svc Service, id DocID) ([]byte, error) {
	h := NewBytesHandle()
	if err := svc.Read(ctx, id, h); err != nil {
		return nil, err
	}
	return h.Get(), nil
}

// ReadBytesRange loads length bytes of the document starting at offset.
func ReadBytesRange(ctx context.Context, svc Service, id DocID, offset, length int64) ([]byte, error) {
	h := NewBytesHandle()
	if err := svc.ReadRange(ctx, id, h, offset, length); err != nil {
		return nil, err
	}
	return h.Get(), nil
}

// WriteString stores text under id.
func WriteString(ctx context.Context, svc Service, id DocID, s string) error {
	return svc.Write(ctx, id, NewStringHandle().With(s))
}

// ReadString loads the whole document as text.
func ReadString(ctx context.Context, svc Service, id DocID) (string, error) {
	h := NewStringHandle()
	if err := svc.Read(ctx, id, h); err != nil {
		return "", err
	}
	return h.Get(), nil
}

// ReadMetadataNode loads the metadata document as a queryable tree.
func ReadMetadataNode(ctx context.Context, svc Service, id DocID) (*NodeHandle, error) {
	h := NewNodeHandle()
	if err := svc.ReadMetadata(ctx, id, h); err != nil {
		return nil, err
	}
	return h, nil
}
