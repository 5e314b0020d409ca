package interfaces

import (
	"context"
	"io"
	"time"
)

// ObjectStorage abstracts the bucket backing uploaded site assets. The
// contract is intentionally small: write a payload under a path, delete it,
// and mint an expiring URL that grants read access without credentials.
type ObjectStorage interface {
	// Write stores the payload under path, replacing any existing object.
	Write(ctx context.Context, path string, contentType string, payload io.Reader) error
	// Delete removes the object at path. Deleting a missing object is not an
	// error; providers should treat it as a no-op.
	Delete(ctx context.Context, path string) error
	// SignedURL returns a pre-authenticated read URL for the object at path.
	// A zero TTL asks the provider for its longest supported expiry.
	SignedURL(path string, ttl time.Duration) (*SignedURL, error)
	// ObjectPath maps a public or signed URL back to the storage path it was
	// minted for, returning false when the URL does not belong to this store.
	ObjectPath(url string) (string, bool)
	// List enumerates stored object paths under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// SignedURL represents an expiring URL that grants temporary access to a
// stored object.
type SignedURL struct {
	URL       string
	Method    string
	ExpiresAt time.Time
}
