package storage

import (
	"context"
	"io"
)

// Store puts customer image blobs somewhere reachable by URL. The
// reconciliation core never sees this interface; uploads are a pure
// side concern of customer onboarding.
type Store interface {
	// Put writes the blob under key and returns a public URL for it.
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}
