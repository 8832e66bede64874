package docstore

import "context"

// Store persists rendered documents and returns a durable retrieval URL.
type Store interface {
	Put(ctx context.Context, objectKey string, body []byte, contentType string) (string, error)
}
