package application

import (
	"context"
	"io"
	"time"
)

// SessionStore tracks live login sessions by session id.
type SessionStore interface {
	Save(ctx context.Context, sid, userID, username, role string, ttl time.Duration) error
	Valid(ctx context.Context, sid, userID string) (bool, error)
	Delete(ctx context.Context, sid string) error
}

// Publisher puts JSON messages on a named queue.
type Publisher interface {
	PublishJSON(ctx context.Context, queue string, body any) error
}

// ImageStore persists an uploaded image and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// SearchIndex mirrors listings into a search engine.
type SearchIndex interface {
	Put(ctx context.Context, id string, doc any) error
	Delete(ctx context.Context, id string) error
}
