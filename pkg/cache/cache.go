package cache

import (
	"context"
	"time"
)

// Store is a string-keyed lookup table for backend responses. Entries never
// expire on write: each stores the payload with the moment it was written, and
// Get compares that timestamp against the max age the caller supplies. Callers
// that want a fresh value pass a smaller maxAge or delete the key.
type Store interface {
	// Get unmarshals the cached payload into dest. It returns errors.ErrCacheMiss
	// when the key is absent or older than maxAge.
	Get(ctx context.Context, key string, maxAge time.Duration, dest interface{}) error
	// Set stores the payload under key, stamped with the current time.
	Set(ctx context.Context, key string, value interface{}) error
	// Delete removes a single key.
	Delete(ctx context.Context, key string) error
}

// entry is the stored envelope shared by both backends.
type entry struct {
	Data      []byte    `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}
