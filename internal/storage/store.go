// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"
)

// Keys under which the storefront keeps its per-session values.
const (
	// CartKey holds the JSON cart snapshot.
	CartKey = "tlc_cart_v4"
	// NameKey holds the trimmed customer name remembered across visits.
	NameKey = "tlc_client_name"
)

// ErrClosed is returned by stores that have been closed.
var ErrClosed = errors.New("storage: store closed")

// Store is a string-valued key-value store partitioned by shopper session.
// It plays the role a browser's local storage plays for a single visitor:
// every value belongs to exactly one session and survives across requests.
// This abstraction allows swapping storage backends (SQLite, Redis, memory)
// without changing the cart or checkout code.
type Store interface {
	// Get returns the value stored under key for the session.
	// ok is false when nothing is stored; that is not an error.
	Get(ctx context.Context, sessionID, key string) (value string, ok bool, err error)

	// Set stores value under key for the session, replacing any previous value.
	Set(ctx context.Context, sessionID, key, value string) error

	// Delete removes key for the session. Deleting a missing key is not an error.
	Delete(ctx context.Context, sessionID, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Purger is implemented by backends that need explicit expiry of idle sessions.
// Backends with native expiry (Redis TTLs) do not implement it.
type Purger interface {
	PurgeIdle(ctx context.Context, cutoff time.Time) (int64, error)
}
