package db

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned by GetItem when nothing is stored under the key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrQuotaExceeded is returned by SetItem when the backend has no room
	// for the value.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// KeyValueStore is a string-keyed blob store. Every garage snapshot lives
// under a single key.
type KeyValueStore interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Close() error
}
