package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrClosed   = errors.New("storage: closed")
	ErrEmptyKey = errors.New("storage: key is required")
)

// KV is a durable string key-value store. Set replaces the whole value.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
