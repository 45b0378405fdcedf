package blob

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUnavailable = errors.New("blob store unavailable")
	ErrNotFound    = errors.New("object not found")
)

type Object struct {
	Name string

	Size    uint64
	Created time.Time
}

type Store interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte) error
	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, prefix string) ([]Object, error)
	Delete(ctx context.Context, name string) error
}
