package dao

import (
	"context"
)

// Service is the generic persistence contract the engine depends on. Save
// performs create-or-update; implementations must apply a save atomically so
// that a rejected write leaves the stored entity unchanged.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
