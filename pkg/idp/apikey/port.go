package apikey

import (
	"context"
)

// Repository is the record-store contract for API keys. Implementations
// return ErrNotFound for missing records and ErrAlreadyExists when a create
// collides with an existing unique key; atomicity of those guarantees is the
// store's responsibility.
type Repository interface {
	Create(ctx context.Context, key APIKey) error
	FindByID(ctx context.Context, id string) (*APIKey, error)
	FindByKey(ctx context.Context, keyValue string) (*APIKey, error)
	Update(ctx context.Context, key APIKey) error
	Delete(ctx context.Context, id string) error
}
