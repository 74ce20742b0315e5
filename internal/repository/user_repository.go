package repository

import (
	"context"

	"example.com/userdir/internal/domain"
)

// UserRepository keeps users in insertion order and assigns ids itself.
// Update returns the record as it was before the change alongside the new one.
// Lookups that miss return storage.ErrNotFound.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, name string) (domain.User, error)
	Update(ctx context.Context, id int64, name string) (before, after domain.User, err error)
	Delete(ctx context.Context, id int64) (domain.User, error)
}
