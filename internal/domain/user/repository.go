package user

import (
	"context"
)

// UserRepository is the credential store. Save inserts or replaces the
// record with the same name.
type UserRepository interface {
	GetByName(ctx context.Context, name string) (User, error)
	List(ctx context.Context) ([]User, error)
	Save(ctx context.Context, u User) error
}
