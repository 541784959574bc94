package ports

import (
	"context"

	"github.com/carlot/inventory-api/internal/core/domain"
)

// CreateUserInput carries the data for a new identity. Password is plaintext
// and is hashed before it reaches the repository.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     domain.Role
	IsActive *bool
}

// UpdateUserInput is a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	FullName *string
	Role     *domain.Role
	IsActive *bool
}

// UserService exposes identity management. Lookups of missing users fail with
// a domain not-found error.
type UserService interface {
	List(ctx context.Context, role domain.Role) ([]*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
