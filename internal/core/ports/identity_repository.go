package ports

import (
	"context"

	"github.com/carlot/inventory-api/internal/core/domain"
)

// IdentityRepository owns user records.
//
// A missing record is not an error: FindBy* and Update return (nil, nil) and
// Delete returns (false, nil). Create and Update enforce username then email
// uniqueness and fail with a domain conflict error before writing anything.
type IdentityRepository interface {
	List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// IdentityCache keeps recently resolved identities keyed by username.
// Cached users never carry a password hash.
//
// Get returns the cached user, nil on a miss, together with the username's
// current version. Set stores user only if the version is still the one Get
// returned; every Invalidate bumps it, so a fill racing an invalidation is
// dropped instead of caching the pre-mutation record.
type IdentityCache interface {
	Get(ctx context.Context, username string) (*domain.User, int64, error)
	Set(ctx context.Context, user *domain.User, version int64) error
	Invalidate(ctx context.Context, usernames ...string) error
}
