package ports

import (
	"context"

	"github.com/carlot/inventory-api/internal/core/auth"
	"github.com/carlot/inventory-api/internal/core/domain"
)

// AuthService is the gateway every authenticated request goes through.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	ResolveCurrentIdentity(ctx context.Context, token string) (*domain.User, error)
	Authorize(user *domain.User, tier auth.Tier) error
	ChangePassword(ctx context.Context, userID int64, current, next string) error
}
