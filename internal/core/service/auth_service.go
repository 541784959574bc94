package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/carlot/inventory-api/internal/core/auth"
	"github.com/carlot/inventory-api/internal/core/domain"
	"github.com/carlot/inventory-api/internal/core/ports"
	"github.com/carlot/inventory-api/pkg/logger"
)

// msgBadCredentials is returned for every login failure so callers cannot
// tell an unknown username from a wrong password.
const msgBadCredentials = "Incorrect username or password"

var errIdentityNotFound = errors.New("token subject has no identity")

// AuthService implements login, current identity resolution, role gating and
// password changes.
type AuthService struct {
	users  ports.IdentityRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	cache  ports.IdentityCache
	log    zerolog.Logger
}

// NewAuthService wires the gateway. cache may be nil.
func NewAuthService(
	users ports.IdentityRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	cache ports.IdentityCache,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, cache: cache, log: log}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.Unauthorized(msgBadCredentials)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if user == nil {
		lg := logger.FromContext(ctx, s.log)
		lg.Debug().Str("username", username).Msg("login for unknown username")
		return "", domain.Unauthorized(msgBadCredentials)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		lg := logger.FromContext(ctx, s.log)
		lg.Warn().Err(err).Int64("user_id", user.ID).Msg("stored credential is malformed")
		return "", domain.Unauthorized(msgBadCredentials)
	}
	if !ok {
		lg := logger.FromContext(ctx, s.log)
		lg.Debug().Int64("user_id", user.ID).Msg("login with wrong password")
		return "", domain.Unauthorized(msgBadCredentials)
	}
	if !user.IsActive {
		lg := logger.FromContext(ctx, s.log)
		lg.Debug().Int64("user_id", user.ID).Msg("login for inactive identity")
		return "", domain.Unauthorized(msgBadCredentials)
	}

	token, err := s.tokens.IssueDefault(user.Username)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	lg := logger.FromContext(ctx, s.log)

	lg.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("login succeeded")
	return token, nil
}

// ResolveCurrentIdentity verifies token and loads the identity it names.
// Every failure is unauthorized; the detail keeps the token failure kind.
func (s *AuthService) ResolveCurrentIdentity(ctx context.Context, token string) (*domain.User, error) {
	username, err := s.tokens.Verify(token)
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthorized) {
			err = domain.Unauthorized(auth.DetailTokenMalformed).Wrap(err)
		}
		lg := logger.FromContext(ctx, s.log)
		lg.Debug().Err(errors.Unwrap(err)).Msg("token rejected")
		return nil, err
	}

	user, err := s.lookupIdentity(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if user == nil {
		return nil, domain.Unauthorized(auth.DetailTokenMalformed).Wrap(errIdentityNotFound)
	}
	if !user.IsActive {
		return nil, domain.Unauthorized("inactive user")
	}
	return user, nil
}

func (s *AuthService) lookupIdentity(ctx context.Context, username string) (*domain.User, error) {
	// The version is read before the store so that an invalidation landing
	// between the store read and the fill below makes the fill a no-op.
	var version int64
	cacheUsable := s.cache != nil
	if cacheUsable {
		cached, v, err := s.cache.Get(ctx, username)
		switch {
		case err != nil:
			cacheUsable = false
			lg := logger.FromContext(ctx, s.log)
			lg.Warn().Err(err).Str("username", username).Msg("identity cache read failed")
		case cached != nil:
			return cached, nil
		default:
			version = v
		}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil || user == nil {
		return user, err
	}

	if cacheUsable {
		if err := s.cache.Set(ctx, user, version); err != nil {
			lg := logger.FromContext(ctx, s.log)
			lg.Warn().Err(err).Str("username", username).Msg("identity cache write failed")
		}
	}
	return user, nil
}

// Authorize gates an already resolved identity by tier. A nil user means the
// request is anonymous.
func (s *AuthService) Authorize(user *domain.User, tier auth.Tier) error {
	if user == nil {
		return domain.Unauthorized("Not authenticated")
	}
	if !auth.Allows(user.Role, tier) {
		return domain.Forbidden(tier.DeniedMessage())
	}
	return nil
}

// ChangePassword replaces the credential of userID after checking current.
// A wrong current password is a bad request: the caller is already
// authenticated, the supplied data is what failed.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if next == "" {
		return domain.BadRequest("new password must not be empty")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if user == nil {
		return domain.NotFound("User not found")
	}

	ok, err := s.hasher.Verify(current, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return domain.BadRequest("Incorrect current password")
	}

	hashed, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}

	updated, err := s.users.Update(ctx, userID, domain.UserPatch{PasswordHash: &hashed})
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if updated == nil {
		return domain.NotFound("User not found")
	}

	invalidate(ctx, s.cache, s.log, user.Username)
	lg := logger.FromContext(ctx, s.log)
	lg.Info().Int64("user_id", userID).Msg("password changed")
	return nil
}

// invalidate drops usernames from cache. Failures only cost freshness until
// the entry expires, so they are logged and swallowed.
func invalidate(ctx context.Context, cache ports.IdentityCache, log zerolog.Logger, usernames ...string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, usernames...); err != nil {
		lg := logger.FromContext(ctx, log)
		lg.Warn().Err(err).Strs("usernames", usernames).Msg("identity cache invalidation failed")
	}
}
