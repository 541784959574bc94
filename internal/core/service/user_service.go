package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/carlot/inventory-api/internal/core/domain"
	"github.com/carlot/inventory-api/internal/core/ports"
	"github.com/carlot/inventory-api/pkg/logger"
)

// UserService manages identities on behalf of admins and managers.
type UserService struct {
	users  ports.IdentityRepository
	hasher ports.PasswordHasher
	cache  ports.IdentityCache
	log    zerolog.Logger
}

// NewUserService wires the service. cache may be nil.
func NewUserService(users ports.IdentityRepository, hasher ports.PasswordHasher, cache ports.IdentityCache, log zerolog.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, cache: cache, log: log}
}

// List returns every user, or only those holding role when it is set.
func (s *UserService) List(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	if role != "" && !role.Valid() {
		return nil, domain.BadRequest(fmt.Sprintf("invalid role %q", role))
	}
	users, err := s.users.List(ctx, domain.UserFilter{Role: role})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domain.NotFound("User not found")
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	switch {
	case in.Username == "":
		return nil, domain.BadRequest("username must not be empty")
	case in.Email == "":
		return nil, domain.BadRequest("email must not be empty")
	case in.Password == "":
		return nil, domain.BadRequest("password must not be empty")
	}

	role := in.Role
	if role == "" {
		role = domain.RoleBuyer
	}
	if !role.Valid() {
		return nil, domain.BadRequest(fmt.Sprintf("invalid role %q", role))
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashed,
		FullName:     in.FullName,
		Role:         role,
		IsActive:     active,
	})
	if err != nil {
		return nil, err
	}

	lg := logger.FromContext(ctx, s.log)

	lg.Info().Int64("user_id", created.ID).Str("role", string(created.Role)).Msg("user created")
	return created, nil
}

// Update applies only the fields present in in. A new password is hashed
// before it is stored.
func (s *UserService) Update(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	patch, err := s.buildPatch(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if existing == nil {
		return nil, domain.NotFound("User not found")
	}

	updated, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFound("User not found")
	}

	invalidate(ctx, s.cache, s.log, existing.Username, updated.Username)
	lg := logger.FromContext(ctx, s.log)
	lg.Info().Int64("user_id", id).Msg("user updated")
	return updated, nil
}

func (s *UserService) buildPatch(in ports.UpdateUserInput) (domain.UserPatch, error) {
	patch := domain.UserPatch{
		Username: in.Username,
		Email:    in.Email,
		FullName: in.FullName,
		Role:     in.Role,
		IsActive: in.IsActive,
	}

	if in.Username != nil && *in.Username == "" {
		return patch, domain.BadRequest("username must not be empty")
	}
	if in.Email != nil && *in.Email == "" {
		return patch, domain.BadRequest("email must not be empty")
	}
	if in.Role != nil && !in.Role.Valid() {
		return patch, domain.BadRequest(fmt.Sprintf("invalid role %q", *in.Role))
	}
	if in.Password != nil {
		if *in.Password == "" {
			return patch, domain.BadRequest("password must not be empty")
		}
		hashed, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return patch, err
		}
		patch.PasswordHash = &hashed
	}
	return patch, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if existing == nil {
		return domain.NotFound("User not found")
	}

	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return domain.NotFound("User not found")
	}

	invalidate(ctx, s.cache, s.log, existing.Username)
	lg := logger.FromContext(ctx, s.log)
	lg.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
