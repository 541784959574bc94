package sql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/carlot/inventory-api/internal/core/domain"
)

type IdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	q := r.db.WithContext(ctx).Order("id")
	if filter.Role != "" {
		q = q.Where("role = ?", string(filter.Role))
	}

	var models []UserModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]*domain.User, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

func firstUser(tx *gorm.DB, query string, arg any) (*domain.User, error) {
	var m UserModel
	if err := tx.Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *IdentityRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return firstUser(r.db.WithContext(ctx), "id = ?", id)
}

func (r *IdentityRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return firstUser(r.db.WithContext(ctx), "username = ?", username)
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return firstUser(r.db.WithContext(ctx), "email = ?", email)
}

// checkUnique reports username clashes before email clashes.
func checkUnique(tx *gorm.DB, selfID int64, username, email string) error {
	if u, err := firstUser(tx, "username = ?", username); err != nil {
		return err
	} else if u != nil && u.ID != selfID {
		return domain.Conflict(domain.MsgUsernameTaken)
	}
	if u, err := firstUser(tx, "email = ?", email); err != nil {
		return err
	} else if u != nil && u.ID != selfID {
		return domain.Conflict(domain.MsgEmailTaken)
	}
	return nil
}

// duplicateKey turns a unique index violation that slipped past checkUnique
// into the matching conflict error.
func (r *IdentityRepository) duplicateKey(ctx context.Context, selfID int64, username, email string, cause error) error {
	if err := checkUnique(r.db.WithContext(ctx), selfID, username, email); err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return de.Wrap(cause)
		}
		return err
	}
	return domain.Conflict(domain.MsgUsernameTaken).Wrap(cause)
}

func (r *IdentityRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := UserModel{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		FullName:     user.FullName,
		Role:         string(user.Role),
		IsActive:     user.IsActive,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, 0, m.Username, m.Email); err != nil {
			return err
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, r.duplicateKey(ctx, 0, m.Username, m.Email, err)
		}
		if domain.KindOf(err) != nil {
			return nil, err
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *IdentityRepository) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	var (
		updated *domain.User
		next    domain.User
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m UserModel
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		next = *m.toDomain()
		patch.Apply(&next)
		if err := checkUnique(tx, id, next.Username, next.Email); err != nil {
			return err
		}

		err := tx.Model(&m).Updates(map[string]any{
			"username":      next.Username,
			"email":         next.Email,
			"password_hash": next.PasswordHash,
			"full_name":     next.FullName,
			"role":          string(next.Role),
			"is_active":     next.IsActive,
		}).Error
		if err != nil {
			return err
		}
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		updated = m.toDomain()
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, r.duplicateKey(ctx, id, next.Username, next.Email, err)
		}
		if domain.KindOf(err) != nil {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

func (r *IdentityRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&UserModel{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("delete user: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
