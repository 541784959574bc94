package sql

import (
	"time"

	"github.com/carlot/inventory-api/internal/core/domain"
)

type UserModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	FullName     string
	Role         string `gorm:"index;not null"`
	IsActive     bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FullName:     m.FullName,
		Role:         domain.Role(m.Role),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

type VehicleModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Brand     string `gorm:"not null"`
	Model     string `gorm:"not null"`
	Year      int
	Price     float64
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (VehicleModel) TableName() string {
	return "vehicles"
}

func (m *VehicleModel) toDomain() *domain.Vehicle {
	return &domain.Vehicle{
		ID:        m.ID,
		Brand:     m.Brand,
		Model:     m.Model,
		Year:      m.Year,
		Price:     m.Price,
		Color:     m.Color,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}
