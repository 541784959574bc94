package sql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/carlot/inventory-api/internal/core/domain"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) List(ctx context.Context) ([]*domain.Vehicle, error) {
	var models []VehicleModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}

	out := make([]*domain.Vehicle, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

func (r *VehicleRepository) FindByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	var m VehicleModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	return m.toDomain(), nil
}

func (r *VehicleRepository) Create(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	m := VehicleModel{
		Brand: v.Brand,
		Model: v.Model,
		Year:  v.Year,
		Price: v.Price,
		Color: v.Color,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("insert vehicle: %w", err)
	}
	return m.toDomain(), nil
}

func (r *VehicleRepository) Update(ctx context.Context, id int64, patch domain.VehiclePatch) (*domain.Vehicle, error) {
	var updated *domain.Vehicle

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m VehicleModel
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Model(&m).Updates(vehicleUpdates(patch)).Error; err != nil {
			return err
		}
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		updated = m.toDomain()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	return updated, nil
}

// vehicleUpdates lists only the columns present in patch. gorm adds
// updated_at itself.
func vehicleUpdates(patch domain.VehiclePatch) map[string]any {
	cols := map[string]any{}
	if patch.Brand != nil {
		cols["brand"] = *patch.Brand
	}
	if patch.Model != nil {
		cols["model"] = *patch.Model
	}
	if patch.Year != nil {
		cols["year"] = *patch.Year
	}
	if patch.Price != nil {
		cols["price"] = *patch.Price
	}
	if patch.Color != nil {
		cols["color"] = *patch.Color
	}
	return cols
}

func (r *VehicleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&VehicleModel{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("delete vehicle: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *VehicleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&VehicleModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count vehicles: %w", err)
	}
	return n, nil
}
