package ports

import (
	"context"

	"github.com/carlot/inventory-api/internal/core/domain"
)

// CreateVehicleInput carries all data needed to add a vehicle.
type CreateVehicleInput struct {
	Brand string
	Model string
	Year  int
	Price float64
	Color string
}

// VehicleService defines use-case operations for vehicles.
type VehicleService interface {
	List(ctx context.Context) ([]*domain.Vehicle, error)
	Get(ctx context.Context, id int64) (*domain.Vehicle, error)
	Create(ctx context.Context, input CreateVehicleInput) (*domain.Vehicle, error)
	Update(ctx context.Context, id int64, patch domain.VehiclePatch) (*domain.Vehicle, error)
	Delete(ctx context.Context, id int64) error
}
