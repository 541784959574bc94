package ports

import (
	"context"

	"github.com/carlot/inventory-api/internal/core/domain"
)

// VehicleRepository owns vehicle records. Absence is reported the same way as
// in IdentityRepository: (nil, nil) or (false, nil), never an error.
type VehicleRepository interface {
	List(ctx context.Context) ([]*domain.Vehicle, error)
	FindByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	Create(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error)
	Update(ctx context.Context, id int64, patch domain.VehiclePatch) (*domain.Vehicle, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}
