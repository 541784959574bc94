package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/carlot/inventory-api/internal/core/domain"
	"github.com/carlot/inventory-api/internal/core/ports"
	"github.com/carlot/inventory-api/pkg/logger"
)

type VehicleService struct {
	repo   ports.VehicleRepository
	logger zerolog.Logger
}

func NewVehicleService(repo ports.VehicleRepository, log zerolog.Logger) *VehicleService {
	return &VehicleService{repo: repo, logger: log}
}

func (s *VehicleService) List(ctx context.Context) ([]*domain.Vehicle, error) {
	vehicles, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

func (s *VehicleService) Get(ctx context.Context, id int64) (*domain.Vehicle, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	if v == nil {
		return nil, domain.NotFound("Vehicle not found")
	}
	return v, nil
}

func (s *VehicleService) Create(ctx context.Context, input ports.CreateVehicleInput) (*domain.Vehicle, error) {
	v := &domain.Vehicle{
		Brand: input.Brand,
		Model: input.Model,
		Year:  input.Year,
		Price: input.Price,
		Color: input.Color,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}

	lg := logger.FromContext(ctx, s.logger)

	lg.Info().Int64("vehicle_id", created.ID).Str("brand", created.Brand).Str("model", created.Model).Msg("vehicle created")
	return created, nil
}

// Update applies patch to the stored vehicle. Only the fields set in patch
// are validated and written.
func (s *VehicleService) Update(ctx context.Context, id int64, patch domain.VehiclePatch) (*domain.Vehicle, error) {
	switch {
	case patch.Brand != nil && *patch.Brand == "":
		return nil, domain.BadRequest("brand must not be empty")
	case patch.Model != nil && *patch.Model == "":
		return nil, domain.BadRequest("model must not be empty")
	case patch.Price != nil && *patch.Price < 0:
		return nil, domain.BadRequest("price must not be negative")
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	if updated == nil {
		return nil, domain.NotFound("Vehicle not found")
	}

	lg := logger.FromContext(ctx, s.logger)

	lg.Info().Int64("vehicle_id", id).Msg("vehicle updated")
	return updated, nil
}

func (s *VehicleService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if !deleted {
		return domain.NotFound("Vehicle not found")
	}

	lg := logger.FromContext(ctx, s.logger)

	lg.Info().Int64("vehicle_id", id).Msg("vehicle deleted")
	return nil
}
