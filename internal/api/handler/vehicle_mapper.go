package handler

import (
	"github.com/carlot/inventory-api/internal/core/domain"
	"github.com/carlot/inventory-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateVehicleInput(req createVehicleRequest) ports.CreateVehicleInput {
	return ports.CreateVehicleInput{
		Brand: req.Brand,
		Model: req.Model,
		Year:  req.Year,
		Price: req.Price,
		Color: req.Color,
	}
}

func toVehiclePatch(req updateVehicleRequest) domain.VehiclePatch {
	return domain.VehiclePatch{
		Brand: req.Brand,
		Model: req.Model,
		Year:  req.Year,
		Price: req.Price,
		Color: req.Color,
	}
}

// --- Service result → HTTP response ---

func toVehicleResponse(v *domain.Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:        v.ID,
		Brand:     v.Brand,
		Model:     v.Model,
		Year:      v.Year,
		Price:     v.Price,
		Color:     v.Color,
		CreatedAt: v.CreatedAt.UTC(),
		UpdatedAt: v.UpdatedAt.UTC(),
	}
}

func toVehicleListResponse(vs []*domain.Vehicle) []vehicleResponse {
	out := make([]vehicleResponse, len(vs))
	for i, v := range vs {
		out[i] = toVehicleResponse(v)
	}
	return out
}
