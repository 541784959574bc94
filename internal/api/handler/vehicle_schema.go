package handler

import "time"

type createVehicleRequest struct {
	Brand string  `json:"brand" validate:"required"`
	Model string  `json:"model" validate:"required"`
	Year  int     `json:"year"  validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
	Color string  `json:"color"`
}

// updateVehicleRequest is a partial update: absent fields stay nil and are
// left untouched.
type updateVehicleRequest struct {
	Brand *string  `json:"brand" validate:"omitnil,min=1"`
	Model *string  `json:"model" validate:"omitnil,min=1"`
	Year  *int     `json:"year"`
	Price *float64 `json:"price" validate:"omitnil,gte=0"`
	Color *string  `json:"color"`
}

type vehicleResponse struct {
	ID        int64     `json:"id"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	Price     float64   `json:"price"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
