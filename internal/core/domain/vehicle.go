package domain

import "time"

// Vehicle is a single car in the inventory.
type Vehicle struct {
	ID        int64     `json:"id"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	Price     float64   `json:"price"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VehiclePatch carries a partial update. Nil fields are left untouched.
type VehiclePatch struct {
	Brand *string
	Model *string
	Year  *int
	Price *float64
	Color *string
}

// Apply copies the present fields of p onto v.
func (p VehiclePatch) Apply(v *Vehicle) {
	if p.Brand != nil {
		v.Brand = *p.Brand
	}
	if p.Model != nil {
		v.Model = *p.Model
	}
	if p.Year != nil {
		v.Year = *p.Year
	}
	if p.Price != nil {
		v.Price = *p.Price
	}
	if p.Color != nil {
		v.Color = *p.Color
	}
}

// Validate checks the invariants every stored vehicle must hold.
func (v *Vehicle) Validate() error {
	switch {
	case v.Brand == "":
		return BadRequest("brand must not be empty")
	case v.Model == "":
		return BadRequest("model must not be empty")
	case v.Price < 0:
		return BadRequest("price must not be negative")
	}
	return nil
}
