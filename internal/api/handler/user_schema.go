package handler

import "time"

type createUserRequest struct {
	Username string `json:"username"  validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,max=72"`
	FullName string `json:"full_name"`
	Role     string `json:"role"      validate:"omitempty,oneof=admin manager buyer"`
	IsActive *bool  `json:"is_active"`
}

type updateUserRequest struct {
	Username *string `json:"username"  validate:"omitnil,min=1"`
	Email    *string `json:"email"     validate:"omitnil,email"`
	Password *string `json:"password"  validate:"omitnil,min=1,max=72"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"      validate:"omitnil,oneof=admin manager buyer"`
	IsActive *bool   `json:"is_active"`
}

// userResponse never carries the credential hash.
type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
