package dto

import "confighub-core/internal/pagination"

// CreateEnvironmentRequest represents the request to create an environment
type CreateEnvironmentRequest struct {
	Name        string  `json:"name" binding:"required,envname" example:"staging"`
	Description *string `json:"description" example:"Pre-production environment"`
}

// UpdateEnvironmentRequest is used by both PUT and PATCH.
// Absent fields are left untouched.
type UpdateEnvironmentRequest struct {
	Name        *string `json:"name" binding:"omitempty,envname" example:"staging-eu"`
	Description *string `json:"description"`
}

// EnvironmentResponse represents an environment in API responses
type EnvironmentResponse struct {
	Name        string  `json:"name" example:"staging"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// EnvironmentListResponse is the paginated environment listing
type EnvironmentListResponse = pagination.Envelope[*EnvironmentResponse]
