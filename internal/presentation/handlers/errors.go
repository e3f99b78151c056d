package handlers

import (
	"errors"
	"net/http"

	"confighub-core/internal/domain/shared"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// respondError translates a service error into a status code and ErrorResponse.
// fallback is the message used for unexpected errors.
func respondError(c *gin.Context, err error, fallback string) {
	message, _ := shared.MessageOf(err)

	switch {
	case errors.Is(err, shared.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: message,
		})
	case errors.Is(err, shared.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: message,
		})
	case errors.Is(err, shared.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: message,
		})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: fallback,
		})
	}
}

// respondBindingError reports a request that failed JSON or query binding
func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request",
		Details: err.Error(),
	})
}
