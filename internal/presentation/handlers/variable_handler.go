package handlers

import (
	"net/http"

	"confighub-core/internal/application/dto"
	"confighub-core/internal/application/service"

	"github.com/gin-gonic/gin"
)

// VariableHandler handles variable HTTP requests
type VariableHandler struct {
	variableService *service.VariableService
}

// NewVariableHandler creates a new variable handler
func NewVariableHandler(variableService *service.VariableService) *VariableHandler {
	return &VariableHandler{variableService: variableService}
}

// CreateVariable handles POST /environments/:name/variables
// @Summary Create a variable
// @Description Creates a variable inside an existing environment
// @Tags Variables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Environment name"
// @Param variable body dto.CreateVariableRequest true "Variable data"
// @Success 201 {object} dto.VariableResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /environments/{name}/variables [post]
func (h *VariableHandler) CreateVariable(c *gin.Context) {
	var req dto.CreateVariableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	response, err := h.variableService.CreateVariable(c.Request.Context(), c.Param("name"), &req)
	if err != nil {
		respondError(c, err, "Failed to create variable")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListVariables handles GET /environments/:name/variables
// @Summary List variables
// @Description Returns a page of the environment's variables, newest first
// @Tags Variables
// @Produce json
// @Security BearerAuth
// @Param name path string true "Environment name"
// @Param page query int false "Page number" default(1) minimum(1)
// @Param limit query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.VariableListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /environments/{name}/variables [get]
func (h *VariableHandler) ListVariables(c *gin.Context) {
	var query dto.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindingError(c, err)
		return
	}
	query.Normalize()

	response, err := h.variableService.ListVariables(c.Request.Context(), c.Param("name"), query.Page, query.Limit)
	if err != nil {
		respondError(c, err, "Failed to list variables")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetVariable handles GET /environments/:name/variables/:variable
// @Summary Get a variable
// @Tags Variables
// @Produce json
// @Security BearerAuth
// @Param name path string true "Environment name"
// @Param variable path string true "Variable name"
// @Success 200 {object} dto.VariableResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /environments/{name}/variables/{variable} [get]
func (h *VariableHandler) GetVariable(c *gin.Context) {
	response, err := h.variableService.GetVariable(c.Request.Context(), c.Param("name"), c.Param("variable"))
	if err != nil {
		respondError(c, err, "Failed to get variable")
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateVariable handles PUT and PATCH /environments/:name/variables/:variable
// @Summary Update a variable
// @Description Changes any of name, value, description or is_sensitive. PUT and PATCH both merge the provided fields.
// @Tags Variables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Environment name"
// @Param variable path string true "Variable name"
// @Param body body dto.UpdateVariableRequest true "Fields to change"
// @Success 200 {object} dto.VariableResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /environments/{name}/variables/{variable} [put]
// @Router /environments/{name}/variables/{variable} [patch]
func (h *VariableHandler) UpdateVariable(c *gin.Context) {
	var req dto.UpdateVariableRequest
	if err := bindPatch(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	response, err := h.variableService.UpdateVariable(c.Request.Context(), c.Param("name"), c.Param("variable"), &req)
	if err != nil {
		respondError(c, err, "Failed to update variable")
		return
	}

	c.JSON(http.StatusOK, response)
}

// DeleteVariable handles DELETE /environments/:name/variables/:variable
// @Summary Delete a variable
// @Tags Variables
// @Security BearerAuth
// @Param name path string true "Environment name"
// @Param variable path string true "Variable name"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /environments/{name}/variables/{variable} [delete]
func (h *VariableHandler) DeleteVariable(c *gin.Context) {
	if err := h.variableService.DeleteVariable(c.Request.Context(), c.Param("name"), c.Param("variable")); err != nil {
		respondError(c, err, "Failed to delete variable")
		return
	}

	c.Status(http.StatusNoContent)
}
