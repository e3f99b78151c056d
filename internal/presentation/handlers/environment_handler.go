package handlers

import (
	"net/http"
	"strings"

	"confighub-core/internal/application/dto"
	"confighub-core/internal/application/service"

	"github.com/gin-gonic/gin"
)

const exportSuffix = ".json"

// EnvironmentHandler handles environment HTTP requests
type EnvironmentHandler struct {
	environmentService *service.EnvironmentService
	exportService      *service.ExportService
}

// NewEnvironmentHandler creates a new environment handler
func NewEnvironmentHandler(
	environmentService *service.EnvironmentService,
	exportService *service.ExportService,
) *EnvironmentHandler {
	return &EnvironmentHandler{
		environmentService: environmentService,
		exportService:      exportService,
	}
}

// CreateEnvironment handles POST /environments
// @Summary Create an environment
// @Description Creates a new environment identified by a lowercase slug
// @Tags Environments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param environment body dto.CreateEnvironmentRequest true "Environment data"
// @Success 201 {object} dto.EnvironmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /environments [post]
func (h *EnvironmentHandler) CreateEnvironment(c *gin.Context) {
	var req dto.CreateEnvironmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	response, err := h.environmentService.CreateEnvironment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create environment")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListEnvironments handles GET /environments
// @Summary List environments
// @Description Returns a page of environments, newest first
// @Tags Environments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1) minimum(1)
// @Param limit query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.EnvironmentListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /environments [get]
func (h *EnvironmentHandler) ListEnvironments(c *gin.Context) {
	var query dto.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindingError(c, err)
		return
	}
	query.Normalize()

	response, err := h.environmentService.ListEnvironments(c.Request.Context(), query.Page, query.Limit)
	if err != nil {
		respondError(c, err, "Failed to list environments")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetEnvironment handles GET /environments/:name.
// A trailing .json switches to the bulk export of that environment.
// @Summary Get an environment
// @Description Returns a single environment by name
// @Tags Environments
// @Produce json
// @Security BearerAuth
// @Param name path string true "Environment name"
// @Success 200 {object} dto.EnvironmentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /environments/{name} [get]
func (h *EnvironmentHandler) GetEnvironment(c *gin.Context) {
	name := c.Param("name")
	if strings.HasSuffix(name, exportSuffix) {
		h.exportEnvironment(c, strings.TrimSuffix(name, exportSuffix))
		return
	}

	response, err := h.environmentService.GetEnvironment(c.Request.Context(), name)
	if err != nil {
		respondError(c, err, "Failed to get environment")
		return
	}

	c.JSON(http.StatusOK, response)
}

// exportEnvironment serves GET /environments/:name.json
// @Summary Export an environment
// @Description Returns every variable of the environment as a flat NAME to value object in creation order
// @Tags Environments
// @Produce json
// @Security BearerAuth
// @Param name path string true "Environment name"
// @Success 200 {object} map[string]string
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /environments/{name}.json [get]
func (h *EnvironmentHandler) exportEnvironment(c *gin.Context, name string) {
	flat, err := h.exportService.ExportEnvironment(c.Request.Context(), name)
	if err != nil {
		respondError(c, err, "Failed to export environment")
		return
	}

	c.JSON(http.StatusOK, flat)
}

// UpdateEnvironment handles PUT and PATCH /environments/:name
// @Summary Update an environment
// @Description Renames an environment or changes its description. PUT and PATCH both merge the provided fields.
// @Tags Environments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Environment name"
// @Param environment body dto.UpdateEnvironmentRequest true "Fields to change"
// @Success 200 {object} dto.EnvironmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /environments/{name} [put]
// @Router /environments/{name} [patch]
func (h *EnvironmentHandler) UpdateEnvironment(c *gin.Context) {
	var req dto.UpdateEnvironmentRequest
	if err := bindPatch(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	response, err := h.environmentService.UpdateEnvironment(c.Request.Context(), c.Param("name"), &req)
	if err != nil {
		respondError(c, err, "Failed to update environment")
		return
	}

	c.JSON(http.StatusOK, response)
}

// DeleteEnvironment handles DELETE /environments/:name
// @Summary Delete an environment
// @Description Deletes an environment and all of its variables
// @Tags Environments
// @Security BearerAuth
// @Param name path string true "Environment name"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /environments/{name} [delete]
func (h *EnvironmentHandler) DeleteEnvironment(c *gin.Context) {
	if err := h.environmentService.DeleteEnvironment(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, err, "Failed to delete environment")
		return
	}

	c.Status(http.StatusNoContent)
}
