package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrovigil/agrovigil-api/internal/models"
	"github.com/agrovigil/agrovigil-api/internal/service"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
	"github.com/agrovigil/agrovigil-api/pkg/response"
)

// MaterialHandler serves the treatment materials catalog.
type MaterialHandler struct {
	service *service.MaterialService
}

// NewMaterialHandler creates a new material handler.
func NewMaterialHandler(svc *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{service: svc}
}

// Create adds a material to the catalog.
func (h *MaterialHandler) Create(c *gin.Context) {
	var req service.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	material, err := h.service.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, material)
}

// List returns catalog entries, optionally filtered by category and search.
func (h *MaterialHandler) List(c *gin.Context) {
	var category *models.MaterialCategory
	if raw := c.Query("category"); raw != "" {
		value := models.MaterialCategory(raw)
		category = &value
	}

	materials, err := h.service.List(c.Request.Context(), actorFromContext(c), category, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, materials, nil)
}

// Get returns a single material.
func (h *MaterialHandler) Get(c *gin.Context) {
	material, err := h.service.Get(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, material, nil)
}

// Update rewrites a catalog entry.
func (h *MaterialHandler) Update(c *gin.Context) {
	var req service.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	material, err := h.service.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, material, nil)
}

// Delete removes a catalog entry.
func (h *MaterialHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
