package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrovigil/agrovigil-api/internal/service"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
	"github.com/agrovigil/agrovigil-api/pkg/response"
)

// AlertHandler serves the manager broadcast alerts.
type AlertHandler struct {
	service *service.AlertService
}

// NewAlertHandler creates a new alert handler.
func NewAlertHandler(svc *service.AlertService) *AlertHandler {
	return &AlertHandler{service: svc}
}

// Create publishes a new alert.
func (h *AlertHandler) Create(c *gin.Context) {
	var req service.AlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	alert, err := h.service.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, alert)
}

// List returns alerts visible to the acting role.
func (h *AlertHandler) List(c *gin.Context) {
	alerts, err := h.service.List(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, alerts, nil)
}

// Update rewrites an existing alert.
func (h *AlertHandler) Update(c *gin.Context) {
	var req service.AlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	alert, err := h.service.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, alert, nil)
}

// Delete removes an alert.
func (h *AlertHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
