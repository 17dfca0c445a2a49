package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrovigil/agrovigil-api/internal/service"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
	"github.com/agrovigil/agrovigil-api/pkg/response"
)

// AdvisoryHandler serves disease identification and treatment suggestions.
type AdvisoryHandler struct {
	service *service.AdvisoryService
}

// NewAdvisoryHandler creates a new advisory handler.
func NewAdvisoryHandler(svc *service.AdvisoryService) *AdvisoryHandler {
	return &AdvisoryHandler{service: svc}
}

// Identify forwards raw image bytes to the classifier and returns ranked
// disease labels.
func (h *AdvisoryHandler) Identify(c *gin.Context) {
	image, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read image body"))
		return
	}

	labels, err := h.service.Identify(c.Request.Context(), actorFromContext(c), image)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, labels, nil)
}

// SuggestTreatment returns treatment guidance for the caller's inquiry.
func (h *AdvisoryHandler) SuggestTreatment(c *gin.Context) {
	suggestion, err := h.service.SuggestTreatment(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, suggestion, nil)
}
