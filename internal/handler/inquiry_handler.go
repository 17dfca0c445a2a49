package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrovigil/agrovigil-api/internal/models"
	"github.com/agrovigil/agrovigil-api/internal/policy"
	"github.com/agrovigil/agrovigil-api/internal/service"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
	"github.com/agrovigil/agrovigil-api/pkg/response"
)

type inquiryService interface {
	Create(ctx context.Context, actor policy.Actor, req service.CreateInquiryRequest) (*models.Inquiry, error)
	Get(ctx context.Context, actor policy.Actor, id string) (*models.Inquiry, error)
	ListOwn(ctx context.Context, ownerID string) ([]models.Inquiry, error)
	ListAll(ctx context.Context, actor policy.Actor) ([]models.Inquiry, error)
	Update(ctx context.Context, actor policy.Actor, id string, req service.UpdateInquiryRequest) (*models.Inquiry, error)
	Delete(ctx context.Context, actor policy.Actor, id string) error
}

// InquiryHandler handles the farmer-facing inquiry endpoints.
type InquiryHandler struct {
	service inquiryService
}

// NewInquiryHandler creates a new inquiry handler.
func NewInquiryHandler(svc inquiryService) *InquiryHandler {
	return &InquiryHandler{service: svc}
}

// Create submits a new inquiry owned by the authenticated user.
func (h *InquiryHandler) Create(c *gin.Context) {
	var req service.CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	inquiry, err := h.service.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, inquiry)
}

// ListOwn returns the authenticated user's own inquiries.
func (h *InquiryHandler) ListOwn(c *gin.Context) {
	inquiries, err := h.service.ListOwn(c.Request.Context(), actorFromContext(c).ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, inquiries, nil)
}

// ListAll returns every inquiry in the store. Manager-only.
func (h *InquiryHandler) ListAll(c *gin.Context) {
	inquiries, err := h.service.ListAll(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, inquiries, nil)
}

// Get returns a single inquiry; only its owner may read it.
func (h *InquiryHandler) Get(c *gin.Context) {
	inquiry, err := h.service.Get(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, inquiry, nil)
}

// Update overwrites the owner-editable fields of an inquiry.
func (h *InquiryHandler) Update(c *gin.Context) {
	var req service.UpdateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	inquiry, err := h.service.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, inquiry, nil)
}

// Delete permanently removes an inquiry.
func (h *InquiryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
