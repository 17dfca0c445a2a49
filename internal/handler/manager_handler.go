package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agrovigil/agrovigil-api/internal/models"
	"github.com/agrovigil/agrovigil-api/internal/policy"
	"github.com/agrovigil/agrovigil-api/internal/service"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
	"github.com/agrovigil/agrovigil-api/pkg/response"
)

type triageService interface {
	ListFiltered(ctx context.Context, actor policy.Actor, filter models.InquiryFilter) ([]models.Inquiry, error)
	SetStatus(ctx context.Context, actor policy.Actor, id string, status models.InquiryStatus) (*models.Inquiry, error)
	SetReply(ctx context.Context, actor policy.Actor, id, reply string) (*models.Inquiry, error)
	ClearReply(ctx context.Context, actor policy.Actor, id string) (*models.Inquiry, error)
}

// ManagerHandler exposes the manager triage surface: the filtered form
// queue plus status and reply mutations.
type ManagerHandler struct {
	service triageService
}

// NewManagerHandler creates a new manager handler.
func NewManagerHandler(svc triageService) *ManagerHandler {
	return &ManagerHandler{service: svc}
}

// ListForms returns the inquiry queue, optionally narrowed by status,
// free-text search, and submission date (YYYY-MM-DD, local time).
func (h *ManagerHandler) ListForms(c *gin.Context) {
	var filter models.InquiryFilter

	if raw := c.Query("status"); raw != "" {
		status := models.InquiryStatus(raw)
		filter.Status = &status
	}
	filter.Search = c.Query("search")
	if raw := c.Query("date"); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD"))
			return
		}
		filter.Date = &day
	}

	inquiries, err := h.service.ListFiltered(c.Request.Context(), actorFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, inquiries, nil)
}

// SetStatus moves an inquiry to a new triage status.
func (h *ManagerHandler) SetStatus(c *gin.Context) {
	var req service.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	inquiry, err := h.service.SetStatus(c.Request.Context(), actorFromContext(c), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, inquiry, nil)
}

// SetReply attaches or overwrites the manager reply on an inquiry.
func (h *ManagerHandler) SetReply(c *gin.Context) {
	var req service.SetReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	inquiry, err := h.service.SetReply(c.Request.Context(), actorFromContext(c), c.Param("id"), req.Reply)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, inquiry, nil)
}

// ClearReply removes the reply from an inquiry without touching status.
func (h *ManagerHandler) ClearReply(c *gin.Context) {
	inquiry, err := h.service.ClearReply(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, inquiry, nil)
}
