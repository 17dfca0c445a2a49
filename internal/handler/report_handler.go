package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agrovigil/agrovigil-api/internal/service"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
	"github.com/agrovigil/agrovigil-api/pkg/response"
)

// ReportHandler serves the manager reporting endpoints.
type ReportHandler struct {
	service       *service.ReportService
	metrics       *service.MetricsService
	defaultRadius float64
}

// NewReportHandler creates a new report handler. defaultRadius is used for
// cluster queries that omit the radius_km parameter.
func NewReportHandler(svc *service.ReportService, metrics *service.MetricsService, defaultRadius float64) *ReportHandler {
	return &ReportHandler{service: svc, metrics: metrics, defaultRadius: defaultRadius}
}

// Summary returns aggregate status counts and the top diseases.
func (h *ReportHandler) Summary(c *gin.Context) {
	report, cacheHit, err := h.service.Summary(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordCacheLookup(cacheHit)
	response.JSON(c, http.StatusOK, report, nil, map[string]interface{}{"cache": cacheSource(cacheHit)})
}

// MonthlyTrend returns per-month inquiry counts across all years.
func (h *ReportHandler) MonthlyTrend(c *gin.Context) {
	trend, cacheHit, err := h.service.MonthlyTrend(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordCacheLookup(cacheHit)
	response.JSON(c, http.StatusOK, trend, nil, map[string]interface{}{"cache": cacheSource(cacheHit)})
}

// Clusters returns geographic groupings of geo-tagged inquiries.
func (h *ReportHandler) Clusters(c *gin.Context) {
	radius := h.defaultRadius
	if raw := c.Query("radius_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "radius_km must be a number"))
			return
		}
		radius = parsed
	}

	clusters, err := h.service.Clusters(c.Request.Context(), actorFromContext(c), radius)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, clusters, nil)
}

func cacheSource(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
