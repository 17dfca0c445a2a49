package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/agrovigil/agrovigil-api/internal/models"
	"github.com/agrovigil/agrovigil-api/internal/policy"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
)

type alertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	FindByID(ctx context.Context, id string) (*models.Alert, error)
	List(ctx context.Context, visibleOnly bool) ([]models.Alert, error)
	Update(ctx context.Context, alert *models.Alert) error
	Delete(ctx context.Context, id string) error
}

// AlertRequest is the manager payload for creating or updating an alert.
type AlertRequest struct {
	DiseaseName string               `json:"disease_name" validate:"required"`
	Location    string               `json:"location" validate:"required"`
	Severity    models.AlertSeverity `json:"severity" validate:"required,oneof=Low Medium High Critical"`
	ReportCount int                  `json:"report_count" validate:"gte=0"`
	DetectedAt  time.Time            `json:"detected_at" validate:"required"`
	Description string               `json:"description"`
	Visible     bool                 `json:"visible"`
}

// AlertService manages manager-authored outbreak broadcasts. Writes are
// manager-only; reads are open to any authenticated actor.
type AlertService struct {
	repo      alertRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAlertService creates an instance of AlertService.
func NewAlertService(repo alertRepository, validate *validator.Validate, logger *zap.Logger) *AlertService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AlertService{repo: repo, validator: validate, logger: logger}
}

// Create authors a new alert attributed to the acting manager.
func (s *AlertService) Create(ctx context.Context, actor policy.Actor, req AlertRequest) (*models.Alert, error) {
	if !policy.Allowed(actor, policy.ActionAlertWrite, policy.Resource{}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "manager role required")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid alert payload")
	}

	alert := &models.Alert{
		DiseaseName: req.DiseaseName,
		Location:    req.Location,
		Severity:    req.Severity,
		ReportCount: req.ReportCount,
		DetectedAt:  req.DetectedAt,
		Description: req.Description,
		Visible:     req.Visible,
		CreatedBy:   actor.ID,
	}

	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create alert")
	}

	return alert, nil
}

// List returns alerts for any authenticated actor. Farmers only see visible
// alerts; managers see everything.
func (s *AlertService) List(ctx context.Context, actor policy.Actor) ([]models.Alert, error) {
	if !policy.Allowed(actor, policy.ActionAlertRead, policy.Resource{}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "authentication required")
	}

	visibleOnly := actor.Role != models.RoleManager
	alerts, err := s.repo.List(ctx, visibleOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list alerts")
	}
	return alerts, nil
}

// Update overwrites the mutable fields of an alert.
func (s *AlertService) Update(ctx context.Context, actor policy.Actor, id string, req AlertRequest) (*models.Alert, error) {
	if !policy.Allowed(actor, policy.ActionAlertWrite, policy.Resource{}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "manager role required")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid alert payload")
	}

	alert, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "alert not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load alert")
	}

	alert.DiseaseName = req.DiseaseName
	alert.Location = req.Location
	alert.Severity = req.Severity
	alert.ReportCount = req.ReportCount
	alert.DetectedAt = req.DetectedAt
	alert.Description = req.Description
	alert.Visible = req.Visible

	if err := s.repo.Update(ctx, alert); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update alert")
	}

	return alert, nil
}

// Delete removes an alert permanently.
func (s *AlertService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if !policy.Allowed(actor, policy.ActionAlertWrite, policy.Resource{}) {
		return appErrors.Clone(appErrors.ErrForbidden, "manager role required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "alert not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete alert")
	}

	return nil
}
