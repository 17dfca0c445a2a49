package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/agrovigil/agrovigil-api/internal/models"
	"github.com/agrovigil/agrovigil-api/internal/policy"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
)

type inquiryRepository interface {
	Create(ctx context.Context, inquiry *models.Inquiry) error
	FindByID(ctx context.Context, id string) (*models.Inquiry, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Inquiry, error)
	ListAll(ctx context.Context) ([]models.Inquiry, error)
	ListFiltered(ctx context.Context, filter models.InquiryFilter) ([]models.Inquiry, error)
	Update(ctx context.Context, inquiry *models.Inquiry) error
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status models.InquiryStatus) error
	SetReply(ctx context.Context, id string, reply *string) error
}

type imageStorage interface {
	SaveDataURL(raw string) (string, error)
	Remove(filename string) error
}

// CreateInquiryRequest carries the eight required submission fields plus
// optional geocoordinates.
type CreateInquiryRequest struct {
	FullName         string   `json:"fullname" validate:"required"`
	Email            string   `json:"email" validate:"required,email"`
	Location         string   `json:"location" validate:"required"`
	ContactNumber    string   `json:"contact_number" validate:"required"`
	PlantName        string   `json:"plant_name" validate:"required"`
	DiseaseName      string   `json:"disease_name" validate:"required"`
	IssueDescription string   `json:"issue_description" validate:"required"`
	Image            string   `json:"image" validate:"required"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
}

// UpdateInquiryRequest carries the owner-editable content fields. Status,
// reply and image are not owner-editable through this payload.
type UpdateInquiryRequest struct {
	FullName         string   `json:"fullname" validate:"required"`
	Email            string   `json:"email" validate:"required,email"`
	Location         string   `json:"location" validate:"required"`
	ContactNumber    string   `json:"contact_number" validate:"required"`
	PlantName        string   `json:"plant_name" validate:"required"`
	DiseaseName      string   `json:"disease_name" validate:"required"`
	IssueDescription string   `json:"issue_description" validate:"required"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
}

// SetReplyRequest is the manager reply payload.
type SetReplyRequest struct {
	Reply string `json:"reply" validate:"required"`
}

// SetStatusRequest is the manager status payload.
type SetStatusRequest struct {
	Status models.InquiryStatus `json:"status" validate:"required"`
}

// InquiryService owns the inquiry lifecycle: submission, owner-scoped
// content edits, and the manager triage side-channel (status and reply).
// Status and reply are fully independent fields; replying never changes
// status and vice versa.
type InquiryService struct {
	repo      inquiryRepository
	activity  activityRepository
	storage   imageStorage
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInquiryService creates an instance of InquiryService.
func NewInquiryService(repo inquiryRepository, activity activityRepository, storage imageStorage, validate *validator.Validate, logger *zap.Logger) *InquiryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &InquiryService{repo: repo, activity: activity, storage: storage, validator: validate, logger: logger}
}

// Create submits a new inquiry for the acting user. All eight submission
// fields must be present; the record starts Pending with the actor as
// immutable owner. The activity-log write afterwards is best-effort: it can
// lag or miss without undoing the inquiry write.
func (s *InquiryService) Create(ctx context.Context, actor policy.Actor, req CreateInquiryRequest) (*models.Inquiry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "send all required fields")
	}

	imagePath := req.Image
	if s.storage != nil {
		stored, err := s.storage.SaveDataURL(req.Image)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid image payload")
		}
		imagePath = stored
	}

	inquiry := &models.Inquiry{
		OwnerID:          actor.ID,
		FullName:         req.FullName,
		Email:            req.Email,
		Location:         req.Location,
		ContactNumber:    req.ContactNumber,
		PlantName:        req.PlantName,
		DiseaseName:      req.DiseaseName,
		IssueDescription: req.IssueDescription,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		ImagePath:        imagePath,
		Status:           models.StatusPending,
	}

	if err := s.repo.Create(ctx, inquiry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create inquiry")
	}

	s.recordActivity(ctx, actor.ID, models.ActivityActionInquiryCreate, inquiry.ID, map[string]interface{}{
		"plant_name":   inquiry.PlantName,
		"disease_name": inquiry.DiseaseName,
	})

	return inquiry, nil
}

// Get returns a single inquiry. Only the owner may read it; a manager who is
// not the owner is still refused here and must use the un-scoped listing.
func (s *InquiryService) Get(ctx context.Context, actor policy.Actor, id string) (*models.Inquiry, error) {
	inquiry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.Allowed(actor, policy.ActionInquiryRead, policy.Resource{OwnerID: inquiry.OwnerID}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not the owner of this inquiry")
	}

	return inquiry, nil
}

// ListOwn returns every inquiry owned by the actor, unfiltered by status.
func (s *InquiryService) ListOwn(ctx context.Context, ownerID string) ([]models.Inquiry, error) {
	inquiries, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inquiries")
	}
	return inquiries, nil
}

// ListAll returns every inquiry in the store. Manager-only; intended for map
// and analytics consumption.
func (s *InquiryService) ListAll(ctx context.Context, actor policy.Actor) ([]models.Inquiry, error) {
	if !policy.Allowed(actor, policy.ActionInquiryListAll, policy.Resource{}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "manager role required")
	}

	inquiries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inquiries")
	}
	return inquiries, nil
}

// ListFiltered is the manager triage listing. A present status filter must be
// one of the closed values; filters combine with logical AND.
func (s *InquiryService) ListFiltered(ctx context.Context, actor policy.Actor, filter models.InquiryFilter) ([]models.Inquiry, error) {
	if !policy.Allowed(actor, policy.ActionInquiryListAll, policy.Resource{}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "manager role required")
	}

	if filter.Status != nil && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown status value")
	}

	inquiries, err := s.repo.ListFiltered(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inquiries")
	}
	return inquiries, nil
}

// Update overwrites the owner-editable fields of an inquiry. Manager role
// grants no override; status and reply are untouched.
func (s *InquiryService) Update(ctx context.Context, actor policy.Actor, id string, req UpdateInquiryRequest) (*models.Inquiry, error) {
	inquiry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.Allowed(actor, policy.ActionInquiryUpdate, policy.Resource{OwnerID: inquiry.OwnerID}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not the owner of this inquiry")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "send all required fields")
	}

	inquiry.FullName = req.FullName
	inquiry.Email = req.Email
	inquiry.Location = req.Location
	inquiry.ContactNumber = req.ContactNumber
	inquiry.PlantName = req.PlantName
	inquiry.DiseaseName = req.DiseaseName
	inquiry.IssueDescription = req.IssueDescription
	inquiry.Latitude = req.Latitude
	inquiry.Longitude = req.Longitude

	if err := s.repo.Update(ctx, inquiry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update inquiry")
	}

	s.recordActivity(ctx, actor.ID, models.ActivityActionInquiryUpdate, inquiry.ID, nil)

	return inquiry, nil
}

// Delete permanently removes an inquiry. Owner only; no soft delete and no
// cascade.
func (s *InquiryService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	inquiry, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if !policy.Allowed(actor, policy.ActionInquiryDelete, policy.Resource{OwnerID: inquiry.OwnerID}) {
		return appErrors.Clone(appErrors.ErrForbidden, "not the owner of this inquiry")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "inquiry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete inquiry")
	}

	if s.storage != nil && inquiry.ImagePath != "" {
		if err := s.storage.Remove(inquiry.ImagePath); err != nil {
			s.logger.Warn("failed to remove inquiry image", zap.String("inquiry_id", id), zap.Error(err))
		}
	}

	s.recordActivity(ctx, actor.ID, models.ActivityActionInquiryDelete, id, nil)

	return nil
}

// SetStatus assigns the triage status. Manager-only; any of the three closed
// values may be assigned at any time, there is no transition ordering. Values
// outside the set fail validation before the record is even looked up.
func (s *InquiryService) SetStatus(ctx context.Context, actor policy.Actor, id string, status models.InquiryStatus) (*models.Inquiry, error) {
	if !policy.Allowed(actor, policy.ActionInquirySetStatus, policy.Resource{}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "manager role required")
	}

	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be one of Pending, In Progress, Resolved")
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inquiry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set inquiry status")
	}

	s.recordActivity(ctx, actor.ID, models.ActivityActionStatusChange, id, map[string]interface{}{"status": status})

	return s.find(ctx, id)
}

// SetReply attaches a manager reply. The reply never changes status as a
// side effect; a manager must set both explicitly.
func (s *InquiryService) SetReply(ctx context.Context, actor policy.Actor, id, reply string) (*models.Inquiry, error) {
	if !policy.Allowed(actor, policy.ActionInquiryReply, policy.Resource{}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "manager role required")
	}

	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reply must not be empty")
	}

	if err := s.repo.SetReply(ctx, id, &trimmed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inquiry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set inquiry reply")
	}

	s.recordActivity(ctx, actor.ID, models.ActivityActionReplyPost, id, nil)

	return s.find(ctx, id)
}

// ClearReply unsets the reply field entirely, which is distinct from setting
// it to an empty string.
func (s *InquiryService) ClearReply(ctx context.Context, actor policy.Actor, id string) (*models.Inquiry, error) {
	if !policy.Allowed(actor, policy.ActionInquiryReply, policy.Resource{}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "manager role required")
	}

	if err := s.repo.SetReply(ctx, id, nil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inquiry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear inquiry reply")
	}

	s.recordActivity(ctx, actor.ID, models.ActivityActionReplyClear, id, nil)

	return s.find(ctx, id)
}

func (s *InquiryService) find(ctx context.Context, id string) (*models.Inquiry, error) {
	inquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inquiry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inquiry")
	}
	return inquiry, nil
}

func (s *InquiryService) recordActivity(ctx context.Context, actorID, action, resourceID string, detail map[string]interface{}) {
	var payload []byte
	if detail != nil {
		payload, _ = json.Marshal(detail)
	}
	if err := s.activity.Create(ctx, &models.ActivityLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   "inquiries",
		ResourceID: &resourceID,
		Detail:     payload,
	}); err != nil {
		s.logger.Warn("failed to record inquiry activity", zap.String("action", action), zap.Error(err))
	}
}
