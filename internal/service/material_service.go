package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/agrovigil/agrovigil-api/internal/models"
	"github.com/agrovigil/agrovigil-api/internal/policy"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
)

type materialRepository interface {
	Create(ctx context.Context, material *models.Material) error
	FindByID(ctx context.Context, id string) (*models.Material, error)
	List(ctx context.Context, category *models.MaterialCategory, search string) ([]models.Material, error)
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id string) error
}

// MaterialRequest is the payload for creating or updating a catalog entry.
type MaterialRequest struct {
	Name            string                  `json:"name" validate:"required"`
	Category        models.MaterialCategory `json:"category" validate:"required,oneof=Fertilizer Pesticide Fungicide Seed Equipment"`
	UsageTags       []string                `json:"usage_tags"`
	Instructions    string                  `json:"instructions"`
	Unit            models.MaterialUnit     `json:"unit" validate:"required,oneof=kg litre packet piece"`
	Price           float64                 `json:"price" validate:"gte=0"`
	SupplierName    string                  `json:"supplier_name" validate:"required"`
	SupplierContact string                  `json:"supplier_contact"`
	Image           string                  `json:"image"`
}

// MaterialService manages the agricultural materials catalog. Pure reference
// data: reads are open to any authenticated actor, writes are manager-only.
type MaterialService struct {
	repo      materialRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMaterialService creates an instance of MaterialService.
func NewMaterialService(repo materialRepository, validate *validator.Validate, logger *zap.Logger) *MaterialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MaterialService{repo: repo, validator: validate, logger: logger}
}

// Create adds a new catalog entry.
func (s *MaterialService) Create(ctx context.Context, actor policy.Actor, req MaterialRequest) (*models.Material, error) {
	if !policy.Allowed(actor, policy.ActionMaterialWrite, policy.Resource{}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "manager role required")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid material payload")
	}

	material := &models.Material{
		Name:            req.Name,
		Category:        req.Category,
		UsageTags:       pq.StringArray(req.UsageTags),
		Instructions:    req.Instructions,
		Unit:            req.Unit,
		Price:           req.Price,
		SupplierName:    req.SupplierName,
		SupplierContact: req.SupplierContact,
		ImagePath:       req.Image,
	}

	if err := s.repo.Create(ctx, material); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create material")
	}

	return material, nil
}

// Get returns a catalog entry by id.
func (s *MaterialService) Get(ctx context.Context, actor policy.Actor, id string) (*models.Material, error) {
	if !policy.Allowed(actor, policy.ActionMaterialRead, policy.Resource{}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "authentication required")
	}

	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load material")
	}
	return material, nil
}

// List returns catalog entries with optional category and name filters.
func (s *MaterialService) List(ctx context.Context, actor policy.Actor, category *models.MaterialCategory, search string) ([]models.Material, error) {
	if !policy.Allowed(actor, policy.ActionMaterialRead, policy.Resource{}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "authentication required")
	}

	if category != nil && !category.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown material category")
	}

	materials, err := s.repo.List(ctx, category, search)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list materials")
	}
	return materials, nil
}

// Update overwrites a catalog entry.
func (s *MaterialService) Update(ctx context.Context, actor policy.Actor, id string, req MaterialRequest) (*models.Material, error) {
	if !policy.Allowed(actor, policy.ActionMaterialWrite, policy.Resource{}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "manager role required")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid material payload")
	}

	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load material")
	}

	material.Name = req.Name
	material.Category = req.Category
	material.UsageTags = pq.StringArray(req.UsageTags)
	material.Instructions = req.Instructions
	material.Unit = req.Unit
	material.Price = req.Price
	material.SupplierName = req.SupplierName
	material.SupplierContact = req.SupplierContact
	material.ImagePath = req.Image

	if err := s.repo.Update(ctx, material); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update material")
	}

	return material, nil
}

// Delete removes a catalog entry permanently.
func (s *MaterialService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if !policy.Allowed(actor, policy.ActionMaterialWrite, policy.Resource{}) {
		return appErrors.Clone(appErrors.ErrForbidden, "manager role required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete material")
	}

	return nil
}
