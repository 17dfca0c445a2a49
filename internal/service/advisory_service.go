package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/agrovigil/agrovigil-api/internal/advisory"
	"github.com/agrovigil/agrovigil-api/internal/policy"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
)

// AdvisoryService fronts the external classifier and treatment collaborators.
// Upstream failures pass through to the caller unretried.
type AdvisoryService struct {
	inquiries  inquiryRepository
	classifier advisory.Classifier
	suggester  advisory.TreatmentSuggester
	logger     *zap.Logger
}

// NewAdvisoryService creates an instance of AdvisoryService.
func NewAdvisoryService(inquiries inquiryRepository, classifier advisory.Classifier, suggester advisory.TreatmentSuggester, logger *zap.Logger) *AdvisoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvisoryService{inquiries: inquiries, classifier: classifier, suggester: suggester, logger: logger}
}

// Identify runs the disease classifier over raw image bytes for any
// authenticated actor.
func (s *AdvisoryService) Identify(ctx context.Context, actor policy.Actor, image []byte) ([]advisory.Label, error) {
	if actor.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "authentication required")
	}
	if len(image) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "image payload must not be empty")
	}

	labels, err := s.classifier.Classify(ctx, image)
	if err != nil {
		return nil, err
	}
	return labels, nil
}

// SuggestTreatment asks the AI collaborator for treatment advice on one of
// the actor's own inquiries.
func (s *AdvisoryService) SuggestTreatment(ctx context.Context, actor policy.Actor, inquiryID string) (*advisory.Suggestion, error) {
	inquiry, err := s.inquiries.FindByID(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inquiry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inquiry")
	}

	if !policy.Allowed(actor, policy.ActionInquiryRead, policy.Resource{OwnerID: inquiry.OwnerID}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not the owner of this inquiry")
	}

	suggestion, err := s.suggester.Suggest(ctx, inquiry)
	if err != nil {
		return nil, err
	}
	return suggestion, nil
}
