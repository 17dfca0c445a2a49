package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/agrovigil/agrovigil-api/internal/models"
	"github.com/agrovigil/agrovigil-api/internal/policy"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type activityLogRepository interface {
	activityRepository
	ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error)
}

// UserService covers the admin user-management surface. Roles are immutable
// after registration, so there is no role-update operation here.
type UserService struct {
	repo     userRepository
	activity activityLogRepository
	logger   *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, activity activityLogRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, activity: activity, logger: logger}
}

// List returns users with pagination metadata. Admin-only.
func (s *UserService) List(ctx context.Context, actor policy.Actor, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	if !policy.Allowed(actor, policy.ActionUserAdmin, policy.Resource{}) {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "admin role required")
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}

	for i := range users {
		users[i].PasswordHash = ""
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	return users, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Profile returns the actor's own record, password hash stripped.
func (s *UserService) Profile(ctx context.Context, actor policy.Actor, id string) (*models.User, error) {
	if !policy.Allowed(actor, policy.ActionProfileRead, policy.Resource{OwnerID: id}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "profiles are self-scoped")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	user.PasswordHash = ""
	return user, nil
}

// RecentActivity returns the newest audit-trail entries. Admin-only.
func (s *UserService) RecentActivity(ctx context.Context, actor policy.Actor, limit int) ([]models.ActivityLog, error) {
	if !policy.Allowed(actor, policy.ActionUserAdmin, policy.Resource{}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin role required")
	}

	entries, err := s.activity.ListRecent(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activity")
	}
	return entries, nil
}

// Delete removes a user permanently. Admin-only.
func (s *UserService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if !policy.Allowed(actor, policy.ActionUserAdmin, policy.Resource{}) {
		return appErrors.Clone(appErrors.ErrForbidden, "admin role required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}

	if err := s.activity.Create(ctx, &models.ActivityLog{
		UserID:     &actor.ID,
		Action:     models.ActivityActionUserDelete,
		Resource:   "users",
		ResourceID: &id,
	}); err != nil {
		s.logger.Warn("failed to record user delete activity", zap.Error(err))
	}

	return nil
}
