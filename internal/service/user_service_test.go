package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovigil/agrovigil-api/internal/models"
	"github.com/agrovigil/agrovigil-api/internal/policy"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
)

type mockUserAdminRepo struct {
	users   []models.User
	deleted []string
}

func (m *mockUserAdminRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	return m.users, len(m.users), nil
}

func (m *mockUserAdminRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			cp := user
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserAdminRepo) Delete(ctx context.Context, id string) error {
	for i, user := range m.users {
		if user.ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			m.deleted = append(m.deleted, id)
			return nil
		}
	}
	return sql.ErrNoRows
}

func adminActor(id string) policy.Actor {
	return policy.Actor{ID: id, Role: models.RoleAdmin}
}

func TestUserListAdminOnly(t *testing.T) {
	repo := &mockUserAdminRepo{users: []models.User{
		{ID: "user-1", Username: "nimal", PasswordHash: "hash"},
		{ID: "user-2", Username: "kamala", PasswordHash: "hash"},
	}}
	activity := &mockActivityRepo{}
	svc := NewUserService(repo, activity, nil)

	_, _, err := svc.List(context.Background(), managerActor("manager-1"), models.UserFilter{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	users, pagination, err := svc.List(context.Background(), adminActor("admin-1"), models.UserFilter{})
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, user := range users {
		assert.Empty(t, user.PasswordHash)
	}
	assert.Equal(t, 2, pagination.TotalCount)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
}

func TestUserProfileSelfScoped(t *testing.T) {
	repo := &mockUserAdminRepo{users: []models.User{
		{ID: "user-1", Username: "nimal", PasswordHash: "hash", Role: models.RoleCropFarmer},
	}}
	svc := NewUserService(repo, &mockActivityRepo{}, nil)

	profile, err := svc.Profile(context.Background(), farmerActor("user-1"), "user-1")
	require.NoError(t, err)
	assert.Empty(t, profile.PasswordHash)

	_, err = svc.Profile(context.Background(), farmerActor("user-2"), "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUserRecentActivityAdminOnly(t *testing.T) {
	activity := &mockActivityRepo{entries: []models.ActivityLog{
		{ID: "log-1", Action: models.ActivityActionLogin},
		{ID: "log-2", Action: models.ActivityActionInquiryCreate},
	}}
	svc := NewUserService(&mockUserAdminRepo{}, activity, nil)

	_, err := svc.RecentActivity(context.Background(), managerActor("manager-1"), 50)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	entries, err := svc.RecentActivity(context.Background(), adminActor("admin-1"), 50)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestUserDelete(t *testing.T) {
	repo := &mockUserAdminRepo{users: []models.User{{ID: "user-1"}}}
	activity := &mockActivityRepo{}
	svc := NewUserService(repo, activity, nil)

	err := svc.Delete(context.Background(), managerActor("manager-1"), "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), adminActor("admin-1"), "user-1"))
	assert.Equal(t, []string{"user-1"}, repo.deleted)
	require.Len(t, activity.entries, 1)
	assert.Equal(t, models.ActivityActionUserDelete, activity.entries[0].Action)

	err = svc.Delete(context.Background(), adminActor("admin-1"), "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
