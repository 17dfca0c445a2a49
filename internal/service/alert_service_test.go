package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovigil/agrovigil-api/internal/models"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
)

type mockAlertRepo struct {
	items           map[string]*models.Alert
	nextID          int
	lastVisibleOnly bool
}

func newMockAlertRepo() *mockAlertRepo {
	return &mockAlertRepo{items: make(map[string]*models.Alert)}
}

func (m *mockAlertRepo) Create(ctx context.Context, alert *models.Alert) error {
	m.nextID++
	alert.ID = fmt.Sprintf("alert-%d", m.nextID)
	cp := *alert
	m.items[alert.ID] = &cp
	return nil
}

func (m *mockAlertRepo) FindByID(ctx context.Context, id string) (*models.Alert, error) {
	if alert, ok := m.items[id]; ok {
		cp := *alert
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAlertRepo) List(ctx context.Context, visibleOnly bool) ([]models.Alert, error) {
	m.lastVisibleOnly = visibleOnly
	result := make([]models.Alert, 0)
	for _, alert := range m.items {
		if visibleOnly && !alert.Visible {
			continue
		}
		result = append(result, *alert)
	}
	return result, nil
}

func (m *mockAlertRepo) Update(ctx context.Context, alert *models.Alert) error {
	if _, ok := m.items[alert.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *alert
	m.items[alert.ID] = &cp
	return nil
}

func (m *mockAlertRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func validAlertRequest() AlertRequest {
	return AlertRequest{
		DiseaseName: "Early Blight",
		Location:    "Kurunegala",
		Severity:    models.SeverityHigh,
		ReportCount: 14,
		DetectedAt:  time.Now(),
		Description: "Cluster of reports around Kurunegala town",
		Visible:     true,
	}
}

func TestAlertCreateManagerOnly(t *testing.T) {
	repo := newMockAlertRepo()
	svc := NewAlertService(repo, nil, nil)

	_, err := svc.Create(context.Background(), farmerActor("farmer-1"), validAlertRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	alert, err := svc.Create(context.Background(), managerActor("manager-1"), validAlertRequest())
	require.NoError(t, err)
	assert.Equal(t, "manager-1", alert.CreatedBy)
	assert.Len(t, repo.items, 1)
}

func TestAlertCreateRejectsUnknownSeverity(t *testing.T) {
	svc := NewAlertService(newMockAlertRepo(), nil, nil)

	req := validAlertRequest()
	req.Severity = models.AlertSeverity("Apocalyptic")
	_, err := svc.Create(context.Background(), managerActor("manager-1"), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAlertListVisibility(t *testing.T) {
	repo := newMockAlertRepo()
	svc := NewAlertService(repo, nil, nil)

	visible := validAlertRequest()
	_, err := svc.Create(context.Background(), managerActor("manager-1"), visible)
	require.NoError(t, err)

	hidden := validAlertRequest()
	hidden.Visible = false
	_, err = svc.Create(context.Background(), managerActor("manager-1"), hidden)
	require.NoError(t, err)

	farmerView, err := svc.List(context.Background(), farmerActor("farmer-1"))
	require.NoError(t, err)
	assert.Len(t, farmerView, 1)
	assert.True(t, repo.lastVisibleOnly)

	managerView, err := svc.List(context.Background(), managerActor("manager-1"))
	require.NoError(t, err)
	assert.Len(t, managerView, 2)
	assert.False(t, repo.lastVisibleOnly)
}

func TestAlertUpdateNotFound(t *testing.T) {
	svc := NewAlertService(newMockAlertRepo(), nil, nil)

	_, err := svc.Update(context.Background(), managerActor("manager-1"), "missing", validAlertRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAlertDelete(t *testing.T) {
	repo := newMockAlertRepo()
	svc := NewAlertService(repo, nil, nil)

	alert, err := svc.Create(context.Background(), managerActor("manager-1"), validAlertRequest())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), farmerActor("farmer-1"), alert.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), managerActor("manager-1"), alert.ID))
	assert.Empty(t, repo.items)
}
