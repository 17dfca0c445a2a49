package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovigil/agrovigil-api/internal/models"
	"github.com/agrovigil/agrovigil-api/internal/policy"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
)

type mockInquiryRepo struct {
	items   map[string]*models.Inquiry
	nextID  int
	listErr error
}

func newMockInquiryRepo() *mockInquiryRepo {
	return &mockInquiryRepo{items: make(map[string]*models.Inquiry)}
}

func (m *mockInquiryRepo) Create(ctx context.Context, inquiry *models.Inquiry) error {
	m.nextID++
	inquiry.ID = fmt.Sprintf("inq-%d", m.nextID)
	cp := *inquiry
	m.items[inquiry.ID] = &cp
	return nil
}

func (m *mockInquiryRepo) FindByID(ctx context.Context, id string) (*models.Inquiry, error) {
	if inquiry, ok := m.items[id]; ok {
		cp := *inquiry
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockInquiryRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Inquiry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]models.Inquiry, 0)
	for _, inquiry := range m.items {
		if inquiry.OwnerID == ownerID {
			result = append(result, *inquiry)
		}
	}
	return result, nil
}

func (m *mockInquiryRepo) ListAll(ctx context.Context) ([]models.Inquiry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]models.Inquiry, 0, len(m.items))
	for _, inquiry := range m.items {
		result = append(result, *inquiry)
	}
	return result, nil
}

func (m *mockInquiryRepo) ListFiltered(ctx context.Context, filter models.InquiryFilter) ([]models.Inquiry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]models.Inquiry, 0)
	for _, inquiry := range m.items {
		if filter.Status != nil && inquiry.Status != *filter.Status {
			continue
		}
		result = append(result, *inquiry)
	}
	return result, nil
}

func (m *mockInquiryRepo) Update(ctx context.Context, inquiry *models.Inquiry) error {
	if _, ok := m.items[inquiry.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *inquiry
	m.items[inquiry.ID] = &cp
	return nil
}

func (m *mockInquiryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func (m *mockInquiryRepo) SetStatus(ctx context.Context, id string, status models.InquiryStatus) error {
	inquiry, ok := m.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	inquiry.Status = status
	return nil
}

func (m *mockInquiryRepo) SetReply(ctx context.Context, id string, reply *string) error {
	inquiry, ok := m.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	inquiry.Reply = reply
	return nil
}

type mockActivityRepo struct {
	entries []models.ActivityLog
	err     error
}

func (m *mockActivityRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockActivityRepo) ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && limit < len(m.entries) {
		return m.entries[len(m.entries)-limit:], nil
	}
	return m.entries, nil
}

type mockImageStorage struct {
	saved   []string
	removed []string
	saveErr error
}

func (m *mockImageStorage) SaveDataURL(raw string) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.saved = append(m.saved, raw)
	return "stored-" + raw, nil
}

func (m *mockImageStorage) Remove(filename string) error {
	m.removed = append(m.removed, filename)
	return nil
}

func validCreateRequest() CreateInquiryRequest {
	return CreateInquiryRequest{
		FullName:         "Nimal Perera",
		Email:            "nimal@example.com",
		Location:         "Kurunegala",
		ContactNumber:    "0771234567",
		PlantName:        "Tomato",
		DiseaseName:      "Early Blight",
		IssueDescription: "Brown concentric spots on lower leaves",
		Image:            "leaf.jpg",
	}
}

func newInquiryFixture(t *testing.T) (*InquiryService, *mockInquiryRepo, *mockActivityRepo, *mockImageStorage) {
	t.Helper()
	repo := newMockInquiryRepo()
	activity := &mockActivityRepo{}
	store := &mockImageStorage{}
	return NewInquiryService(repo, activity, store, nil, nil), repo, activity, store
}

func farmerActor(id string) policy.Actor {
	return policy.Actor{ID: id, Role: models.RoleCropFarmer}
}

func managerActor(id string) policy.Actor {
	return policy.Actor{ID: id, Role: models.RoleManager}
}

func TestInquiryCreate(t *testing.T) {
	svc, repo, activity, store := newInquiryFixture(t)

	inquiry, err := svc.Create(context.Background(), farmerActor("farmer-1"), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, "farmer-1", inquiry.OwnerID)
	assert.Equal(t, models.StatusPending, inquiry.Status)
	assert.Nil(t, inquiry.Reply)
	assert.Equal(t, "stored-leaf.jpg", inquiry.ImagePath)
	assert.Len(t, repo.items, 1)
	assert.Len(t, store.saved, 1)
	require.Len(t, activity.entries, 1)
	assert.Equal(t, models.ActivityActionInquiryCreate, activity.entries[0].Action)
}

func TestInquiryCreateMissingFields(t *testing.T) {
	svc, repo, _, _ := newInquiryFixture(t)

	fields := []func(*CreateInquiryRequest){
		func(r *CreateInquiryRequest) { r.FullName = "" },
		func(r *CreateInquiryRequest) { r.Email = "" },
		func(r *CreateInquiryRequest) { r.Location = "" },
		func(r *CreateInquiryRequest) { r.ContactNumber = "" },
		func(r *CreateInquiryRequest) { r.PlantName = "" },
		func(r *CreateInquiryRequest) { r.DiseaseName = "" },
		func(r *CreateInquiryRequest) { r.IssueDescription = "" },
		func(r *CreateInquiryRequest) { r.Image = "" },
	}

	for _, blank := range fields {
		req := validCreateRequest()
		blank(&req)

		_, err := svc.Create(context.Background(), farmerActor("farmer-1"), req)
		require.Error(t, err)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
		assert.Equal(t, "send all required fields", appErr.Message)
	}

	assert.Empty(t, repo.items)
}

func TestInquiryCreateSurvivesActivityFailure(t *testing.T) {
	repo := newMockInquiryRepo()
	activity := &mockActivityRepo{err: errors.New("audit store down")}
	svc := NewInquiryService(repo, activity, &mockImageStorage{}, nil, nil)

	inquiry, err := svc.Create(context.Background(), farmerActor("farmer-1"), validCreateRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, inquiry.ID)
	assert.Len(t, repo.items, 1)
}

func TestInquiryGetOwnerOnly(t *testing.T) {
	svc, _, _, _ := newInquiryFixture(t)

	created, err := svc.Create(context.Background(), farmerActor("farmer-1"), validCreateRequest())
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), farmerActor("farmer-1"), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Get(context.Background(), farmerActor("farmer-2"), created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	// Manager role grants no owner override on single-record reads.
	_, err = svc.Get(context.Background(), managerActor("manager-1"), created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestInquiryGetNotFound(t *testing.T) {
	svc, _, _, _ := newInquiryFixture(t)

	_, err := svc.Get(context.Background(), farmerActor("farmer-1"), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestInquiryUpdateOwnership(t *testing.T) {
	svc, _, _, _ := newInquiryFixture(t)

	created, err := svc.Create(context.Background(), farmerActor("farmer-1"), validCreateRequest())
	require.NoError(t, err)

	update := UpdateInquiryRequest{
		FullName:         "Nimal Perera",
		Email:            "nimal@example.com",
		Location:         "Anuradhapura",
		ContactNumber:    "0771234567",
		PlantName:        "Tomato",
		DiseaseName:      "Late Blight",
		IssueDescription: "Spreading to upper leaves",
	}

	_, err = svc.Update(context.Background(), managerActor("manager-1"), created.ID, update)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	updated, err := svc.Update(context.Background(), farmerActor("farmer-1"), created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Late Blight", updated.DiseaseName)
	assert.Equal(t, models.StatusPending, updated.Status)
	assert.Equal(t, created.ImagePath, updated.ImagePath)
}

func TestInquiryDeleteRemovesImage(t *testing.T) {
	svc, repo, _, store := newInquiryFixture(t)

	created, err := svc.Create(context.Background(), farmerActor("farmer-1"), validCreateRequest())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), farmerActor("farmer-2"), created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), farmerActor("farmer-1"), created.ID))
	assert.Empty(t, repo.items)
	assert.Equal(t, []string{created.ImagePath}, store.removed)
}

func TestInquiryListAllManagerOnly(t *testing.T) {
	svc, _, _, _ := newInquiryFixture(t)

	_, err := svc.Create(context.Background(), farmerActor("farmer-1"), validCreateRequest())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), farmerActor("farmer-2"), validCreateRequest())
	require.NoError(t, err)

	_, err = svc.ListAll(context.Background(), farmerActor("farmer-1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	all, err := svc.ListAll(context.Background(), managerActor("manager-1"))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestInquiryListFilteredRejectsUnknownStatus(t *testing.T) {
	svc, _, _, _ := newInquiryFixture(t)

	bogus := models.InquiryStatus("Escalated")
	_, err := svc.ListFiltered(context.Background(), managerActor("manager-1"), models.InquiryFilter{Status: &bogus})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestInquirySetStatus(t *testing.T) {
	svc, _, _, _ := newInquiryFixture(t)

	created, err := svc.Create(context.Background(), farmerActor("farmer-1"), validCreateRequest())
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), farmerActor("farmer-1"), created.ID, models.StatusResolved)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	updated, err := svc.SetStatus(context.Background(), managerActor("manager-1"), created.ID, models.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, updated.Status)

	// Statuses have no transition ordering: Resolved can go back to Pending.
	reverted, err := svc.SetStatus(context.Background(), managerActor("manager-1"), created.ID, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, reverted.Status)
}

func TestInquirySetStatusValidatesBeforeLookup(t *testing.T) {
	svc, _, _, _ := newInquiryFixture(t)

	_, err := svc.SetStatus(context.Background(), managerActor("manager-1"), "missing", models.InquiryStatus("Escalated"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.SetStatus(context.Background(), managerActor("manager-1"), "missing", models.StatusResolved)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestInquiryReplyIndependentOfStatus(t *testing.T) {
	svc, _, _, _ := newInquiryFixture(t)

	created, err := svc.Create(context.Background(), farmerActor("farmer-1"), validCreateRequest())
	require.NoError(t, err)

	replied, err := svc.SetReply(context.Background(), managerActor("manager-1"), created.ID, "Apply mancozeb weekly")
	require.NoError(t, err)
	require.NotNil(t, replied.Reply)
	assert.Equal(t, "Apply mancozeb weekly", *replied.Reply)
	assert.Equal(t, models.StatusPending, replied.Status)

	cleared, err := svc.ClearReply(context.Background(), managerActor("manager-1"), created.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.Reply)
	assert.Equal(t, models.StatusPending, cleared.Status)
}

func TestInquirySetReplyValidation(t *testing.T) {
	svc, _, _, _ := newInquiryFixture(t)

	created, err := svc.Create(context.Background(), farmerActor("farmer-1"), validCreateRequest())
	require.NoError(t, err)

	_, err = svc.SetReply(context.Background(), managerActor("manager-1"), created.ID, "   ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.SetReply(context.Background(), farmerActor("farmer-1"), created.ID, "not allowed")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
