package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/agrovigil/agrovigil-api/internal/models"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
)

type mockUserRepo struct {
	items  map[string]*models.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{items: make(map[string]*models.User)}
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range m.items {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.items {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.items[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.nextID++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", m.nextID)
	}
	cp := *user
	m.items[user.ID] = &cp
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	svc := NewAuthService(repo, &mockActivityRepo{}, nil, nil, AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
	})
	return svc, repo
}

func validRegisterRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Username: "nimal",
		Email:    "nimal@example.com",
		Password: "s3cret-pass",
		FullName: "Nimal Perera",
		Role:     models.RoleCropFarmer,
	}
}

func seedUser(t *testing.T, repo *mockUserRepo, username string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		FullName:     "Seeded User",
		Role:         role,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestRegister(t *testing.T) {
	svc, repo := newAuthFixture(t)

	user, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, models.RoleCropFarmer, user.Role)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	dup := validRegisterRequest()
	dup.Email = "other@example.com"
	_, err = svc.Register(context.Background(), dup)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	dup = validRegisterRequest()
	dup.Username = "other"
	_, err = svc.Register(context.Background(), dup)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _ := newAuthFixture(t)

	req := validRegisterRequest()
	req.Role = models.UserRole("SUPERUSER")
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLogin(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "nimal", models.RoleCropFarmer)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "nimal", Password: "s3cret-pass"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "nimal", resp.User.Username)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "nimal", models.RoleCropFarmer)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "nimal", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	// Unknown user produces the same message as a wrong password.
	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "s3cret-pass"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthenticate(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seeded := seedUser(t, repo, "nimal", models.RoleManager)

	token, _, err := svc.IssueToken(seeded)
	require.NoError(t, err)

	// Both the RFC form and a bare token are accepted.
	for _, header := range []string{"Bearer " + token, token} {
		user, claims, err := svc.Authenticate(context.Background(), header)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, user.ID)
		assert.Empty(t, user.PasswordHash)
		assert.Equal(t, models.RoleManager, claims.Role)
	}
}

func TestAuthenticateMissingHeader(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.Authenticate(context.Background(), "")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
	assert.Equal(t, "missing authorization header", appErr.Message)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seeded := seedUser(t, repo, "nimal", models.RoleCropFarmer)

	past := time.Now().UTC().Add(-2 * time.Hour)
	claims := &models.JWTClaims{
		UserID:   seeded.ID,
		Username: seeded.Username,
		Role:     seeded.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   seeded.ID,
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(past),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, _, err = svc.Authenticate(context.Background(), "Bearer "+expired)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
	assert.Equal(t, "token expired", appErr.Message)
}

func TestAuthenticateGarbageToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.Authenticate(context.Background(), "Bearer not-a-token")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
	assert.Equal(t, "invalid token", appErr.Message)
}

func TestAuthenticateDeletedUser(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seeded := seedUser(t, repo, "nimal", models.RoleCropFarmer)

	token, _, err := svc.IssueToken(seeded)
	require.NoError(t, err)

	delete(repo.items, seeded.ID)

	_, _, err = svc.Authenticate(context.Background(), "Bearer "+token)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
	assert.Equal(t, "user no longer exists", appErr.Message)
}

func TestAuthenticateWrongSecret(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seeded := seedUser(t, repo, "nimal", models.RoleCropFarmer)

	other := NewAuthService(repo, &mockActivityRepo{}, nil, nil, AuthConfig{Secret: "other-secret", Expiration: time.Hour})
	token, _, err := other.IssueToken(seeded)
	require.NoError(t, err)

	_, _, err = svc.Authenticate(context.Background(), "Bearer "+token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
