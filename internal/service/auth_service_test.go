package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edumgmt-api/internal/models"
	appErrors "github.com/noah-isme/edumgmt-api/pkg/errors"
)

type userRepoStub struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func (s userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func newAuthService(repo userRepoStub) *AuthService {
	return NewAuthService(repo, nil, zap.NewNop(), AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "edumgmt-api-test",
	})
}

func hashPassword(t *testing.T, raw string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthServiceLoginAndValidate(t *testing.T) {
	user := &models.User{
		ID:           "user-1",
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "secret123"),
		FullName:     "Alice",
		Role:         models.RoleTeacher,
		Active:       true,
	}
	service := newAuthService(userRepoStub{byEmail: map[string]*models.User{user.Email: user}})

	res, err := service.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, models.RoleTeacher, res.User.Role)

	claims, err := service.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           "user-1",
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "secret123"),
		Role:         models.RoleTeacher,
		Active:       true,
	}
	service := newAuthService(userRepoStub{byEmail: map[string]*models.User{user.Email: user}})

	_, err := service.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	service := newAuthService(userRepoStub{})

	_, err := service.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	user := &models.User{
		ID:           "user-1",
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "secret123"),
		Role:         models.RoleTeacher,
		Active:       false,
	}
	service := newAuthService(userRepoStub{byEmail: map[string]*models.User{user.Email: user}})

	_, err := service.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginValidation(t *testing.T) {
	service := newAuthService(userRepoStub{})

	_, err := service.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: ""})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenWrongSecret(t *testing.T) {
	user := &models.User{
		ID:           "user-1",
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "secret123"),
		Role:         models.RoleTeacher,
		Active:       true,
	}
	issuer := newAuthService(userRepoStub{byEmail: map[string]*models.User{user.Email: user}})
	res, err := issuer.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "secret123"})
	require.NoError(t, err)

	verifier := NewAuthService(userRepoStub{}, nil, zap.NewNop(), AuthConfig{
		AccessTokenSecret: "other-secret",
		AccessTokenExpiry: time.Hour,
	})
	_, err = verifier.ValidateToken(res.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceMe(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "alice@example.com", FullName: "Alice", Role: models.RoleTeacher}
	service := newAuthService(userRepoStub{byID: map[string]*models.User{"user-1": user}})

	info, err := service.Me(context.Background(), teacherClaims("user-1"))
	require.NoError(t, err)
	assert.Equal(t, "Alice", info.FullName)

	_, err = service.Me(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
