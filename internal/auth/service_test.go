package auth

import (
	"context"
	"testing"

	"fieldtrack/internal/common/errors"
	"fieldtrack/internal/common/logger"
	"fieldtrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUserFinder struct {
	user *models.UserAccount
	err  error
}

func (s *stubUserFinder) FindByIdentifier(ctx context.Context, identifier string) (*models.UserAccount, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func workerAccount(t *testing.T) *models.UserAccount {
	return &models.UserAccount{
		ID:           "u1",
		Name:         "Jane",
		Role:         models.RoleWorker,
		Mobile:       "9876543210",
		Email:        "jane@acme.test",
		PasswordHash: hashOf(t, "secret1"),
		Active:       true,
	}
}

func TestLogin_Succeeds(t *testing.T) {
	svc := NewService(&stubUserFinder{user: workerAccount(t)}, bcrypt.MinCost, logger.NewTestLogger(t))

	user, err := svc.Login(context.Background(), models.RoleWorker, "jane@acme.test", "secret1")

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestLogin_WorkerRejectedOnAdminPortal(t *testing.T) {
	svc := NewService(&stubUserFinder{user: workerAccount(t)}, bcrypt.MinCost, logger.NewTestLogger(t))

	_, err := svc.Login(context.Background(), models.RoleAdmin, "jane@acme.test", "secret1")

	require.Error(t, err)
	std := errors.AsStandard(err)
	assert.Equal(t, errors.ErrCodeAccessDenied, std.Code)
}

func TestLogin_DisabledAccount(t *testing.T) {
	user := workerAccount(t)
	user.Active = false
	svc := NewService(&stubUserFinder{user: user}, bcrypt.MinCost, logger.NewTestLogger(t))

	_, err := svc.Login(context.Background(), models.RoleWorker, "jane@acme.test", "secret1")

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAccountDisabled, errors.AsStandard(err).Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := NewService(&stubUserFinder{user: workerAccount(t)}, bcrypt.MinCost, logger.NewTestLogger(t))

	_, err := svc.Login(context.Background(), models.RoleWorker, "jane@acme.test", "nope")

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidCredentials, errors.AsStandard(err).Code)
}

func TestLogin_UnknownAccountPassesThrough(t *testing.T) {
	svc := NewService(&stubUserFinder{err: errors.NewAccountNotFoundError("ghost")}, bcrypt.MinCost, logger.NewTestLogger(t))

	_, err := svc.Login(context.Background(), models.RoleWorker, "ghost", "secret1")

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAccountNotFound, errors.AsStandard(err).Code)
}

func TestHashPassword_RoundTrips(t *testing.T) {
	svc := NewService(&stubUserFinder{}, bcrypt.MinCost, logger.NewTestLogger(t))

	hash, err := svc.HashPassword("secret1")

	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret1")))
}
