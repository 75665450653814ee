package auth

import (
	"context"

	"fieldtrack/internal/common/errors"
	"fieldtrack/internal/common/logger"
	"fieldtrack/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// UserFinder is the slice of the user store the login flow needs.
type UserFinder interface {
	FindByIdentifier(ctx context.Context, identifier string) (*models.UserAccount, error)
}

// Service authenticates portal logins. Each portal accepts only its own
// role, so a worker account cannot sign in through the admin portal even
// with valid credentials.
type Service struct {
	users      UserFinder
	bcryptCost int
	logger     logger.Logger
}

func NewService(users UserFinder, bcryptCost int, log logger.Logger) *Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		bcryptCost: bcryptCost,
		logger:     log,
	}
}

// Login resolves the account by email or mobile and verifies it against the
// portal role, the active flag and the stored password hash, in that order.
func (s *Service) Login(ctx context.Context, portal models.Role, identifier, password string) (*models.UserAccount, error) {
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if user.Role != portal {
		s.logger.Warn("portal role mismatch", map[string]interface{}{
			"user_id": user.ID,
			"portal":  string(portal),
			"role":    string(user.Role),
		})
		return nil, errors.NewAccessDeniedError(string(portal), string(user.Role))
	}

	if !user.Active {
		return nil, errors.NewAccountDisabledError(user.ID)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.NewInvalidCredentialsError()
	}

	s.logger.Info("login succeeded", map[string]interface{}{
		"user_id": user.ID,
		"role":    string(user.Role),
	})
	return user, nil
}

// HashPassword produces the bcrypt hash stored on new accounts.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
