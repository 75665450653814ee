package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	stderrors "fieldtrack/internal/common/errors"
	"fieldtrack/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UserStore provides access to user accounts.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a user store.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByIdentifier looks up the single account whose email OR mobile matches
// the identifier. Exactly one match is required for a login to proceed; no
// match returns an account-not-found error.
func (s *UserStore) FindByIdentifier(ctx context.Context, identifier string) (*models.UserAccount, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, role, mobile, email, password_hash, active, created_at
		FROM users
		WHERE email = $1 OR mobile = $1`, identifier)

	var u models.UserAccount
	err := row.Scan(&u.ID, &u.Name, &u.Role, &u.Mobile, &u.Email, &u.PasswordHash, &u.Active, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, stderrors.NewAccountNotFoundError(identifier)
	}
	if err != nil {
		return nil, stderrors.NewQueryFailedError("users_find", err)
	}
	return &u, nil
}

// Get returns one account by id.
func (s *UserStore) Get(ctx context.Context, id string) (*models.UserAccount, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, role, mobile, email, password_hash, active, created_at
		FROM users WHERE id = $1`, id)

	var u models.UserAccount
	err := row.Scan(&u.ID, &u.Name, &u.Role, &u.Mobile, &u.Email, &u.PasswordHash, &u.Active, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, stderrors.NewAccountNotFoundError(id)
	}
	if err != nil {
		return nil, stderrors.NewQueryFailedError("users_get", err)
	}
	return &u, nil
}

// Create inserts a new account. PasswordHash must already be a bcrypt hash.
func (s *UserStore) Create(ctx context.Context, u *models.UserAccount) error {
	u.ID = uuid.New().String()
	u.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, role, mobile, email, password_hash, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Name, u.Role, u.Mobile, u.Email, u.PasswordHash, u.Active, u.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return stderrors.NewDuplicateAccountError(u.Email)
		}
		return stderrors.NewQueryFailedError("users_create", err)
	}
	return nil
}
