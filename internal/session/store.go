package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"fieldtrack/internal/common/errors"
	"fieldtrack/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Store keeps sessions in Redis keyed by an opaque token. The TTL on the
// Redis key is the source of truth for expiry; ExpiresAt on the session is
// informational for clients.
type Store struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewStore(client redis.Cmdable, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create mints a new session for the user and stores it under a random token.
func (s *Store) Create(ctx context.Context, user *models.UserAccount) (*models.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	now := time.Now().UTC()
	sess := &models.Session{
		Token:     token,
		UserID:    user.ID,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+token, payload, s.ttl).Err(); err != nil {
		return nil, errors.NewConnectionFailedError(err)
	}

	return sess, nil
}

// Get resolves a token to its session. Missing or expired keys both surface
// as a session-expired error.
func (s *Store) Get(ctx context.Context, token string) (*models.Session, error) {
	payload, err := s.client.Get(ctx, keyPrefix+token).Result()
	if err == redis.Nil {
		return nil, errors.NewSessionExpiredError()
	}
	if err != nil {
		return nil, errors.NewConnectionFailedError(err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if sess.IsExpired() {
		return nil, errors.NewSessionExpiredError()
	}

	return &sess, nil
}

// Destroy removes the session. Destroying an unknown token is a no-op.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return errors.NewConnectionFailedError(err)
	}
	return nil
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
