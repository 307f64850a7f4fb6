package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenSize is the number of random bytes in a session token.
const TokenSize = 32

// keyPrefix namespaces session entries in the store.
const keyPrefix = "session:"

// ErrInvalidToken indicates the token is malformed, unknown or expired.
var ErrInvalidToken = errors.New("invalid session token")

// Session is the payload kept in the store for one login.
// The token itself is never stored; only its SHA-256 digest is used as key.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager creates, resolves and destroys sessions.
type Manager struct {
	store  Store
	ttl    time.Duration
	logger zerolog.Logger
}

// NewManager creates a session manager over store. ttl bounds every session.
func NewManager(store Store, ttl time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		store:  store,
		ttl:    ttl,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// TTL returns the lifetime of new sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create starts a session for userID and returns the token to hand to the client.
func (m *Manager) Create(ctx context.Context, userID int64) (string, error) {
	token, err := GenerateToken()
	if err != nil {
		return "", err
	}

	sess := Session{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}

	if err := m.store.Set(ctx, storeKey(token), payload, m.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	m.logger.Debug().
		Str("session_id", sess.ID.String()).
		Int64("user_id", userID).
		Msg("session created")

	return token, nil
}

// Resolve returns the session for token.
// Returns ErrInvalidToken if the token is malformed or unknown.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	if !validToken(token) {
		return nil, ErrInvalidToken
	}

	payload, err := m.store.Get(ctx, storeKey(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// Destroy ends the session for token. Unknown tokens are ignored.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if !validToken(token) {
		return nil
	}
	if err := m.store.Delete(ctx, storeKey(token)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// GenerateToken returns TokenSize random bytes as a hex string.
func GenerateToken() (string, error) {
	buf := make([]byte, TokenSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func validToken(token string) bool {
	if len(token) != TokenSize*2 {
		return false
	}
	_, err := hex.DecodeString(token)
	return err == nil
}

func storeKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}
