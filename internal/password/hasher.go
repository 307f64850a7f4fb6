package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxBcryptBytes is the number of password bytes bcrypt reads.
const maxBcryptBytes = 72

// ErrMismatch indicates the password does not match the hash.
var ErrMismatch = errors.New("password does not match")

// Hasher hashes and verifies passwords.
type Hasher interface {
	// Hash returns a salted hash of password.
	Hash(password string) (string, error)

	// Compare returns nil if password matches hash, ErrMismatch otherwise.
	Compare(hash, password string) error

	// CompareDummy spends the same time as Compare for a missing user.
	CompareDummy(password string)
}

// BcryptHasher implements Hasher with golang.org/x/crypto/bcrypt.
type BcryptHasher struct {
	cost      int
	dummyHash []byte
}

// NewBcryptHasher creates a BcryptHasher with the given work factor.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("recipebook-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare bcrypt hasher: %w", err)
	}
	return &BcryptHasher{cost: cost, dummyHash: dummy}, nil
}

// Hash returns the bcrypt hash of password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncate(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare verifies password against a bcrypt hash.
func (h *BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), truncate(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return fmt.Errorf("failed to compare password: %w", err)
}

// CompareDummy runs a comparison against a fixed hash and discards the result.
func (h *BcryptHasher) CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, truncate(password))
}

// truncate keeps the bytes bcrypt actually reads; newer x/crypto versions
// reject longer inputs instead of ignoring the tail.
func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > maxBcryptBytes {
		b = b[:maxBcryptBytes]
	}
	return b
}

var _ Hasher = (*BcryptHasher)(nil)
