package auth

import (
	"errors"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes passwords for storage. Every call draws a fresh salt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher falls back to bcrypt.DefaultCost when cost is out of range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", internal.ErrHashing.Wrap(err)
	}
	return string(hash), nil
}

// Verify reports a mismatch as (false, nil). Only a hash bcrypt cannot
// read is an error.
func (h *BcryptHasher) Verify(plaintext, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, internal.ErrHashing.Wrap(err)
	}
}
