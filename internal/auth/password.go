package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch reports a failed password comparison.
var ErrPasswordMismatch = errors.New("password mismatch")

// PasswordHasher abstracts credential hashing so the verification scheme can
// be swapped without touching call sites. Every role goes through Compare;
// there is no bypass.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(stored, plain string) error
}

// BcryptHasher is the default hasher.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher builds a hasher with the configured cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Compare(stored, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// PlaintextHasher compares passwords verbatim. Exists only to read stores
// written by earlier versions of the product, which kept credentials as
// plaintext; enabled via AUTH_PLAINTEXT_PASSWORDS.
type PlaintextHasher struct{}

func (PlaintextHasher) Hash(password string) (string, error) {
	return password, nil
}

func (PlaintextHasher) Compare(stored, plain string) error {
	if subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
