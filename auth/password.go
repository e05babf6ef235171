package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes password with bcrypt.
func HashPassword(password string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", ErrNotValid)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpected, err)
	}

	return hash, nil
}

// CheckPassword compares password to hash.
// If they do not match, ErrNotValid returns.
func CheckPassword(hash []byte, password string) error {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrHashTooShort):
		return fmt.Errorf("%w: password does not match", ErrNotValid)
	default:
		return fmt.Errorf("%w: %s", ErrUnexpected, err)
	}
}
