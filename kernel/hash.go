package kernel

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrMismatchedHashAndPassword = errors.New("mismatched password and hash")

// HashPassword generates a salted bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("refusing to hash empty password")
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(h), err
}

// ComparePasswordAndHash validates that the cleartext password matches
// the stored hash.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}
