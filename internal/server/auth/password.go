// Package auth implements password hashing for the credential store.
//
// Hashing is bcrypt with a fixed cost: deliberately slow, salted, and
// adaptive. The cost is embedded in the stored hash, so verification keeps
// working for hashes written with a different work factor.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used when hashing new passwords.
const Cost = bcrypt.DefaultCost

// ErrEmptyPassword is returned when an empty password is offered for hashing.
var ErrEmptyPassword = errors.New("empty password")

// HashPassword generates a salted bcrypt hash of the plaintext password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
// A malformed hash and a mismatch are indistinguishable to the caller; both
// return false.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
