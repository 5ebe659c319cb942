// Package models defines the records persisted in the JSON documents on disk.
package models

// User is a registered account. PasswordHash is a bcrypt hash; the plaintext
// password never leaves the login path.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
}

// RoleAdmin is the role tag assigned by the one-shot bootstrap path.
const RoleAdmin = "admin"
