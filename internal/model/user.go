// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// PasswordHash is the bcrypt output for the user's password — never the
// plaintext, and never serialized to JSON (`json:"-"`). Accounts created
// through GitHub OAuth get a random, unusable hash; they can only log in
// through the OAuth flow.
//
// The ID is an xid string generated by the repository on insert. Email is
// UNIQUE at the database level — it is the natural login key.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
