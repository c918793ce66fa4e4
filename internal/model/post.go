package model

import "time"

// Post is a blog entry owned by exactly one user.
//
// UserID is the owning user's ID and is immutable after creation — the
// service layer enforces that only the owner may update or delete a post.
// Title and Body are required to be non-empty on create.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
