package domain

import "time"

// User represents a registered account.
//
// PasswordHash is an opaque digest; nothing outside the password hasher
// interprets it, and it must never appear in API responses or logs.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Joke is a user-submitted joke.
//
// OwnerID is set once at creation and never changes; it is the only
// identity allowed to delete the joke.
type Joke struct {
	ID        string
	Name      string
	Content   string
	OwnerID   string
	CreatedAt time.Time
}
