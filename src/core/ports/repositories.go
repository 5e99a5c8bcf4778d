// Package ports defines interfaces (ports) that connect core domain to infrastructure.
// These interfaces follow the ports and adapters (hexagonal) architecture pattern.
//
// Ports are defined here in the core layer, while implementations (adapters)
// live in src/infra. This ensures the core has no dependency on infrastructure.
package ports

import (
	"context"

	"jokebox/src/core/domain"
)

// Repository is the base interface for all repositories.
// Concrete repositories should embed this and add entity-specific methods.
type Repository interface {
	// Health checks if the underlying storage is reachable.
	Health(ctx context.Context) error
}

// JokeSummary is the listing projection of a joke (no content, no owner).
type JokeSummary struct {
	ID   string
	Name string
}

// ContentRepository covers user accounts and their jokes.
type ContentRepository interface {
	Repository

	// Users
	CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// Jokes
	CreateJoke(ctx context.Context, ownerID, name, content string) (*domain.Joke, error)
	GetJokeByID(ctx context.Context, jokeID string) (*domain.Joke, error)
	ListJokes(ctx context.Context) ([]JokeSummary, error)
	GetRandomJoke(ctx context.Context) (*domain.Joke, error)
	DeleteJoke(ctx context.Context, jokeID string) error
}
