package usecase

import (
	"context"
	"log/slog"

	"jokebox/src/core/domain"
	"jokebox/src/core/ports"
)

// JokeService handles joke reads and ownership-gated writes.
type JokeService struct {
	repo ports.ContentRepository
	log  *slog.Logger
}

func NewJokeService(repo ports.ContentRepository, log *slog.Logger) *JokeService {
	return &JokeService{repo: repo, log: log}
}

// Create stores a new joke owned by ownerID.
func (s *JokeService) Create(ctx context.Context, ownerID, name, content string) (*domain.Joke, error) {
	joke, err := s.repo.CreateJoke(ctx, ownerID, name, content)
	if err != nil {
		return nil, err
	}
	s.log.Info("joke created", "joke_id", joke.ID, "owner_id", ownerID)
	return joke, nil
}

// Get returns a joke by id.
func (s *JokeService) Get(ctx context.Context, jokeID string) (*domain.Joke, error) {
	return s.repo.GetJokeByID(ctx, jokeID)
}

// List returns all jokes, newest first.
func (s *JokeService) List(ctx context.Context) ([]ports.JokeSummary, error) {
	return s.repo.ListJokes(ctx)
}

// Random returns a random joke.
func (s *JokeService) Random(ctx context.Context) (*domain.Joke, error) {
	return s.repo.GetRandomJoke(ctx)
}

// Delete removes a joke on behalf of userID.
//
// Order matters: existence is confirmed first (missing jokes are not
// found, regardless of who asks), then ownership (foreign jokes are
// forbidden), and only then is the delete issued.
func (s *JokeService) Delete(ctx context.Context, jokeID, userID string) error {
	joke, err := s.repo.GetJokeByID(ctx, jokeID)
	if err != nil {
		return err
	}

	if err := domain.AuthorizeDelete(joke.OwnerID, userID); err != nil {
		return err
	}

	if err := s.repo.DeleteJoke(ctx, jokeID); err != nil {
		return err
	}

	s.log.Info("joke deleted", "joke_id", jokeID, "user_id", userID)
	return nil
}
