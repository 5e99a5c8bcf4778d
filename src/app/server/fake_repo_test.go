package server_test

import (
	"context"
	"fmt"
	"time"

	"jokebox/src/core/domain"
	"jokebox/src/core/ports"
)

// fakeRepo is an in-memory ports.ContentRepository so router tests run
// without Postgres.
type fakeRepo struct {
	users map[string]*domain.User
	jokes map[string]*domain.Joke
	seq   int
}

var _ ports.ContentRepository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: make(map[string]*domain.User),
		jokes: make(map[string]*domain.Joke),
	}
}

func (r *fakeRepo) Health(context.Context) error { return nil }

func (r *fakeRepo) CreateUser(_ context.Context, username, passwordHash string) (*domain.User, error) {
	if _, exists := r.users[username]; exists {
		return nil, domain.NewConflictError("username already taken")
	}
	r.seq++
	u := &domain.User{
		ID:           fmt.Sprintf("user-%d", r.seq),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	r.users[username] = u
	return u, nil
}

func (r *fakeRepo) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return u, nil
	}
	return nil, domain.NewNotFoundError("user")
}

func (r *fakeRepo) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError("user")
}

func (r *fakeRepo) CreateJoke(_ context.Context, ownerID, name, content string) (*domain.Joke, error) {
	r.seq++
	j := &domain.Joke{
		ID:        fmt.Sprintf("joke-%d", r.seq),
		Name:      name,
		Content:   content,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}
	r.jokes[j.ID] = j
	return j, nil
}

func (r *fakeRepo) GetJokeByID(_ context.Context, jokeID string) (*domain.Joke, error) {
	if j, ok := r.jokes[jokeID]; ok {
		return j, nil
	}
	return nil, domain.NewNotFoundError("joke")
}

func (r *fakeRepo) ListJokes(context.Context) ([]ports.JokeSummary, error) {
	out := make([]ports.JokeSummary, 0, len(r.jokes))
	for _, j := range r.jokes {
		out = append(out, ports.JokeSummary{ID: j.ID, Name: j.Name})
	}
	return out, nil
}

func (r *fakeRepo) GetRandomJoke(context.Context) (*domain.Joke, error) {
	for _, j := range r.jokes {
		return j, nil
	}
	return nil, domain.NewNotFoundError("joke")
}

func (r *fakeRepo) DeleteJoke(_ context.Context, jokeID string) error {
	if _, ok := r.jokes[jokeID]; !ok {
		return domain.NewNotFoundError("joke")
	}
	delete(r.jokes, jokeID)
	return nil
}
