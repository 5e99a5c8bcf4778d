package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"jokebox/src/core/domain"
	"jokebox/src/core/ports"
)

// AuthService handles login and registration.
type AuthService struct {
	repo   ports.ContentRepository
	hasher ports.PasswordHasher
	log    *slog.Logger

	// dummyDigest is verified against when the username does not exist,
	// so that lookup misses and password mismatches take the same time
	// and return the same error.
	dummyDigest string
}

func NewAuthService(repo ports.ContentRepository, hasher ports.PasswordHasher, log *slog.Logger) *AuthService {
	dummy, err := hasher.Hash("jokebox-dummy-credential")
	if err != nil {
		// bcrypt only fails on absurd cost or over-long input, neither
		// of which applies to a fixed short string.
		panic(fmt.Sprintf("hashing dummy credential: %v", err))
	}
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		log:         log,
		dummyDigest: dummy,
	}
}

// Login verifies a username/password pair.
//
// An unknown username and a wrong password both return the same
// unauthorized error; callers must not be able to tell them apart.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if domain.IsNotFound(err) {
			s.hasher.Verify(password, s.dummyDigest)
			return nil, domain.NewUnauthorizedError("username/password combination is incorrect")
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.NewUnauthorizedError("username/password combination is incorrect")
	}

	s.log.Info("user logged in", "user_id", user.ID)
	return user, nil
}

// Register creates a new account.
//
// The username is checked before insert; the unique index on users
// backstops the inherent race window, so a concurrent insert still maps
// to the same conflict error.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return nil, domain.NewConflictError(fmt.Sprintf("user with username %s already exists", username))
	} else if !domain.IsNotFound(err) {
		return nil, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, username, digest)
	if err != nil {
		if domain.IsConflict(err) {
			return nil, domain.NewConflictError(fmt.Sprintf("user with username %s already exists", username))
		}
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// CurrentUser resolves a session user id to the account it references.
// A session pointing at a deleted user reads as not found, which guards
// translate to "unauthenticated" rather than an error.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}
