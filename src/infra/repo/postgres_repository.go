// Package repo contains the PostgreSQL implementation of the repository
// ports defined in src/core/ports.
package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"jokebox/src/core/domain"
	"jokebox/src/core/ports"
	"jokebox/src/infra/db"
)

// PostgresRepository implements ports.ContentRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgresRepository constructs a repository backed by Postgres.
func NewPostgresRepository(pg *db.Postgres, log *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		pool: pg.Pool,
		log:  log,
	}
}

func (r *PostgresRepository) Health(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
// The unique index on username is what turns a concurrent duplicate
// registration into a conflict instead of a second account.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS users (
			user_id       TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS jokes (
			joke_id    TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL REFERENCES users (user_id),
			name       TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS jokes_created_at_idx ON jokes (created_at DESC);
	`
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	r.log.Info("database schema ensured")
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// Users

func (r *PostgresRepository) CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	const q = `
		INSERT INTO users (user_id, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING user_id, username, password_hash, created_at
	`
	var u domain.User
	err := r.pool.QueryRow(ctx, q, uuid.New().String(), username, passwordHash).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.NewConflictError("username already taken")
		}
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	const q = `
		SELECT user_id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`
	var u domain.User
	if err := r.pool.QueryRow(ctx, q, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("user")
		}
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	const q = `
		SELECT user_id, username, password_hash, created_at
		FROM users
		WHERE user_id = $1
	`
	var u domain.User
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("user")
		}
		return nil, err
	}
	return &u, nil
}

// Jokes

func (r *PostgresRepository) CreateJoke(ctx context.Context, ownerID, name, content string) (*domain.Joke, error) {
	const q = `
		INSERT INTO jokes (joke_id, owner_id, name, content)
		VALUES ($1, $2, $3, $4)
		RETURNING joke_id, name, content, owner_id, created_at
	`
	var j domain.Joke
	err := r.pool.QueryRow(ctx, q, uuid.New().String(), ownerID, name, content).Scan(
		&j.ID, &j.Name, &j.Content, &j.OwnerID, &j.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *PostgresRepository) GetJokeByID(ctx context.Context, jokeID string) (*domain.Joke, error) {
	const q = `
		SELECT joke_id, name, content, owner_id, created_at
		FROM jokes
		WHERE joke_id = $1
	`
	var j domain.Joke
	if err := r.pool.QueryRow(ctx, q, jokeID).Scan(&j.ID, &j.Name, &j.Content, &j.OwnerID, &j.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("joke")
		}
		return nil, err
	}
	return &j, nil
}

func (r *PostgresRepository) ListJokes(ctx context.Context) ([]ports.JokeSummary, error) {
	const q = `
		SELECT joke_id, name
		FROM jokes
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jokes := make([]ports.JokeSummary, 0)
	for rows.Next() {
		var j ports.JokeSummary
		if err := rows.Scan(&j.ID, &j.Name); err != nil {
			return nil, err
		}
		jokes = append(jokes, j)
	}
	return jokes, rows.Err()
}

func (r *PostgresRepository) GetRandomJoke(ctx context.Context) (*domain.Joke, error) {
	const q = `
		SELECT joke_id, name, content, owner_id, created_at
		FROM jokes
		ORDER BY random()
		LIMIT 1
	`
	var j domain.Joke
	if err := r.pool.QueryRow(ctx, q).Scan(&j.ID, &j.Name, &j.Content, &j.OwnerID, &j.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("joke")
		}
		return nil, err
	}
	return &j, nil
}

func (r *PostgresRepository) DeleteJoke(ctx context.Context, jokeID string) error {
	const q = `DELETE FROM jokes WHERE joke_id = $1`
	tag, err := r.pool.Exec(ctx, q, jokeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("joke")
	}
	return nil
}
