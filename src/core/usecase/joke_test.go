package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jokebox/src/core/domain"
	"jokebox/src/core/usecase"
)

func TestDeleteByOwner(t *testing.T) {
	repo := newFakeRepo()
	svc := usecase.NewJokeService(repo, discardLogger())
	ctx := context.Background()

	joke, err := svc.Create(ctx, "user-1", "Road worker", "I never wanted to believe that my Dad was stealing from his job as a road worker. But when I got home, all the signs were there.")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, joke.ID, "user-1"))

	_, err = svc.Get(ctx, joke.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestDeleteByNonOwnerIsForbidden(t *testing.T) {
	repo := newFakeRepo()
	svc := usecase.NewJokeService(repo, discardLogger())
	ctx := context.Background()

	joke, err := svc.Create(ctx, "user-1", "Frisbee", "I was wondering why the frisbee was getting bigger, then it hit me.")
	require.NoError(t, err)

	err = svc.Delete(ctx, joke.ID, "user-2")
	assert.True(t, domain.IsForbidden(err))
	assert.False(t, domain.IsNotFound(err), "forbidden must stay distinct from not found")

	// The joke survives the attempt.
	_, err = svc.Get(ctx, joke.ID)
	assert.NoError(t, err)
}

func TestDeleteMissingJoke(t *testing.T) {
	repo := newFakeRepo()
	svc := usecase.NewJokeService(repo, discardLogger())

	err := svc.Delete(context.Background(), "joke-404", "user-1")
	assert.True(t, domain.IsNotFound(err))
	assert.False(t, domain.IsForbidden(err))
}

func TestAuthorizeDelete(t *testing.T) {
	assert.NoError(t, domain.AuthorizeDelete("user-1", "user-1"))

	err := domain.AuthorizeDelete("user-1", "user-2")
	assert.True(t, domain.IsForbidden(err))
}
