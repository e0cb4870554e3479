package main

import (
	"context"
	"testing"

	"contentlib/internal/content/model"
	"contentlib/internal/content/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedReplacesExistingRecords(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	_, err := repo.Create(ctx, model.NewContent{Title: "old"})
	require.NoError(t, err)

	n, err := seed(ctx, repo, false)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)

	withoutDescription := 0
	for _, c := range list {
		assert.NotEqual(t, "old", c.Title)
		if c.Description == nil {
			withoutDescription++
		}
	}
	assert.Equal(t, 1, withoutDescription)
}

func TestSeedKeep(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	_, err := repo.Create(ctx, model.NewContent{Title: "old"})
	require.NoError(t, err)

	_, err = seed(ctx, repo, true)
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 6)
}

func TestKeepFlag(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--keep"}))
	keep, err := cmd.Flags().GetBool("keep")
	require.NoError(t, err)
	assert.True(t, keep)
}
