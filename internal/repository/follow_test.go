package repository

import (
	"context"
	"testing"

	"postboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_Lifecycle(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	t.Run("Create and Exists", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, alice.ID, bob.ID))

		exists, err := repo.Exists(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.Exists(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, exists, "edges are directed")
	})

	t.Run("Duplicate edge", func(t *testing.T) {
		err := repo.Create(ctx, alice.ID, bob.ID)
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("Followers and Following are inverse", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, carol.ID, bob.ID))
		require.NoError(t, repo.Create(ctx, alice.ID, carol.ID))

		followers, err := repo.Followers(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, followers, 2)
		assert.Equal(t, alice.ID, followers[0].ID, "oldest edge first")
		assert.Equal(t, carol.ID, followers[1].ID)

		following, err := repo.Following(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, following, 2)
		assert.Equal(t, bob.ID, following[0].ID)
		assert.Equal(t, carol.ID, following[1].ID)

		for _, f := range followers {
			theirs, err := repo.Following(ctx, f.ID)
			require.NoError(t, err)
			ids := make([]string, 0, len(theirs))
			for _, u := range theirs {
				ids = append(ids, u.ID)
			}
			assert.Contains(t, ids, bob.ID)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		removed, err := repo.Delete(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = repo.Delete(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, removed)

		followers, err := repo.Followers(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, followers, 1)
		assert.Equal(t, carol.ID, followers[0].ID)
	})

	t.Run("Empty views are empty slices", func(t *testing.T) {
		loner := testutil.CreateUser(t, db, "loner")
		followers, err := repo.Followers(ctx, loner.ID)
		require.NoError(t, err)
		assert.NotNil(t, followers)
		assert.Empty(t, followers)
	})
}
