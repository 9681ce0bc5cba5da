package service

import (
	"context"
	"errors"
	"testing"

	"postboard/internal/auth"
	"postboard/internal/models"
	"postboard/internal/repository"
	"postboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphServiceFollowUserErrors(t *testing.T) {
	svc := NewGraphService(noopFollowRepo(), noopUserRepo())

	_, err := svc.FollowUser(context.Background(), auth.Anonymous{}, "u-2")
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)

	_, err = svc.FollowUser(context.Background(), auth.Authenticated{UserID: "u-1"}, "u-1")
	assertAppCode(t, err, models.CodeSelfFollowRejected)
	assert.Equal(t, models.MsgSelfFollow, models.AsAppError(err).Message)

	_, err = svc.FollowUser(context.Background(), auth.Authenticated{UserID: "u-1"}, "")
	assertAppCode(t, err, models.CodeValidation)
}

func TestGraphServiceFollowUserSoftOutcomes(t *testing.T) {
	caller := auth.Authenticated{UserID: "u-1"}
	storeErr := models.NewInternalError(errors.New("db down"))

	tests := []struct {
		name    string
		setup   func(*followRepoStub, *userRepoStub)
		message string
	}{
		{
			name: "Missing Target",
			setup: func(_ *followRepoStub, u *userRepoStub) {
				u.getByIDFn = func(context.Context, string) (*models.User, error) { return nil, nil }
			},
			message: models.MsgFollowTargetGone,
		},
		{
			name: "Target Lookup Failure",
			setup: func(_ *followRepoStub, u *userRepoStub) {
				u.getByIDFn = func(context.Context, string) (*models.User, error) { return nil, storeErr }
			},
			message: models.MsgFollowFailed,
		},
		{
			name: "Already Following",
			setup: func(f *followRepoStub, _ *userRepoStub) {
				f.existsFn = func(context.Context, string, string) (bool, error) { return true, nil }
			},
			message: models.MsgAlreadyFollowing,
		},
		{
			name: "Insert Race",
			setup: func(f *followRepoStub, _ *userRepoStub) {
				f.createFn = func(context.Context, string, string) error { return repository.ErrDuplicate }
			},
			message: models.MsgAlreadyFollowing,
		},
		{
			name: "Insert Failure",
			setup: func(f *followRepoStub, _ *userRepoStub) {
				f.createFn = func(context.Context, string, string) error { return storeErr }
			},
			message: models.MsgFollowFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			follows, users := noopFollowRepo(), noopUserRepo()
			tt.setup(follows, users)

			svc := NewGraphService(follows, users)
			res, err := svc.FollowUser(context.Background(), caller, "u-2")
			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Equal(t, tt.message, res.Message)
			assert.Nil(t, res.ID)
			require.NotNil(t, res.Followers, "failed follows report an empty list")
			assert.Empty(t, res.Followers)
		})
	}
}

func TestGraphServiceFollowUserSuccess(t *testing.T) {
	follows := noopFollowRepo()
	var edge [2]string
	follows.createFn = func(_ context.Context, follower, following string) error {
		edge = [2]string{follower, following}
		return nil
	}
	follows.followersFn = func(context.Context, string) ([]models.User, error) {
		return []models.User{{ID: "u-3"}}, nil
	}

	svc := NewGraphService(follows, noopUserRepo())
	res, err := svc.FollowUser(context.Background(), auth.Authenticated{UserID: "u-1"}, "u-2")
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, models.MsgFollowed, res.Message)
	require.NotNil(t, res.ID)
	assert.Equal(t, "u-1", *res.ID)
	assert.Len(t, res.Followers, 1)
	assert.Equal(t, [2]string{"u-1", "u-2"}, edge)
}

func TestGraphServiceUnfollowUser(t *testing.T) {
	caller := auth.Authenticated{UserID: "u-1"}

	t.Run("Anonymous", func(t *testing.T) {
		svc := NewGraphService(noopFollowRepo(), noopUserRepo())
		_, err := svc.UnfollowUser(context.Background(), auth.Anonymous{}, "u-2")
		assert.ErrorIs(t, err, models.ErrNotAuthenticated)
	})

	t.Run("Removed", func(t *testing.T) {
		svc := NewGraphService(noopFollowRepo(), noopUserRepo())
		res, err := svc.UnfollowUser(context.Background(), caller, "u-2")
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, models.MsgUnfollowed, res.Message)
	})

	t.Run("Not Following", func(t *testing.T) {
		follows := noopFollowRepo()
		follows.deleteFn = func(context.Context, string, string) (bool, error) { return false, nil }

		svc := NewGraphService(follows, noopUserRepo())
		res, err := svc.UnfollowUser(context.Background(), caller, "u-2")
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, models.MsgUnfollowFailed, res.Message)
	})

	t.Run("Store Failure", func(t *testing.T) {
		follows := noopFollowRepo()
		follows.deleteFn = func(context.Context, string, string) (bool, error) {
			return false, models.NewInternalError(errors.New("db down"))
		}

		svc := NewGraphService(follows, noopUserRepo())
		res, err := svc.UnfollowUser(context.Background(), caller, "u-2")
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, models.MsgUnfollowFailed, res.Message)
	})
}

func TestGraphServiceSearchUsers(t *testing.T) {
	users := noopUserRepo()
	var gotExclude string
	var gotLimit int
	users.searchFn = func(_ context.Context, _ string, excludeID string, limit int) ([]models.User, error) {
		gotExclude, gotLimit = excludeID, limit
		return []models.User{{ID: "u-2"}}, nil
	}
	svc := NewGraphService(noopFollowRepo(), users)

	_, err := svc.SearchUsers(context.Background(), auth.Anonymous{}, "al")
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)

	res, err := svc.SearchUsers(context.Background(), auth.Authenticated{UserID: "u-1"}, "al")
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, "u-1", gotExclude)
	assert.Equal(t, 10, gotLimit)
}

func TestGraphServiceSQLite(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	svc := NewGraphService(repository.NewFollowRepository(db), repository.NewUserRepository(db))
	ctx := context.Background()
	asAlice := auth.Authenticated{UserID: alice.ID}

	t.Run("Repeated Follow", func(t *testing.T) {
		first, err := svc.FollowUser(ctx, asAlice, bob.ID)
		require.NoError(t, err)
		assert.True(t, first.Success)

		second, err := svc.FollowUser(ctx, asAlice, bob.ID)
		require.NoError(t, err)
		assert.False(t, second.Success)
		assert.Equal(t, models.MsgAlreadyFollowing, second.Message)

		var edges int64
		require.NoError(t, db.Model(&models.Follow{}).Count(&edges).Error)
		assert.Equal(t, int64(1), edges)
	})

	t.Run("Inverse Views", func(t *testing.T) {
		following, err := svc.FollowingOf(ctx, alice.ID)
		require.NoError(t, err)
		followers, err := svc.FollowersOf(ctx, bob.ID)
		require.NoError(t, err)

		require.Len(t, following, 1)
		require.Len(t, followers, 1)
		assert.Equal(t, bob.ID, following[0].ID)
		assert.Equal(t, alice.ID, followers[0].ID)
	})

	t.Run("Unknown Target", func(t *testing.T) {
		res, err := svc.FollowUser(ctx, asAlice, "does-not-exist")
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, models.MsgFollowTargetGone, res.Message)
	})

	t.Run("Unfollow Twice", func(t *testing.T) {
		first, err := svc.UnfollowUser(ctx, asAlice, bob.ID)
		require.NoError(t, err)
		assert.True(t, first.Success)

		second, err := svc.UnfollowUser(ctx, asAlice, bob.ID)
		require.NoError(t, err)
		assert.False(t, second.Success)

		followers, err := svc.FollowersOf(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, followers)
	})
}
