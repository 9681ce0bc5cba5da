package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"postboard/internal/auth"
	"postboard/internal/cache"
	"postboard/internal/models"
	"postboard/internal/repository"
	"postboard/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testCreds() *auth.Credentials {
	return auth.NewCredentials("seed-test-secret", time.Hour, bcrypt.MinCost)
}

func TestBuiltinPresets(t *testing.T) {
	presets, err := BuiltinPresets()
	require.NoError(t, err)

	for _, name := range []string{"tiny", "small", "demo", "crowded"} {
		p, ok := presets[name]
		require.True(t, ok, name)
		assert.Equal(t, name, p.Name)
		assert.Equal(t, DefaultPassword, p.Password)
		assert.NoError(t, p.Validate())
	}
}

func TestLoadPresets(t *testing.T) {
	doc := `
presets:
  custom:
    users: 2
    posts_per_user: 1
    password: hunter2
`
	presets, err := LoadPresets(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, Preset{Name: "custom", Users: 2, PostsPerUser: 1, Password: "hunter2"}, presets["custom"])

	_, err = LoadPresets(strings.NewReader("presets:\n  broken:\n    users: 0\n"))
	assert.Error(t, err)

	_, err = LoadPresets(strings.NewReader("presets: [not, a, map]"))
	assert.Error(t, err)
}

func TestLookupPresetUnknown(t *testing.T) {
	_, err := LookupPreset("galactic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tiny")
}

func TestRunKeepsInvariants(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	seeder := NewSeeder(db, testCreds(), 42)

	preset, err := LookupPreset("small")
	require.NoError(t, err)

	summary, err := seeder.Run(ctx, preset)
	require.NoError(t, err)
	assert.Equal(t, preset.Users, summary.Users)
	assert.Equal(t, preset.Users*preset.PostsPerUser, summary.Posts)
	assert.Equal(t, preset.Users*preset.FollowsPerUser, summary.Follows)
	assert.Equal(t, preset.Users*preset.LikesPerUser, summary.Likes)

	counts, err := CountRows(ctx, db)
	require.NoError(t, err)
	assert.EqualValues(t, summary.Users, counts["users"])
	assert.EqualValues(t, summary.Posts, counts["posts"])
	assert.EqualValues(t, summary.Follows, counts["follows"])
	assert.EqualValues(t, summary.Likes, counts["likes"])

	var selfFollows int64
	require.NoError(t, db.Model(&models.Follow{}).Where("follower_id = following_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	for _, p := range posts {
		var likes int64
		require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", p.ID).Count(&likes).Error)
		assert.EqualValues(t, likes, p.LikeCount, "post %s", p.ID)
	}
}

func TestRunLimitsToAvailableTargets(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	seeder := NewSeeder(db, testCreds(), 7)

	summary, err := seeder.Run(context.Background(), Preset{
		Name:           "oversized",
		Users:          3,
		PostsPerUser:   1,
		FollowsPerUser: 10,
		LikesPerUser:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Follows, "each user can follow at most the other two")
	assert.Equal(t, 9, summary.Likes, "each user can like at most the three posts")
}

func TestClean(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	seeder := NewSeeder(db, testCreds(), 1)

	preset, err := LookupPreset("tiny")
	require.NoError(t, err)
	_, err = seeder.Run(ctx, preset)
	require.NoError(t, err)

	require.NoError(t, seeder.Clean(ctx))
	counts, err := CountRows(ctx, db)
	require.NoError(t, err)
	for table, n := range counts {
		assert.Zero(t, n, table)
	}
}

func TestRunRejectsInvalidPreset(t *testing.T) {
	seeder := NewSeeder(testutil.NewSQLiteDB(t), testCreds(), 1)
	_, err := seeder.Run(context.Background(), Preset{Name: "empty"})
	assert.Error(t, err)
}

func TestCleanDropsCachedUsers(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })

	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	seeder := NewSeeder(db, testCreds(), 3)
	users := repository.NewUserRepository(db)

	preset, err := LookupPreset("tiny")
	require.NoError(t, err)
	_, err = seeder.Run(ctx, preset)
	require.NoError(t, err)

	var seeded models.User
	require.NoError(t, db.First(&seeded).Error)
	cached, err := users.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	require.True(t, mr.Exists(cache.UserKey(seeded.ID)))

	require.NoError(t, seeder.Clean(ctx))
	assert.False(t, mr.Exists(cache.UserKey(seeded.ID)))

	gone, err := users.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Nil(t, gone, "a cleaned user must not be served from cache")
}
