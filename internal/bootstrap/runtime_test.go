package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T, env string) *config.Config {
	t.Helper()
	return &config.Config{
		JWTSecret:  "bootstrap-test-secret",
		BcryptCost: 4,
		Port:       "0",
		DBDriver:   database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "postboard.db"),
		Env:        env,
	}
}

func TestInitRuntimeSQLite(t *testing.T) {
	cfg := sqliteConfig(t, "test")

	db, redisClient, err := InitRuntime(context.Background(), cfg, Options{ApplySchema: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	assert.Nil(t, redisClient, "no REDIS_URL means no cache")
	for _, table := range []string{"users", "posts", "follows", "likes"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestInitRuntimeSeedsDevelopmentOnce(t *testing.T) {
	cfg := sqliteConfig(t, "development")
	ctx := context.Background()

	db, _, err := InitRuntime(ctx, cfg, Options{ApplySchema: true, SeedPreset: "tiny"})
	require.NoError(t, err)

	counts, err := seed.CountRows(ctx, db)
	require.NoError(t, err)
	assert.EqualValues(t, 3, counts["users"])
	require.NoError(t, database.Close(db))

	db, _, err = InitRuntime(ctx, cfg, Options{ApplySchema: true, SeedPreset: "tiny"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	counts, err = seed.CountRows(ctx, db)
	require.NoError(t, err)
	assert.EqualValues(t, 3, counts["users"], "populated database is not seeded again")
}

func TestInitRuntimeSkipsSeedOutsideDevelopment(t *testing.T) {
	cfg := sqliteConfig(t, "test")
	ctx := context.Background()

	db, _, err := InitRuntime(ctx, cfg, Options{ApplySchema: true, SeedPreset: "tiny"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	counts, err := seed.CountRows(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, counts["users"])
}

func TestInitRuntimeUnknownPreset(t *testing.T) {
	cfg := sqliteConfig(t, "development")
	_, _, err := InitRuntime(context.Background(), cfg, Options{ApplySchema: true, SeedPreset: "galactic"})
	assert.Error(t, err)
}

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(&config.Config{Env: "test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
