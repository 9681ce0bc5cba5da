// Package testutil provides helpers shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"postboard/internal/database"
	"postboard/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var seq atomic.Int64

// NewSQLiteDB returns an in-memory database with the full schema. The pool is
// pinned to one connection because the database lives in that connection.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(":memory:")), database.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

// CreateUser inserts a user with a unique email derived from name.
func CreateUser(t testing.TB, db *gorm.DB, name string) *models.User {
	t.Helper()

	n := name
	user := &models.User{
		Email:    fmt.Sprintf("%s.%d@example.com", name, seq.Add(1)),
		Password: "not-a-real-digest",
		Name:     &n,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePost inserts a post authored by authorID.
func CreatePost(t testing.TB, db *gorm.DB, authorID, title string) *models.Post {
	t.Helper()

	post := &models.Post{Title: title, Body: title + " body", AuthorID: authorID}
	require.NoError(t, db.Create(post).Error)
	return post
}
