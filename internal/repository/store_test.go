package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MuhammadYassa/WatchMate/internal/domain"
	"github.com/MuhammadYassa/WatchMate/pkg/database"
)

// newTestDB opens a private in-memory sqlite database with the full schema.
// A single connection keeps the shared-cache database alive and serializes writers.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.New(&database.Config{
		Driver:       database.DriverSQLite,
		FilePath:     fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db, database.DriverSQLite))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func seedUsers(t *testing.T, db *gorm.DB, names ...string) map[string]string {
	t.Helper()
	repo := NewGormUserRepository(db)
	ids := make(map[string]string, len(names))
	for _, name := range names {
		id := uuid.NewString()
		require.NoError(t, repo.Upsert(context.Background(), id, name))
		ids[name] = id
	}
	return ids
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ids := seedUsers(t, db, "alice", "bob")
	store := NewGormStore(db)
	ctx := context.Background()

	boom := fmt.Errorf("boom")
	err := store.WithinTx(ctx, func(tx Store) error {
		require.NoError(t, tx.Relationships().CreateFollow(ctx, ids["alice"], ids["bob"]))
		return boom
	})
	require.ErrorIs(t, err, boom)

	following, err := store.Relationships().IsFollowing(ctx, ids["alice"], ids["bob"])
	require.NoError(t, err)
	require.False(t, following)
}

func TestWithinTxCommits(t *testing.T) {
	db := newTestDB(t)
	ids := seedUsers(t, db, "alice", "bob")
	store := NewGormStore(db)
	ctx := context.Background()

	require.NoError(t, store.WithinTx(ctx, func(tx Store) error {
		return tx.Relationships().CreateBlock(ctx, ids["alice"], ids["bob"])
	}))

	blocking, err := store.Relationships().IsBlocking(ctx, ids["alice"], ids["bob"])
	require.NoError(t, err)
	require.True(t, blocking)
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db, database.DriverSQLite))
}

func TestMigrateSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "social.db")
	open := func() *gorm.DB {
		db, err := database.New(&database.Config{
			Driver:   database.DriverSQLite,
			FilePath: path,
			LogLevel: "silent",
		})
		require.NoError(t, err)
		require.NoError(t, Migrate(db, database.DriverSQLite))
		return db
	}

	first := open()
	sqlDB, err := first.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	db := open()
	sqlDB, err = db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	// The partial index is still in place after the second migration.
	ids := seedUsers(t, db, "alice", "bob")
	rel := NewGormRelationshipRepository(db)
	ctx := context.Background()
	require.NoError(t, rel.CreateFollowRequest(ctx, &domain.FollowRequest{
		RequesterID: ids["alice"], TargetID: ids["bob"], RequestedAt: testEpoch,
	}))
	err = db.Create(&domain.FollowRequestModel{
		RequesterID: ids["alice"], TargetID: ids["bob"], Status: domain.RequestPending, RequestedAt: testEpoch,
	}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

var testEpoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
