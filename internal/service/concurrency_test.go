package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadYassa/WatchMate/internal/domain"
	"github.com/MuhammadYassa/WatchMate/pkg/database"
)

const concurrentCallers = 16

// newSharedFixture opens a file-backed database with a real connection pool, so
// transactions from different goroutines overlap instead of queueing on one connection.
func newSharedFixture(t *testing.T, users ...string) *fixture {
	t.Helper()
	return newFixtureOn(t, &database.Config{
		Driver:       database.DriverSQLite,
		FilePath:     filepath.Join(t.TempDir(), "social.db") + "?_busy_timeout=10000&_txlock=immediate",
		MaxOpenConns: 8,
		LogLevel:     "silent",
	}, users...)
}

// raceFollow runs n simultaneous Follow calls and returns how many succeeded and the errors of the rest.
func raceFollow(t *testing.T, f *fixture, actor, target string, n int) (int, []error) {
	t.Helper()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		ok    int
		errs  []error
		start = make(chan struct{})
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.svc.Follow(context.Background(), f.ids[actor], f.ids[target])
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
				return
			}
			errs = append(errs, err)
		}()
	}
	close(start)
	wg.Wait()
	return ok, errs
}

func TestConcurrentFollowRequestsLeaveOnePending(t *testing.T) {
	f := newSharedFixture(t, "alice")
	f.addUser(t, "bob", domain.PrivacyPrivate)

	ok, errs := raceFollow(t, f, "alice", "bob", concurrentCallers)
	assert.Equal(t, 1, ok)
	require.Len(t, errs, concurrentCallers-1)
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrAlreadyFollowing)
	}

	var pending int64
	require.NoError(t, f.db.Model(&domain.FollowRequestModel{}).
		Where("requester_id = ? AND target_id = ? AND status = ?", f.ids["alice"], f.ids["bob"], domain.RequestPending).
		Count(&pending).Error)
	assert.Equal(t, int64(1), pending)
	assert.Len(t, f.pub.types(), 1)
}

func TestConcurrentDirectFollowsLeaveOneEdge(t *testing.T) {
	f := newSharedFixture(t, "alice", "bob")

	ok, errs := raceFollow(t, f, "alice", "bob", concurrentCallers)
	assert.Equal(t, 1, ok)
	require.Len(t, errs, concurrentCallers-1)
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrAlreadyFollowing)
	}

	var edges int64
	require.NoError(t, f.db.Model(&domain.FollowModel{}).
		Where("follower_id = ? AND following_id = ?", f.ids["alice"], f.ids["bob"]).
		Count(&edges).Error)
	assert.Equal(t, int64(1), edges)
	assert.Len(t, f.pub.types(), 1)
}

func TestConcurrentFollowAndBlockNeverCoexist(t *testing.T) {
	f := newSharedFixture(t, "alice", "bob")
	ctx := context.Background()

	var wg sync.WaitGroup
	start := make(chan struct{})
	wg.Add(2)
	go func() {
		defer wg.Done()
		<-start
		_, _ = f.svc.Follow(ctx, f.ids["alice"], f.ids["bob"])
	}()
	go func() {
		defer wg.Done()
		<-start
		_, _ = f.svc.ToggleBlock(ctx, f.ids["bob"], f.ids["alice"])
	}()
	close(start)
	wg.Wait()

	blocked, err := f.store.Relationships().IsBlocking(ctx, f.ids["bob"], f.ids["alice"])
	require.NoError(t, err)
	require.True(t, blocked)
	following, err := f.store.Relationships().IsFollowing(ctx, f.ids["alice"], f.ids["bob"])
	require.NoError(t, err)
	assert.False(t, following)
}
