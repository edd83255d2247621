package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadYassa/WatchMate/internal/domain"
	"github.com/MuhammadYassa/WatchMate/pkg/pubsub"
)

// seedContent gives name one watch list, one review and two watched movies.
func (f *fixture) seedContent(t *testing.T, name string) {
	t.Helper()
	id := f.ids[name]
	list := domain.WatchListModel{UserID: id, Name: "Favourites", CreatedAt: testNow}
	require.NoError(t, f.db.Create(&list).Error)
	require.NoError(t, f.db.Create(&domain.WatchListItemModel{
		WatchListID: list.ID, MediaID: 11, Title: "Alien", MediaType: domain.MediaMovie,
	}).Error)
	require.NoError(t, f.db.Create(&domain.ReviewModel{
		UserID: id, MediaID: 11, Comment: "tense", StarRating: 5, PostedAt: testNow,
	}).Error)
	require.NoError(t, f.db.Create(&[]domain.UserMediaStatusModel{
		{UserID: id, MediaID: 11, MediaType: domain.MediaMovie, Status: domain.WatchStatusWatched},
		{UserID: id, MediaID: 12, MediaType: domain.MediaMovie, Status: domain.WatchStatusWatched},
		{UserID: id, MediaID: 13, MediaType: domain.MediaShow, Status: domain.WatchStatusWatching},
	}).Error)
}

func (f *fixture) profile(t *testing.T, viewer, target string) *domain.ProfileView {
	t.Helper()
	view, err := f.svc.GetUserProfile(context.Background(), f.ids[viewer], f.ids[target], ProfileOptions{})
	require.NoError(t, err)
	return view
}

func TestProfileSelfViewIsFull(t *testing.T) {
	f := newFixture(t, "carol")
	f.addUser(t, "bob", domain.PrivacyPrivate)
	f.seedContent(t, "bob")
	_, err := f.svc.Follow(context.Background(), f.ids["bob"], f.ids["carol"])
	require.NoError(t, err)

	view := f.profile(t, "bob", "bob")
	assert.Equal(t, domain.StatusNotFollowing, view.FollowStatus)
	assert.Equal(t, domain.PrivacyPrivate, view.PrivacyStatus)
	assert.Equal(t, int64(1), view.FollowingCount)
	assert.Equal(t, int64(2), view.MoviesWatchedCount)
	assert.Zero(t, view.ShowsWatchedCount)
	require.Len(t, view.Watchlists, 1)
	assert.Equal(t, "Alien", view.Watchlists[0].Media[0].Title)
	require.Len(t, view.Reviews, 1)
	assert.Equal(t, "bob", view.Reviews[0].Username)
}

func TestProfileBlockedIsStub(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol")
	f.seedContent(t, "bob")
	ctx := context.Background()

	_, err := f.svc.Follow(ctx, f.ids["carol"], f.ids["bob"])
	require.NoError(t, err)
	_, err = f.svc.ToggleBlock(ctx, f.ids["bob"], f.ids["alice"])
	require.NoError(t, err)

	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		view := f.profile(t, pair[0], pair[1])
		assert.Equal(t, &domain.ProfileView{
			UserID:       f.ids[pair[1]],
			Username:     pair[1],
			FollowStatus: domain.StatusBlocked,
		}, view)
	}
}

func TestProfilePublicStrangerSeesFull(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.seedContent(t, "bob")

	view := f.profile(t, "alice", "bob")
	assert.Equal(t, domain.StatusNotFollowing, view.FollowStatus)
	assert.Equal(t, domain.PrivacyPublic, view.PrivacyStatus)
	assert.Len(t, view.Watchlists, 1)
	assert.Len(t, view.Reviews, 1)
	assert.Equal(t, int64(2), view.MoviesWatchedCount)
}

func TestProfilePrivateFollowerSeesFull(t *testing.T) {
	f := newFixture(t, "alice")
	f.addUser(t, "bob", domain.PrivacyPrivate)
	f.seedContent(t, "bob")
	ctx := context.Background()

	_, err := f.svc.Follow(ctx, f.ids["alice"], f.ids["bob"])
	require.NoError(t, err)
	id := f.pendingReceived(t, "bob")[0].RequestID
	_, err = f.svc.RespondToFollowRequest(ctx, id, f.ids["bob"], domain.RequestAccepted)
	require.NoError(t, err)

	view := f.profile(t, "alice", "bob")
	assert.Equal(t, domain.StatusFollowing, view.FollowStatus)
	assert.Equal(t, int64(1), view.FollowersCount)
	assert.Len(t, view.Watchlists, 1)
	assert.Len(t, view.Reviews, 1)
}

func TestProfilePrivateStrangerSeesMinimal(t *testing.T) {
	f := newFixture(t, "alice", "carol")
	f.addUser(t, "bob", domain.PrivacyPrivate)
	f.seedContent(t, "bob")
	ctx := context.Background()

	_, err := f.svc.Follow(ctx, f.ids["bob"], f.ids["carol"])
	require.NoError(t, err)

	view := f.profile(t, "alice", "bob")
	assert.Equal(t, &domain.ProfileView{
		UserID:         f.ids["bob"],
		Username:       "bob",
		PrivacyStatus:  domain.PrivacyPrivate,
		FollowStatus:   domain.StatusNotFollowing,
		FollowingCount: 1,
	}, view)

	_, err = f.svc.Follow(ctx, f.ids["alice"], f.ids["bob"])
	require.NoError(t, err)
	view = f.profile(t, "alice", "bob")
	assert.Equal(t, domain.StatusRequested, view.FollowStatus)
	assert.Nil(t, view.Watchlists)
	assert.Nil(t, view.Reviews)
}

func TestProfileUnknownUser(t *testing.T) {
	f := newFixture(t, "alice")

	_, err := f.svc.GetUserProfile(context.Background(), f.ids["alice"], "missing", ProfileOptions{})
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = f.svc.GetFollowStatus(context.Background(), f.ids["alice"], "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFollowStatusSelf(t *testing.T) {
	f := newFixture(t, "alice")
	assert.Equal(t, domain.StatusNotFollowing, f.status(t, "alice", "alice"))
}

func TestUpdatePrivacy(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	user, err := f.svc.UpdatePrivacy(ctx, f.ids["bob"], domain.PrivacyPrivate)
	require.NoError(t, err)
	assert.Equal(t, domain.PrivacyPrivate, user.PrivacyStatus)

	status, err := f.svc.Follow(ctx, f.ids["alice"], f.ids["bob"])
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNotFollowing, status)

	_, err = f.svc.UpdatePrivacy(ctx, f.ids["bob"], "HIDDEN")
	assert.ErrorIs(t, err, ErrInvalidPrivacyStatus)
	_, err = f.svc.UpdatePrivacy(ctx, "missing", domain.PrivacyPublic)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.Equal(t, []string{pubsub.EventPrivacyChanged, pubsub.EventFollowRequestCreated}, f.pub.types())
}

func TestListsRequireKnownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.FollowersList(context.Background(), "missing", domain.PageRequest{})
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = f.svc.FollowingList(context.Background(), "missing", domain.PageRequest{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
