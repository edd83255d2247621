package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MuhammadYassa/WatchMate/internal/audit"
	"github.com/MuhammadYassa/WatchMate/internal/domain"
	"github.com/MuhammadYassa/WatchMate/internal/repository"
	pkglog "github.com/MuhammadYassa/WatchMate/pkg/log"
	"github.com/MuhammadYassa/WatchMate/pkg/pubsub"
)

// GetFollowStatus reports viewerID's relationship to targetID. A block in either
// direction wins over a follow edge.
func (s *socialGraphService) GetFollowStatus(ctx context.Context, viewerID, targetID string) (domain.FollowStatus, error) {
	if viewerID == targetID {
		return domain.StatusNotFollowing, nil
	}
	if _, err := lookupUser(ctx, s.store.Users(), targetID); err != nil {
		return "", err
	}
	return s.relationStatus(ctx, viewerID, targetID)
}

func (s *socialGraphService) relationStatus(ctx context.Context, viewerID, targetID string) (domain.FollowStatus, error) {
	rel := s.store.Relationships()

	blocked, err := rel.IsBlockedEither(ctx, viewerID, targetID)
	if err != nil {
		return "", err
	}
	if blocked {
		return domain.StatusBlocked, nil
	}
	following, err := rel.IsFollowing(ctx, viewerID, targetID)
	if err != nil {
		return "", err
	}
	if following {
		return domain.StatusFollowing, nil
	}
	return domain.StatusNotFollowing, nil
}

// GetUserProfile returns targetID's profile as far as viewerID may see it.
// Tiers are checked in order: self, blocked, following or PUBLIC, private stranger.
func (s *socialGraphService) GetUserProfile(ctx context.Context, viewerID, targetID string, opts ProfileOptions) (*domain.ProfileView, error) {
	l := pkglog.Ctx(ctx).With().Str(pkglog.FieldTargetID, targetID).Logger()

	target, err := lookupUser(ctx, s.store.Users(), targetID)
	if err != nil {
		return nil, err
	}

	if viewerID == target.ID {
		return s.fullProfile(ctx, target, domain.StatusNotFollowing, opts)
	}

	status, err := s.relationStatus(ctx, viewerID, target.ID)
	if err != nil {
		l.Error().Err(err).Msg("failed to resolve profile visibility")
		return nil, err
	}

	switch {
	case status == domain.StatusBlocked:
		return &domain.ProfileView{
			UserID:       target.ID,
			Username:     target.Username,
			FollowStatus: domain.StatusBlocked,
		}, nil
	case status == domain.StatusFollowing, target.PrivacyStatus != domain.PrivacyPrivate:
		return s.fullProfile(ctx, target, status, opts)
	default:
		return s.privateProfile(ctx, viewerID, target)
	}
}

// fullProfile loads counts and content concurrently.
func (s *socialGraphService) fullProfile(ctx context.Context, target *domain.User, status domain.FollowStatus, opts ProfileOptions) (*domain.ProfileView, error) {
	view := &domain.ProfileView{
		UserID:        target.ID,
		Username:      target.Username,
		PrivacyStatus: target.PrivacyStatus,
		FollowStatus:  status,
	}
	watchPage := ClampPage(opts.Watchlists)
	reviewPage := ClampPage(opts.Reviews)

	var watched domain.WatchedCounts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		view.FollowersCount, err = s.store.Relationships().CountFollowers(gctx, target.ID)
		return err
	})
	g.Go(func() error {
		var err error
		view.FollowingCount, err = s.store.Relationships().CountFollowing(gctx, target.ID)
		return err
	})
	g.Go(func() error {
		var err error
		watched, err = s.store.Content().CountWatched(gctx, target.ID)
		return err
	})
	g.Go(func() error {
		var err error
		view.Watchlists, err = s.store.Content().ListWatchLists(gctx, target.ID, watchPage)
		return err
	})
	g.Go(func() error {
		var err error
		view.Reviews, err = s.store.Content().ListReviews(gctx, target.ID, reviewPage)
		return err
	})
	if err := g.Wait(); err != nil {
		l := pkglog.Ctx(ctx)
		l.Error().Err(err).Str(pkglog.FieldTargetID, target.ID).Msg("failed to load profile")
		return nil, err
	}

	view.MoviesWatchedCount = watched.Movies
	view.ShowsWatchedCount = watched.Shows
	for i := range view.Reviews {
		view.Reviews[i].Username = target.Username
	}
	if view.Watchlists == nil {
		view.Watchlists = []domain.WatchList{}
	}
	if view.Reviews == nil {
		view.Reviews = []domain.Review{}
	}
	return view, nil
}

// privateProfile is what a stranger sees of a PRIVATE user.
func (s *socialGraphService) privateProfile(ctx context.Context, viewerID string, target *domain.User) (*domain.ProfileView, error) {
	rel := s.store.Relationships()
	view := &domain.ProfileView{
		UserID:        target.ID,
		Username:      target.Username,
		PrivacyStatus: target.PrivacyStatus,
		FollowStatus:  domain.StatusNotFollowing,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		view.FollowersCount, err = rel.CountFollowers(gctx, target.ID)
		return err
	})
	g.Go(func() error {
		var err error
		view.FollowingCount, err = rel.CountFollowing(gctx, target.ID)
		return err
	})
	var pending bool
	g.Go(func() error {
		var err error
		pending, err = rel.HasPendingRequest(gctx, viewerID, target.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		l := pkglog.Ctx(ctx)
		l.Error().Err(err).Str(pkglog.FieldTargetID, target.ID).Msg("failed to load private profile")
		return nil, err
	}

	if pending {
		view.FollowStatus = domain.StatusRequested
	}
	return view, nil
}

// FollowersList lists the users following userID.
func (s *socialGraphService) FollowersList(ctx context.Context, userID string, page domain.PageRequest) (*domain.Page[domain.UserSummary], error) {
	if _, err := lookupUser(ctx, s.store.Users(), userID); err != nil {
		return nil, err
	}
	page = ClampPage(page)
	items, total, err := s.store.Relationships().ListFollowers(ctx, userID, page)
	if err != nil {
		l := pkglog.Ctx(ctx)
		l.Error().Err(err).Str(pkglog.FieldUserID, userID).Msg("failed to list followers")
		return nil, err
	}
	return newPage(items, page, total), nil
}

// FollowingList lists the users userID follows.
func (s *socialGraphService) FollowingList(ctx context.Context, userID string, page domain.PageRequest) (*domain.Page[domain.UserSummary], error) {
	if _, err := lookupUser(ctx, s.store.Users(), userID); err != nil {
		return nil, err
	}
	page = ClampPage(page)
	items, total, err := s.store.Relationships().ListFollowing(ctx, userID, page)
	if err != nil {
		l := pkglog.Ctx(ctx)
		l.Error().Err(err).Str(pkglog.FieldUserID, userID).Msg("failed to list following")
		return nil, err
	}
	return newPage(items, page, total), nil
}

// UpdatePrivacy changes userID's privacy status. Requests already PENDING stay PENDING
// when a user turns PUBLIC.
func (s *socialGraphService) UpdatePrivacy(ctx context.Context, userID string, status domain.PrivacyStatus) (*domain.User, error) {
	start := time.Now()
	if _, err := domain.ParsePrivacyStatus(string(status)); err != nil {
		return nil, ErrInvalidPrivacyStatus
	}

	var user *domain.User
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().UpdatePrivacy(ctx, userID, status); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		var err error
		user, err = lookupUser(ctx, tx.Users(), userID)
		return err
	})
	observe(audit.ActionUpdatePrivacy, start, err)
	if err != nil {
		if !isDomainError(err) {
			l := pkglog.Ctx(ctx)
			l.Error().Err(err).Str(pkglog.FieldUserID, userID).Msg("failed to update privacy")
		}
		return nil, err
	}

	audit.Record(ctx, audit.Entry{Action: audit.ActionUpdatePrivacy, UserID: userID, Detail: string(status), Message: "privacy status updated"})
	s.publish(ctx, pubsub.EventPrivacyChanged, userID, pubsub.PrivacyPayload{UserID: userID, PrivacyStatus: string(status)})
	return user, nil
}
