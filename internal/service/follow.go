package service

import (
	"context"
	"errors"
	"time"

	"github.com/MuhammadYassa/WatchMate/internal/audit"
	"github.com/MuhammadYassa/WatchMate/internal/domain"
	"github.com/MuhammadYassa/WatchMate/internal/repository"
	pkglog "github.com/MuhammadYassa/WatchMate/pkg/log"
	"github.com/MuhammadYassa/WatchMate/pkg/pubsub"
)

// Follow follows targetID directly when it is PUBLIC, or files a PENDING follow request when it is PRIVATE.
func (s *socialGraphService) Follow(ctx context.Context, actorID, targetID string) (domain.FollowStatus, error) {
	start := time.Now()
	ctx = pkglog.WithActor(ctx, actorID)
	l := pkglog.Ctx(ctx)

	if actorID == targetID {
		return "", ErrSelfAction
	}

	var (
		status  domain.FollowStatus
		request *domain.FollowRequest
	)
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		_, target, err := lockPair(ctx, tx.Users(), actorID, targetID)
		if err != nil {
			return err
		}
		if err := canFollow(ctx, tx.Relationships(), actorID, target.ID); err != nil {
			return err
		}

		switch target.PrivacyStatus {
		case domain.PrivacyPrivate:
			request, err = s.createFollowRequest(ctx, tx.Relationships(), actorID, target.ID)
			if err != nil {
				return err
			}
			status = domain.StatusNotFollowing
		default:
			if err := performDirectFollow(ctx, tx.Relationships(), actorID, target.ID); err != nil {
				return err
			}
			status = domain.StatusFollowing
		}
		return nil
	})
	observe(audit.ActionFollow, start, err)
	if err != nil {
		if !isDomainError(err) {
			l.Error().Err(err).Str(pkglog.FieldTargetID, targetID).Msg("failed to follow user")
		}
		return "", err
	}

	if request != nil {
		audit.Record(ctx, audit.Entry{
			Action:   audit.ActionFollowRequest,
			UserID:   actorID,
			TargetID: targetID,
			Detail:   string(request.Status),
			Message:  "follow request created",
		})
		s.publish(ctx, pubsub.EventFollowRequestCreated, targetID, pubsub.FollowRequestPayload{
			RequestID:   request.ID,
			RequesterID: actorID,
			TargetID:    targetID,
			Status:      string(request.Status),
		})
		return status, nil
	}

	audit.Record(ctx, audit.Entry{Action: audit.ActionFollow, UserID: actorID, TargetID: targetID, Message: "user followed"})
	s.publish(ctx, pubsub.EventFollowCreated, targetID, pubsub.RelationPayload{ActorID: actorID, TargetID: targetID})
	return status, nil
}

// Unfollow removes the follow edge actorID → targetID.
func (s *socialGraphService) Unfollow(ctx context.Context, actorID, targetID string) (domain.FollowStatus, error) {
	start := time.Now()
	ctx = pkglog.WithActor(ctx, actorID)
	l := pkglog.Ctx(ctx)

	if actorID == targetID {
		return "", ErrSelfAction
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		_, target, err := lockPair(ctx, tx.Users(), actorID, targetID)
		if err != nil {
			return err
		}
		if err := canUnfollow(ctx, tx.Relationships(), actorID, target.ID); err != nil {
			return err
		}
		removed, err := tx.Relationships().DeleteFollow(ctx, actorID, target.ID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrNotFollowing
		}
		return nil
	})
	observe(audit.ActionUnfollow, start, err)
	if err != nil {
		if !isDomainError(err) {
			l.Error().Err(err).Str(pkglog.FieldTargetID, targetID).Msg("failed to unfollow user")
		}
		return "", err
	}

	audit.Record(ctx, audit.Entry{Action: audit.ActionUnfollow, UserID: actorID, TargetID: targetID, Message: "user unfollowed"})
	s.publish(ctx, pubsub.EventFollowRemoved, targetID, pubsub.RelationPayload{ActorID: actorID, TargetID: targetID})
	return domain.StatusNotFollowing, nil
}

// performDirectFollow writes the single follow edge. Both the follower's following
// list and the target's followers list are derived from it.
func performDirectFollow(ctx context.Context, rel repository.RelationshipRepository, followerID, followingID string) error {
	if err := rel.CreateFollow(ctx, followerID, followingID); err != nil {
		if errors.Is(err, repository.ErrAlreadyFollowing) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

// createFollowRequest inserts a PENDING request. The partial unique index on
// pending pairs closes the race between the existence check and the insert.
func (s *socialGraphService) createFollowRequest(ctx context.Context, rel repository.RelationshipRepository, requesterID, targetID string) (*domain.FollowRequest, error) {
	pending, err := rel.HasPendingRequest(ctx, requesterID, targetID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrRequestAlreadyPending
	}

	req := &domain.FollowRequest{
		RequesterID: requesterID,
		TargetID:    targetID,
		Status:      domain.RequestPending,
		RequestedAt: s.now(),
	}
	if err := rel.CreateFollowRequest(ctx, req); err != nil {
		if errors.Is(err, repository.ErrPendingRequestExists) {
			return nil, ErrRequestAlreadyPending
		}
		return nil, err
	}
	return req, nil
}

// isDomainError reports whether err is one of the service's expected failures.
func isDomainError(err error) bool {
	for _, target := range []error{
		ErrSelfAction, ErrAlreadyFollowing, ErrNotFollowing, ErrBlocked, ErrUnauthorized,
		ErrUserNotFound, ErrFollowRequestNotFound, ErrInvalidDecision, ErrInvalidPrivacyStatus,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
