package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/MuhammadYassa/WatchMate/internal/audit"
	"github.com/MuhammadYassa/WatchMate/internal/domain"
	"github.com/MuhammadYassa/WatchMate/internal/repository"
	pkglog "github.com/MuhammadYassa/WatchMate/pkg/log"
	"github.com/MuhammadYassa/WatchMate/pkg/pubsub"
)

// ToggleBlock lifts the block actorID → targetID if it exists. Otherwise it adds the
// block and purges follow edges and PENDING requests between the pair in both directions.
// Unblocking never restores a previous follow.
func (s *socialGraphService) ToggleBlock(ctx context.Context, actorID, targetID string) (domain.FollowStatus, error) {
	start := time.Now()
	ctx = pkglog.WithActor(ctx, actorID)
	l := pkglog.Ctx(ctx)

	if actorID == targetID {
		return "", ErrSelfAction
	}

	var (
		status domain.FollowStatus
		purged int64
	)
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, _, err := lockPair(ctx, tx.Users(), actorID, targetID); err != nil {
			return err
		}
		rel := tx.Relationships()

		blocking, err := rel.IsBlocking(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		if blocking {
			if _, err := rel.DeleteBlock(ctx, actorID, targetID); err != nil {
				return err
			}
			status = domain.StatusNotFollowing
			return nil
		}

		if err := rel.CreateBlock(ctx, actorID, targetID); err != nil && !errors.Is(err, repository.ErrAlreadyBlocking) {
			return err
		}
		follows, err := rel.DeleteFollowsBetween(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		requests, err := rel.DeletePendingRequestsBetween(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		purged = follows + requests
		status = domain.StatusBlocked
		return nil
	})
	observe(audit.ActionBlock, start, err)
	if err != nil {
		if !isDomainError(err) {
			l.Error().Err(err).Str(pkglog.FieldTargetID, targetID).Msg("failed to toggle block")
		}
		return "", err
	}

	if status == domain.StatusBlocked {
		l.Debug().Str(pkglog.FieldTargetID, targetID).Int64("purged", purged).Msg("relationship purged by block")
		audit.Record(ctx, audit.Entry{
			Action:   audit.ActionBlock,
			UserID:   actorID,
			TargetID: targetID,
			Detail:   strconv.FormatInt(purged, 10),
			Message:  "user blocked",
		})
		s.publish(ctx, pubsub.EventBlockCreated, targetID, pubsub.RelationPayload{ActorID: actorID, TargetID: targetID})
	} else {
		audit.Record(ctx, audit.Entry{Action: audit.ActionUnblock, UserID: actorID, TargetID: targetID, Message: "user unblocked"})
		s.publish(ctx, pubsub.EventBlockRemoved, targetID, pubsub.RelationPayload{ActorID: actorID, TargetID: targetID})
	}
	return status, nil
}

// BlockedList lists the users userID blocks.
func (s *socialGraphService) BlockedList(ctx context.Context, userID string, page domain.PageRequest) (*domain.Page[domain.UserSummary], error) {
	page = ClampPage(page)
	items, total, err := s.store.Relationships().ListBlocked(ctx, userID, page)
	if err != nil {
		l := pkglog.Ctx(ctx)
		l.Error().Err(err).Str(pkglog.FieldUserID, userID).Msg("failed to list blocked users")
		return nil, err
	}
	return newPage(items, page, total), nil
}
