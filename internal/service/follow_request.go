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

// RespondToFollowRequest applies decision to a PENDING request.
//
// CANCELED is reserved for the requester and deletes the row. ACCEPTED and REJECTED
// are reserved for the target, stamp respondedAt and keep the row. ACCEPTED also
// creates the follow edge without consulting the target's privacy status.
func (s *socialGraphService) RespondToFollowRequest(ctx context.Context, requestID uint64, actorID string, decision domain.FollowRequestStatus) (*domain.FollowRequestResponse, error) {
	start := time.Now()
	l := pkglog.Ctx(ctx).With().
		Str(pkglog.FieldActorID, actorID).
		Uint64(pkglog.FieldFollowRequestID, requestID).
		Logger()
	ctx = pkglog.WithLogger(ctx, l)

	if !decision.IsDecision() {
		return nil, ErrInvalidDecision
	}

	var req *domain.FollowRequest
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		req, err = tx.Relationships().GetFollowRequest(ctx, requestID)
		if err != nil {
			if errors.Is(err, repository.ErrFollowRequestNotFound) {
				return ErrFollowRequestNotFound
			}
			return err
		}

		if decision == domain.RequestCanceled {
			if req.RequesterID != actorID {
				return ErrUnauthorized
			}
		} else if req.TargetID != actorID {
			return ErrUnauthorized
		}
		if req.Status != domain.RequestPending {
			return ErrFollowRequestNotFound
		}
		if decision == domain.RequestAccepted {
			// A block on the pair waits for this lock, or has already purged the request.
			if _, _, err := lockPair(ctx, tx.Users(), req.RequesterID, req.TargetID); err != nil {
				return err
			}
		}

		switch decision {
		case domain.RequestCanceled:
			if err := tx.Relationships().DeleteFollowRequest(ctx, requestID); err != nil {
				if errors.Is(err, repository.ErrFollowRequestNotFound) {
					return ErrFollowRequestNotFound
				}
				return err
			}
		default:
			if err := tx.Relationships().ResolveFollowRequest(ctx, requestID, decision, s.now()); err != nil {
				if errors.Is(err, repository.ErrFollowRequestNotFound) {
					return ErrFollowRequestNotFound
				}
				return err
			}
			if decision == domain.RequestAccepted {
				err := performDirectFollow(ctx, tx.Relationships(), req.RequesterID, req.TargetID)
				if err != nil && !errors.Is(err, ErrAlreadyFollowing) {
					return err
				}
			}
		}
		return nil
	})
	observe(audit.ActionRespondFollowRequest, start, err)
	if err != nil {
		if !isDomainError(err) {
			l.Error().Err(err).Str("decision", string(decision)).Msg("failed to respond to follow request")
		}
		return nil, err
	}

	counterpart := req.RequesterID
	if actorID == req.RequesterID {
		counterpart = req.TargetID
	}
	audit.Record(ctx, audit.Entry{
		Action:   audit.ActionRespondFollowRequest,
		UserID:   actorID,
		TargetID: counterpart,
		Detail:   string(decision),
		Message:  "follow request answered",
	})
	s.publish(ctx, pubsub.EventFollowRequestResponded, req.RequesterID, pubsub.FollowRequestPayload{
		RequestID:   requestID,
		RequesterID: req.RequesterID,
		TargetID:    req.TargetID,
		Status:      string(decision),
	})
	if decision == domain.RequestAccepted {
		s.publish(ctx, pubsub.EventFollowCreated, req.TargetID, pubsub.RelationPayload{
			ActorID:  req.RequesterID,
			TargetID: req.TargetID,
		})
	}

	return &domain.FollowRequestResponse{RequestID: requestID, NewStatus: decision}, nil
}

// ReceivedRequests lists the PENDING requests targeting userID, newest first.
func (s *socialGraphService) ReceivedRequests(ctx context.Context, userID string, page domain.PageRequest) (*domain.Page[domain.FollowRequestView], error) {
	page = ClampPage(page)
	items, total, err := s.store.Relationships().ListPendingReceived(ctx, userID, page)
	if err != nil {
		l := pkglog.Ctx(ctx)
		l.Error().Err(err).Str(pkglog.FieldUserID, userID).Msg("failed to list received follow requests")
		return nil, err
	}
	return newPage(items, page, total), nil
}

// SentRequests lists the PENDING requests userID has sent, newest first.
func (s *socialGraphService) SentRequests(ctx context.Context, userID string, page domain.PageRequest) (*domain.Page[domain.FollowRequestView], error) {
	page = ClampPage(page)
	items, total, err := s.store.Relationships().ListPendingSent(ctx, userID, page)
	if err != nil {
		l := pkglog.Ctx(ctx)
		l.Error().Err(err).Str(pkglog.FieldUserID, userID).Msg("failed to list sent follow requests")
		return nil, err
	}
	return newPage(items, page, total), nil
}
