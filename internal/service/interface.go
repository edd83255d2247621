package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MuhammadYassa/WatchMate/internal/domain"
)

var (
	ErrSelfAction            = errors.New("cannot perform this action on yourself")
	ErrAlreadyFollowing      = errors.New("already following")
	ErrNotFollowing          = errors.New("not following")
	ErrBlocked               = errors.New("a block exists between the users")
	ErrUnauthorized          = errors.New("not allowed to act on this follow request")
	ErrUserNotFound          = errors.New("user not found")
	ErrFollowRequestNotFound = errors.New("follow request not found")
	ErrInvalidDecision       = errors.New("invalid follow request decision")
	ErrInvalidPrivacyStatus  = errors.New("invalid privacy status")
)

// ErrRequestAlreadyPending is returned when following a PRIVATE user who already has a
// PENDING request from the actor. It matches ErrAlreadyFollowing under errors.Is.
var ErrRequestAlreadyPending = fmt.Errorf("follow request already pending: %w", ErrAlreadyFollowing)

// ProfileOptions selects the content pages of a full profile view.
type ProfileOptions struct {
	Watchlists domain.PageRequest
	Reviews    domain.PageRequest
}

// SocialGraphService defines the business logic for the social graph.
type SocialGraphService interface {
	// Follow follows a PUBLIC target directly, or files a follow request to a PRIVATE one.
	Follow(ctx context.Context, actorID, targetID string) (domain.FollowStatus, error)
	Unfollow(ctx context.Context, actorID, targetID string) (domain.FollowStatus, error)

	RespondToFollowRequest(ctx context.Context, requestID uint64, actorID string, decision domain.FollowRequestStatus) (*domain.FollowRequestResponse, error)
	ReceivedRequests(ctx context.Context, userID string, page domain.PageRequest) (*domain.Page[domain.FollowRequestView], error)
	SentRequests(ctx context.Context, userID string, page domain.PageRequest) (*domain.Page[domain.FollowRequestView], error)

	// ToggleBlock blocks the target, or lifts an existing block.
	ToggleBlock(ctx context.Context, actorID, targetID string) (domain.FollowStatus, error)
	BlockedList(ctx context.Context, userID string, page domain.PageRequest) (*domain.Page[domain.UserSummary], error)

	GetFollowStatus(ctx context.Context, viewerID, targetID string) (domain.FollowStatus, error)
	GetUserProfile(ctx context.Context, viewerID, targetID string, opts ProfileOptions) (*domain.ProfileView, error)
	FollowersList(ctx context.Context, userID string, page domain.PageRequest) (*domain.Page[domain.UserSummary], error)
	FollowingList(ctx context.Context, userID string, page domain.PageRequest) (*domain.Page[domain.UserSummary], error)

	UpdatePrivacy(ctx context.Context, userID string, status domain.PrivacyStatus) (*domain.User, error)
}
