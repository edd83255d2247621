package repository

import (
	"context"
	"errors"
	"time"

	"github.com/MuhammadYassa/WatchMate/internal/domain"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrFollowRequestNotFound = errors.New("follow request not found")
	ErrAlreadyFollowing      = errors.New("already following")
	ErrAlreadyBlocking       = errors.New("already blocking")
	ErrPendingRequestExists  = errors.New("pending follow request already exists")
)

// UserRepository is the user-lookup contract of the social graph.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// LockForUpdate loads the given users with a row lock held until the transaction ends.
	// Rows are locked in id order. Missing ids are absent from the result.
	LockForUpdate(ctx context.Context, ids ...string) ([]*domain.User, error)
	// Upsert creates the user or refreshes its username. Privacy status is left untouched.
	Upsert(ctx context.Context, id, username string) error
	UpdatePrivacy(ctx context.Context, id string, status domain.PrivacyStatus) error
	// Delete removes the user together with every edge and request that references it.
	Delete(ctx context.Context, id string) error
}

// RelationshipRepository is the Relationship Store: follow edges, block edges and follow requests.
// Implementations hold no state between calls, every read hits storage.
type RelationshipRepository interface {
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	IsBlocking(ctx context.Context, blockerID, blockedID string) (bool, error)
	// IsBlockedEither reports whether a blocks b or b blocks a.
	IsBlockedEither(ctx context.Context, a, b string) (bool, error)

	// CreateFollow inserts the edge follower → following. ErrAlreadyFollowing if it exists.
	CreateFollow(ctx context.Context, followerID, followingID string) error
	// DeleteFollow removes the edge follower → following and reports whether one existed.
	DeleteFollow(ctx context.Context, followerID, followingID string) (bool, error)
	// DeleteFollowsBetween removes follow edges in both directions.
	DeleteFollowsBetween(ctx context.Context, a, b string) (int64, error)

	// CreateBlock inserts the edge blocker → blocked. ErrAlreadyBlocking if it exists.
	CreateBlock(ctx context.Context, blockerID, blockedID string) error
	DeleteBlock(ctx context.Context, blockerID, blockedID string) (bool, error)

	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
	ListFollowers(ctx context.Context, userID string, page domain.PageRequest) ([]domain.UserSummary, int64, error)
	ListFollowing(ctx context.Context, userID string, page domain.PageRequest) ([]domain.UserSummary, int64, error)
	ListBlocked(ctx context.Context, userID string, page domain.PageRequest) ([]domain.UserSummary, int64, error)

	HasPendingRequest(ctx context.Context, requesterID, targetID string) (bool, error)
	// CreateFollowRequest inserts a PENDING request and sets its ID.
	// ErrPendingRequestExists if the pair already has one.
	CreateFollowRequest(ctx context.Context, req *domain.FollowRequest) error
	GetFollowRequest(ctx context.Context, id uint64) (*domain.FollowRequest, error)
	// ResolveFollowRequest moves a PENDING request to status. It returns
	// ErrFollowRequestNotFound if the request is missing or no longer PENDING.
	ResolveFollowRequest(ctx context.Context, id uint64, status domain.FollowRequestStatus, at time.Time) error
	DeleteFollowRequest(ctx context.Context, id uint64) error
	// DeletePendingRequestsBetween deletes PENDING requests in both directions.
	DeletePendingRequestsBetween(ctx context.Context, a, b string) (int64, error)
	ListPendingReceived(ctx context.Context, targetID string, page domain.PageRequest) ([]domain.FollowRequestView, int64, error)
	ListPendingSent(ctx context.Context, requesterID string, page domain.PageRequest) ([]domain.FollowRequestView, int64, error)
}

// ContentRepository reads the profile content owned by the watchlist, review and status services.
type ContentRepository interface {
	ListWatchLists(ctx context.Context, userID string, page domain.PageRequest) ([]domain.WatchList, error)
	ListReviews(ctx context.Context, userID string, page domain.PageRequest) ([]domain.Review, error)
	CountWatched(ctx context.Context, userID string) (domain.WatchedCounts, error)
}

// Store groups the repositories that take part in one unit of work.
type Store interface {
	Users() UserRepository
	Relationships() RelationshipRepository
	Content() ContentRepository
	// WithinTx runs fn in a single transaction. fn must only use the Store it receives.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
