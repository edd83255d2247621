package domain

import (
	"fmt"
	"time"
)

// PrivacyStatus gates whether following a user requires consent.
type PrivacyStatus string

const (
	PrivacyPublic  PrivacyStatus = "PUBLIC"
	PrivacyPrivate PrivacyStatus = "PRIVATE"
)

// ParsePrivacyStatus validates a privacy status string.
func ParsePrivacyStatus(s string) (PrivacyStatus, error) {
	switch p := PrivacyStatus(s); p {
	case PrivacyPublic, PrivacyPrivate:
		return p, nil
	default:
		return "", fmt.Errorf("unknown privacy status %q", s)
	}
}

// FollowStatus is the viewer's relationship to a target as reported by the API.
type FollowStatus string

const (
	StatusFollowing    FollowStatus = "FOLLOWING"
	StatusNotFollowing FollowStatus = "NOT_FOLLOWING"
	StatusBlocked      FollowStatus = "BLOCKED"
	StatusRequested    FollowStatus = "REQUESTED"
)

// FollowRequestStatus is the lifecycle state of a follow request.
type FollowRequestStatus string

const (
	RequestPending  FollowRequestStatus = "PENDING"
	RequestAccepted FollowRequestStatus = "ACCEPTED"
	RequestRejected FollowRequestStatus = "REJECTED"
	RequestCanceled FollowRequestStatus = "CANCELED"
)

// IsDecision reports whether s is a valid response to a pending request.
func (s FollowRequestStatus) IsDecision() bool {
	return s == RequestAccepted || s == RequestRejected || s == RequestCanceled
}

// MediaType distinguishes movies from shows.
type MediaType string

const (
	MediaMovie MediaType = "MOVIE"
	MediaShow  MediaType = "SHOW"
)

// WatchStatus is a user's progress on a media item.
type WatchStatus string

const (
	WatchStatusWatched  WatchStatus = "WATCHED"
	WatchStatusWatching WatchStatus = "WATCHING"
	WatchStatusPlanned  WatchStatus = "PLANNED"
)

// User is the identity the social graph operates on.
type User struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	PrivacyStatus PrivacyStatus `json:"privacy_status"`
}

// FollowRequest is a pending or answered ask to follow a PRIVATE user.
type FollowRequest struct {
	ID          uint64              `json:"request_id"`
	RequesterID string              `json:"requester_id"`
	TargetID    string              `json:"target_id"`
	Status      FollowRequestStatus `json:"status"`
	RequestedAt time.Time           `json:"requested_at"`
	RespondedAt *time.Time          `json:"responded_at,omitempty"`
}

// FollowRequestView is a follow request joined with both usernames.
type FollowRequestView struct {
	RequestID         uint64              `json:"request_id"`
	RequesterID       string              `json:"requester_id"`
	TargetID          string              `json:"target_id"`
	RequesterUsername string              `json:"requester_username"`
	TargetUsername    string              `json:"target_username"`
	RequestedAt       time.Time           `json:"requested_at"`
	Status            FollowRequestStatus `json:"status"`
}

// FollowStatusResponse wraps a FollowStatus for the API.
type FollowStatusResponse struct {
	FollowStatus FollowStatus `json:"follow_status"`
}

// FollowRequestResponse is the result of answering a follow request.
type FollowRequestResponse struct {
	RequestID uint64              `json:"request_id"`
	NewStatus FollowRequestStatus `json:"new_status"`
}

// UserSummary is one entry of a followers, following or blocked list.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// PageRequest selects one 0-based page of a listing.
type PageRequest struct {
	Page int
	Size int
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is one page of a listing.
type Page[T any] struct {
	Items []T `json:"items"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Total int64 `json:"total"`
}

// WatchList is a watch list with one page of its media.
type WatchList struct {
	ID    uint64           `json:"id"`
	Name  string           `json:"name"`
	Media []WatchListMedia `json:"media"`
}

// WatchListMedia is a media entry of a watch list.
type WatchListMedia struct {
	MediaID   uint64    `json:"media_id"`
	Title     string    `json:"title"`
	MediaType MediaType `json:"media_type"`
}

// Review is a user's review of a media item.
type Review struct {
	ReviewID   uint64    `json:"review_id"`
	MediaID    uint64    `json:"media_id"`
	Username   string    `json:"username"`
	Comment    string    `json:"comment"`
	StarRating int       `json:"star_rating"`
	PostedAt   time.Time `json:"posted_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// WatchedCounts are the number of movies and shows a user has watched.
type WatchedCounts struct {
	Movies int64
	Shows  int64
}

// ProfileView is a user profile filtered by what the viewer may see.
// Nil list fields mean the tier does not disclose them.
type ProfileView struct {
	UserID             string        `json:"user_id"`
	Username           string        `json:"username"`
	PrivacyStatus      PrivacyStatus `json:"privacy_status,omitempty"`
	FollowStatus       FollowStatus  `json:"follow_status"`
	FollowersCount     int64         `json:"followers_count"`
	FollowingCount     int64         `json:"following_count"`
	MoviesWatchedCount int64         `json:"movies_watched_count"`
	ShowsWatchedCount  int64         `json:"shows_watched_count"`
	Watchlists         []WatchList   `json:"watchlists,omitempty"`
	Reviews            []Review      `json:"reviews,omitempty"`
}
