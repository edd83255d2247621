package domain

import (
	"time"
)

// UserModel is the local projection of identity-service users.
// Username is synced from CDC; PrivacyStatus is owned by this service.
type UserModel struct {
	ID            string        `gorm:"type:varchar(36);primaryKey"`
	Username      string        `gorm:"type:varchar(50);uniqueIndex;not null"`
	PrivacyStatus PrivacyStatus `gorm:"type:varchar(16);not null;default:'PUBLIC'"`
	CreatedAt     time.Time     `gorm:"autoCreateTime"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

// ToDomain converts UserModel to domain User.
func (m *UserModel) ToDomain() *User {
	return &User{
		ID:            m.ID,
		Username:      m.Username,
		PrivacyStatus: m.PrivacyStatus,
	}
}

// FollowModel is one canonical follow edge. Both the following and the
// followers view of a user are derived from this table.
type FollowModel struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	FollowerID  string    `gorm:"column:follower_id;type:varchar(36);not null;uniqueIndex:uidx_follow_pair,priority:1"`
	FollowingID string    `gorm:"column:following_id;type:varchar(36);not null;uniqueIndex:uidx_follow_pair,priority:2;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (FollowModel) TableName() string { return "follows" }

// BlockModel is a directed block edge blocker → blocked.
type BlockModel struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	BlockerID string    `gorm:"column:blocker_id;type:varchar(36);not null;uniqueIndex:uidx_block_pair,priority:1"`
	BlockedID string    `gorm:"column:blocked_id;type:varchar(36);not null;uniqueIndex:uidx_block_pair,priority:2;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (BlockModel) TableName() string { return "blocks" }

// FollowRequestModel is a request to follow a PRIVATE user.
// At most one PENDING row per (requester, target) is enforced by a partial unique index.
type FollowRequestModel struct {
	ID          uint64              `gorm:"primaryKey;autoIncrement"`
	RequesterID string              `gorm:"column:requester_id;type:varchar(36);not null;index:idx_follow_requests_pair,priority:1"`
	TargetID    string              `gorm:"column:target_id;type:varchar(36);not null;index:idx_follow_requests_pair,priority:2;index:idx_follow_requests_target_status,priority:1"`
	Status      FollowRequestStatus `gorm:"type:varchar(16);not null;index:idx_follow_requests_target_status,priority:2"`
	RequestedAt time.Time           `gorm:"not null"`
	RespondedAt *time.Time
}

func (FollowRequestModel) TableName() string { return "follow_requests" }

// ToDomain converts the row to a FollowRequest.
func (m *FollowRequestModel) ToDomain() *FollowRequest {
	return &FollowRequest{
		ID:          m.ID,
		RequesterID: m.RequesterID,
		TargetID:    m.TargetID,
		Status:      m.Status,
		RequestedAt: m.RequestedAt,
		RespondedAt: m.RespondedAt,
	}
}

// Profile content read models. These tables are written by the watchlist,
// review and media-status services; this service only reads them.

// WatchListModel is a named list of media owned by a user.
type WatchListModel struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"type:varchar(36);not null;index"`
	Name      string    `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (WatchListModel) TableName() string { return "watch_lists" }

// WatchListItemModel is one media entry in a watch list.
type WatchListItemModel struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	WatchListID uint64    `gorm:"not null;index"`
	MediaID     uint64    `gorm:"not null"`
	Title       string    `gorm:"type:varchar(255)"`
	MediaType   MediaType `gorm:"type:varchar(16)"`
	AddedAt     time.Time `gorm:"autoCreateTime"`
}

func (WatchListItemModel) TableName() string { return "watch_list_items" }

// ReviewModel is a user review of a media item.
type ReviewModel struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	UserID     string    `gorm:"type:varchar(36);not null;index"`
	MediaID    uint64    `gorm:"not null"`
	Comment    string    `gorm:"type:text"`
	StarRating int       `gorm:"not null"`
	PostedAt   time.Time `gorm:"not null"`
	UpdatedAt  time.Time
}

func (ReviewModel) TableName() string { return "reviews" }

// UserMediaStatusModel records a user's watch status for one media item.
type UserMediaStatusModel struct {
	ID        uint64      `gorm:"primaryKey;autoIncrement"`
	UserID    string      `gorm:"type:varchar(36);not null;index"`
	MediaID   uint64      `gorm:"not null"`
	MediaType MediaType   `gorm:"type:varchar(16);not null"`
	Status    WatchStatus `gorm:"type:varchar(16);not null"`
}

func (UserMediaStatusModel) TableName() string { return "user_media_statuses" }
