package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MuhammadYassa/WatchMate/internal/domain"
)

// GormRelationshipRepository implements RelationshipRepository using GORM.
// Inserts use ON CONFLICT DO NOTHING so a lost race never aborts the surrounding transaction.
type GormRelationshipRepository struct {
	db *gorm.DB
}

// NewGormRelationshipRepository creates a new GORM-backed relationship repository.
func NewGormRelationshipRepository(db *gorm.DB) *GormRelationshipRepository {
	return &GormRelationshipRepository{db: db}
}

func (r *GormRelationshipRepository) exists(ctx context.Context, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsFollowing checks if followerID follows followingID.
func (r *GormRelationshipRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	return r.exists(ctx, &domain.FollowModel{},
		"follower_id = ? AND following_id = ?", followerID, followingID)
}

// IsBlocking checks if blockerID blocks blockedID.
func (r *GormRelationshipRepository) IsBlocking(ctx context.Context, blockerID, blockedID string) (bool, error) {
	return r.exists(ctx, &domain.BlockModel{},
		"blocker_id = ? AND blocked_id = ?", blockerID, blockedID)
}

// IsBlockedEither checks for a block edge in either direction.
func (r *GormRelationshipRepository) IsBlockedEither(ctx context.Context, a, b string) (bool, error) {
	return r.exists(ctx, &domain.BlockModel{},
		"(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a)
}

// CreateFollow inserts the follow edge.
func (r *GormRelationshipRepository) CreateFollow(ctx context.Context, followerID, followingID string) error {
	model := domain.FollowModel{FollowerID: followerID, FollowingID: followingID}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrAlreadyFollowing
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyFollowing
	}
	return nil
}

// DeleteFollow removes the follow edge.
func (r *GormRelationshipRepository) DeleteFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&domain.FollowModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteFollowsBetween removes follow edges a → b and b → a.
func (r *GormRelationshipRepository) DeleteFollowsBetween(ctx context.Context, a, b string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("(follower_id = ? AND following_id = ?) OR (follower_id = ? AND following_id = ?)", a, b, b, a).
		Delete(&domain.FollowModel{})
	return result.RowsAffected, result.Error
}

// CreateBlock inserts the block edge.
func (r *GormRelationshipRepository) CreateBlock(ctx context.Context, blockerID, blockedID string) error {
	model := domain.BlockModel{BlockerID: blockerID, BlockedID: blockedID}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrAlreadyBlocking
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyBlocking
	}
	return nil
}

// DeleteBlock removes the block edge.
func (r *GormRelationshipRepository) DeleteBlock(ctx context.Context, blockerID, blockedID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&domain.BlockModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountFollowers returns the number of users following userID.
func (r *GormRelationshipRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountFollowing returns the number of users userID follows.
func (r *GormRelationshipRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

// ListFollowers lists the users following userID, ordered by username asc, id desc.
func (r *GormRelationshipRepository) ListFollowers(ctx context.Context, userID string, page domain.PageRequest) ([]domain.UserSummary, int64, error) {
	return r.listUsers(ctx, &domain.FollowModel{}, "follows", "follower_id", "following_id", userID, page)
}

// ListFollowing lists the users userID follows, ordered by username asc, id desc.
func (r *GormRelationshipRepository) ListFollowing(ctx context.Context, userID string, page domain.PageRequest) ([]domain.UserSummary, int64, error) {
	return r.listUsers(ctx, &domain.FollowModel{}, "follows", "following_id", "follower_id", userID, page)
}

// ListBlocked lists the users blocked by userID, ordered by username asc, id desc.
func (r *GormRelationshipRepository) ListBlocked(ctx context.Context, userID string, page domain.PageRequest) ([]domain.UserSummary, int64, error) {
	return r.listUsers(ctx, &domain.BlockModel{}, "blocks", "blocked_id", "blocker_id", userID, page)
}

// listUsers pages over edge rows where ownerCol = userID and returns the users in memberCol.
func (r *GormRelationshipRepository) listUsers(
	ctx context.Context,
	model interface{},
	table, memberCol, ownerCol, userID string,
	page domain.PageRequest,
) ([]domain.UserSummary, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(model).
		Where(ownerCol+" = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]domain.UserSummary, 0, page.Size)
	if total == 0 {
		return items, 0, nil
	}

	err := r.db.WithContext(ctx).
		Table(table+" AS e").
		Select("u.id AS id, u.username AS username").
		Joins("JOIN users u ON u.id = e."+memberCol).
		Where("e."+ownerCol+" = ?", userID).
		Order("u.username ASC").
		Order("u.id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Scan(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// HasPendingRequest checks for a PENDING request requester → target.
func (r *GormRelationshipRepository) HasPendingRequest(ctx context.Context, requesterID, targetID string) (bool, error) {
	return r.exists(ctx, &domain.FollowRequestModel{},
		"requester_id = ? AND target_id = ? AND status = ?", requesterID, targetID, domain.RequestPending)
}

// CreateFollowRequest inserts a new PENDING follow request.
func (r *GormRelationshipRepository) CreateFollowRequest(ctx context.Context, req *domain.FollowRequest) error {
	model := domain.FollowRequestModel{
		RequesterID: req.RequesterID,
		TargetID:    req.TargetID,
		Status:      domain.RequestPending,
		RequestedAt: req.RequestedAt,
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrPendingRequestExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPendingRequestExists
	}

	req.ID = model.ID
	req.Status = model.Status
	return nil
}

// GetFollowRequest retrieves a follow request by ID in any status.
func (r *GormRelationshipRepository) GetFollowRequest(ctx context.Context, id uint64) (*domain.FollowRequest, error) {
	var model domain.FollowRequestModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, ErrFollowRequestNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ResolveFollowRequest updates a request only while it is still PENDING,
// so two concurrent responses cannot both succeed.
func (r *GormRelationshipRepository) ResolveFollowRequest(ctx context.Context, id uint64, status domain.FollowRequestStatus, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&domain.FollowRequestModel{}).
		Where("id = ? AND status = ?", id, domain.RequestPending).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFollowRequestNotFound
	}
	return nil
}

// DeleteFollowRequest deletes a follow request row.
func (r *GormRelationshipRepository) DeleteFollowRequest(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.FollowRequestModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFollowRequestNotFound
	}
	return nil
}

// DeletePendingRequestsBetween deletes PENDING requests a → b and b → a.
func (r *GormRelationshipRepository) DeletePendingRequestsBetween(ctx context.Context, a, b string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND ((requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?))",
			domain.RequestPending, a, b, b, a).
		Delete(&domain.FollowRequestModel{})
	return result.RowsAffected, result.Error
}

// ListPendingReceived lists PENDING requests targeting targetID.
func (r *GormRelationshipRepository) ListPendingReceived(ctx context.Context, targetID string, page domain.PageRequest) ([]domain.FollowRequestView, int64, error) {
	return r.listPending(ctx, "target_id", targetID, page)
}

// ListPendingSent lists PENDING requests created by requesterID.
func (r *GormRelationshipRepository) ListPendingSent(ctx context.Context, requesterID string, page domain.PageRequest) ([]domain.FollowRequestView, int64, error) {
	return r.listPending(ctx, "requester_id", requesterID, page)
}

// listPending orders by requested_at desc with id desc as tie-break, so rows sharing
// a timestamp keep a stable order across pages.
func (r *GormRelationshipRepository) listPending(ctx context.Context, col, userID string, page domain.PageRequest) ([]domain.FollowRequestView, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.FollowRequestModel{}).
		Where(col+" = ? AND status = ?", userID, domain.RequestPending).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]domain.FollowRequestView, 0, page.Size)
	if total == 0 {
		return items, 0, nil
	}

	err := r.db.WithContext(ctx).
		Table("follow_requests AS fr").
		Select(`fr.id AS request_id,
			fr.requester_id AS requester_id,
			fr.target_id AS target_id,
			ru.username AS requester_username,
			tu.username AS target_username,
			fr.requested_at AS requested_at,
			fr.status AS status`).
		Joins("JOIN users ru ON ru.id = fr.requester_id").
		Joins("JOIN users tu ON tu.id = fr.target_id").
		Where("fr."+col+" = ? AND fr.status = ?", userID, domain.RequestPending).
		Order("fr.requested_at DESC").
		Order("fr.id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Scan(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Ensure interface is satisfied at compile time.
var _ RelationshipRepository = (*GormRelationshipRepository)(nil)
