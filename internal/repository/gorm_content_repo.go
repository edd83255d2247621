package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MuhammadYassa/WatchMate/internal/domain"
)

// GormContentRepository reads watch lists, reviews and watch statuses for profile views.
type GormContentRepository struct {
	db *gorm.DB
}

// NewGormContentRepository creates a new GORM-backed content repository.
func NewGormContentRepository(db *gorm.DB) *GormContentRepository {
	return &GormContentRepository{db: db}
}

// ListWatchLists returns one page of a user's watch lists, newest first, each with its media.
func (r *GormContentRepository) ListWatchLists(ctx context.Context, userID string, page domain.PageRequest) ([]domain.WatchList, error) {
	var lists []domain.WatchListModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&lists).Error
	if err != nil {
		return nil, err
	}

	result := make([]domain.WatchList, 0, len(lists))
	if len(lists) == 0 {
		return result, nil
	}

	ids := make([]uint64, 0, len(lists))
	for _, l := range lists {
		ids = append(ids, l.ID)
	}

	var items []domain.WatchListItemModel
	err = r.db.WithContext(ctx).
		Where("watch_list_id IN ?", ids).
		Order("added_at DESC").
		Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	media := make(map[uint64][]domain.WatchListMedia, len(lists))
	for _, it := range items {
		media[it.WatchListID] = append(media[it.WatchListID], domain.WatchListMedia{
			MediaID:   it.MediaID,
			Title:     it.Title,
			MediaType: it.MediaType,
		})
	}

	for _, l := range lists {
		m := media[l.ID]
		if m == nil {
			m = []domain.WatchListMedia{}
		}
		result = append(result, domain.WatchList{ID: l.ID, Name: l.Name, Media: m})
	}
	return result, nil
}

// ListReviews returns one page of a user's reviews, newest first.
func (r *GormContentRepository) ListReviews(ctx context.Context, userID string, page domain.PageRequest) ([]domain.Review, error) {
	var rows []domain.ReviewModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("posted_at DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	reviews := make([]domain.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, domain.Review{
			ReviewID:   row.ID,
			MediaID:    row.MediaID,
			Comment:    row.Comment,
			StarRating: row.StarRating,
			PostedAt:   row.PostedAt,
			UpdatedAt:  row.UpdatedAt,
		})
	}
	return reviews, nil
}

// CountWatched counts WATCHED movies and shows of a user.
func (r *GormContentRepository) CountWatched(ctx context.Context, userID string) (domain.WatchedCounts, error) {
	var rows []struct {
		MediaType domain.MediaType
		Total     int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.UserMediaStatusModel{}).
		Select("media_type, COUNT(*) AS total").
		Where("user_id = ? AND status = ?", userID, domain.WatchStatusWatched).
		Group("media_type").
		Scan(&rows).Error
	if err != nil {
		return domain.WatchedCounts{}, err
	}

	var counts domain.WatchedCounts
	for _, row := range rows {
		switch row.MediaType {
		case domain.MediaMovie:
			counts.Movies = row.Total
		case domain.MediaShow:
			counts.Shows = row.Total
		}
	}
	return counts, nil
}

// Ensure interface is satisfied at compile time.
var _ ContentRepository = (*GormContentRepository)(nil)
