package dao

import (
	"context"

	"github.com/munyanyaguo/Hisi-Studio/internal/model"

	"gorm.io/gorm"
)

type ReviewDao struct {
	db *gorm.DB
}

func NewReviewDao(db *gorm.DB) *ReviewDao {
	return &ReviewDao{db: db}
}

func (d *ReviewDao) CreateReview(ctx context.Context, r *model.Review) error {
	return d.db.WithContext(ctx).Create(r).Error
}

func (d *ReviewDao) GetReviewByID(ctx context.Context, id string) (*model.Review, error) {
	var r model.Review
	err := d.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// HasReviewed prevents duplicate reviews of one product by one user.
func (d *ReviewDao) HasReviewed(ctx context.Context, userID, productID string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.Review{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReviewFilter narrows the listing; zero values are ignored.
type ReviewFilter struct {
	ProductID    string
	UserID       string
	ApprovedOnly bool
	FeaturedOnly bool
	MinRating    int
}

func (d *ReviewDao) ListReviews(ctx context.Context, filter ReviewFilter, page, pageSize int) ([]*model.Review, int64, error) {
	q := d.db.WithContext(ctx).Model(&model.Review{})
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.ApprovedOnly {
		q = q.Where("is_approved = ?", true)
	}
	if filter.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}
	if filter.MinRating > 0 {
		q = q.Where("rating >= ?", filter.MinRating)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []*model.Review
	err := q.Preload("User").
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&reviews).Error
	return reviews, total, err
}

func (d *ReviewDao) UpdateReview(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	result := d.db.WithContext(ctx).Model(&model.Review{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (d *ReviewDao) DeleteReview(ctx context.Context, id string) (int64, error) {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Review{})
	return result.RowsAffected, result.Error
}

// ReviewStats aggregates approved ratings for one product.
type ReviewStats struct {
	Average float64        `json:"average"`
	Count   int64          `json:"count"`
	PerStar map[int]int64  `json:"per_star"`
}

// Stats computes the approved-review average and the per-star histogram.
func (d *ReviewDao) Stats(ctx context.Context, productID string) (*ReviewStats, error) {
	type row struct {
		Rating int
		Count  int64
	}
	var rows []row
	err := d.db.WithContext(ctx).Model(&model.Review{}).
		Select("rating, COUNT(*) as count").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &ReviewStats{PerStar: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	var sum int64
	for _, r := range rows {
		stats.PerStar[r.Rating] = r.Count
		stats.Count += r.Count
		sum += int64(r.Rating) * r.Count
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	return stats, nil
}

func (d *ReviewDao) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.Review{}).
		Where("is_approved = ?", false).
		Count(&count).Error
	return count, err
}
