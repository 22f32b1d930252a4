package service

import (
	"context"
	"errors"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"

	"gorm.io/gorm"
)

type ReviewService struct {
	reviewDao  *dao.ReviewDao
	productDao *dao.ProductDao
	notifier   *Notifier
}

func NewReviewService(reviewDao *dao.ReviewDao, productDao *dao.ProductDao, notifier *Notifier) *ReviewService {
	return &ReviewService{reviewDao: reviewDao, productDao: productDao, notifier: notifier}
}

type ReviewRequest struct {
	ProductID *string `json:"product_id"`
	Rating    int     `json:"rating" binding:"required"`
	Title     string  `json:"title"`
	Content   string  `json:"content" binding:"required"`
}

// SubmitReview records a customer review. Reviews start unapproved and
// only surface publicly after moderation. One review per user per product.
func (s *ReviewService) SubmitReview(ctx context.Context, userID string, req *ReviewRequest) (*model.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, e.Validation("rating must be between 1 and 5")
	}

	if req.ProductID != nil {
		if _, err := s.productDao.GetProductByID(ctx, *req.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, e.NotFound("product")
			}
			return nil, e.Internal(err)
		}
		already, err := s.reviewDao.HasReviewed(ctx, userID, *req.ProductID)
		if err != nil {
			return nil, e.Internal(err)
		}
		if already {
			return nil, e.Conflict("you have already reviewed this product")
		}
	}

	review := &model.Review{
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Title:     req.Title,
		Content:   req.Content,
	}
	if err := s.reviewDao.CreateReview(ctx, review); err != nil {
		return nil, e.Internal(err)
	}

	s.notifier.NewReview(ctx, review)
	return review, nil
}

// ListProductReviews is the public listing: approved reviews only.
func (s *ReviewService) ListProductReviews(ctx context.Context, productID string, page, pageSize int) ([]*model.Review, int64, error) {
	reviews, total, err := s.reviewDao.ListReviews(ctx, dao.ReviewFilter{
		ProductID:    productID,
		ApprovedOnly: true,
	}, page, pageSize)
	if err != nil {
		return nil, 0, e.Internal(err)
	}
	return reviews, total, nil
}

// ListFeaturedReviews powers the homepage carousel.
func (s *ReviewService) ListFeaturedReviews(ctx context.Context, limit int) ([]*model.Review, error) {
	reviews, _, err := s.reviewDao.ListReviews(ctx, dao.ReviewFilter{
		ApprovedOnly: true,
		FeaturedOnly: true,
	}, 1, limit)
	if err != nil {
		return nil, e.Internal(err)
	}
	return reviews, nil
}

func (s *ReviewService) ListUserReviews(ctx context.Context, userID string, page, pageSize int) ([]*model.Review, int64, error) {
	reviews, total, err := s.reviewDao.ListReviews(ctx, dao.ReviewFilter{UserID: userID}, page, pageSize)
	if err != nil {
		return nil, 0, e.Internal(err)
	}
	return reviews, total, nil
}

// ListReviewsAdmin exposes the moderation queue, unapproved included.
func (s *ReviewService) ListReviewsAdmin(ctx context.Context, filter dao.ReviewFilter, page, pageSize int) ([]*model.Review, int64, error) {
	reviews, total, err := s.reviewDao.ListReviews(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, e.Internal(err)
	}
	return reviews, total, nil
}

type ModerateReviewRequest struct {
	Approve    *bool  `json:"approve"`
	Feature    *bool  `json:"feature"`
	AdminNotes string `json:"admin_notes"`
}

func (s *ReviewService) ModerateReview(ctx context.Context, id string, req *ModerateReviewRequest) (*model.Review, error) {
	updates := map[string]interface{}{}
	if req.Approve != nil {
		updates["is_approved"] = *req.Approve
		if *req.Approve {
			updates["approved_at"] = time.Now()
		} else {
			updates["approved_at"] = nil
		}
	}
	if req.Feature != nil {
		updates["is_featured"] = *req.Feature
	}
	if req.AdminNotes != "" {
		updates["admin_notes"] = req.AdminNotes
	}
	if len(updates) == 0 {
		return nil, e.Validation("no moderation action supplied")
	}

	rows, err := s.reviewDao.UpdateReview(ctx, id, updates)
	if err != nil {
		return nil, e.Internal(err)
	}
	if rows == 0 {
		return nil, e.NotFound("review")
	}
	return s.reviewDao.GetReviewByID(ctx, id)
}

// DeleteReview removes a review, either by its author or by staff.
func (s *ReviewService) DeleteReview(ctx context.Context, id, userID string, isAdmin bool) error {
	review, err := s.reviewDao.GetReviewByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return e.NotFound("review")
		}
		return e.Internal(err)
	}
	if !isAdmin && review.UserID != userID {
		return e.NotFound("review")
	}

	rows, err := s.reviewDao.DeleteReview(ctx, id)
	if err != nil {
		return e.Internal(err)
	}
	if rows == 0 {
		return e.NotFound("review")
	}
	return nil
}

// ProductReviewStats returns the approved-review aggregate for a product.
func (s *ReviewService) ProductReviewStats(ctx context.Context, productID string) (*dao.ReviewStats, error) {
	stats, err := s.reviewDao.Stats(ctx, productID)
	if err != nil {
		return nil, e.Internal(err)
	}
	return stats, nil
}
