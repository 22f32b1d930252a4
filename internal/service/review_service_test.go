package service

import (
	"context"
	"testing"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewService(t *testing.T) (*ReviewService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewReviewService(dao.NewReviewDao(db), dao.NewProductDao(db), newTestNotifier(db)), db
}

func boolPtr(b bool) *bool { return &b }

func TestSubmitReviewStartsUnapproved(t *testing.T) {
	svc, db := newReviewService(t)
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	product := createTestProduct(t, db, 100, 5)

	review, err := svc.SubmitReview(ctx, user.ID, &ReviewRequest{
		ProductID: &product.ID,
		Rating:    4,
		Content:   "Comfortable and easy to fasten.",
	})
	require.NoError(t, err)
	assert.False(t, review.IsApproved)

	// Unapproved reviews stay off the public listing.
	public, total, err := svc.ListProductReviews(ctx, product.ID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, public)
	assert.Zero(t, total)
}

func TestSubmitReviewOncePerProduct(t *testing.T) {
	svc, db := newReviewService(t)
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	product := createTestProduct(t, db, 100, 5)

	_, err := svc.SubmitReview(ctx, user.ID, &ReviewRequest{ProductID: &product.ID, Rating: 4, Content: "ok"})
	require.NoError(t, err)

	_, err = svc.SubmitReview(ctx, user.ID, &ReviewRequest{ProductID: &product.ID, Rating: 5, Content: "again"})
	assert.True(t, e.IsKind(err, e.KindConflict))
}

func TestSubmitReviewRatingBounds(t *testing.T) {
	svc, db := newReviewService(t)
	user := createTestUser(t, db, model.RoleCustomer)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.SubmitReview(context.Background(), user.ID, &ReviewRequest{Rating: rating, Content: "x"})
		assert.True(t, e.IsKind(err, e.KindValidation), "rating %d", rating)
	}
}

func TestModerateReviewApproval(t *testing.T) {
	svc, db := newReviewService(t)
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	product := createTestProduct(t, db, 100, 5)

	review, err := svc.SubmitReview(ctx, user.ID, &ReviewRequest{ProductID: &product.ID, Rating: 5, Content: "great"})
	require.NoError(t, err)

	moderated, err := svc.ModerateReview(ctx, review.ID, &ModerateReviewRequest{Approve: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, moderated.IsApproved)
	assert.NotNil(t, moderated.ApprovedAt)

	public, total, err := svc.ListProductReviews(ctx, product.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, public, 1)
	assert.Equal(t, int64(1), total)

	// Revoking approval clears the timestamp.
	moderated, err = svc.ModerateReview(ctx, review.ID, &ModerateReviewRequest{Approve: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, moderated.IsApproved)
	assert.Nil(t, moderated.ApprovedAt)
}

func TestDeleteReviewOwnership(t *testing.T) {
	svc, db := newReviewService(t)
	ctx := context.Background()

	author := createTestUser(t, db, model.RoleCustomer)
	other := createTestUser(t, db, model.RoleCustomer)
	product := createTestProduct(t, db, 100, 5)

	review, err := svc.SubmitReview(ctx, author.ID, &ReviewRequest{ProductID: &product.ID, Rating: 3, Content: "meh"})
	require.NoError(t, err)

	err = svc.DeleteReview(ctx, review.ID, other.ID, false)
	assert.True(t, e.IsKind(err, e.KindNotFound))

	require.NoError(t, svc.DeleteReview(ctx, review.ID, author.ID, false))
}

func TestProductReviewStats(t *testing.T) {
	svc, db := newReviewService(t)
	ctx := context.Background()

	product := createTestProduct(t, db, 100, 5)
	ratings := []int{5, 5, 4, 2}
	for _, rating := range ratings {
		user := createTestUser(t, db, model.RoleCustomer)
		review, err := svc.SubmitReview(ctx, user.ID, &ReviewRequest{ProductID: &product.ID, Rating: rating, Content: "x"})
		require.NoError(t, err)
		_, err = svc.ModerateReview(ctx, review.ID, &ModerateReviewRequest{Approve: boolPtr(true)})
		require.NoError(t, err)
	}
	// One unapproved review must not count.
	user := createTestUser(t, db, model.RoleCustomer)
	_, err := svc.SubmitReview(ctx, user.ID, &ReviewRequest{ProductID: &product.ID, Rating: 1, Content: "x"})
	require.NoError(t, err)

	stats, err := svc.ProductReviewStats(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Count)
	assert.InDelta(t, 4.0, stats.Average, 0.001)
	assert.Equal(t, int64(2), stats.PerStar[5])
	assert.Equal(t, int64(1), stats.PerStar[4])
	assert.Equal(t, int64(1), stats.PerStar[2])
	assert.Zero(t, stats.PerStar[1])
}
