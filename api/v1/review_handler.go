package v1

import (
	"strconv"

	"github.com/munyanyaguo/Hisi-Studio/api/middleware"
	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// SubmitReview creates an unapproved review pending moderation.
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var req service.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "product_id and rating are required")
		return
	}
	review, err := h.reviewService.SubmitReview(c.Request.Context(), c.GetString(middleware.CtxUserID), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "review submitted for moderation", review)
}

func (h *ReviewHandler) ListMyReviews(c *gin.Context) {
	page, perPage := PageParams(c)
	reviews, total, err := h.reviewService.ListUserReviews(c.Request.Context(), c.GetString(middleware.CtxUserID), page, perPage)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, "reviews", reviews, NewPagination(page, perPage, total))
}

func (h *ReviewHandler) ListFeatured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
	reviews, err := h.reviewService.ListFeaturedReviews(c.Request.Context(), limit)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "featured reviews", reviews)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	err := h.reviewService.DeleteReview(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID), false)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "review deleted", nil)
}

// ---- admin ----

func (h *ReviewHandler) AdminListReviews(c *gin.Context) {
	page, perPage := PageParams(c)
	filter := dao.ReviewFilter{
		ProductID:    c.Query("product_id"),
		UserID:       c.Query("user_id"),
		ApprovedOnly: c.Query("approved") == "true",
		FeaturedOnly: c.Query("featured") == "true",
	}
	if minRating, err := strconv.Atoi(c.Query("min_rating")); err == nil {
		filter.MinRating = minRating
	}
	reviews, total, err := h.reviewService.ListReviewsAdmin(c.Request.Context(), filter, page, perPage)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, "reviews", reviews, NewPagination(page, perPage, total))
}

func (h *ReviewHandler) ModerateReview(c *gin.Context) {
	var req service.ModerateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	review, err := h.reviewService.ModerateReview(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "review moderated", review)
}

func (h *ReviewHandler) AdminDeleteReview(c *gin.Context) {
	err := h.reviewService.DeleteReview(c.Request.Context(), c.Param("id"), "", true)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "review deleted", nil)
}

func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	reviews := rg.Group("/reviews")
	{
		reviews.GET("/featured", h.ListFeatured)
		reviews.POST("", authMW, h.SubmitReview)
		reviews.GET("/mine", authMW, h.ListMyReviews)
		reviews.DELETE("/:id", authMW, h.DeleteReview)
	}
}

func (h *ReviewHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	reviews := rg.Group("/reviews")
	{
		reviews.GET("", h.AdminListReviews)
		reviews.PUT("/:id/moderate", h.ModerateReview)
		reviews.DELETE("/:id", h.AdminDeleteReview)
	}
}
