package v1

import (
	"strconv"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService *service.ProductService
	reviewService  *service.ReviewService
}

func NewProductHandler(productService *service.ProductService, reviewService *service.ReviewService) *ProductHandler {
	return &ProductHandler{productService: productService, reviewService: reviewService}
}

func parseProductFilter(c *gin.Context) dao.ProductFilter {
	f := dao.ProductFilter{
		CategorySlug: c.Query("category"),
		Gender:       c.Query("gender"),
		Search:       c.Query("search"),
		Sort:         c.Query("sort"),
	}
	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		f.MaxPrice = &v
	}
	if v, err := strconv.ParseBool(c.Query("featured")); err == nil {
		f.Featured = &v
	}
	return f
}

// ListProducts is the public catalog listing.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, perPage := PageParams(c)
	products, total, err := h.productService.ListProducts(c.Request.Context(), parseProductFilter(c), page, perPage)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, "products", products, NewPagination(page, perPage, total))
}

// GetProduct resolves a single product by slug.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "product", product)
}

// GetProductReviews lists approved reviews with the rating aggregate.
func (h *ProductHandler) GetProductReviews(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		Fail(c, err)
		return
	}

	page, perPage := PageParams(c)
	reviews, total, err := h.reviewService.ListProductReviews(c.Request.Context(), product.ID, page, perPage)
	if err != nil {
		Fail(c, err)
		return
	}
	stats, err := h.reviewService.ProductReviewStats(c.Request.Context(), product.ID)
	if err != nil {
		Fail(c, err)
		return
	}

	OK(c, "reviews", gin.H{
		"items":      reviews,
		"stats":      stats,
		"pagination": NewPagination(page, perPage, total),
	})
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context(), true)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "categories", categories)
}

// ---- admin ----

func (h *ProductHandler) AdminListProducts(c *gin.Context) {
	page, perPage := PageParams(c)
	products, total, err := h.productService.ListAllProducts(c.Request.Context(), parseProductFilter(c), page, perPage)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, "products", products, NewPagination(page, perPage, total))
}

func (h *ProductHandler) AdminGetProduct(c *gin.Context) {
	product, err := h.productService.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "product", product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name, price and sku are required")
		return
	}
	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "product created", product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name, price and sku are required")
		return
	}
	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "product updated", product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	deactivated, err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	if deactivated {
		OK(c, "product has order history and was deactivated instead", nil)
		return
	}
	OK(c, "product deleted", nil)
}

func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name is required")
		return
	}
	category, err := h.productService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "category created", category)
}

// RegisterRoutes wires the public catalog.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:slug", h.GetProduct)
		products.GET("/:slug/reviews", h.GetProductReviews)
	}
	rg.GET("/categories", h.ListCategories)
}

// RegisterAdminRoutes wires catalog management under the admin group.
func (h *ProductHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.AdminListProducts)
		products.POST("", h.CreateProduct)
		products.GET("/:id", h.AdminGetProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
	rg.POST("/categories", h.CreateCategory)
}
