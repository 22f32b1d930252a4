package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"
	"github.com/munyanyaguo/Hisi-Studio/pkg/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductService struct {
	productDao *dao.ProductDao
}

func NewProductService(productDao *dao.ProductDao) *ProductService {
	return &ProductService{productDao: productDao}
}

// ListProducts serves the public catalog: active products only.
func (s *ProductService) ListProducts(ctx context.Context, filter dao.ProductFilter, page, pageSize int) ([]*model.Product, int64, error) {
	filter.ActiveOnly = true
	products, total, err := s.productDao.ListProducts(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, e.Internal(err)
	}
	return products, total, nil
}

// ListAllProducts is the admin listing, inactive rows included.
func (s *ProductService) ListAllProducts(ctx context.Context, filter dao.ProductFilter, page, pageSize int) ([]*model.Product, int64, error) {
	products, total, err := s.productDao.ListProducts(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, e.Internal(err)
	}
	return products, total, nil
}

// GetProduct resolves by slug for the storefront. Inactive products are
// hidden from public lookups.
func (s *ProductService) GetProduct(ctx context.Context, slug string) (*model.Product, error) {
	p, err := s.productDao.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("product")
		}
		return nil, e.Internal(err)
	}
	if !p.IsActive {
		return nil, e.NotFound("product")
	}
	return p, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.productDao.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("product")
		}
		return nil, e.Internal(err)
	}
	return p, nil
}

type ProductRequest struct {
	Name                  string   `json:"name" binding:"required"`
	Slug                  string   `json:"slug"`
	Description           string   `json:"description"`
	ShortDescription      string   `json:"short_description"`
	Price                 float64  `json:"price" binding:"required"`
	OriginalPrice         *float64 `json:"original_price"`
	Currency              string   `json:"currency"`
	SKU                   string   `json:"sku" binding:"required"`
	StockQuantity         int      `json:"stock_quantity"`
	LowStockThreshold     int      `json:"low_stock_threshold"`
	CategoryID            *string  `json:"category_id"`
	Brand                 string   `json:"brand"`
	Gender                string   `json:"gender"`
	AccessibilityFeatures []string `json:"accessibility_features"`
	MainImage             string   `json:"main_image"`
	HoverImage            string   `json:"hover_image"`
	Images                []string `json:"images"`
	MetaTitle             string   `json:"meta_title"`
	MetaDescription       string   `json:"meta_description"`
	IsActive              *bool    `json:"is_active"`
	IsFeatured            *bool    `json:"is_featured"`
	Badge                 string   `json:"badge"`
}

func (s *ProductService) CreateProduct(ctx context.Context, req *ProductRequest) (*model.Product, error) {
	if req.Price <= 0 {
		return nil, e.Validation("price must be positive")
	}
	if req.StockQuantity < 0 {
		return nil, e.Validation("stock quantity cannot be negative")
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}

	taken, err := s.productDao.SlugOrSKUExists(ctx, slug, req.SKU, "")
	if err != nil {
		return nil, e.Internal(err)
	}
	if taken {
		return nil, e.Conflict("a product with this slug or SKU already exists")
	}

	currency := req.Currency
	if currency == "" {
		currency = "KES"
	}
	threshold := req.LowStockThreshold
	if threshold == 0 {
		threshold = 5
	}

	p := &model.Product{
		Name:                  strings.TrimSpace(req.Name),
		Slug:                  slug,
		Description:           req.Description,
		ShortDescription:      req.ShortDescription,
		Price:                 req.Price,
		OriginalPrice:         req.OriginalPrice,
		Currency:              currency,
		SKU:                   req.SKU,
		StockQuantity:         req.StockQuantity,
		LowStockThreshold:     threshold,
		CategoryID:            req.CategoryID,
		Brand:                 req.Brand,
		Gender:                req.Gender,
		AccessibilityFeatures: datatypes.NewJSONSlice(req.AccessibilityFeatures),
		MainImage:             req.MainImage,
		HoverImage:            req.HoverImage,
		Images:                datatypes.NewJSONSlice(req.Images),
		MetaTitle:             req.MetaTitle,
		MetaDescription:       req.MetaDescription,
		IsActive:              req.IsActive == nil || *req.IsActive,
		IsFeatured:            req.IsFeatured != nil && *req.IsFeatured,
		Badge:                 req.Badge,
	}
	if err := s.productDao.CreateProduct(ctx, p); err != nil {
		return nil, e.Internal(err)
	}

	logger.Info("product created", "product_id", p.ID, "sku", p.SKU)
	return p, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *ProductRequest) (*model.Product, error) {
	existing, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = existing.Slug
	}
	taken, err := s.productDao.SlugOrSKUExists(ctx, slug, req.SKU, id)
	if err != nil {
		return nil, e.Internal(err)
	}
	if taken {
		return nil, e.Conflict("a product with this slug or SKU already exists")
	}
	if req.Price <= 0 {
		return nil, e.Validation("price must be positive")
	}
	if req.StockQuantity < 0 {
		return nil, e.Validation("stock quantity cannot be negative")
	}

	updates := map[string]interface{}{
		"name":                   strings.TrimSpace(req.Name),
		"slug":                   slug,
		"description":            req.Description,
		"short_description":      req.ShortDescription,
		"price":                  req.Price,
		"original_price":         req.OriginalPrice,
		"sku":                    req.SKU,
		"stock_quantity":         req.StockQuantity,
		"category_id":            req.CategoryID,
		"brand":                  req.Brand,
		"gender":                 req.Gender,
		"accessibility_features": datatypes.NewJSONSlice(req.AccessibilityFeatures),
		"main_image":             req.MainImage,
		"hover_image":            req.HoverImage,
		"images":                 datatypes.NewJSONSlice(req.Images),
		"meta_title":             req.MetaTitle,
		"meta_description":       req.MetaDescription,
		"badge":                  req.Badge,
	}
	if req.Currency != "" {
		updates["currency"] = req.Currency
	}
	if req.LowStockThreshold > 0 {
		updates["low_stock_threshold"] = req.LowStockThreshold
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}

	if err := s.productDao.UpdateProduct(ctx, id, updates); err != nil {
		return nil, e.Internal(err)
	}
	return s.GetProductByID(ctx, id)
}

// DeleteProduct removes a product, or deactivates it when order items
// still snapshot it so history keeps resolving.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (deactivated bool, err error) {
	if _, err := s.GetProductByID(ctx, id); err != nil {
		return false, err
	}

	referenced, err := s.productDao.ReferencedByOrders(ctx, id)
	if err != nil {
		return false, e.Internal(err)
	}
	if referenced {
		if err := s.productDao.UpdateProduct(ctx, id, map[string]interface{}{"is_active": false}); err != nil {
			return false, e.Internal(err)
		}
		logger.Info("product deactivated instead of deleted", "product_id", id)
		return true, nil
	}

	if err := s.productDao.DeleteProduct(ctx, id); err != nil {
		return false, e.Internal(err)
	}
	return false, nil
}

func (s *ProductService) ListCategories(ctx context.Context, activeOnly bool) ([]*model.Category, error) {
	categories, err := s.productDao.ListCategories(ctx, activeOnly)
	if err != nil {
		return nil, e.Internal(err)
	}
	return categories, nil
}

type CategoryRequest struct {
	Name         string  `json:"name" binding:"required"`
	Slug         string  `json:"slug"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	ParentID     *string `json:"parent_id"`
	DisplayOrder int     `json:"display_order"`
}

func (s *ProductService) CreateCategory(ctx context.Context, req *CategoryRequest) (*model.Category, error) {
	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}
	c := &model.Category{
		Name:         strings.TrimSpace(req.Name),
		Slug:         slug,
		Description:  req.Description,
		Image:        req.Image,
		ParentID:     req.ParentID,
		IsActive:     true,
		DisplayOrder: req.DisplayOrder,
	}
	if err := s.productDao.CreateCategory(ctx, c); err != nil {
		return nil, e.Internal(err)
	}
	return c, nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases and hyphenates a name into a URL slug.
func Slugify(name string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}
