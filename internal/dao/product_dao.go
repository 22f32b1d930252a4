package dao

import (
	"context"
	"errors"

	"github.com/munyanyaguo/Hisi-Studio/internal/model"

	"gorm.io/gorm"
)

var ErrInsufficientStock = errors.New("insufficient stock")

type ProductDao struct {
	db *gorm.DB
}

func NewProductDao(db *gorm.DB) *ProductDao {
	return &ProductDao{db: db}
}

// WithTx rebinds the DAO to a transaction handle.
func (d *ProductDao) WithTx(tx *gorm.DB) *ProductDao {
	return &ProductDao{db: tx}
}

// ProductFilter carries the public catalog query options.
type ProductFilter struct {
	CategorySlug string
	Gender       string
	Search       string
	MinPrice     *float64
	MaxPrice     *float64
	Featured     *bool
	ActiveOnly   bool
	Sort         string
}

func (d *ProductDao) CreateProduct(ctx context.Context, p *model.Product) error {
	return d.db.WithContext(ctx).Create(p).Error
}

func (d *ProductDao) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := d.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *ProductDao) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var p model.Product
	err := d.db.WithContext(ctx).Preload("Category").Where("slug = ?", slug).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts applies catalog filters, sorting and pagination.
func (d *ProductDao) ListProducts(ctx context.Context, f ProductFilter, page, pageSize int) ([]*model.Product, int64, error) {
	q := d.db.WithContext(ctx).Model(&model.Product{})

	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}
	if f.Gender != "" {
		q = q.Where("gender = ?", f.Gender)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("products.name LIKE ? OR products.description LIKE ?", like, like)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Featured != nil {
		q = q.Where("is_featured = ?", *f.Featured)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.Sort {
	case "price_asc":
		q = q.Order("price ASC")
	case "price_desc":
		q = q.Order("price DESC")
	case "name":
		q = q.Order("products.name ASC")
	default:
		q = q.Order("products.created_at DESC")
	}

	var products []*model.Product
	err := q.Preload("Category").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&products).Error

	return products, total, err
}

func (d *ProductDao) UpdateProduct(ctx context.Context, id string, updates map[string]interface{}) error {
	return d.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(updates).Error
}

func (d *ProductDao) DeleteProduct(ctx context.Context, id string) error {
	return d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{}).Error
}

// SlugOrSKUExists checks catalog uniqueness, optionally excluding one row
// on update.
func (d *ProductDao) SlugOrSKUExists(ctx context.Context, slug, sku, excludeID string) (bool, error) {
	q := d.db.WithContext(ctx).Model(&model.Product{}).Where("slug = ? OR sku = ?", slug, sku)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DecrementStock performs the atomic conditional decrement:
// UPDATE products SET stock_quantity = stock_quantity - qty
// WHERE id = ? AND stock_quantity >= qty.
// Zero rows affected means the stock check lost the race.
func (d *ProductDao) DecrementStock(ctx context.Context, productID string, qty int) error {
	result := d.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// RestoreStock adds quantity back on cancellation. Best-effort: a deleted
// product makes this a no-op.
func (d *ProductDao) RestoreStock(ctx context.Context, productID string, qty int) error {
	return d.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", qty)).Error
}

// ReferencedByOrders reports whether any order item snapshots this product,
// which turns product delete into a soft deactivate.
func (d *ProductDao) ReferencedByOrders(ctx context.Context, productID string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.OrderItem{}).Where("product_id = ?", productID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// LowStockProducts lists active rows at or below their alert threshold.
func (d *ProductDao) LowStockProducts(ctx context.Context, limit int) ([]*model.Product, error) {
	var products []*model.Product
	err := d.db.WithContext(ctx).
		Where("is_active = ? AND stock_quantity <= low_stock_threshold", true).
		Order("stock_quantity ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (d *ProductDao) ListCategories(ctx context.Context, activeOnly bool) ([]*model.Category, error) {
	q := d.db.WithContext(ctx).Model(&model.Category{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var categories []*model.Category
	err := q.Order("display_order ASC, name ASC").Find(&categories).Error
	return categories, err
}

func (d *ProductDao) CreateCategory(ctx context.Context, c *model.Category) error {
	return d.db.WithContext(ctx).Create(c).Error
}
