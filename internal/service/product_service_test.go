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

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Magnetic Closure Shirt":  "magnetic-closure-shirt",
		"  One-Hand Tote!  ":      "one-hand-tote",
		"50% Off   (Clearance)":   "50-off-clearance",
		"Ähnlich":                 "hnlich",
		"---":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestCreateProductDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(dao.NewProductDao(db))
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, &ProductRequest{
		Name:  "Magnetic Closure Shirt",
		Price: 4500,
		SKU:   "HS-001",
	})
	require.NoError(t, err)
	assert.Equal(t, "magnetic-closure-shirt", p.Slug)
	assert.Equal(t, "KES", p.Currency)
	assert.Equal(t, 5, p.LowStockThreshold)
	assert.True(t, p.IsActive)
	assert.False(t, p.IsFeatured)
}

func TestCreateProductSlugConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(dao.NewProductDao(db))
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, &ProductRequest{Name: "Shirt", Price: 100, SKU: "SKU-A"})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, &ProductRequest{Name: "Shirt", Price: 100, SKU: "SKU-B"})
	assert.True(t, e.IsKind(err, e.KindConflict))

	_, err = svc.CreateProduct(ctx, &ProductRequest{Name: "Other", Price: 100, SKU: "SKU-A"})
	assert.True(t, e.IsKind(err, e.KindConflict))
}

func TestCreateProductValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(dao.NewProductDao(db))
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, &ProductRequest{Name: "Free", Price: 0, SKU: "X"})
	assert.True(t, e.IsKind(err, e.KindValidation))

	_, err = svc.CreateProduct(ctx, &ProductRequest{Name: "Neg", Price: 10, SKU: "X", StockQuantity: -1})
	assert.True(t, e.IsKind(err, e.KindValidation))
}

func TestGetProductHidesInactive(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(dao.NewProductDao(db))
	ctx := context.Background()

	product := createTestProduct(t, db, 100, 5)
	require.NoError(t, db.Model(product).Update("is_active", false).Error)

	_, err := svc.GetProduct(ctx, product.Slug)
	assert.True(t, e.IsKind(err, e.KindNotFound))

	// Admin lookup by id still resolves.
	_, err = svc.GetProductByID(ctx, product.ID)
	assert.NoError(t, err)
}

func TestDeleteProductDeactivatesWhenOrdered(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(dao.NewProductDao(db))
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	ordered := createTestProduct(t, db, 100, 5)
	unordered := createTestProduct(t, db, 100, 5)

	order := &model.Order{
		OrderNumber: "HS-20260101-DELTEST1",
		UserID:      user.ID,
		Subtotal:    100,
		Total:       100,
	}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Create(&model.OrderItem{
		OrderID:     order.ID,
		ProductID:   ordered.ID,
		ProductName: ordered.Name,
		ProductSKU:  ordered.SKU,
		UnitPrice:   100,
		Quantity:    1,
		Subtotal:    100,
	}).Error)

	deactivated, err := svc.DeleteProduct(ctx, ordered.ID)
	require.NoError(t, err)
	assert.True(t, deactivated)

	var kept model.Product
	require.NoError(t, db.First(&kept, "id = ?", ordered.ID).Error)
	assert.False(t, kept.IsActive)

	deactivated, err = svc.DeleteProduct(ctx, unordered.ID)
	require.NoError(t, err)
	assert.False(t, deactivated)

	err = db.First(&model.Product{}, "id = ?", unordered.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
