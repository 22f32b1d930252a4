package service

import (
	"context"
	"testing"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemSnapshotsPrice(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, dao.NewCartDao(db), dao.NewProductDao(db))
	ctx := context.Background()

	product := createTestProduct(t, db, 100, 10)
	owner := CartOwner{SessionID: "sess-1"}

	cart, err := svc.AddItem(ctx, owner, &AddItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 100.0, cart.Items[0].PriceAtAddition)

	// Later catalogue price edits must not alter the open cart line.
	require.NoError(t, db.Model(product).Update("price", 250).Error)

	cart, err = svc.AddItem(ctx, owner, &AddItemRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 100.0, cart.Items[0].PriceAtAddition)
	assert.Equal(t, 300.0, cart.Total())
}

func TestAddItemStockCap(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, dao.NewCartDao(db), dao.NewProductDao(db))
	ctx := context.Background()

	product := createTestProduct(t, db, 50, 3)
	owner := CartOwner{SessionID: "sess-1"}

	_, err := svc.AddItem(ctx, owner, &AddItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, owner, &AddItemRequest{ProductID: product.ID, Quantity: 2})
	assert.True(t, e.IsKind(err, e.KindValidation))
}

func TestAddItemInactiveProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, dao.NewCartDao(db), dao.NewProductDao(db))
	ctx := context.Background()

	product := createTestProduct(t, db, 50, 10)
	require.NoError(t, db.Model(product).Update("is_active", false).Error)

	_, err := svc.AddItem(ctx, CartOwner{SessionID: "sess-1"}, &AddItemRequest{ProductID: product.ID})
	assert.True(t, e.IsKind(err, e.KindValidation))
}

func TestUpdateItemZeroRemovesLine(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, dao.NewCartDao(db), dao.NewProductDao(db))
	ctx := context.Background()

	product := createTestProduct(t, db, 50, 10)
	owner := CartOwner{SessionID: "sess-1"}

	cart, err := svc.AddItem(ctx, owner, &AddItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = svc.UpdateItem(ctx, owner, itemID, &UpdateItemRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartOwnerIsolation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, dao.NewCartDao(db), dao.NewProductDao(db))
	ctx := context.Background()

	product := createTestProduct(t, db, 50, 10)

	cartA, err := svc.AddItem(ctx, CartOwner{SessionID: "sess-a"}, &AddItemRequest{ProductID: product.ID})
	require.NoError(t, err)

	// A different session cannot touch session A's line.
	_, err = svc.UpdateItem(ctx, CartOwner{SessionID: "sess-b"}, cartA.Items[0].ID, &UpdateItemRequest{Quantity: 5})
	assert.True(t, e.IsKind(err, e.KindNotFound))
}

func TestMergeGuestCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, dao.NewCartDao(db), dao.NewProductDao(db))
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	shared := createTestProduct(t, db, 100, 20)
	guestOnly := createTestProduct(t, db, 80, 20)

	// User already holds the shared product at an older snapshot price.
	userCart, err := svc.AddItem(ctx, CartOwner{UserID: user.ID}, &AddItemRequest{ProductID: shared.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, db.Model(shared).Update("price", 130).Error)

	_, err = svc.AddItem(ctx, CartOwner{SessionID: "guest-1"}, &AddItemRequest{ProductID: shared.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, CartOwner{SessionID: "guest-1"}, &AddItemRequest{ProductID: guestOnly.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.MergeGuestCart(ctx, user.ID, "guest-1"))

	merged, err := svc.GetCart(ctx, CartOwner{UserID: user.ID})
	require.NoError(t, err)
	require.Equal(t, userCart.ID, merged.ID)
	require.Len(t, merged.Items, 2)

	byProduct := map[string]model.CartItem{}
	for _, item := range merged.Items {
		byProduct[item.ProductID] = item
	}
	// Quantities summed, user cart's snapshot price wins.
	assert.Equal(t, 3, byProduct[shared.ID].Quantity)
	assert.Equal(t, 100.0, byProduct[shared.ID].PriceAtAddition)
	assert.Equal(t, 1, byProduct[guestOnly.ID].Quantity)

	// Guest cart is gone; a new touch creates a fresh empty one.
	guestCart, err := svc.GetCart(ctx, CartOwner{SessionID: "guest-1"})
	require.NoError(t, err)
	assert.Empty(t, guestCart.Items)
}

func TestMergeGuestCartNoGuestCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, dao.NewCartDao(db), dao.NewProductDao(db))

	user := createTestUser(t, db, model.RoleCustomer)
	assert.NoError(t, svc.MergeGuestCart(context.Background(), user.ID, "never-seen"))
	assert.NoError(t, svc.MergeGuestCart(context.Background(), user.ID, ""))
}

func TestValidateStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, dao.NewCartDao(db), dao.NewProductDao(db))
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	fine := createTestProduct(t, db, 100, 5)
	scarce := createTestProduct(t, db, 100, 5)
	retired := createTestProduct(t, db, 100, 5)

	owner := CartOwner{UserID: user.ID}
	for _, p := range []*model.Product{fine, scarce, retired} {
		_, err := svc.AddItem(ctx, owner, &AddItemRequest{ProductID: p.ID, Quantity: 2})
		require.NoError(t, err)
	}

	violations, err := svc.ValidateStock(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, violations)

	// Stock drops below the cart quantity and one product is retired.
	require.NoError(t, db.Model(scarce).Update("stock_quantity", 1).Error)
	require.NoError(t, db.Model(retired).Update("is_active", false).Error)

	violations, err = svc.ValidateStock(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, violations, 2)
}
