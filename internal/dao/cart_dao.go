package dao

import (
	"context"

	"github.com/munyanyaguo/Hisi-Studio/internal/model"

	"gorm.io/gorm"
)

type CartDao struct {
	db *gorm.DB
}

func NewCartDao(db *gorm.DB) *CartDao {
	return &CartDao{db: db}
}

// WithTx rebinds the DAO to a transaction handle.
func (d *CartDao) WithTx(tx *gorm.DB) *CartDao {
	return &CartDao{db: tx}
}

func (d *CartDao) CreateCart(ctx context.Context, cart *model.Cart) error {
	return d.db.WithContext(ctx).Create(cart).Error
}

// GetCartByUserID loads a user cart with items and their products.
func (d *CartDao) GetCartByUserID(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := d.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCartBySessionID loads a guest cart with items and their products.
func (d *CartDao) GetCartBySessionID(ctx context.Context, sessionID string) (*model.Cart, error) {
	var cart model.Cart
	err := d.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").
		Where("session_id = ?", sessionID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (d *CartDao) GetCartByID(ctx context.Context, cartID string) (*model.Cart, error) {
	var cart model.Cart
	err := d.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").
		Where("id = ?", cartID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetItemInCart finds an existing line for a product within one cart.
func (d *CartDao) GetItemInCart(ctx context.Context, cartID, productID string) (*model.CartItem, error) {
	var item model.CartItem
	err := d.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItemOwned loads a line only when it belongs to the given cart.
// Scoping the WHERE by cart_id is the ownership check.
func (d *CartDao) GetItemOwned(ctx context.Context, itemID, cartID string) (*model.CartItem, error) {
	var item model.CartItem
	err := d.db.WithContext(ctx).
		Preload("Product").
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (d *CartDao) CreateItem(ctx context.Context, item *model.CartItem) error {
	return d.db.WithContext(ctx).Create(item).Error
}

func (d *CartDao) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	return d.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (d *CartDao) DeleteItem(ctx context.Context, itemID string) error {
	return d.db.WithContext(ctx).Where("id = ?", itemID).Delete(&model.CartItem{}).Error
}

// ReparentItem moves a guest cart line into the user cart during merge.
func (d *CartDao) ReparentItem(ctx context.Context, itemID, newCartID string) error {
	return d.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("cart_id", newCartID).Error
}

// ClearItems deletes every line in a cart.
func (d *CartDao) ClearItems(ctx context.Context, cartID string) error {
	return d.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error
}

// DeleteCart removes a cart row and its remaining lines.
func (d *CartDao) DeleteCart(ctx context.Context, cartID string) error {
	if err := d.ClearItems(ctx, cartID); err != nil {
		return err
	}
	return d.db.WithContext(ctx).Where("id = ?", cartID).Delete(&model.Cart{}).Error
}
