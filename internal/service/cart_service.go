package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"
	"github.com/munyanyaguo/Hisi-Studio/pkg/logger"

	"gorm.io/gorm"
)

// CartOwner identifies whose cart is being acted on: an authenticated
// user id or a guest session id, never both.
type CartOwner struct {
	UserID    string
	SessionID string
}

func (o CartOwner) valid() bool {
	return (o.UserID != "") != (o.SessionID != "")
}

type CartService struct {
	db         *gorm.DB
	cartDao    *dao.CartDao
	productDao *dao.ProductDao
}

func NewCartService(db *gorm.DB, cartDao *dao.CartDao, productDao *dao.ProductDao) *CartService {
	return &CartService{db: db, cartDao: cartDao, productDao: productDao}
}

// GetCart returns the owner's cart, creating an empty one on first touch.
func (s *CartService) GetCart(ctx context.Context, owner CartOwner) (*model.Cart, error) {
	if !owner.valid() {
		return nil, e.Validation("a user or session is required")
	}
	cart, err := s.findCart(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, e.Internal(err)
	}

	cart = &model.Cart{}
	if owner.UserID != "" {
		cart.UserID = &owner.UserID
	} else {
		cart.SessionID = &owner.SessionID
	}
	if err := s.cartDao.CreateCart(ctx, cart); err != nil {
		return nil, e.Internal(err)
	}
	return cart, nil
}

func (s *CartService) findCart(ctx context.Context, owner CartOwner) (*model.Cart, error) {
	if owner.UserID != "" {
		return s.cartDao.GetCartByUserID(ctx, owner.UserID)
	}
	return s.cartDao.GetCartBySessionID(ctx, owner.SessionID)
}

type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// AddItem puts a product in the cart, snapshotting the current price.
// Adding an already-present product increments its line instead of
// creating a second one. Stock is validated but not reserved.
func (s *CartService) AddItem(ctx context.Context, owner CartOwner, req *AddItemRequest) (*model.Cart, error) {
	qty := req.Quantity
	if qty <= 0 {
		qty = 1
	}

	product, err := s.productDao.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("product")
		}
		return nil, e.Internal(err)
	}
	if !product.IsActive {
		return nil, e.Validation("product is not available")
	}

	cart, err := s.GetCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartDao.GetItemInCart(ctx, cart.ID, product.ID)
	switch {
	case err == nil:
		newQty := existing.Quantity + qty
		if newQty > product.StockQuantity {
			return nil, e.Validation("only %d left in stock", product.StockQuantity)
		}
		if err := s.cartDao.UpdateItemQuantity(ctx, existing.ID, newQty); err != nil {
			return nil, e.Internal(err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if qty > product.StockQuantity {
			return nil, e.Validation("only %d left in stock", product.StockQuantity)
		}
		item := &model.CartItem{
			CartID:          cart.ID,
			ProductID:       product.ID,
			Quantity:        qty,
			PriceAtAddition: product.Price,
		}
		if err := s.cartDao.CreateItem(ctx, item); err != nil {
			return nil, e.Internal(err)
		}
	default:
		return nil, e.Internal(err)
	}

	return s.cartDao.GetCartByID(ctx, cart.ID)
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem sets a line's quantity. Zero removes the line.
func (s *CartService) UpdateItem(ctx context.Context, owner CartOwner, itemID string, req *UpdateItemRequest) (*model.Cart, error) {
	if req.Quantity < 0 {
		return nil, e.Validation("quantity cannot be negative")
	}

	cart, err := s.GetCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	item, err := s.cartDao.GetItemOwned(ctx, itemID, cart.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("cart item")
		}
		return nil, e.Internal(err)
	}

	if req.Quantity == 0 {
		if err := s.cartDao.DeleteItem(ctx, item.ID); err != nil {
			return nil, e.Internal(err)
		}
		return s.cartDao.GetCartByID(ctx, cart.ID)
	}

	if item.Product != nil && req.Quantity > item.Product.StockQuantity {
		return nil, e.Validation("only %d left in stock", item.Product.StockQuantity)
	}
	if err := s.cartDao.UpdateItemQuantity(ctx, item.ID, req.Quantity); err != nil {
		return nil, e.Internal(err)
	}
	return s.cartDao.GetCartByID(ctx, cart.ID)
}

// RemoveItem deletes one line, scoped to the owner's cart.
func (s *CartService) RemoveItem(ctx context.Context, owner CartOwner, itemID string) (*model.Cart, error) {
	cart, err := s.GetCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	item, err := s.cartDao.GetItemOwned(ctx, itemID, cart.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("cart item")
		}
		return nil, e.Internal(err)
	}
	if err := s.cartDao.DeleteItem(ctx, item.ID); err != nil {
		return nil, e.Internal(err)
	}
	return s.cartDao.GetCartByID(ctx, cart.ID)
}

// ClearCart empties the cart without deleting the cart row.
func (s *CartService) ClearCart(ctx context.Context, owner CartOwner) (*model.Cart, error) {
	cart, err := s.GetCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.cartDao.ClearItems(ctx, cart.ID); err != nil {
		return nil, e.Internal(err)
	}
	return s.cartDao.GetCartByID(ctx, cart.ID)
}

// ValidateStock re-checks every line against the live catalog. An empty
// slice means the cart is orderable as-is.
func (s *CartService) ValidateStock(ctx context.Context, owner CartOwner) ([]string, error) {
	cart, err := s.GetCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	violations := []string{}
	for i := range cart.Items {
		item := &cart.Items[i]
		product, err := s.productDao.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				violations = append(violations, fmt.Sprintf("an item in your cart no longer exists (%s)", item.ProductID))
				continue
			}
			return nil, e.Internal(err)
		}
		switch {
		case !product.IsActive:
			violations = append(violations, fmt.Sprintf("%s is no longer available", product.Name))
		case item.Quantity > product.StockQuantity:
			violations = append(violations, fmt.Sprintf("only %d of %s left in stock", product.StockQuantity, product.Name))
		}
	}
	return violations, nil
}

// MergeGuestCart folds a guest session cart into the user's cart after
// login. Quantities for the same product are summed and the user cart's
// snapshot price wins; the guest cart is deleted afterwards.
func (s *CartService) MergeGuestCart(ctx context.Context, userID, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	guestCart, err := s.cartDao.GetCartBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return e.Internal(err)
	}
	if len(guestCart.Items) == 0 {
		return e.Wrap(s.cartDao.DeleteCart(ctx, guestCart.ID))
	}

	userCart, err := s.GetCart(ctx, CartOwner{UserID: userID})
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCartDao := s.cartDao.WithTx(tx)
		for i := range guestCart.Items {
			guestItem := &guestCart.Items[i]

			existing, err := txCartDao.GetItemInCart(ctx, userCart.ID, guestItem.ProductID)
			switch {
			case err == nil:
				if err := txCartDao.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+guestItem.Quantity); err != nil {
					return err
				}
				if err := txCartDao.DeleteItem(ctx, guestItem.ID); err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := txCartDao.ReparentItem(ctx, guestItem.ID, userCart.ID); err != nil {
					return err
				}
			default:
				return err
			}
		}
		return txCartDao.DeleteCart(ctx, guestCart.ID)
	})
	if err != nil {
		return e.Internal(err)
	}

	logger.Info("guest cart merged", "user_id", userID, "items", len(guestCart.Items))
	return nil
}
