package model

import (
	"time"

	"gorm.io/gorm"
)

// Cart is keyed by user_id for account carts or session_id for guest carts,
// never both.
type Cart struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    *string   `gorm:"type:char(36);index" json:"user_id"`
	SessionID *string   `gorm:"size:255;index" json:"session_id,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items"`
}

func (*Cart) TableName() string {
	return "carts"
}

func (c *Cart) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}

// Total sums the snapshot-price subtotals of all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// ItemCount sums line quantities.
func (c *Cart) ItemCount() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// CartItem snapshots the product price at insert time so later catalog
// price edits do not alter an open cart.
type CartItem struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	CartID          string    `gorm:"type:char(36);not null;index" json:"cart_id"`
	ProductID       string    `gorm:"type:char(36);not null;index" json:"product_id"`
	Quantity        int       `gorm:"not null;default:1" json:"quantity"`
	PriceAtAddition float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (*CartItem) TableName() string {
	return "cart_items"
}

func (i *CartItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = NewID()
	}
	return nil
}

// Subtotal is snapshot price times quantity.
func (i *CartItem) Subtotal() float64 {
	return i.PriceAtAddition * float64(i.Quantity)
}
