package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderStatus is the fulfilment state machine:
// pending -> confirmed -> processing -> shipped -> delivered, with
// cancelled reachable from any pre-shipped state.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// Cancellable reports whether stock has conceptually left the building.
func (s OrderStatus) Cancellable() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing:
		return true
	}
	return false
}

// PaymentStatus is the order-level payment state, separate from the
// Payment row's own status.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// AddressSnapshot is copied onto the order at creation time; later address
// edits never alter historical orders.
type AddressSnapshot struct {
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	AddressLine1  string `json:"address_line1"`
	AddressLine2  string `json:"address_line2,omitempty"`
	City          string `json:"city"`
	StateProvince string `json:"state_province,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	Country       string `json:"country"`
}

// Order is an immutable-after-creation snapshot of cart contents plus
// addresses. Orders are never deleted, only status-transitioned.
type Order struct {
	ID          string        `gorm:"type:char(36);primaryKey" json:"id"`
	OrderNumber string        `gorm:"size:50;not null;uniqueIndex" json:"order_number"`
	UserID      string        `gorm:"type:char(36);not null;index" json:"user_id"`
	Status      OrderStatus   `gorm:"size:20;not null;default:pending" json:"status"`

	PaymentStatus    PaymentStatus `gorm:"size:20;not null;default:pending" json:"payment_status"`
	PaymentMethod    string        `gorm:"size:50" json:"payment_method"`
	PaymentReference string        `gorm:"size:255" json:"payment_reference"`

	Subtotal     float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	ShippingCost float64 `gorm:"type:decimal(10,2);not null;default:0" json:"shipping_cost"`
	Tax          float64 `gorm:"type:decimal(10,2);not null;default:0" json:"tax"`
	Discount     float64 `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`
	Total        float64 `gorm:"type:decimal(10,2);not null" json:"total"`
	Currency     string  `gorm:"size:3;not null;default:KES" json:"currency"`

	ShippingAddress datatypes.JSONType[AddressSnapshot] `json:"shipping_address"`
	BillingAddress  datatypes.JSONType[AddressSnapshot] `json:"billing_address"`
	ShippingMethod  string                              `gorm:"size:50" json:"shipping_method"`
	TrackingNumber  string                              `gorm:"size:100" json:"tracking_number"`

	CustomerNotes string `gorm:"type:text" json:"customer_notes"`
	AdminNotes    string `gorm:"type:text" json:"admin_notes,omitempty"`

	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (*Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = NewID()
	}
	return nil
}

// OrderItem freezes product name/sku/image/price at order time, decoupled
// from future product edits and deletes.
type OrderItem struct {
	ID           string             `gorm:"type:char(36);primaryKey" json:"id"`
	OrderID      string             `gorm:"type:char(36);not null;index" json:"order_id"`
	ProductID    string             `gorm:"type:char(36);not null;index" json:"product_id"`
	ProductName  string             `gorm:"size:255;not null" json:"product_name"`
	ProductSKU   string             `gorm:"size:100;not null" json:"product_sku"`
	ProductImage string             `gorm:"size:500" json:"product_image"`
	UnitPrice    float64            `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity     int                `gorm:"not null" json:"quantity"`
	Subtotal     float64            `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Variant      datatypes.JSONMap  `json:"variant,omitempty"`
	CreatedAt    time.Time          `gorm:"autoCreateTime" json:"created_at"`
}

func (*OrderItem) TableName() string {
	return "order_items"
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = NewID()
	}
	return nil
}
