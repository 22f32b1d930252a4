package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TxStatus is the Payment row's own state, tracking the gateway side.
type TxStatus string

const (
	TxStatusPending    TxStatus = "pending"
	TxStatusProcessing TxStatus = "processing"
	TxStatusSuccessful TxStatus = "successful"
	TxStatusFailed     TxStatus = "failed"
	TxStatusCancelled  TxStatus = "cancelled"
	TxStatusRefunded   TxStatus = "refunded"
)

// Payment is one-to-one with Order; the unique order_id index enforces at
// most one payment per order.
type Payment struct {
	ID      string `gorm:"type:char(36);primaryKey" json:"id"`
	OrderID string `gorm:"type:char(36);not null;uniqueIndex" json:"order_id"`

	// TransactionID is our tx_ref; GatewayTransactionID is Flutterwave's id.
	TransactionID        string `gorm:"size:255;not null;uniqueIndex" json:"transaction_id"`
	GatewayTransactionID string `gorm:"size:255" json:"gateway_transaction_id"`

	Amount        float64  `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency      string   `gorm:"size:3;not null;default:KES" json:"currency"`
	PaymentMethod string   `gorm:"size:50" json:"payment_method"`
	Status        TxStatus `gorm:"size:20;not null;default:pending" json:"status"`

	CustomerEmail string `gorm:"size:255;not null" json:"customer_email"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone"`
	CustomerName  string `gorm:"size:255" json:"customer_name"`

	Metadata      datatypes.JSONMap `json:"-"`
	FailureReason string            `gorm:"type:text" json:"failure_reason,omitempty"`

	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (*Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}
