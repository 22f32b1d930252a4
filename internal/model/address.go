package model

import (
	"time"

	"gorm.io/gorm"
)

// UserAddress is a saved shipping/billing address. At most one row per user
// carries is_default; the DAO enforces that with a single conditional
// UPDATE rather than read-then-write.
type UserAddress struct {
	ID            string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID        string    `gorm:"type:char(36);not null;index" json:"user_id"`
	FullName      string    `gorm:"size:200;not null" json:"full_name"`
	Phone         string    `gorm:"size:20;not null" json:"phone"`
	AddressLine1  string    `gorm:"size:255;not null" json:"address_line1"`
	AddressLine2  string    `gorm:"size:255" json:"address_line2"`
	City          string    `gorm:"size:100;not null" json:"city"`
	StateProvince string    `gorm:"size:100" json:"state_province"`
	PostalCode    string    `gorm:"size:20" json:"postal_code"`
	Country       string    `gorm:"size:100;not null;default:Kenya" json:"country"`
	AddressType   string    `gorm:"size:20;not null;default:both" json:"address_type"`
	IsDefault     bool      `gorm:"default:false;not null" json:"is_default"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*UserAddress) TableName() string {
	return "user_addresses"
}

func (a *UserAddress) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	return nil
}

// Snapshot copies the row into the plain structure stored on orders.
func (a *UserAddress) Snapshot() AddressSnapshot {
	return AddressSnapshot{
		FullName:      a.FullName,
		Phone:         a.Phone,
		AddressLine1:  a.AddressLine1,
		AddressLine2:  a.AddressLine2,
		City:          a.City,
		StateProvince: a.StateProvince,
		PostalCode:    a.PostalCode,
		Country:       a.Country,
	}
}
