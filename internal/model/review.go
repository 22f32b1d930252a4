package model

import (
	"time"

	"gorm.io/gorm"
)

// Review is customer feedback, unapproved until moderated.
type Review struct {
	ID         string     `gorm:"type:char(36);primaryKey" json:"id"`
	UserID     string     `gorm:"type:char(36);not null;index" json:"user_id"`
	ProductID  *string    `gorm:"type:char(36);index" json:"product_id"`
	Rating     int        `gorm:"not null;default:5" json:"rating"`
	Title      string     `gorm:"size:255" json:"title"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	IsApproved bool       `gorm:"default:false;not null" json:"is_approved"`
	IsFeatured bool       `gorm:"default:false;not null" json:"is_featured"`
	AdminNotes string     `gorm:"type:text" json:"admin_notes,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	ApprovedAt *time.Time `json:"approved_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (*Review) TableName() string { return "reviews" }

func (r *Review) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	return nil
}
