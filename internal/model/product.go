package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	ID               string                      `gorm:"type:char(36);primaryKey" json:"id"`
	Name             string                      `gorm:"size:255;not null" json:"name"`
	Slug             string                      `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description      string                      `gorm:"type:text" json:"description"`
	ShortDescription string                      `gorm:"size:500" json:"short_description"`
	Price            float64                     `gorm:"type:decimal(10,2);not null" json:"price"`
	OriginalPrice    *float64                    `gorm:"type:decimal(10,2)" json:"original_price"`
	Currency         string                      `gorm:"size:3;not null;default:KES" json:"currency"`
	SKU              string                      `gorm:"size:100;not null;uniqueIndex" json:"sku"`
	StockQuantity    int                         `gorm:"not null;default:0" json:"stock_quantity"`
	LowStockThreshold int                        `gorm:"not null;default:5" json:"low_stock_threshold"`
	CategoryID       *string                     `gorm:"type:char(36);index" json:"category_id"`
	Brand            string                      `gorm:"size:100" json:"brand"`
	Gender           string                      `gorm:"size:20" json:"gender"`
	AccessibilityFeatures datatypes.JSONSlice[string] `json:"accessibility_features"`
	MainImage        string                      `gorm:"size:500" json:"main_image"`
	HoverImage       string                      `gorm:"size:500" json:"hover_image"`
	Images           datatypes.JSONSlice[string] `json:"images"`
	MetaTitle        string                      `gorm:"size:255" json:"meta_title"`
	MetaDescription  string                      `gorm:"size:500" json:"meta_description"`
	IsActive         bool                        `gorm:"default:true;not null" json:"is_active"`
	IsFeatured       bool                        `gorm:"default:false;not null" json:"is_featured"`
	Badge            string                      `gorm:"size:50" json:"badge"`
	CreatedAt        time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (*Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

// InStock reports whether any stock remains.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// LowStock reports whether stock sits at or below the alert threshold.
func (p *Product) LowStock() bool {
	return p.StockQuantity > 0 && p.StockQuantity <= p.LowStockThreshold
}

// DiscountPercentage derives the badge discount from original vs current
// price, or 0 when there is no markdown.
func (p *Product) DiscountPercentage() int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= p.Price {
		return 0
	}
	return int(((*p.OriginalPrice - p.Price) / *p.OriginalPrice) * 100)
}

type Category struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Slug         string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Description  string    `gorm:"type:text" json:"description"`
	Image        string    `gorm:"size:500" json:"image"`
	ParentID     *string   `gorm:"type:char(36)" json:"parent_id"`
	IsActive     bool      `gorm:"default:true;not null" json:"is_active"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}
