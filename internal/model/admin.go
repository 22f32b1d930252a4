package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification is an admin-facing inbox entry raised on storefront events
// (new order, contact message, consultation booking, low stock).
type Notification struct {
	ID          string     `gorm:"type:char(36);primaryKey" json:"id"`
	UserID      string     `gorm:"type:char(36);not null;index" json:"user_id"`
	Type        string     `gorm:"size:50;not null" json:"type"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	Link        string     `gorm:"size:500" json:"link"`
	IsRead      bool       `gorm:"default:false;not null" json:"is_read"`
	IsEmailSent bool       `gorm:"default:false;not null" json:"is_email_sent"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ReadAt      *time.Time `json:"read_at"`
}

func (*Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == "" {
		n.ID = NewID()
	}
	return nil
}

// MediaFile records an uploaded or externally hosted asset. Only the
// path/URL is stored; object storage is out of scope.
type MediaFile struct {
	ID               string                      `gorm:"type:char(36);primaryKey" json:"id"`
	Filename         string                      `gorm:"size:255;not null" json:"filename"`
	OriginalFilename string                      `gorm:"size:255;not null" json:"original_filename"`
	FilePath         string                      `gorm:"size:500;not null" json:"file_path"`
	URL              string                      `gorm:"size:500;not null" json:"url"`
	FileType         string                      `gorm:"size:20;not null" json:"file_type"`
	MimeType         string                      `gorm:"size:100" json:"mime_type"`
	FileSize         int64                       `json:"file_size"`
	IsExternal       bool                        `gorm:"default:false;not null" json:"is_external"`
	ExternalURL      string                      `gorm:"size:500" json:"external_url"`
	AltText          string                      `gorm:"size:255" json:"alt_text"`
	Caption          string                      `gorm:"type:text" json:"caption"`
	Tags             datatypes.JSONSlice[string] `json:"tags"`
	Width            int                         `json:"width,omitempty"`
	Height           int                         `json:"height,omitempty"`
	UploadedBy       string                      `gorm:"type:char(36);not null" json:"uploaded_by"`
	CreatedAt        time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*MediaFile) TableName() string { return "media_files" }

func (m *MediaFile) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = NewID()
	}
	return nil
}

// ProductCollection is a curated, ordered grouping of products for the
// storefront (e.g. seasonal edits).
type ProductCollection struct {
	ID              string            `gorm:"type:char(36);primaryKey" json:"id"`
	Name            string            `gorm:"size:255;not null" json:"name"`
	Slug            string            `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description     string            `gorm:"type:text" json:"description"`
	FeaturedImageID *string           `gorm:"type:char(36)" json:"featured_image_id"`
	Products        datatypes.JSONMap `json:"products"`
	IsPublished     bool              `gorm:"default:false;not null" json:"is_published"`
	DisplayOrder    int               `gorm:"not null;default:0" json:"display_order"`
	MetaTitle       string            `gorm:"size:255" json:"meta_title"`
	MetaDescription string            `gorm:"size:500" json:"meta_description"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*ProductCollection) TableName() string { return "product_collections" }

func (c *ProductCollection) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}
