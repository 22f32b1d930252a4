package model

import (
	"time"

	"gorm.io/gorm"
)

// PressHero is the single hero block on the press page; the DAO upserts
// one row rather than keeping history.
type PressHero struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null;default:'Press & Media'" json:"title"`
	Subtitle    string    `gorm:"size:255" json:"subtitle"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"size:500" json:"image"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*PressHero) TableName() string { return "press_heroes" }

func (h *PressHero) BeforeCreate(*gorm.DB) error {
	if h.ID == "" {
		h.ID = NewID()
	}
	return nil
}

type MediaCoverage struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Outlet       string    `gorm:"size:200;not null" json:"outlet"`
	Date         time.Time `gorm:"type:date;not null" json:"date"`
	URL          string    `gorm:"size:500" json:"url"`
	Image        string    `gorm:"size:500" json:"image"`
	Excerpt      string    `gorm:"type:text" json:"excerpt"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	IsPublished  bool      `gorm:"default:true;not null" json:"is_published"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*MediaCoverage) TableName() string { return "press_media_coverages" }

func (m *MediaCoverage) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = NewID()
	}
	return nil
}

type PressRelease struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Date         time.Time `gorm:"type:date;not null" json:"date"`
	Summary      string    `gorm:"type:text" json:"summary"`
	Content      string    `gorm:"type:text" json:"content"`
	PDFURL       string    `gorm:"size:500" json:"pdf_url"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	IsPublished  bool      `gorm:"default:true;not null" json:"is_published"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*PressRelease) TableName() string { return "press_releases" }

func (r *PressRelease) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	return nil
}

type Exhibition struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Venue        string    `gorm:"size:255" json:"venue"`
	Location     string    `gorm:"size:255" json:"location"`
	StartDate    time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate      *time.Time `gorm:"type:date" json:"end_date"`
	Description  string    `gorm:"type:text" json:"description"`
	Image        string    `gorm:"size:500" json:"image"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	IsPublished  bool      `gorm:"default:true;not null" json:"is_published"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*Exhibition) TableName() string { return "press_exhibitions" }

func (x *Exhibition) BeforeCreate(*gorm.DB) error {
	if x.ID == "" {
		x.ID = NewID()
	}
	return nil
}

type SpeakingEngagement struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Event        string    `gorm:"size:255" json:"event"`
	Date         time.Time `gorm:"type:date;not null" json:"date"`
	Location     string    `gorm:"size:255" json:"location"`
	Description  string    `gorm:"type:text" json:"description"`
	URL          string    `gorm:"size:500" json:"url"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	IsPublished  bool      `gorm:"default:true;not null" json:"is_published"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*SpeakingEngagement) TableName() string { return "press_speaking_engagements" }

func (s *SpeakingEngagement) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	return nil
}

type Collaboration struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Partner      string    `gorm:"size:255" json:"partner"`
	Year         int       `json:"year"`
	Description  string    `gorm:"type:text" json:"description"`
	Image        string    `gorm:"size:500" json:"image"`
	URL          string    `gorm:"size:500" json:"url"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	IsPublished  bool      `gorm:"default:true;not null" json:"is_published"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*Collaboration) TableName() string { return "press_collaborations" }

func (c *Collaboration) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}
