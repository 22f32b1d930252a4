package model

import (
	"time"

	"gorm.io/gorm"
)

type Page struct {
	ID              string     `gorm:"type:char(36);primaryKey" json:"id"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Slug            string     `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Content         string     `gorm:"type:text" json:"content"`
	MetaTitle       string     `gorm:"size:255" json:"meta_title"`
	MetaDescription string     `gorm:"size:500" json:"meta_description"`
	IsPublished     bool       `gorm:"default:false;not null" json:"is_published"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	PublishedAt     *time.Time `json:"published_at"`
}

func (*Page) TableName() string { return "pages" }

func (p *Page) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

type BlogPost struct {
	ID              string     `gorm:"type:char(36);primaryKey" json:"id"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Slug            string     `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Excerpt         string     `gorm:"type:text" json:"excerpt"`
	Content         string     `gorm:"type:text" json:"content"`
	AuthorID        string     `gorm:"type:char(36);not null" json:"author_id"`
	FeaturedImage   string     `gorm:"size:500" json:"featured_image"`
	MetaTitle       string     `gorm:"size:255" json:"meta_title"`
	MetaDescription string     `gorm:"size:500" json:"meta_description"`
	IsPublished     bool       `gorm:"default:false;not null" json:"is_published"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	PublishedAt     *time.Time `json:"published_at"`
}

func (*BlogPost) TableName() string { return "blog_posts" }

func (p *BlogPost) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

type SiteSetting struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Key         string    `gorm:"size:100;not null;uniqueIndex" json:"key"`
	Value       string    `gorm:"type:text" json:"value"`
	SettingType string    `gorm:"size:20;not null;default:text" json:"setting_type"`
	Description string    `gorm:"type:text" json:"description"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*SiteSetting) TableName() string { return "site_settings" }

func (s *SiteSetting) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	return nil
}

type NewsletterSubscriber struct {
	ID             string     `gorm:"type:char(36);primaryKey" json:"id"`
	Email          string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	IsSubscribed   bool       `gorm:"default:true;not null" json:"is_subscribed"`
	SubscribedAt   time.Time  `gorm:"autoCreateTime" json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at"`
}

func (*NewsletterSubscriber) TableName() string { return "newsletter_subscribers" }

func (n *NewsletterSubscriber) BeforeCreate(*gorm.DB) error {
	if n.ID == "" {
		n.ID = NewID()
	}
	return nil
}

// ContactMessage holds inbound contact-form submissions across categories
// (general, consultation booking, custom order, partnership).
type ContactMessage struct {
	ID               string     `gorm:"type:char(36);primaryKey" json:"id"`
	Name             string     `gorm:"size:200;not null" json:"name"`
	Email            string     `gorm:"size:255;not null" json:"email"`
	Phone            string     `gorm:"size:20" json:"phone"`
	Category         string     `gorm:"size:50;not null;default:general" json:"category"`
	ConsultationType string     `gorm:"size:100" json:"consultation_type,omitempty"`
	OrderDetails     string     `gorm:"type:text" json:"order_details,omitempty"`
	PartnershipType  string     `gorm:"size:100" json:"partnership_type,omitempty"`
	Subject          string     `gorm:"size:255" json:"subject"`
	Message          string     `gorm:"type:text;not null" json:"message"`
	Status           string     `gorm:"size:20;not null;default:new" json:"status"`
	IsRead           bool       `gorm:"default:false;not null" json:"is_read"`
	AdminNotes       string     `gorm:"type:text" json:"admin_notes,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RepliedAt        *time.Time `json:"replied_at"`
}

func (*ContactMessage) TableName() string { return "contact_messages" }

func (m *ContactMessage) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = NewID()
	}
	return nil
}

type Consultation struct {
	ID               string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name             string    `gorm:"size:200;not null" json:"name"`
	Email            string    `gorm:"size:255;not null" json:"email"`
	Phone            string    `gorm:"size:20" json:"phone"`
	ConsultationType string    `gorm:"size:50;not null" json:"consultation_type"`
	MeetingType      string    `gorm:"size:20;not null;default:in-person" json:"meeting_type"`
	PreferredDate    time.Time `gorm:"type:date;not null" json:"preferred_date"`
	PreferredTime    string    `gorm:"size:20;not null" json:"preferred_time"`
	Status           string    `gorm:"size:20;not null;default:pending" json:"status"`
	Notes            string    `gorm:"type:text" json:"notes"`
	AdminNotes       string    `gorm:"type:text" json:"admin_notes,omitempty"`
	ConfirmationSent bool      `gorm:"default:false;not null" json:"confirmation_sent"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*Consultation) TableName() string { return "consultations" }

func (c *Consultation) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}

type FAQ struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	Category     string    `gorm:"size:50;not null" json:"category"`
	Question     string    `gorm:"type:text;not null" json:"question"`
	Answer       string    `gorm:"type:text;not null" json:"answer"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	IsPublished  bool      `gorm:"default:true;not null" json:"is_published"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*FAQ) TableName() string { return "faqs" }

func (f *FAQ) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = NewID()
	}
	return nil
}

type Testimonial struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string    `gorm:"size:200;not null" json:"name"`
	Role         string    `gorm:"size:200" json:"role"`
	ImageURL     string    `gorm:"size:500" json:"image_url"`
	Story        string    `gorm:"type:text;not null" json:"story"`
	Result       string    `gorm:"size:500" json:"result"`
	Rating       int       `gorm:"not null;default:5" json:"rating"`
	IsFeatured   bool      `gorm:"default:false;not null" json:"is_featured"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	IsPublished  bool      `gorm:"default:true;not null" json:"is_published"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*Testimonial) TableName() string { return "testimonials" }

func (t *Testimonial) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}

// SectionContent is a page/section keyed content store for the frontend.
type SectionContent struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	PageName     string    `gorm:"size:100;not null;index:idx_page_section,unique" json:"page_name"`
	SectionName  string    `gorm:"size:100;not null;index:idx_page_section,unique" json:"section_name"`
	ContentType  string    `gorm:"size:20;not null;default:text" json:"content_type"`
	Content      string    `gorm:"type:text" json:"content"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	IsActive     bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*SectionContent) TableName() string { return "section_contents" }

func (s *SectionContent) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	return nil
}
