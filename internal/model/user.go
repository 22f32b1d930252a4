package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role is the closed set of account roles. Tier checks go through the
// methods below instead of ad hoc string comparisons in handlers.
type Role string

const (
	RoleCustomer       Role = "customer"
	RoleContentManager Role = "content_manager"
	RoleSuperAdmin     Role = "super_admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleContentManager, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the role is any admin tier.
func (r Role) IsAdmin() bool {
	return r == RoleContentManager || r == RoleSuperAdmin
}

func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

// Permission names for content_manager accounts. super_admin implicitly
// holds all of them.
const (
	PermManageContent   = "manage_content"
	PermManageMedia     = "manage_media"
	PermManageInquiries = "manage_inquiries"
	PermViewCustomers   = "view_customers"
	PermManageProducts  = "manage_products"
	PermManageOrders    = "manage_orders"
)

type User struct {
	ID           string                       `gorm:"type:char(36);primaryKey" json:"id"`
	Email        string                       `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string                       `gorm:"size:255;not null" json:"-"`
	FirstName    string                       `gorm:"size:100" json:"first_name"`
	LastName     string                       `gorm:"size:100" json:"last_name"`
	Phone        string                       `gorm:"size:20" json:"phone"`
	Role         Role                         `gorm:"size:20;not null;default:customer" json:"role"`
	Permissions  datatypes.JSONSlice[string]  `json:"permissions"`
	IsVerified   bool                         `gorm:"default:false;not null" json:"is_verified"`
	IsActive     bool                         `gorm:"default:true;not null" json:"is_active"`
	CreatedAt    time.Time                    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time                    `gorm:"autoUpdateTime" json:"updated_at"`
	LastLogin    *time.Time                   `json:"last_login"`
}

func (*User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

// HasPermission reports whether the user holds a fine-grained permission.
// super_admin passes every check.
func (u *User) HasPermission(permission string) bool {
	if u.Role.IsSuperAdmin() {
		return true
	}
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// FullName joins first and last name for gateway customer payloads.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
