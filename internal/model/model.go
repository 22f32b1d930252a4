// Package model holds the GORM row types for the storefront schema.
package model

import "github.com/google/uuid"

// NewID returns a fresh uuid string primary key. All tables use char(36)
// uuid keys rather than auto-increment integers.
func NewID() string {
	return uuid.NewString()
}
