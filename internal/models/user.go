package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the application-side account row, keyed by the identity id
// issued at sign-up. Payment state lives here, credentials do not.
type User struct {
	ID                    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name                  string         `gorm:"size:100" json:"name"`
	Email                 string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Role                  string         `gorm:"size:20;not null;default:'member'" json:"role"`
	HasLifetimeAccess     bool           `gorm:"not null;default:false" json:"has_lifetime_access"`
	StripeCustomerID      string         `gorm:"size:255;index" json:"-"`
	StripePaymentIntentID string         `gorm:"size:255" json:"-"`
	PurchaseDate          *time.Time     `json:"purchase_date,omitempty"`
	LastLoginAt           *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}
