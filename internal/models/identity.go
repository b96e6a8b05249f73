package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the credential store. It is deliberately separate from User:
// a User row is provisioned lazily from an Identity, so a failed sign-up
// can complete on the next sign-in.
type Identity struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"size:100" json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IdentityID uuid.UUID `gorm:"type:uuid;not null;index" json:"identity_id"`
	TokenHash  string    `gorm:"size:64;not null;index" json:"-"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	Revoked    bool      `gorm:"not null;default:false" json:"revoked"`
	CreatedAt  time.Time `json:"created_at"`
}
