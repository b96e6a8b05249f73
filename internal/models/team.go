package models

import (
	"time"

	"github.com/google/uuid"
)

// Team predates the lifetime-access model. Invitations still hang off it,
// so the tables are kept; the Stripe subscription columns are unused by
// new purchases.
type Team struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name                 string    `gorm:"size:100;not null" json:"name"`
	StripeCustomerID     string    `gorm:"size:255" json:"-"`
	StripeSubscriptionID string    `gorm:"size:255" json:"-"`
	StripeProductID      string    `gorm:"size:255" json:"-"`
	PlanName             string    `gorm:"size:50" json:"plan_name,omitempty"`
	SubscriptionStatus   string    `gorm:"size:20" json:"subscription_status,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type TeamMember struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TeamID   uuid.UUID `gorm:"type:uuid;not null;index" json:"team_id"`
	Role     string    `gorm:"size:50;not null" json:"role"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Team     Team      `gorm:"foreignKey:TeamID" json:"-"`
}

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
)

// Invitation is a single-use, email-scoped offer to join a team.
type Invitation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID    uuid.UUID `gorm:"type:uuid;not null;index" json:"team_id"`
	Email     string    `gorm:"size:255;not null;index" json:"email"`
	Role      string    `gorm:"size:50;not null" json:"role"`
	InvitedBy uuid.UUID `gorm:"type:uuid;not null" json:"invited_by"`
	InvitedAt time.Time `gorm:"not null" json:"invited_at"`
	Status    string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	Team      Team      `gorm:"foreignKey:TeamID" json:"-"`
}
