package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityType string

const (
	ActivitySignUp                  ActivityType = "SIGN_UP"
	ActivitySignIn                  ActivityType = "SIGN_IN"
	ActivitySignOut                 ActivityType = "SIGN_OUT"
	ActivityUpdatePassword          ActivityType = "UPDATE_PASSWORD"
	ActivityDeleteAccount           ActivityType = "DELETE_ACCOUNT"
	ActivityUpdateAccount           ActivityType = "UPDATE_ACCOUNT"
	ActivityAddDog                  ActivityType = "ADD_DOG"
	ActivityUpdateDog               ActivityType = "UPDATE_DOG"
	ActivityDeleteDog               ActivityType = "DELETE_DOG"
	ActivityStartTrainingSession    ActivityType = "START_TRAINING_SESSION"
	ActivityCompleteTrainingSession ActivityType = "COMPLETE_TRAINING_SESSION"
	ActivityUpdateProgress          ActivityType = "UPDATE_PROGRESS"
	ActivityCompleteContent         ActivityType = "COMPLETE_CONTENT"
	ActivityPurchaseLifetimeAccess  ActivityType = "PURCHASE_LIFETIME_ACCESS"
	ActivityCreateTeam              ActivityType = "CREATE_TEAM"
	ActivityRemoveTeamMember        ActivityType = "REMOVE_TEAM_MEMBER"
	ActivityInviteTeamMember        ActivityType = "INVITE_TEAM_MEMBER"
	ActivityAcceptInvitation        ActivityType = "ACCEPT_INVITATION"
)

// ActivityLog is append-only; rows are never updated or deleted.
type ActivityLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Action    ActivityType   `gorm:"size:100;not null" json:"action"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	IPAddress string         `gorm:"size:45" json:"ip_address,omitempty"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
}
