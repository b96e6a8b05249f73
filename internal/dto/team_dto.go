package dto

import (
	"time"

	"github.com/google/uuid"
)

type InviteMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type TeamMemberInfo struct {
	ID       uuid.UUID   `json:"id"`
	Role     string      `json:"role"`
	JoinedAt time.Time   `json:"joined_at"`
	User     UserSummary `json:"user"`
}

type TeamResponse struct {
	ID      uuid.UUID        `json:"id"`
	Name    string           `json:"name"`
	Members []TeamMemberInfo `json:"members"`
}
