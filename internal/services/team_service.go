package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pawsteps/pawsteps-backend/internal/dto"
	"github.com/pawsteps/pawsteps-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNoTeam         = errors.New("user is not part of a team")
	ErrNotTeamOwner   = errors.New("only team owners can do this")
	ErrMemberNotFound = errors.New("team member not found")
)

type TeamService struct {
	db      *gorm.DB
	account *AccountService
}

func NewTeamService(db *gorm.DB, account *AccountService) *TeamService {
	return &TeamService{db: db, account: account}
}

func (s *TeamService) membership(userID uuid.UUID) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := s.db.Where("user_id = ?", userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoTeam
		}
		return nil, fmt.Errorf("failed to load team membership: %w", err)
	}
	return &member, nil
}

// GetTeamForUser returns the caller's team with member rows joined to safe
// user fields.
func (s *TeamService) GetTeamForUser(userID uuid.UUID) (*dto.TeamResponse, error) {
	member, err := s.membership(userID)
	if err != nil {
		return nil, err
	}

	var team models.Team
	if err := s.db.First(&team, "id = ?", member.TeamID).Error; err != nil {
		return nil, fmt.Errorf("failed to load team: %w", err)
	}

	var members []models.TeamMember
	if err := s.db.Preload("User").Where("team_id = ?", team.ID).Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to load team members: %w", err)
	}

	resp := &dto.TeamResponse{ID: team.ID, Name: team.Name}
	for _, m := range members {
		resp.Members = append(resp.Members, dto.TeamMemberInfo{
			ID:       m.ID,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
			User: dto.UserSummary{
				ID:                m.User.ID,
				Email:             m.User.Email,
				Name:              m.User.Name,
				HasLifetimeAccess: m.User.HasLifetimeAccess,
			},
		})
	}
	return resp, nil
}

// InviteTeamMember creates a pending, email-scoped invitation. Owner only.
func (s *TeamService) InviteTeamMember(userID uuid.UUID, email, role, ip string) (*models.Invitation, error) {
	member, err := s.membership(userID)
	if err != nil {
		return nil, err
	}
	if member.Role != "owner" {
		return nil, ErrNotTeamOwner
	}
	if role != "member" && role != "owner" {
		return nil, errors.New("role must be member or owner")
	}

	invitation := models.Invitation{
		ID:        uuid.New(),
		TeamID:    member.TeamID,
		Email:     email,
		Role:      role,
		InvitedBy: userID,
		InvitedAt: time.Now(),
		Status:    models.InvitationPending,
	}
	if err := s.db.Create(&invitation).Error; err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.account.LogActivity(userID, models.ActivityInviteTeamMember, ip, map[string]interface{}{
		"email": email, "role": role,
	})
	return &invitation, nil
}

func (s *TeamService) RemoveTeamMember(userID, memberID uuid.UUID, ip string) error {
	member, err := s.membership(userID)
	if err != nil {
		return err
	}
	if member.Role != "owner" {
		return ErrNotTeamOwner
	}

	result := s.db.Where("id = ? AND team_id = ?", memberID, member.TeamID).
		Delete(&models.TeamMember{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove team member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}

	s.account.LogActivity(userID, models.ActivityRemoveTeamMember, ip, nil)
	return nil
}
