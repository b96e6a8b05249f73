package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pawsteps/pawsteps-backend/internal/dto"
	"github.com/pawsteps/pawsteps-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidInvitation = errors.New("invalid or expired invitation")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserDeleted       = errors.New("account has been deleted")
)

// AccountService provisions and mutates application users on top of the
// identities owned by AuthService.
type AccountService struct {
	db   *gorm.DB
	auth *AuthService
}

func NewAccountService(db *gorm.DB, auth *AuthService) *AccountService {
	return &AccountService{db: db, auth: auth}
}

// SignUpResult reports what sign-up produced. Provisioned is false when
// the identity was created but the local rows could not be completed; the
// caller should soft-redirect instead of failing, and ResolveUser will
// finish the job on the next sign-in.
type SignUpResult struct {
	User        *models.User
	Tokens      *TokenPair
	Provisioned bool
}

func (s *AccountService) SignUp(req *dto.SignUpRequest, ip string) (*SignUpResult, error) {
	identity, pair, err := s.auth.SignUp(req.Email, req.Password, req.Name)
	if err != nil {
		// Adapter errors go back verbatim; nothing was committed locally.
		return nil, err
	}

	user, err := s.provision(identity, req.InviteID, ip)
	if err != nil {
		if errors.Is(err, ErrInvalidInvitation) {
			return nil, err
		}
		// The external identity already exists, so a hard failure here
		// would strand the account. Report success without local rows.
		slog.Error("user provisioning failed after identity creation",
			"identity_id", identity.ID, "error", err)
		return &SignUpResult{Tokens: pair, Provisioned: false}, nil
	}

	return &SignUpResult{User: user, Tokens: pair, Provisioned: true}, nil
}

// provision creates the User, resolves team membership and writes activity
// entries. The invitation path consumes the invitation with a single
// conditional update so two racing sign-ups cannot both accept it.
func (s *AccountService) provision(identity *models.Identity, inviteID, ip string) (*models.User, error) {
	user, err := s.upsertUser(identity)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.TeamMember
		if err := tx.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
			// Retried sign-up; membership already resolved.
			return nil
		}

		var teamID uuid.UUID
		role := "member"

		if inviteID != "" {
			invitationID, err := uuid.Parse(inviteID)
			if err != nil {
				return ErrInvalidInvitation
			}

			res := tx.Model(&models.Invitation{}).
				Where("id = ? AND email = ? AND status = ?", invitationID, identity.Email, models.InvitationPending).
				Update("status", models.InvitationAccepted)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInvalidInvitation
			}

			var invitation models.Invitation
			if err := tx.First(&invitation, "id = ?", invitationID).Error; err != nil {
				return err
			}
			teamID = invitation.TeamID
			role = invitation.Role

			if err := s.logActivityTx(tx, user.ID, models.ActivityAcceptInvitation, ip, nil); err != nil {
				return err
			}
		} else {
			team := models.Team{
				ID:   uuid.New(),
				Name: fmt.Sprintf("%s's Team", identity.Email),
			}
			if err := tx.Create(&team).Error; err != nil {
				return err
			}
			teamID = team.ID
			role = "owner"

			if err := s.logActivityTx(tx, user.ID, models.ActivityCreateTeam, ip, nil); err != nil {
				return err
			}
		}

		member := models.TeamMember{
			ID:       uuid.New(),
			UserID:   user.ID,
			TeamID:   teamID,
			Role:     role,
			JoinedAt: time.Now(),
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		return s.logActivityTx(tx, user.ID, models.ActivitySignUp, ip, nil)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ResolveUser returns the local user for a validated identity, creating it
// if provisioning was skipped or failed earlier. Soft-deleted accounts are
// not resurrected.
func (s *AccountService) ResolveUser(identity *models.Identity) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, "id = ?", identity.ID).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var deleted models.User
	if err := s.db.Unscoped().First(&deleted, "id = ?", identity.ID).Error; err == nil {
		return nil, ErrUserDeleted
	}

	return s.upsertUser(identity)
}

func (s *AccountService) upsertUser(identity *models.Identity) (*models.User, error) {
	user := models.User{
		ID:    identity.ID,
		Email: identity.Email,
		Name:  identity.Name,
		Role:  "member",
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"email":      identity.Email,
			"name":       identity.Name,
			"updated_at": time.Now(),
		}),
	}).Create(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	if err := s.db.First(&user, "id = ?", identity.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return &user, nil
}

// SignIn validates credentials and lazily provisions the local user row.
func (s *AccountService) SignIn(req *dto.SignInRequest, ip string) (*models.User, *TokenPair, error) {
	identity, pair, err := s.auth.SignIn(req.Email, req.Password)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.ResolveUser(identity)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	s.db.Model(user).Update("last_login_at", now)
	user.LastLoginAt = &now

	s.LogActivity(user.ID, models.ActivitySignIn, ip, nil)

	return user, pair, nil
}

func (s *AccountService) GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *AccountService) UpdateAccount(userID uuid.UUID, name, email, ip string) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"name": name, "email": email}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	if err := s.auth.UpdateProfile(userID, name, email); err != nil {
		return nil, err
	}

	s.LogActivity(userID, models.ActivityUpdateAccount, ip, nil)

	user.Name = name
	user.Email = email
	return user, nil
}

func (s *AccountService) UpdatePassword(userID uuid.UUID, current, newPassword, confirm, ip string) error {
	if current == newPassword {
		return errors.New("new password must be different from the current password")
	}
	if confirm != newPassword {
		return errors.New("new password and confirmation password do not match")
	}

	if err := s.auth.VerifyPassword(userID, current); err != nil {
		return err
	}
	if err := s.auth.UpdatePassword(userID, newPassword); err != nil {
		return err
	}

	s.LogActivity(userID, models.ActivityUpdatePassword, ip, nil)
	return nil
}

// DeleteAccount soft-deletes the user. The email is mangled so the unique
// index stays free for a future re-registration.
func (s *AccountService) DeleteAccount(userID uuid.UUID, password, ip string) error {
	if err := s.auth.VerifyPassword(userID, password); err != nil {
		return err
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	s.LogActivity(userID, models.ActivityDeleteAccount, ip, nil)

	return s.db.Transaction(func(tx *gorm.DB) error {
		mangled := fmt.Sprintf("%s-%s-deleted", user.Email, user.ID)
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("email", mangled).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", userID).Delete(&models.User{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.RefreshToken{}).
			Where("identity_id = ?", userID).
			Update("revoked", true).Error
	})
}

// ActivityLogs returns the user's ten most recent entries.
func (s *AccountService) ActivityLogs(userID uuid.UUID) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := s.db.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(10).
		Find(&logs).Error
	return logs, err
}

// LogActivity appends an audit entry; failures are logged, never surfaced.
func (s *AccountService) LogActivity(userID uuid.UUID, action models.ActivityType, ip string, metadata map[string]interface{}) {
	if err := s.logActivityTx(s.db, userID, action, ip, metadata); err != nil {
		slog.Error("failed to write activity log", "user_id", userID, "action", string(action), "error", err)
	}
}

func (s *AccountService) logActivityTx(tx *gorm.DB, userID uuid.UUID, action models.ActivityType, ip string, metadata map[string]interface{}) error {
	entry := models.ActivityLog{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now(),
		IPAddress: ip,
	}
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			entry.Metadata = datatypes.JSON(b)
		}
	}
	return tx.Create(&entry).Error
}
