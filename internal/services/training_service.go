package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pawsteps/pawsteps-backend/internal/dto"
	"github.com/pawsteps/pawsteps-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound = errors.New("training session not found")
	ErrContentNotFound = errors.New("training content not found")
)

type TrainingService struct {
	db      *gorm.DB
	dogs    *DogService
	account *AccountService
}

func NewTrainingService(db *gorm.DB, dogs *DogService, account *AccountService) *TrainingService {
	return &TrainingService{db: db, dogs: dogs, account: account}
}

func (s *TrainingService) CreateSession(userID uuid.UUID, req *dto.CreateSessionRequest, ip string) (*models.TrainingSession, error) {
	if req.SessionType == "" {
		return nil, errors.New("session type is required")
	}
	// The dog must belong to the caller.
	if _, err := s.dogs.GetDog(userID, req.DogID); err != nil {
		return nil, err
	}

	session := models.TrainingSession{
		ID:          uuid.New(),
		UserID:      userID,
		DogID:       req.DogID,
		SessionType: req.SessionType,
		Duration:    req.Duration,
		Notes:       req.Notes,
		SessionDate: time.Now(),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create training session: %w", err)
	}

	s.account.LogActivity(userID, models.ActivityStartTrainingSession, ip, map[string]interface{}{
		"session_id": session.ID, "dog_id": req.DogID,
	})
	return &session, nil
}

func (s *TrainingService) ListSessions(userID uuid.UUID, dogID *uuid.UUID) ([]models.TrainingSession, error) {
	query := s.db.Where("user_id = ?", userID)
	if dogID != nil {
		query = query.Where("dog_id = ?", *dogID)
	}

	var sessions []models.TrainingSession
	err := query.Order("session_date DESC").Find(&sessions).Error
	return sessions, err
}

func (s *TrainingService) UpdateSession(userID, sessionID uuid.UUID, req *dto.UpdateSessionRequest, ip string) (*models.TrainingSession, error) {
	updates := map[string]interface{}{}
	if req.SessionType != nil {
		updates["session_type"] = *req.SessionType
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	completing := req.Completed != nil && *req.Completed
	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}

	if len(updates) > 0 {
		result := s.db.Model(&models.TrainingSession{}).
			Where("id = ? AND user_id = ?", sessionID, userID).
			Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update training session: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrSessionNotFound
		}
		if completing {
			s.account.LogActivity(userID, models.ActivityCompleteTrainingSession, ip, map[string]interface{}{
				"session_id": sessionID,
			})
		}
	}

	var session models.TrainingSession
	if err := s.db.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load training session: %w", err)
	}
	return &session, nil
}

// UpsertSkillProgress keeps at most one row per (user, dog, skill); the
// latest proficiency wins and the practice timestamp is refreshed.
func (s *TrainingService) UpsertSkillProgress(userID uuid.UUID, req *dto.UpdateSkillProgressRequest, ip string) (*models.TrainingProgress, error) {
	if req.SkillName == "" {
		return nil, errors.New("skill name is required")
	}
	if req.Proficiency < 0 || req.Proficiency > 100 {
		return nil, errors.New("proficiency must be between 0 and 100")
	}
	if _, err := s.dogs.GetDog(userID, req.DogID); err != nil {
		return nil, err
	}

	now := time.Now()
	var progress models.TrainingProgress

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND dog_id = ? AND skill_name = ?", userID, req.DogID, req.SkillName).
			First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = models.TrainingProgress{
				ID:            uuid.New(),
				UserID:        userID,
				DogID:         req.DogID,
				SkillName:     req.SkillName,
				SkillType:     req.SkillType,
				Proficiency:   req.Proficiency,
				LastPracticed: &now,
			}
			return tx.Create(&progress).Error
		}
		if err != nil {
			return err
		}

		progress.Proficiency = req.Proficiency
		if req.SkillType != "" {
			progress.SkillType = req.SkillType
		}
		progress.LastPracticed = &now
		return tx.Save(&progress).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert skill progress: %w", err)
	}

	s.account.LogActivity(userID, models.ActivityUpdateProgress, ip, map[string]interface{}{
		"dog_id": req.DogID, "skill_name": req.SkillName,
	})
	return &progress, nil
}

func (s *TrainingService) ListSkillProgress(userID uuid.UUID, dogID *uuid.UUID) ([]models.TrainingProgress, error) {
	query := s.db.Where("user_id = ?", userID)
	if dogID != nil {
		query = query.Where("dog_id = ?", *dogID)
	}

	var progress []models.TrainingProgress
	err := query.Order("updated_at DESC").Find(&progress).Error
	return progress, err
}

func (s *TrainingService) ListContent(category, difficulty string) ([]models.TrainingContent, error) {
	query := s.db.Where("is_active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	var content []models.TrainingContent
	err := query.Order("created_at DESC").Find(&content).Error
	return content, err
}

func (s *TrainingService) CreateContent(req *dto.ContentRequest) (*models.TrainingContent, error) {
	if req.Title == "" || req.ContentType == "" || req.Difficulty == "" || req.Category == "" {
		return nil, errors.New("title, contentType, difficulty and category are required")
	}

	content := models.TrainingContent{
		ID:                uuid.New(),
		Title:             req.Title,
		Description:       req.Description,
		ContentType:       req.ContentType,
		Difficulty:        req.Difficulty,
		Category:          req.Category,
		VideoURL:          req.VideoURL,
		ArticleContent:    req.ArticleContent,
		ExerciseSteps:     req.ExerciseSteps,
		EstimatedDuration: req.EstimatedDuration,
		IsActive:          true,
	}
	if err := s.db.Create(&content).Error; err != nil {
		return nil, fmt.Errorf("failed to create training content: %w", err)
	}
	return &content, nil
}

func (s *TrainingService) UpdateContent(contentID uuid.UUID, req *dto.ContentRequest) (*models.TrainingContent, error) {
	var content models.TrainingContent
	if err := s.db.First(&content, "id = ?", contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to load training content: %w", err)
	}

	content.Title = req.Title
	content.Description = req.Description
	content.ContentType = req.ContentType
	content.Difficulty = req.Difficulty
	content.Category = req.Category
	content.VideoURL = req.VideoURL
	content.ArticleContent = req.ArticleContent
	content.ExerciseSteps = req.ExerciseSteps
	content.EstimatedDuration = req.EstimatedDuration

	if err := s.db.Save(&content).Error; err != nil {
		return nil, fmt.Errorf("failed to update training content: %w", err)
	}
	return &content, nil
}

// DeactivateContent hides a catalog entry without deleting user progress
// that references it.
func (s *TrainingService) DeactivateContent(contentID uuid.UUID) error {
	result := s.db.Model(&models.TrainingContent{}).
		Where("id = ?", contentID).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate training content: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrContentNotFound
	}
	return nil
}

// UpsertContentProgress keeps at most one row per (user, content) and
// stamps completed_at when the status transitions to completed.
func (s *TrainingService) UpsertContentProgress(userID, contentID uuid.UUID, req *dto.UpdateContentProgressRequest, ip string) (*models.UserProgress, error) {
	switch req.Status {
	case models.ProgressNotStarted, models.ProgressInProgress, models.ProgressCompleted:
	default:
		return nil, errors.New("status must be not_started, in_progress or completed")
	}

	var content models.TrainingContent
	if err := s.db.First(&content, "id = ?", contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to load training content: %w", err)
	}

	var completedAt *time.Time
	if req.Status == models.ProgressCompleted {
		now := time.Now()
		completedAt = &now
	}

	var progress models.UserProgress
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND content_id = ?", userID, contentID).First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = models.UserProgress{
				ID:          uuid.New(),
				UserID:      userID,
				ContentID:   contentID,
				Status:      req.Status,
				CompletedAt: completedAt,
				Notes:       req.Notes,
			}
			return tx.Create(&progress).Error
		}
		if err != nil {
			return err
		}

		progress.Status = req.Status
		progress.CompletedAt = completedAt
		if req.Notes != "" {
			progress.Notes = req.Notes
		}
		return tx.Save(&progress).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert content progress: %w", err)
	}

	if req.Status == models.ProgressCompleted {
		s.account.LogActivity(userID, models.ActivityCompleteContent, ip, map[string]interface{}{
			"content_id": contentID,
		})
	}
	return &progress, nil
}

// Stats aggregates training activity client-side; nothing is persisted.
// completedContent and skillsMastered are intentionally the same number,
// matching the product's current dashboard.
func (s *TrainingService) Stats(userID uuid.UUID) (*dto.StatsResponse, error) {
	sessions, err := s.ListSessions(userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	var progress []models.UserProgress
	if err := s.db.Where("user_id = ?", userID).Find(&progress).Error; err != nil {
		return nil, fmt.Errorf("failed to load content progress: %w", err)
	}

	totalMinutes := 0
	for _, session := range sessions {
		totalMinutes += session.Duration
	}

	completed := 0
	for _, p := range progress {
		if p.Status == models.ProgressCompleted {
			completed++
		}
	}

	return &dto.StatsResponse{
		TotalSessions:    len(sessions),
		CompletedContent: completed,
		TotalHours:       math.Round(float64(totalMinutes)/60*10) / 10,
		SkillsMastered:   completed,
	}, nil
}
