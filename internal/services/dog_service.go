package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pawsteps/pawsteps-backend/internal/dto"
	"github.com/pawsteps/pawsteps-backend/internal/models"
	"gorm.io/gorm"
)

var ErrDogNotFound = errors.New("dog not found")

// DogService owns dog profiles. Every query is scoped to the owning user;
// there is no cross-user access path.
type DogService struct {
	db      *gorm.DB
	account *AccountService
}

func NewDogService(db *gorm.DB, account *AccountService) *DogService {
	return &DogService{db: db, account: account}
}

func (s *DogService) CreateDog(userID uuid.UUID, req *dto.CreateDogRequest, ip string) (*models.Dog, error) {
	if req.Name == "" {
		return nil, errors.New("dog name is required")
	}

	level := req.TrainingLevel
	if level == "" {
		level = "beginner"
	}

	dog := models.Dog{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          req.Name,
		Breed:         req.Breed,
		Age:           req.Age,
		Weight:        req.Weight,
		Temperament:   req.Temperament,
		TrainingLevel: level,
	}
	if err := s.db.Create(&dog).Error; err != nil {
		return nil, fmt.Errorf("failed to create dog: %w", err)
	}

	s.account.LogActivity(userID, models.ActivityAddDog, ip, map[string]interface{}{"dog_id": dog.ID})
	return &dog, nil
}

func (s *DogService) ListDogs(userID uuid.UUID) ([]models.Dog, error) {
	var dogs []models.Dog
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&dogs).Error
	return dogs, err
}

func (s *DogService) GetDog(userID, dogID uuid.UUID) (*models.Dog, error) {
	var dog models.Dog
	err := s.db.Where("id = ? AND user_id = ?", dogID, userID).First(&dog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dog: %w", err)
	}
	return &dog, nil
}

func (s *DogService) UpdateDog(userID, dogID uuid.UUID, req *dto.UpdateDogRequest, ip string) (*models.Dog, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, errors.New("dog name is required")
		}
		updates["name"] = *req.Name
	}
	if req.Breed != nil {
		updates["breed"] = *req.Breed
	}
	if req.Age != nil {
		updates["age"] = *req.Age
	}
	if req.Weight != nil {
		updates["weight"] = *req.Weight
	}
	if req.Temperament != nil {
		updates["temperament"] = *req.Temperament
	}
	if req.TrainingLevel != nil {
		updates["training_level"] = *req.TrainingLevel
	}

	if len(updates) > 0 {
		result := s.db.Model(&models.Dog{}).
			Where("id = ? AND user_id = ?", dogID, userID).
			Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update dog: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrDogNotFound
		}
		s.account.LogActivity(userID, models.ActivityUpdateDog, ip, map[string]interface{}{"dog_id": dogID})
	}

	return s.GetDog(userID, dogID)
}

func (s *DogService) DeleteDog(userID, dogID uuid.UUID, ip string) error {
	result := s.db.Where("id = ? AND user_id = ?", dogID, userID).Delete(&models.Dog{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete dog: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDogNotFound
	}

	s.account.LogActivity(userID, models.ActivityDeleteDog, ip, map[string]interface{}{"dog_id": dogID})
	return nil
}
