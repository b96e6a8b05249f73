package models

import (
	"time"

	"github.com/google/uuid"
)

type Dog struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Breed         string    `gorm:"size:100" json:"breed,omitempty"`
	Age           int       `json:"age,omitempty"`
	Weight        int       `json:"weight,omitempty"`
	Temperament   string    `gorm:"size:50" json:"temperament,omitempty"`
	TrainingLevel string    `gorm:"size:50;default:'beginner'" json:"training_level"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	User          User      `gorm:"foreignKey:UserID" json:"-"`
}
