package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Session types: basic, tricks, games.
type TrainingSession struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	DogID       uuid.UUID `gorm:"type:uuid;not null;index" json:"dog_id"`
	SessionType string    `gorm:"size:50;not null" json:"session_type"`
	Duration    int       `json:"duration"` // minutes
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	SessionDate time.Time `gorm:"not null;index" json:"session_date"`
	CreatedAt   time.Time `json:"created_at"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	Dog         Dog       `gorm:"foreignKey:DogID" json:"-"`
}

// TrainingProgress tracks one skill per (user, dog, skill name).
type TrainingProgress struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_dog_skill" json:"user_id"`
	DogID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_dog_skill" json:"dog_id"`
	SkillName     string     `gorm:"size:100;not null;uniqueIndex:idx_progress_user_dog_skill" json:"skill_name"`
	SkillType     string     `gorm:"size:50;not null" json:"skill_type"` // command, trick, behavior
	Proficiency   int        `gorm:"not null;default:0" json:"proficiency"` // 0-100
	LastPracticed *time.Time `json:"last_practiced,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type TrainingContent struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title             string         `gorm:"size:200;not null" json:"title"`
	Description       string         `gorm:"type:text" json:"description,omitempty"`
	ContentType       string         `gorm:"size:50;not null" json:"content_type"` // video, article, exercise
	Difficulty        string         `gorm:"size:20;not null" json:"difficulty"`   // beginner, intermediate, advanced
	Category          string         `gorm:"size:50;not null" json:"category"`     // basic_commands, tricks, games, behavior
	VideoURL          string         `gorm:"type:text" json:"video_url,omitempty"`
	ArticleContent    string         `gorm:"type:text" json:"article_content,omitempty"`
	ExerciseSteps     datatypes.JSON `gorm:"type:jsonb" json:"exercise_steps,omitempty"`
	EstimatedDuration int            `json:"estimated_duration,omitempty"` // minutes
	IsActive          bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

const (
	ProgressNotStarted = "not_started"
	ProgressInProgress = "in_progress"
	ProgressCompleted  = "completed"
)

// UserProgress tracks content consumption, one row per (user, content).
type UserProgress struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_user_progress_user_content" json:"user_id"`
	ContentID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_user_progress_user_content" json:"content_id"`
	Status      string          `gorm:"size:20;not null;default:'not_started'" json:"status"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Content     TrainingContent `gorm:"foreignKey:ContentID" json:"-"`
}
