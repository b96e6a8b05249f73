package dto

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CreateSessionRequest struct {
	DogID       uuid.UUID `json:"dogId"`
	SessionType string    `json:"sessionType"`
	Duration    int       `json:"duration,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

type UpdateSessionRequest struct {
	SessionType *string `json:"sessionType,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

type UpdateSkillProgressRequest struct {
	DogID       uuid.UUID `json:"dogId"`
	SkillName   string    `json:"skillName"`
	SkillType   string    `json:"skillType"`
	Proficiency int       `json:"proficiency"`
}

type UpdateContentProgressRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type ContentRequest struct {
	Title             string         `json:"title"`
	Description       string         `json:"description,omitempty"`
	ContentType       string         `json:"contentType"`
	Difficulty        string         `json:"difficulty"`
	Category          string         `json:"category"`
	VideoURL          string         `json:"videoUrl,omitempty"`
	ArticleContent    string         `json:"articleContent,omitempty"`
	ExerciseSteps     datatypes.JSON `json:"exerciseSteps,omitempty"`
	EstimatedDuration int            `json:"estimatedDuration,omitempty"`
}

type StatsResponse struct {
	TotalSessions    int     `json:"totalSessions"`
	CompletedContent int     `json:"completedContent"`
	TotalHours       float64 `json:"totalHours"`
	SkillsMastered   int     `json:"skillsMastered"`
}
