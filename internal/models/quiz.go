package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

const (
	LabelEasy   = "easy"
	LabelMedium = "medium"
	LabelHard   = "hard"
)

type QuizSet struct {
	ID          string          `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Title       string          `json:"title" gorm:"not null"`
	Description string          `json:"description"`
	Status      string          `json:"status" gorm:"not null;default:draft"`
	Label       string          `json:"label" gorm:"not null;default:easy"`
	UserID      string          `json:"user_id" gorm:"type:uuid;not null;index"`
	Questions   []Question      `json:"questions,omitempty" gorm:"foreignKey:QuizSetID;constraint:OnDelete:CASCADE"`
	Ratings     []QuizSetRating `json:"ratings,omitempty" gorm:"foreignKey:QuizSetID;constraint:OnDelete:CASCADE"`
}

func (q *QuizSet) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

type Question struct {
	ID            string                      `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	QuizSetID     string                      `json:"quiz_set_id" gorm:"type:uuid;not null;index"`
	Question      string                      `json:"question" gorm:"not null"`
	Options       datatypes.JSONSlice[string] `json:"options" gorm:"not null"`
	AnswerIndices datatypes.JSONSlice[int]    `json:"answer_indices,omitempty"`
	Explanation   string                      `json:"explanation,omitempty"`
	Mark          int                         `json:"mark" gorm:"not null;default:5"`
	Time          int                         `json:"time" gorm:"not null;default:30"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

type QuizSetRating struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_rating_user_quiz"`
	QuizSetID string    `json:"quiz_set_id" gorm:"type:uuid;not null;uniqueIndex:idx_rating_user_quiz"`
	Rating    int       `json:"rating" gorm:"not null"`
}

func (r *QuizSetRating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
