package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmittedAnswers maps a question id to the option indices the user picked.
type SubmittedAnswers map[string][]int

// Attempt is one user's single scored submission against one quiz set.
// Records are append-only; the composite unique index on (user_id,
// quiz_set_id) is the authoritative guard against duplicate attempts.
type Attempt struct {
	ID               string                               `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt        time.Time                            `json:"created_at"`
	UpdatedAt        time.Time                            `json:"updated_at"`
	UserID           string                               `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_attempt_user_quiz"`
	QuizSetID        string                               `json:"quiz_set_id" gorm:"type:uuid;not null;uniqueIndex:idx_attempt_user_quiz"`
	Time             int                                  `json:"time"`
	SubmittedAnswers datatypes.JSONType[SubmittedAnswers] `json:"submitted_answers"`
	Score            int                                  `json:"score"`
	Correct          int                                  `json:"correct"`
	Wrong            int                                  `json:"wrong"`
	Skipped          int                                  `json:"skipped"`
	Percentage       float64                              `json:"percentage"`
	User             *User                                `json:"user,omitempty" gorm:"foreignKey:UserID"`
	QuizSet          *QuizSet                             `json:"quiz_set,omitempty" gorm:"foreignKey:QuizSetID"`
}

func (a *Attempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
