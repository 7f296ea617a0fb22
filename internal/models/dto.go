package models

import "time"

type QuestionDTO struct {
	ID            string   `json:"id"`
	QuizSetID     string   `json:"quiz_set_id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	AnswerIndices []int    `json:"answer_indices,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	Mark          int      `json:"mark"`
	Time          int      `json:"time"`
}

// ToDTO renders a question for the API. Answer indices and the explanation
// are only included for the owning admin.
func (q Question) ToDTO(includeAnswers bool) QuestionDTO {
	dto := QuestionDTO{
		ID:        q.ID,
		QuizSetID: q.QuizSetID,
		Question:  q.Question,
		Options:   q.Options,
		Mark:      q.Mark,
		Time:      q.Time,
	}
	if includeAnswers {
		dto.AnswerIndices = q.AnswerIndices
		dto.Explanation = q.Explanation
	}
	return dto
}

type QuizSetDTO struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	Label       string        `json:"label"`
	UserID      string        `json:"user_id"`
	CreatedAt   time.Time     `json:"created_at"`
	Questions   []QuestionDTO `json:"questions,omitempty"`
}

func (q QuizSet) ToDTO(includeAnswers bool) QuizSetDTO {
	dto := QuizSetDTO{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Status:      q.Status,
		Label:       q.Label,
		UserID:      q.UserID,
		CreatedAt:   q.CreatedAt,
	}
	for _, question := range q.Questions {
		dto.Questions = append(dto.Questions, question.ToDTO(includeAnswers))
	}
	return dto
}

type UserSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Photo    string `json:"photo,omitempty"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Photo:    u.Photo,
	}
}

type AttemptDTO struct {
	ID               string           `json:"id"`
	UserID           string           `json:"user_id"`
	QuizSetID        string           `json:"quiz_set_id"`
	Time             int              `json:"time"`
	SubmittedAnswers SubmittedAnswers `json:"submitted_answers"`
	Score            int              `json:"score"`
	Correct          int              `json:"correct"`
	Wrong            int              `json:"wrong"`
	Skipped          int              `json:"skipped"`
	Percentage       float64          `json:"percentage"`
	CreatedAt        time.Time        `json:"created_at"`
	User             *UserSummary     `json:"user,omitempty"`
	QuizSet          *QuizSetDTO      `json:"quiz_set,omitempty"`
}

func (a Attempt) ToDTO() AttemptDTO {
	dto := AttemptDTO{
		ID:               a.ID,
		UserID:           a.UserID,
		QuizSetID:        a.QuizSetID,
		Time:             a.Time,
		SubmittedAnswers: a.SubmittedAnswers.Data(),
		Score:            a.Score,
		Correct:          a.Correct,
		Wrong:            a.Wrong,
		Skipped:          a.Skipped,
		Percentage:       a.Percentage,
		CreatedAt:        a.CreatedAt,
	}
	if a.User != nil {
		summary := a.User.Summary()
		dto.User = &summary
	}
	if a.QuizSet != nil {
		quizDTO := a.QuizSet.ToDTO(false)
		dto.QuizSet = &quizDTO
	}
	return dto
}

type LeaderboardEntry struct {
	UserID     string  `json:"user_id"`
	FullName   string  `json:"full_name"`
	Score      int     `json:"score"`
	Percentage float64 `json:"percentage"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}
