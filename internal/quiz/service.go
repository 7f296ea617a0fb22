package quiz

import (
	"context"
	"log"
	"strings"

	"quizhub/internal/apperr"
	"quizhub/internal/models"
)

// Store is the persistence port for quiz-set authoring.
type Store interface {
	CreateQuizSet(ctx context.Context, quizSet *models.QuizSet) error
	QuizSetByID(ctx context.Context, quizSetID string, withQuestions bool) (*models.QuizSet, error)
	SaveQuizSet(ctx context.Context, quizSet *models.QuizSet) error
	DeleteQuizSet(ctx context.Context, quizSetID string) error
	ListPublished(ctx context.Context, search string) ([]models.QuizSet, error)
	ListByOwner(ctx context.Context, userID string) ([]models.QuizSet, error)
	CreateQuestion(ctx context.Context, question *models.Question) error
	CreateQuestions(ctx context.Context, questions []models.Question) error
	QuestionByID(ctx context.Context, questionID string) (*models.Question, error)
	SaveQuestion(ctx context.Context, question *models.Question) error
	DeleteQuestion(ctx context.Context, questionID string) error
	UpsertRating(ctx context.Context, rating *models.QuizSetRating) error
}

// Cache holds hot quiz sets; all operations are best effort.
type Cache interface {
	SetQuizSet(ctx context.Context, quizSet *models.QuizSet) error
	GetQuizSet(ctx context.Context, quizSetID string) (*models.QuizSet, error)
	InvalidateQuizSet(ctx context.Context, quizSetID string) error
}

type Service struct {
	store Store
	cache Cache
}

func NewService(store Store, cache Cache) *Service {
	return &Service{store: store, cache: cache}
}

type QuizSetInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Label       string `json:"label"`
}

func validLabel(label string) bool {
	switch label {
	case models.LabelEasy, models.LabelMedium, models.LabelHard:
		return true
	}
	return false
}

func (s *Service) Create(ctx context.Context, userID string, input QuizSetInput) (*models.QuizSet, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperr.Validation("title is required")
	}
	if input.Label == "" {
		input.Label = models.LabelEasy
	}
	if !validLabel(input.Label) {
		return nil, apperr.Validation("label must be one of easy, medium, hard")
	}

	quizSet := &models.QuizSet{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.StatusDraft,
		Label:       input.Label,
		UserID:      userID,
	}
	if err := s.store.CreateQuizSet(ctx, quizSet); err != nil {
		return nil, err
	}
	return quizSet, nil
}

type QuizSetUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Label       *string `json:"label"`
	Status      *string `json:"status"`
}

func (s *Service) Update(ctx context.Context, userID, quizSetID string, update QuizSetUpdate) (*models.QuizSet, error) {
	quizSet, err := s.ownedQuizSet(ctx, userID, quizSetID, false)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return nil, apperr.Validation("title cannot be empty")
		}
		quizSet.Title = *update.Title
	}
	if update.Description != nil {
		quizSet.Description = *update.Description
	}
	if update.Label != nil {
		if !validLabel(*update.Label) {
			return nil, apperr.Validation("label must be one of easy, medium, hard")
		}
		quizSet.Label = *update.Label
	}
	if update.Status != nil {
		switch *update.Status {
		case models.StatusDraft, models.StatusPublished, models.StatusArchived:
			quizSet.Status = *update.Status
		default:
			return nil, apperr.Validation("status must be one of draft, published, archived")
		}
	}

	if err := s.store.SaveQuizSet(ctx, quizSet); err != nil {
		return nil, err
	}
	s.invalidate(ctx, quizSetID)
	return quizSet, nil
}

// Publish moves a quiz set to published. A quiz set with no questions
// cannot be published.
func (s *Service) Publish(ctx context.Context, userID, quizSetID string) (*models.QuizSet, error) {
	quizSet, err := s.ownedQuizSet(ctx, userID, quizSetID, true)
	if err != nil {
		return nil, err
	}
	if len(quizSet.Questions) == 0 {
		return nil, apperr.Validation("cannot publish a quiz set with no questions")
	}
	if quizSet.Status == models.StatusPublished {
		return quizSet, nil
	}

	quizSet.Status = models.StatusPublished
	if err := s.store.SaveQuizSet(ctx, quizSet); err != nil {
		return nil, err
	}
	s.invalidate(ctx, quizSetID)
	return quizSet, nil
}

func (s *Service) Delete(ctx context.Context, userID, quizSetID string) error {
	if _, err := s.ownedQuizSet(ctx, userID, quizSetID, false); err != nil {
		return err
	}
	if err := s.store.DeleteQuizSet(ctx, quizSetID); err != nil {
		return err
	}
	s.invalidate(ctx, quizSetID)
	return nil
}

// Get returns a quiz set with its questions, trying the cache first.
func (s *Service) Get(ctx context.Context, quizSetID string) (*models.QuizSet, error) {
	if s.cache != nil {
		if quizSet, err := s.cache.GetQuizSet(ctx, quizSetID); err == nil {
			return quizSet, nil
		}
	}

	quizSet, err := s.store.QuizSetByID(ctx, quizSetID, true)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetQuizSet(ctx, quizSet); err != nil {
			log.Printf("failed to cache quiz set %s: %v", quizSetID, err)
		}
	}
	return quizSet, nil
}

func (s *Service) ListPublished(ctx context.Context, search string) ([]models.QuizSet, error) {
	return s.store.ListPublished(ctx, search)
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]models.QuizSet, error) {
	return s.store.ListByOwner(ctx, userID)
}

type QuestionInput struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	AnswerIndices []int    `json:"answer_indices"`
	Explanation   string   `json:"explanation"`
	Mark          int      `json:"mark"`
	Time          int      `json:"time"`
}

func (input *QuestionInput) validate() error {
	details := map[string]string{}
	if strings.TrimSpace(input.Question) == "" {
		details["question"] = "question text is required"
	}
	if len(input.Options) < 4 {
		details["options"] = "options must contain at least four items"
	}
	for _, option := range input.Options {
		if strings.TrimSpace(option) == "" {
			details["options"] = "option text cannot be empty"
			break
		}
	}
	if len(input.AnswerIndices) == 0 {
		details["answer_indices"] = "at least one answer index is required"
	}
	for _, idx := range input.AnswerIndices {
		if idx < 0 || idx >= len(input.Options) {
			details["answer_indices"] = "answer indices must point at options"
			break
		}
	}
	if input.Mark == 0 {
		input.Mark = 5
	}
	if input.Mark < 0 {
		details["mark"] = "mark must be a positive integer"
	}
	if input.Time == 0 {
		input.Time = 30
	}
	if input.Time < 0 {
		details["time"] = "time must be a positive integer"
	}
	if len(details) > 0 {
		return apperr.ValidationWithDetails("invalid question payload", details)
	}
	return nil
}

func (input QuestionInput) toModel(quizSetID string) models.Question {
	return models.Question{
		QuizSetID:     quizSetID,
		Question:      input.Question,
		Options:       input.Options,
		AnswerIndices: input.AnswerIndices,
		Explanation:   input.Explanation,
		Mark:          input.Mark,
		Time:          input.Time,
	}
}

func (s *Service) AddQuestion(ctx context.Context, userID, quizSetID string, input QuestionInput) (*models.Question, error) {
	if _, err := s.ownedQuizSet(ctx, userID, quizSetID, false); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	question := input.toModel(quizSetID)
	if err := s.store.CreateQuestion(ctx, &question); err != nil {
		return nil, err
	}
	s.invalidate(ctx, quizSetID)
	return &question, nil
}

func (s *Service) AddQuestions(ctx context.Context, userID, quizSetID string, inputs []QuestionInput) ([]models.Question, error) {
	if _, err := s.ownedQuizSet(ctx, userID, quizSetID, false); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, apperr.Validation("at least one question is required")
	}

	questions := make([]models.Question, 0, len(inputs))
	for i := range inputs {
		if err := inputs[i].validate(); err != nil {
			return nil, err
		}
		questions = append(questions, inputs[i].toModel(quizSetID))
	}

	if err := s.store.CreateQuestions(ctx, questions); err != nil {
		return nil, err
	}
	s.invalidate(ctx, quizSetID)
	return questions, nil
}

// Questions lists a quiz set's questions. The answer key is the owner's
// view; other callers see questions without answers or explanations.
func (s *Service) Questions(ctx context.Context, userID, quizSetID string) ([]models.QuestionDTO, error) {
	quizSet, err := s.store.QuizSetByID(ctx, quizSetID, true)
	if err != nil {
		return nil, err
	}
	if len(quizSet.Questions) == 0 {
		return nil, apperr.NotFound("no questions found for quiz set: %s", quizSetID)
	}

	includeAnswers := quizSet.UserID == userID
	dtos := make([]models.QuestionDTO, 0, len(quizSet.Questions))
	for _, q := range quizSet.Questions {
		dtos = append(dtos, q.ToDTO(includeAnswers))
	}
	return dtos, nil
}

func (s *Service) EditQuestion(ctx context.Context, userID, questionID string, input QuestionInput) (*models.Question, error) {
	question, err := s.store.QuestionByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedQuizSet(ctx, userID, question.QuizSetID, false); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	question.Question = input.Question
	question.Options = input.Options
	question.AnswerIndices = input.AnswerIndices
	question.Explanation = input.Explanation
	question.Mark = input.Mark
	question.Time = input.Time

	if err := s.store.SaveQuestion(ctx, question); err != nil {
		return nil, err
	}
	s.invalidate(ctx, question.QuizSetID)
	return question, nil
}

func (s *Service) RemoveQuestion(ctx context.Context, userID, questionID string) error {
	question, err := s.store.QuestionByID(ctx, questionID)
	if err != nil {
		return err
	}
	if _, err := s.ownedQuizSet(ctx, userID, question.QuizSetID, false); err != nil {
		return err
	}
	if err := s.store.DeleteQuestion(ctx, questionID); err != nil {
		return err
	}
	s.invalidate(ctx, question.QuizSetID)
	return nil
}

func (s *Service) Rate(ctx context.Context, userID, quizSetID string, value int) (*models.QuizSetRating, error) {
	if value < 1 || value > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}
	if _, err := s.store.QuizSetByID(ctx, quizSetID, false); err != nil {
		return nil, err
	}

	rating := &models.QuizSetRating{
		UserID:    userID,
		QuizSetID: quizSetID,
		Rating:    value,
	}
	if err := s.store.UpsertRating(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

func (s *Service) ownedQuizSet(ctx context.Context, userID, quizSetID string, withQuestions bool) (*models.QuizSet, error) {
	quizSet, err := s.store.QuizSetByID(ctx, quizSetID, withQuestions)
	if err != nil {
		return nil, err
	}
	if quizSet.UserID != userID {
		return nil, apperr.Forbidden("quiz set %s does not belong to you", quizSetID)
	}
	return quizSet, nil
}

func (s *Service) invalidate(ctx context.Context, quizSetID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateQuizSet(ctx, quizSetID); err != nil {
		log.Printf("failed to invalidate cached quiz set %s: %v", quizSetID, err)
	}
}
