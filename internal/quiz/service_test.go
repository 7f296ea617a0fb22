package quiz

import (
	"context"
	"testing"

	"quizhub/internal/apperr"
	"quizhub/internal/models"
)

type fakeStore struct {
	quizSets  map[string]*models.QuizSet
	questions map[string]*models.Question
	ratings   map[string]*models.QuizSetRating
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		quizSets:  make(map[string]*models.QuizSet),
		questions: make(map[string]*models.Question),
		ratings:   make(map[string]*models.QuizSetRating),
	}
}

func (f *fakeStore) CreateQuizSet(_ context.Context, quizSet *models.QuizSet) error {
	if quizSet.ID == "" {
		quizSet.ID = "quiz-" + quizSet.Title
	}
	f.quizSets[quizSet.ID] = quizSet
	return nil
}

func (f *fakeStore) QuizSetByID(_ context.Context, quizSetID string, withQuestions bool) (*models.QuizSet, error) {
	quizSet, ok := f.quizSets[quizSetID]
	if !ok {
		return nil, apperr.NotFound("quiz set not found with id: %s", quizSetID)
	}
	copied := *quizSet
	if withQuestions {
		copied.Questions = nil
		for _, q := range f.questions {
			if q.QuizSetID == quizSetID {
				copied.Questions = append(copied.Questions, *q)
			}
		}
	}
	return &copied, nil
}

func (f *fakeStore) SaveQuizSet(_ context.Context, quizSet *models.QuizSet) error {
	f.quizSets[quizSet.ID] = quizSet
	return nil
}

func (f *fakeStore) DeleteQuizSet(_ context.Context, quizSetID string) error {
	delete(f.quizSets, quizSetID)
	for id, q := range f.questions {
		if q.QuizSetID == quizSetID {
			delete(f.questions, id)
		}
	}
	return nil
}

func (f *fakeStore) ListPublished(_ context.Context, search string) ([]models.QuizSet, error) {
	var out []models.QuizSet
	for _, quizSet := range f.quizSets {
		if quizSet.Status == models.StatusPublished {
			out = append(out, *quizSet)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByOwner(_ context.Context, userID string) ([]models.QuizSet, error) {
	var out []models.QuizSet
	for _, quizSet := range f.quizSets {
		if quizSet.UserID == userID {
			out = append(out, *quizSet)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateQuestion(_ context.Context, question *models.Question) error {
	if question.ID == "" {
		question.ID = "question-" + question.Question
	}
	f.questions[question.ID] = question
	return nil
}

func (f *fakeStore) CreateQuestions(ctx context.Context, questions []models.Question) error {
	for i := range questions {
		if err := f.CreateQuestion(ctx, &questions[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) QuestionByID(_ context.Context, questionID string) (*models.Question, error) {
	question, ok := f.questions[questionID]
	if !ok {
		return nil, apperr.NotFound("question not found with id: %s", questionID)
	}
	return question, nil
}

func (f *fakeStore) SaveQuestion(_ context.Context, question *models.Question) error {
	f.questions[question.ID] = question
	return nil
}

func (f *fakeStore) DeleteQuestion(_ context.Context, questionID string) error {
	delete(f.questions, questionID)
	return nil
}

func (f *fakeStore) UpsertRating(_ context.Context, rating *models.QuizSetRating) error {
	f.ratings[rating.UserID+"|"+rating.QuizSetID] = rating
	return nil
}

func validQuestionInput() QuestionInput {
	return QuestionInput{
		Question:      "What is the capital of France?",
		Options:       []string{"Paris", "Berlin", "Rome", "Madrid"},
		AnswerIndices: []int{0},
		Mark:          5,
		Time:          30,
	}
}

func seedQuizSet(store *fakeStore, ownerID string) *models.QuizSet {
	quizSet := &models.QuizSet{
		ID:     "quiz-1",
		Title:  "Capitals",
		Status: models.StatusDraft,
		Label:  models.LabelEasy,
		UserID: ownerID,
	}
	store.quizSets[quizSet.ID] = quizSet
	return quizSet
}

func TestCreateRequiresTitle(t *testing.T) {
	service := NewService(newFakeStore(), nil)

	_, err := service.Create(context.Background(), "admin-1", QuizSetInput{Title: "  "})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateDefaultsToDraft(t *testing.T) {
	service := NewService(newFakeStore(), nil)

	quizSet, err := service.Create(context.Background(), "admin-1", QuizSetInput{Title: "Capitals"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if quizSet.Status != models.StatusDraft {
		t.Fatalf("expected draft status, got %s", quizSet.Status)
	}
	if quizSet.Label != models.LabelEasy {
		t.Fatalf("expected default label easy, got %s", quizSet.Label)
	}
	if quizSet.UserID != "admin-1" {
		t.Fatalf("expected owner admin-1, got %s", quizSet.UserID)
	}
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	store := newFakeStore()
	seedQuizSet(store, "admin-1")
	service := NewService(store, nil)

	title := "Renamed"
	_, err := service.Update(context.Background(), "admin-2", "quiz-1", QuizSetUpdate{Title: &title})
	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	store := newFakeStore()
	seedQuizSet(store, "admin-1")
	service := NewService(store, nil)

	status := "live"
	_, err := service.Update(context.Background(), "admin-1", "quiz-1", QuizSetUpdate{Status: &status})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPublishRequiresQuestions(t *testing.T) {
	store := newFakeStore()
	seedQuizSet(store, "admin-1")
	service := NewService(store, nil)

	_, err := service.Publish(context.Background(), "admin-1", "quiz-1")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for empty quiz set, got %v", err)
	}
}

func TestPublishTransitionsStatus(t *testing.T) {
	store := newFakeStore()
	seedQuizSet(store, "admin-1")
	service := NewService(store, nil)

	if _, err := service.AddQuestion(context.Background(), "admin-1", "quiz-1", validQuestionInput()); err != nil {
		t.Fatalf("add question failed: %v", err)
	}

	quizSet, err := service.Publish(context.Background(), "admin-1", "quiz-1")
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if quizSet.Status != models.StatusPublished {
		t.Fatalf("expected published status, got %s", quizSet.Status)
	}
}

func TestAddQuestionRequiresFourOptions(t *testing.T) {
	store := newFakeStore()
	seedQuizSet(store, "admin-1")
	service := NewService(store, nil)

	input := validQuestionInput()
	input.Options = []string{"Paris", "Berlin"}
	_, err := service.AddQuestion(context.Background(), "admin-1", "quiz-1", input)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddQuestionRejectsOutOfRangeAnswer(t *testing.T) {
	store := newFakeStore()
	seedQuizSet(store, "admin-1")
	service := NewService(store, nil)

	input := validQuestionInput()
	input.AnswerIndices = []int{4}
	_, err := service.AddQuestion(context.Background(), "admin-1", "quiz-1", input)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddQuestionDefaultsMarkAndTime(t *testing.T) {
	store := newFakeStore()
	seedQuizSet(store, "admin-1")
	service := NewService(store, nil)

	input := validQuestionInput()
	input.Mark = 0
	input.Time = 0
	question, err := service.AddQuestion(context.Background(), "admin-1", "quiz-1", input)
	if err != nil {
		t.Fatalf("add question failed: %v", err)
	}
	if question.Mark != 5 || question.Time != 30 {
		t.Fatalf("expected defaults mark=5 time=30, got mark=%d time=%d", question.Mark, question.Time)
	}
}

func TestAddQuestionsBulkRejectsEmpty(t *testing.T) {
	store := newFakeStore()
	seedQuizSet(store, "admin-1")
	service := NewService(store, nil)

	_, err := service.AddQuestions(context.Background(), "admin-1", "quiz-1", nil)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestQuestionsHideAnswersFromNonOwner(t *testing.T) {
	store := newFakeStore()
	seedQuizSet(store, "admin-1")
	service := NewService(store, nil)

	if _, err := service.AddQuestion(context.Background(), "admin-1", "quiz-1", validQuestionInput()); err != nil {
		t.Fatalf("add question failed: %v", err)
	}

	questions, err := service.Questions(context.Background(), "u1", "quiz-1")
	if err != nil {
		t.Fatalf("questions failed: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected one question, got %d", len(questions))
	}
	if questions[0].AnswerIndices != nil {
		t.Fatalf("answer indices leaked to non-owner: %v", questions[0].AnswerIndices)
	}

	ownerView, err := service.Questions(context.Background(), "admin-1", "quiz-1")
	if err != nil {
		t.Fatalf("questions failed: %v", err)
	}
	if len(ownerView[0].AnswerIndices) != 1 {
		t.Fatalf("owner should see answer indices, got %v", ownerView[0].AnswerIndices)
	}
}

func TestRateValidatesRange(t *testing.T) {
	store := newFakeStore()
	seedQuizSet(store, "admin-1")
	service := NewService(store, nil)

	if _, err := service.Rate(context.Background(), "u1", "quiz-1", 0); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for rating 0, got %v", err)
	}
	if _, err := service.Rate(context.Background(), "u1", "quiz-1", 6); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for rating 6, got %v", err)
	}

	rating, err := service.Rate(context.Background(), "u1", "quiz-1", 4)
	if err != nil {
		t.Fatalf("rate failed: %v", err)
	}
	if rating.Rating != 4 {
		t.Fatalf("expected rating 4, got %d", rating.Rating)
	}
}
