package attempt

import (
	"context"
	"log"
	"math"

	"gorm.io/datatypes"

	"quizhub/internal/apperr"
	"quizhub/internal/models"
)

// Store is the persistence port for the submission flow. The gorm
// Repository implements it; tests substitute an in-memory fake.
type Store interface {
	QuizSetWithQuestions(ctx context.Context, quizSetID string) (*models.QuizSet, error)
	QuizSetExists(ctx context.Context, quizSetID string) error
	HasAttempt(ctx context.Context, userID, quizSetID string) (bool, error)
	CreateAttempt(ctx context.Context, attempt *models.Attempt) error
	AttemptsByQuizSet(ctx context.Context, quizSetID string, offset, limit int) ([]models.Attempt, int64, error)
	Leaderboard(ctx context.Context, quizSetID string, offset, limit int) ([]models.LeaderboardEntry, int64, error)
	UserSummary(ctx context.Context, userID string) (*models.UserSummary, error)
}

// LeaderboardCache is the optional redis-backed leaderboard. All calls are
// best effort; the store remains the source of truth.
type LeaderboardCache interface {
	AddLeaderboardEntry(ctx context.Context, quizSetID string, entry models.LeaderboardEntry) error
	LeaderboardEntries(ctx context.Context, quizSetID string, offset, count int64) ([]models.LeaderboardEntry, int64, error)
}

type Service struct {
	store Store
	cache LeaderboardCache
}

func NewService(store Store, cache LeaderboardCache) *Service {
	return &Service{store: store, cache: cache}
}

// Submit scores a user's answers against the quiz set and records the
// result as an immutable attempt. The duplicate pre-check is a fast path
// only; a concurrent duplicate insert is caught by the store's unique
// constraint and surfaces as the same conflict error.
func (s *Service) Submit(ctx context.Context, userID, quizSetID string, elapsed int, answers models.SubmittedAnswers) (*models.Attempt, error) {
	quizSet, err := s.store.QuizSetWithQuestions(ctx, quizSetID)
	if err != nil {
		return nil, err
	}

	exists, err := s.store.HasAttempt(ctx, userID, quizSetID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("quiz already attempted")
	}

	if answers == nil {
		answers = models.SubmittedAnswers{}
	}
	if err := validateSubmission(quizSet.Questions, answers); err != nil {
		return nil, err
	}

	res := aggregate(quizSet.Questions, answers)

	record := &models.Attempt{
		UserID:           userID,
		QuizSetID:        quizSetID,
		Time:             elapsed,
		SubmittedAnswers: datatypes.NewJSONType(answers),
		Score:            res.Score,
		Correct:          res.Correct,
		Wrong:            res.Wrong,
		Skipped:          res.Skipped,
		Percentage:       res.Percentage,
	}
	if err := s.store.CreateAttempt(ctx, record); err != nil {
		return nil, err
	}

	s.publishLeaderboardEntry(ctx, quizSetID, userID, record)
	return record, nil
}

func (s *Service) publishLeaderboardEntry(ctx context.Context, quizSetID, userID string, record *models.Attempt) {
	if s.cache == nil {
		return
	}

	summary, err := s.store.UserSummary(ctx, userID)
	if err != nil {
		log.Printf("skipping leaderboard entry for user %s: %v", userID, err)
		return
	}

	entry := models.LeaderboardEntry{
		UserID:     userID,
		FullName:   summary.FullName,
		Score:      record.Score,
		Percentage: record.Percentage,
	}
	if err := s.cache.AddLeaderboardEntry(ctx, quizSetID, entry); err != nil {
		log.Printf("failed to cache leaderboard entry for quiz set %s: %v", quizSetID, err)
	}
}

// QuizSetAttempts lists every attempt for a quiz set with user summaries.
func (s *Service) QuizSetAttempts(ctx context.Context, quizSetID string, page, limit int) ([]models.Attempt, models.Pagination, error) {
	if err := s.store.QuizSetExists(ctx, quizSetID); err != nil {
		return nil, models.Pagination{}, err
	}

	attempts, total, err := s.store.AttemptsByQuizSet(ctx, quizSetID, (page-1)*limit, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	if total == 0 {
		return nil, models.Pagination{}, apperr.NotFound("no attempts found for quiz set: %s", quizSetID)
	}

	return attempts, paginate(page, limit, total), nil
}

// Leaderboard returns one page of attempts ordered by percentage,
// preferring the cached sorted set and falling back to the store.
func (s *Service) Leaderboard(ctx context.Context, quizSetID string, page, limit int) ([]models.LeaderboardEntry, models.Pagination, error) {
	if err := s.store.QuizSetExists(ctx, quizSetID); err != nil {
		return nil, models.Pagination{}, err
	}

	offset := (page - 1) * limit
	if s.cache != nil {
		entries, total, err := s.cache.LeaderboardEntries(ctx, quizSetID, int64(offset), int64(limit))
		if err != nil {
			log.Printf("leaderboard cache read failed for quiz set %s: %v", quizSetID, err)
		} else if total > 0 {
			return entries, paginate(page, limit, total), nil
		}
	}

	entries, total, err := s.store.Leaderboard(ctx, quizSetID, offset, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return entries, paginate(page, limit, total), nil
}

func paginate(page, limit int, total int64) models.Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return models.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
