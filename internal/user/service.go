package user

import (
	"context"

	"quizhub/internal/apperr"
	"quizhub/internal/models"
)

// Store is the persistence port for per-user reads.
type Store interface {
	UserByID(ctx context.Context, userID string) (*models.User, error)
	AttemptsByUser(ctx context.Context, userID string) ([]models.Attempt, error)
	RatingsByUser(ctx context.Context, userID string) ([]models.QuizSetRating, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.store.UserByID(ctx, userID)
}

// Attempts returns the user's scored history with quiz-set summaries.
func (s *Service) Attempts(ctx context.Context, userID string) ([]models.AttemptDTO, error) {
	if _, err := s.store.UserByID(ctx, userID); err != nil {
		return nil, err
	}

	attempts, err := s.store.AttemptsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	dtos := make([]models.AttemptDTO, 0, len(attempts))
	for _, a := range attempts {
		dtos = append(dtos, a.ToDTO())
	}
	return dtos, nil
}

func (s *Service) Ratings(ctx context.Context, userID string) ([]models.QuizSetRating, error) {
	if _, err := s.store.UserByID(ctx, userID); err != nil {
		return nil, err
	}

	ratings, err := s.store.RatingsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, apperr.NotFound("no ratings found for user: %s", userID)
	}
	return ratings, nil
}
