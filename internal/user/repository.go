package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"quizhub/internal/apperr"
	"quizhub/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) UserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found with id: %s", userID)
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return &user, nil
}

func (r *Repository) AttemptsByUser(ctx context.Context, userID string) ([]models.Attempt, error) {
	var attempts []models.Attempt
	err := r.db.WithContext(ctx).
		Preload("QuizSet").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&attempts).Error
	if err != nil {
		return nil, apperr.Internal("failed to list attempts", err)
	}
	return attempts, nil
}

func (r *Repository) RatingsByUser(ctx context.Context, userID string) ([]models.QuizSetRating, error) {
	var ratings []models.QuizSetRating
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&ratings).Error
	if err != nil {
		return nil, apperr.Internal("failed to list ratings", err)
	}
	return ratings, nil
}
