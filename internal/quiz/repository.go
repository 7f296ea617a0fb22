package quiz

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quizhub/internal/apperr"
	"quizhub/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateQuizSet(ctx context.Context, quizSet *models.QuizSet) error {
	if err := r.db.WithContext(ctx).Create(quizSet).Error; err != nil {
		return apperr.Internal("failed to create quiz set", err)
	}
	return nil
}

func (r *Repository) QuizSetByID(ctx context.Context, quizSetID string, withQuestions bool) (*models.QuizSet, error) {
	query := r.db.WithContext(ctx)
	if withQuestions {
		query = query.Preload("Questions")
	}

	var quizSet models.QuizSet
	err := query.First(&quizSet, "id = ?", quizSetID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("quiz set not found with id: %s", quizSetID)
		}
		return nil, apperr.Internal("failed to load quiz set", err)
	}
	return &quizSet, nil
}

func (r *Repository) SaveQuizSet(ctx context.Context, quizSet *models.QuizSet) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(quizSet).Error; err != nil {
		return apperr.Internal("failed to update quiz set", err)
	}
	return nil
}

// DeleteQuizSet removes the quiz set and its owned questions and ratings.
// Attempts reference the quiz set but are append-only audit records and
// stay behind.
func (r *Repository) DeleteQuizSet(ctx context.Context, quizSetID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_set_id = ?", quizSetID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_set_id = ?", quizSetID).Delete(&models.QuizSetRating{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.QuizSet{}, "id = ?", quizSetID).Error
	})
	if err != nil {
		return apperr.Internal("failed to delete quiz set", err)
	}
	return nil
}

func (r *Repository) ListPublished(ctx context.Context, search string) ([]models.QuizSet, error) {
	query := r.db.WithContext(ctx).
		Preload("Questions").
		Where("status = ?", models.StatusPublished)
	if search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	var quizSets []models.QuizSet
	if err := query.Order("created_at desc").Find(&quizSets).Error; err != nil {
		return nil, apperr.Internal("failed to list quiz sets", err)
	}
	return quizSets, nil
}

func (r *Repository) ListByOwner(ctx context.Context, userID string) ([]models.QuizSet, error) {
	var quizSets []models.QuizSet
	err := r.db.WithContext(ctx).
		Preload("Questions").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&quizSets).Error
	if err != nil {
		return nil, apperr.Internal("failed to list quiz sets for owner", err)
	}
	return quizSets, nil
}

func (r *Repository) CreateQuestion(ctx context.Context, question *models.Question) error {
	if err := r.db.WithContext(ctx).Create(question).Error; err != nil {
		return apperr.Internal("failed to create question", err)
	}
	return nil
}

func (r *Repository) CreateQuestions(ctx context.Context, questions []models.Question) error {
	if err := r.db.WithContext(ctx).Create(&questions).Error; err != nil {
		return apperr.Internal("failed to create questions", err)
	}
	return nil
}

func (r *Repository) QuestionByID(ctx context.Context, questionID string) (*models.Question, error) {
	var question models.Question
	err := r.db.WithContext(ctx).First(&question, "id = ?", questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("question not found with id: %s", questionID)
		}
		return nil, apperr.Internal("failed to load question", err)
	}
	return &question, nil
}

func (r *Repository) SaveQuestion(ctx context.Context, question *models.Question) error {
	if err := r.db.WithContext(ctx).Save(question).Error; err != nil {
		return apperr.Internal("failed to update question", err)
	}
	return nil
}

func (r *Repository) DeleteQuestion(ctx context.Context, questionID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Question{}, "id = ?", questionID).Error; err != nil {
		return apperr.Internal("failed to delete question", err)
	}
	return nil
}

// UpsertRating keeps one rating per (user, quiz set), replacing the value
// on re-rate.
func (r *Repository) UpsertRating(ctx context.Context, rating *models.QuizSetRating) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "quiz_set_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).
		Create(rating).Error
	if err != nil {
		return apperr.Internal("failed to save rating", err)
	}
	return nil
}
