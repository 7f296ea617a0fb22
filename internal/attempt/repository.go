package attempt

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

func (r *Repository) QuizSetWithQuestions(ctx context.Context, quizSetID string) (*models.QuizSet, error) {
	var quizSet models.QuizSet
	err := r.db.WithContext(ctx).
		Preload("Questions").
		First(&quizSet, "id = ?", quizSetID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("quiz set not found with id: %s", quizSetID)
		}
		return nil, apperr.Internal("failed to load quiz set", err)
	}
	return &quizSet, nil
}

func (r *Repository) QuizSetExists(ctx context.Context, quizSetID string) error {
	var quizSet models.QuizSet
	err := r.db.WithContext(ctx).
		Select("id").
		First(&quizSet, "id = ?", quizSetID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("quiz set not found with id: %s", quizSetID)
		}
		return apperr.Internal("failed to look up quiz set", err)
	}
	return nil
}

func (r *Repository) HasAttempt(ctx context.Context, userID, quizSetID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Attempt{}).
		Where("user_id = ? AND quiz_set_id = ?", userID, quizSetID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Internal("failed to check for existing attempt", err)
	}
	return count > 0, nil
}

// CreateAttempt inserts the attempt as a single statement. The unique
// index on (user_id, quiz_set_id) catches concurrent duplicates that the
// pre-check raced past; the violation surfaces as a conflict.
func (r *Repository) CreateAttempt(ctx context.Context, attempt *models.Attempt) error {
	err := r.db.WithContext(ctx).Create(attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("quiz already attempted")
		}
		return apperr.Internal("failed to record attempt", err)
	}
	return nil
}

func (r *Repository) AttemptsByQuizSet(ctx context.Context, quizSetID string, offset, limit int) ([]models.Attempt, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Attempt{}).
		Where("quiz_set_id = ?", quizSetID).
		Count(&total).Error
	if err != nil {
		return nil, 0, apperr.Internal("failed to count attempts", err)
	}

	var attempts []models.Attempt
	err = r.db.WithContext(ctx).
		Preload("User").
		Where("quiz_set_id = ?", quizSetID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&attempts).Error
	if err != nil {
		return nil, 0, apperr.Internal("failed to list attempts", err)
	}
	return attempts, total, nil
}

func (r *Repository) Leaderboard(ctx context.Context, quizSetID string, offset, limit int) ([]models.LeaderboardEntry, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Attempt{}).
		Where("quiz_set_id = ?", quizSetID).
		Count(&total).Error
	if err != nil {
		return nil, 0, apperr.Internal("failed to count leaderboard entries", err)
	}

	var entries []models.LeaderboardEntry
	err = r.db.WithContext(ctx).Raw(`
		SELECT a.user_id, u.full_name, a.score, a.percentage
		FROM attempts a
		JOIN users u ON u.id = a.user_id
		WHERE a.quiz_set_id = ?
		ORDER BY a.percentage DESC, a.created_at ASC
		OFFSET ? LIMIT ?
	`, quizSetID, offset, limit).Scan(&entries).Error
	if err != nil {
		return nil, 0, apperr.Internal("failed to load leaderboard", err)
	}
	return entries, total, nil
}

func (r *Repository) UserSummary(ctx context.Context, userID string) (*models.UserSummary, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found with id: %s", userID)
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	summary := user.Summary()
	return &summary, nil
}
