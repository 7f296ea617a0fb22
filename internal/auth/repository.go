package auth

import (
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

func (r *Repository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found with email: %s", email)
		}
		return nil, apperr.Internal("failed to look up user", err)
	}
	return &user, nil
}

func (r *Repository) CreateUser(user *models.User) error {
	err := r.db.Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("email already registered: %s", user.Email)
		}
		return apperr.Internal("failed to create user", err)
	}
	return nil
}
