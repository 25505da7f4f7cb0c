package auth

import (
	"context"

	"gorm.io/gorm"

	"github.com/pukpuklouis/blackliving-backend/pkg/db/models"
)

// Repository looks up dashboard users for authentication.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an admin user repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
