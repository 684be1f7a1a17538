package garageauth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=garageauth_repo.go -destination=mock/garageauth_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, ga *GarageAuth) error
	ExistsForUser(ctx context.Context, userUID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ga *GarageAuth) error {
	return r.db.WithContext(ctx).Create(ga).Error
}

func (r *repository) ExistsForUser(ctx context.Context, userUID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&GarageAuth{}).
		Where("user_uid = ?", userUID).
		Count(&count).Error
	return count > 0, err
}
