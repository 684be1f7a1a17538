package user

import (
	"context"
	"go-garage/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByUID(ctx context.Context, userUID string) (*User, error)
	FindActiveByUID(ctx context.Context, userUID string) (*User, error)
	ExistsByLoginID(ctx context.Context, loginID string) (bool, error)
	ListActiveByGarage(ctx context.Context, garageUID string) ([]User, error)
	Delete(ctx context.Context, userUID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// FindByUID returns gorm.ErrRecordNotFound for identifiers that are not
// UUIDs, so malformed input behaves like a miss instead of a driver error.
func (r *repository) FindByUID(ctx context.Context, userUID string) (*User, error) {
	id, err := uuid.Parse(userUID)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	var u User
	if err := r.db.WithContext(ctx).First(&u, "user_uid = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindActiveByUID(ctx context.Context, userUID string) (*User, error) {
	id, err := uuid.Parse(userUID)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	var u User
	err = r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&u, "user_uid = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) ExistsByLoginID(ctx context.Context, loginID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("login_id = ?", loginID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListActiveByGarage(ctx context.Context, garageUID string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Scopes(tenant.ActiveScope(garageUID)).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

// Delete removes the row. Deleting a row that is already gone is not an error.
func (r *repository) Delete(ctx context.Context, userUID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&User{}, "user_uid = ?", userUID).Error
}
