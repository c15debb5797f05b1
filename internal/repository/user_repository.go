package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/domain"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername resolves login identifiers; both username and email work
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id).Error
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).Order("full_name ASC").Find(&users).Error
	return users, err
}

// ListStaff returns active admin and staff users, for notification fan-out
func (r *UserRepository) ListStaff(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("active = ? AND user_type IN ?", true, []domain.UserType{domain.UserTypeAdmin, domain.UserTypeUser}).
		Find(&users).Error
	return users, err
}

// ListByCarrier returns active carrier users bound to the given carrier name
func (r *UserRepository) ListByCarrier(ctx context.Context, carrierName string) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("active = ? AND user_type = ? AND carrier_name = ?", true, domain.UserTypeCarrier, carrierName).
		Find(&users).Error
	return users, err
}
