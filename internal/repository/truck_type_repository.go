package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/domain"
	"gorm.io/gorm"
)

type TruckTypeRepository struct {
	db *gorm.DB
}

func NewTruckTypeRepository(db *gorm.DB) *TruckTypeRepository {
	return &TruckTypeRepository{db: db}
}

func (r *TruckTypeRepository) Create(ctx context.Context, truckType *domain.TruckType) error {
	return r.db.WithContext(ctx).Create(truckType).Error
}

func (r *TruckTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TruckType, error) {
	var truckType domain.TruckType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&truckType).Error
	if err != nil {
		return nil, err
	}
	return &truckType, nil
}

func (r *TruckTypeRepository) Update(ctx context.Context, truckType *domain.TruckType) error {
	return r.db.WithContext(ctx).Save(truckType).Error
}

func (r *TruckTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.TruckType{}, "id = ?", id).Error
}

func (r *TruckTypeRepository) List(ctx context.Context) ([]domain.TruckType, error) {
	var truckTypes []domain.TruckType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&truckTypes).Error
	return truckTypes, err
}
