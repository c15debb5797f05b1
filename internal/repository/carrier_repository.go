package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/domain"
	"gorm.io/gorm"
)

type CarrierRepository struct {
	db *gorm.DB
}

func NewCarrierRepository(db *gorm.DB) *CarrierRepository {
	return &CarrierRepository{db: db}
}

func (r *CarrierRepository) Create(ctx context.Context, carrier *domain.Carrier) error {
	return r.db.WithContext(ctx).Create(carrier).Error
}

func (r *CarrierRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Carrier, error) {
	var carrier domain.Carrier
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&carrier).Error
	if err != nil {
		return nil, err
	}
	return &carrier, nil
}

func (r *CarrierRepository) GetByName(ctx context.Context, name string) (*domain.Carrier, error) {
	var carrier domain.Carrier
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&carrier).Error
	if err != nil {
		return nil, err
	}
	return &carrier, nil
}

func (r *CarrierRepository) Update(ctx context.Context, carrier *domain.Carrier) error {
	return r.db.WithContext(ctx).Save(carrier).Error
}

func (r *CarrierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Carrier{}, "id = ?", id).Error
}

// List returns carriers ordered by name. When activeOnly is set, inactive
// carriers are excluded.
func (r *CarrierRepository) List(ctx context.Context, activeOnly bool) ([]domain.Carrier, error) {
	var carriers []domain.Carrier
	query := r.db.WithContext(ctx).Model(&domain.Carrier{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("name ASC").Find(&carriers).Error
	return carriers, err
}

// ListByModality returns active carriers serving the given loading modality
func (r *CarrierRepository) ListByModality(ctx context.Context, modality string) ([]domain.Carrier, error) {
	carriers, err := r.List(ctx, true)
	if err != nil {
		return nil, err
	}
	// Modalities live in a jsonb column, so the match happens here
	filtered := carriers[:0]
	for _, c := range carriers {
		if c.HasModality(domain.CarrierModality(modality)) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}
