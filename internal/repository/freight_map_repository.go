package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/domain"
	"gorm.io/gorm"
)

type FreightMapRepository struct {
	db *gorm.DB
}

func NewFreightMapRepository(db *gorm.DB) *FreightMapRepository {
	return &FreightMapRepository{db: db}
}

// FreightMapFilter narrows List results
type FreightMapFilter struct {
	Status    *domain.FreightStatus
	Carrier   string
	MapNumber string
	Search    string
}

func (r *FreightMapRepository) Create(ctx context.Context, m *domain.FreightMap) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// CreateBatch inserts all rows of one map number group in a single transaction
func (r *FreightMapRepository) CreateBatch(ctx context.Context, maps []*domain.FreightMap) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range maps {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *FreightMapRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FreightMap, error) {
	var m domain.FreightMap
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *FreightMapRepository) Update(ctx context.Context, m *domain.FreightMap) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *FreightMapRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.FreightMap{}, "id = ?", id).Error
}

// ListByMapNumber returns every row of a map number group, oldest first.
// The stable order makes the earliest proposal win lowest-bid ties.
func (r *FreightMapRepository) ListByMapNumber(ctx context.Context, mapNumber string) ([]domain.FreightMap, error) {
	var maps []domain.FreightMap
	err := r.db.WithContext(ctx).
		Where("map_number = ?", mapNumber).
		Order("created_at ASC").
		Find(&maps).Error
	return maps, err
}

// List returns freight map rows matching the filter, newest first
func (r *FreightMapRepository) List(ctx context.Context, filter FreightMapFilter) ([]domain.FreightMap, error) {
	var maps []domain.FreightMap

	query := r.db.WithContext(ctx).Model(&domain.FreightMap{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Carrier != "" {
		query = query.Where("selected_carrier = ?", filter.Carrier)
	}
	if filter.MapNumber != "" {
		query = query.Where("map_number = ?", filter.MapNumber)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(map_number) LIKE ? OR LOWER(origin) LIKE ? OR LOWER(destination) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	err := query.Order("created_at DESC").Find(&maps).Error
	return maps, err
}

// CountByStatus returns the number of rows in the given status
func (r *FreightMapRepository) CountByStatus(ctx context.Context, status domain.FreightStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FreightMap{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// ListNegotiatingPastLoadingDate returns rows still negotiating whose loading
// date is already behind us. Used by the stale-negotiation reminder job.
func (r *FreightMapRepository) ListNegotiatingPastLoadingDate(ctx context.Context) ([]domain.FreightMap, error) {
	var maps []domain.FreightMap
	err := r.db.WithContext(ctx).
		Where("status = ? AND loading_date < CURRENT_TIMESTAMP", domain.FreightStatusNegotiating).
		Order("loading_date ASC").
		Find(&maps).Error
	return maps, err
}

// Transaction runs fn inside a database transaction
func (r *FreightMapRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
