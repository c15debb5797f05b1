package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/domain"
	"github.com/logfrete/freight-api/internal/mapper"
	"github.com/logfrete/freight-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TruckTypeService handles truck type reference data
type TruckTypeService struct {
	truckTypeRepo *repository.TruckTypeRepository
	logger        *zap.Logger
}

// NewTruckTypeService creates a new TruckTypeService instance
func NewTruckTypeService(truckTypeRepo *repository.TruckTypeRepository, logger *zap.Logger) *TruckTypeService {
	return &TruckTypeService{
		truckTypeRepo: truckTypeRepo,
		logger:        logger,
	}
}

// Create creates a truck type
func (s *TruckTypeService) Create(ctx context.Context, req *domain.CreateTruckTypeRequest) (*domain.TruckTypeDTO, error) {
	truckType := &domain.TruckType{
		Name:     req.Name,
		Capacity: req.Capacity,
		BaseRate: req.BaseRate,
		Modality: req.Modality,
	}

	if err := s.truckTypeRepo.Create(ctx, truckType); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create truck type: %w", err)
	}

	dto := mapper.ToTruckTypeDTO(truckType)
	return &dto, nil
}

// GetByID returns a truck type
func (s *TruckTypeService) GetByID(ctx context.Context, id uuid.UUID) (*domain.TruckTypeDTO, error) {
	truckType, err := s.truckTypeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTruckTypeNotFound
		}
		return nil, fmt.Errorf("failed to get truck type: %w", err)
	}

	dto := mapper.ToTruckTypeDTO(truckType)
	return &dto, nil
}

// List returns all truck types, optionally filtered by modality
func (s *TruckTypeService) List(ctx context.Context, modality string) ([]domain.TruckTypeDTO, error) {
	truckTypes, err := s.truckTypeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list truck types: %w", err)
	}

	dtos := make([]domain.TruckTypeDTO, 0, len(truckTypes))
	for i := range truckTypes {
		if modality != "" && truckTypes[i].Modality != modality {
			continue
		}
		dtos = append(dtos, mapper.ToTruckTypeDTO(&truckTypes[i]))
	}
	return dtos, nil
}

// Update updates a truck type
func (s *TruckTypeService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateTruckTypeRequest) (*domain.TruckTypeDTO, error) {
	truckType, err := s.truckTypeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTruckTypeNotFound
		}
		return nil, fmt.Errorf("failed to get truck type: %w", err)
	}

	if req.Name != nil {
		truckType.Name = *req.Name
	}
	if req.Capacity != nil {
		truckType.Capacity = *req.Capacity
	}
	if req.BaseRate != nil {
		truckType.BaseRate = *req.BaseRate
	}
	if req.Modality != nil {
		truckType.Modality = *req.Modality
	}

	if err := s.truckTypeRepo.Update(ctx, truckType); err != nil {
		return nil, fmt.Errorf("failed to update truck type: %w", err)
	}

	dto := mapper.ToTruckTypeDTO(truckType)
	return &dto, nil
}

// Delete removes a truck type
func (s *TruckTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.truckTypeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTruckTypeNotFound
		}
		return fmt.Errorf("failed to get truck type: %w", err)
	}

	if err := s.truckTypeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete truck type: %w", err)
	}

	return nil
}
