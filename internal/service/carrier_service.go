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

// CarrierService handles carrier reference data
type CarrierService struct {
	carrierRepo *repository.CarrierRepository
	logger      *zap.Logger
}

// NewCarrierService creates a new CarrierService instance
func NewCarrierService(carrierRepo *repository.CarrierRepository, logger *zap.Logger) *CarrierService {
	return &CarrierService{
		carrierRepo: carrierRepo,
		logger:      logger,
	}
}

// Create creates a carrier
func (s *CarrierService) Create(ctx context.Context, req *domain.CreateCarrierRequest) (*domain.CarrierDTO, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	carrier := &domain.Carrier{
		Name:       req.Name,
		Modalities: req.Modalities,
		Active:     active,
	}

	if err := s.carrierRepo.Create(ctx, carrier); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create carrier: %w", err)
	}

	s.logger.Info("carrier created",
		zap.String("carrier_id", carrier.ID.String()),
		zap.String("name", carrier.Name),
	)

	dto := mapper.ToCarrierDTO(carrier)
	return &dto, nil
}

// GetByID returns a carrier
func (s *CarrierService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CarrierDTO, error) {
	carrier, err := s.carrierRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarrierNotFound
		}
		return nil, fmt.Errorf("failed to get carrier: %w", err)
	}

	dto := mapper.ToCarrierDTO(carrier)
	return &dto, nil
}

// List returns carriers, optionally filtered to a loading modality
func (s *CarrierService) List(ctx context.Context, activeOnly bool, modality string) ([]domain.CarrierDTO, error) {
	var carriers []domain.Carrier
	var err error

	if modality != "" {
		carriers, err = s.carrierRepo.ListByModality(ctx, modality)
	} else {
		carriers, err = s.carrierRepo.List(ctx, activeOnly)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list carriers: %w", err)
	}

	dtos := make([]domain.CarrierDTO, len(carriers))
	for i := range carriers {
		dtos[i] = mapper.ToCarrierDTO(&carriers[i])
	}
	return dtos, nil
}

// Update updates a carrier
func (s *CarrierService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCarrierRequest) (*domain.CarrierDTO, error) {
	carrier, err := s.carrierRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarrierNotFound
		}
		return nil, fmt.Errorf("failed to get carrier: %w", err)
	}

	if req.Name != nil {
		carrier.Name = *req.Name
	}
	if req.Modalities != nil {
		carrier.Modalities = req.Modalities
	}
	if req.Active != nil {
		carrier.Active = *req.Active
	}

	if err := s.carrierRepo.Update(ctx, carrier); err != nil {
		return nil, fmt.Errorf("failed to update carrier: %w", err)
	}

	s.logger.Info("carrier updated",
		zap.String("carrier_id", carrier.ID.String()),
		zap.String("name", carrier.Name),
	)

	dto := mapper.ToCarrierDTO(carrier)
	return &dto, nil
}

// Delete removes a carrier
func (s *CarrierService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.carrierRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCarrierNotFound
		}
		return fmt.Errorf("failed to get carrier: %w", err)
	}

	if err := s.carrierRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete carrier: %w", err)
	}

	return nil
}
