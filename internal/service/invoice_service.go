package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/auth"
	"github.com/logfrete/freight-api/internal/domain"
	"github.com/logfrete/freight-api/internal/repository"
	"github.com/logfrete/freight-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InvoiceService attaches invoice documents to contracted freights. Files go
// to blob or local storage; the freight map row keeps an ordered list of
// attachment records.
type InvoiceService struct {
	freightMapRepo *repository.FreightMapRepository
	store          storage.Storage
	publicBaseURL  string
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService instance
func NewInvoiceService(
	freightMapRepo *repository.FreightMapRepository,
	store storage.Storage,
	publicBaseURL string,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		freightMapRepo: freightMapRepo,
		store:          store,
		publicBaseURL:  publicBaseURL,
		logger:         logger,
	}
}

// Attach uploads an invoice document and appends it to the freight map's
// attachment list. Only contracted freights take invoices.
func (s *InvoiceService) Attach(ctx context.Context, mapID uuid.UUID, filename, contentType string, data io.Reader) (*domain.InvoiceAttachment, error) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	m, err := s.freightMapRepo.GetByID(ctx, mapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMapNotFound
		}
		return nil, fmt.Errorf("failed to get freight map: %w", err)
	}

	if !actor.CanActOn(m) {
		return nil, ErrPermissionDenied
	}
	if m.Status != domain.FreightStatusContracted {
		return nil, ErrMapNotContracted
	}

	storagePath, size, err := s.store.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload invoice: %w", err)
	}

	attachment := domain.InvoiceAttachment{
		Name:       filename,
		URL:        fmt.Sprintf("%s/%s", s.publicBaseURL, storagePath),
		UploadedAt: time.Now(),
		UploadedBy: actor.FullName,
	}
	m.InvoiceURLs = append(m.InvoiceURLs, attachment)

	if err := s.freightMapRepo.Update(ctx, m); err != nil {
		// The row update failed; drop the orphaned file
		if delErr := s.store.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to clean up orphaned invoice file",
				zap.String("storage_path", storagePath),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to save invoice attachment: %w", err)
	}

	s.logger.Info("invoice attached",
		zap.String("map_id", m.ID.String()),
		zap.String("map_number", m.MapNumber),
		zap.String("filename", filename),
		zap.Int64("size", size),
	)

	return &attachment, nil
}

// List returns the attachments recorded on a freight map
func (s *InvoiceService) List(ctx context.Context, mapID uuid.UUID) (domain.InvoiceList, error) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	m, err := s.freightMapRepo.GetByID(ctx, mapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMapNotFound
		}
		return nil, fmt.Errorf("failed to get freight map: %w", err)
	}

	if !actor.CanActOn(m) {
		return nil, ErrPermissionDenied
	}

	if m.InvoiceURLs == nil {
		return domain.InvoiceList{}, nil
	}
	return m.InvoiceURLs, nil
}
