package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/logfrete/freight-api/internal/domain"
	"github.com/logfrete/freight-api/internal/repository"
	"go.uber.org/zap"
)

// StaleNegotiationJob reminds staff about freight maps still negotiating
// after their loading date has passed
type StaleNegotiationJob struct {
	freightMapRepo   *repository.FreightMapRepository
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

// NewStaleNegotiationJob creates the stale-negotiation reminder job
func NewStaleNegotiationJob(
	freightMapRepo *repository.FreightMapRepository,
	userRepo *repository.UserRepository,
	notificationRepo *repository.NotificationRepository,
	logger *zap.Logger,
) *StaleNegotiationJob {
	return &StaleNegotiationJob{
		freightMapRepo:   freightMapRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Run scans for stale negotiations and notifies staff users once per run
func (j *StaleNegotiationJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stale, err := j.freightMapRepo.ListNegotiatingPastLoadingDate(ctx)
	if err != nil {
		j.logger.Error("failed to list stale negotiations", zap.Error(err))
		return
	}
	if len(stale) == 0 {
		return
	}

	staff, err := j.userRepo.ListStaff(ctx)
	if err != nil {
		j.logger.Error("failed to list staff users", zap.Error(err))
		return
	}

	for i := range stale {
		m := stale[i]
		message := fmt.Sprintf(
			"O mapa %s (%s → %s) continua em negociação após a data de carregamento.",
			m.MapNumber, m.Origin, m.Destination,
		)
		for _, user := range staff {
			notification := &domain.Notification{
				UserID:     user.ID,
				Type:       string(domain.NotificationTypeNegotiationStale),
				Title:      fmt.Sprintf("Negociação pendente: mapa %s", m.MapNumber),
				Message:    message,
				EntityType: "freight_map",
				EntityID:   &m.ID,
			}
			if err := j.notificationRepo.Create(ctx, notification); err != nil {
				j.logger.Warn("failed to create stale-negotiation notification",
					zap.String("user_id", user.ID.String()),
					zap.Error(err),
				)
			}
		}
	}

	j.logger.Info("stale negotiation scan completed",
		zap.Int("stale_maps", len(stale)),
		zap.Int("staff_notified", len(staff)),
	)
}
