package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/auth"
	"github.com/logfrete/freight-api/internal/domain"
	"github.com/logfrete/freight-api/internal/mailer"
	"github.com/logfrete/freight-api/internal/mapper"
	"github.com/logfrete/freight-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotificationNotFound is returned when a notification is not found
var ErrNotificationNotFound = errors.New("notification not found")

// ErrNotificationNotOwned is returned when trying to access a notification owned by another user
var ErrNotificationNotOwned = errors.New("notification does not belong to current user")

// ErrUserContextRequired is returned when user context is not available
var ErrUserContextRequired = errors.New("user context required")

// NotificationService creates and serves in-app notifications and fans the
// same events out over email. Email delivery is best-effort and never blocks
// or fails the calling workflow.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	mail             mailer.Mailer
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService instance
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	mail mailer.Mailer,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		mail:             mail,
		logger:           logger,
	}
}

// NotifyStaff creates an in-app notification for every active staff user and
// emails them the same message
func (s *NotificationService) NotifyStaff(
	ctx context.Context,
	notificationType domain.NotificationType,
	title string,
	message string,
	entityID *uuid.UUID,
) {
	staff, err := s.userRepo.ListStaff(ctx)
	if err != nil {
		s.logger.Warn("failed to list staff users for notification", zap.Error(err))
		return
	}
	s.notifyUsers(ctx, staff, notificationType, title, message, entityID)
}

// NotifyCarrier notifies the users bound to the given carrier
func (s *NotificationService) NotifyCarrier(
	ctx context.Context,
	carrierName string,
	notificationType domain.NotificationType,
	title string,
	message string,
	entityID *uuid.UUID,
) {
	users, err := s.userRepo.ListByCarrier(ctx, carrierName)
	if err != nil {
		s.logger.Warn("failed to list carrier users for notification",
			zap.String("carrier", carrierName),
			zap.Error(err),
		)
		return
	}
	s.notifyUsers(ctx, users, notificationType, title, message, entityID)
}

func (s *NotificationService) notifyUsers(
	ctx context.Context,
	users []domain.User,
	notificationType domain.NotificationType,
	title string,
	message string,
	entityID *uuid.UUID,
) {
	recipients := make([]string, 0, len(users))

	for _, user := range users {
		notification := &domain.Notification{
			UserID:     user.ID,
			Type:       string(notificationType),
			Title:      title,
			Message:    message,
			EntityType: "freight_map",
			EntityID:   entityID,
			Read:       false,
		}
		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			s.logger.Warn("failed to create notification for user",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if user.Email != "" {
			recipients = append(recipients, user.Email)
		}
	}

	if len(recipients) > 0 {
		body := fmt.Sprintf("<p>%s</p>", message)
		go func() {
			if err := s.mail.Send(recipients, title, body); err != nil {
				s.logger.Warn("failed to send notification email",
					zap.String("subject", title),
					zap.Error(err),
				)
			}
		}()
	}

	s.logger.Info("notifications created",
		zap.Int("count", len(users)),
		zap.String("type", string(notificationType)),
	)
}

// GetForCurrentUser returns notifications for the current user with pagination
func (s *NotificationService) GetForCurrentUser(
	ctx context.Context,
	page int,
	pageSize int,
	unreadOnly bool,
) (*domain.PaginatedResponse, error) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	// Clamp page size
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	notifications, total, err := s.notificationRepo.ListByUser(ctx, actor.UserID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	dtos := make([]domain.NotificationDTO, len(notifications))
	for i, notification := range notifications {
		dtos[i] = mapper.ToNotificationDTO(&notification)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// MarkAsRead marks a notification as read
func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID uuid.UUID) error {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUserContextRequired
	}

	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.UserID != actor.UserID {
		return ErrNotificationNotOwned
	}

	if notification.Read {
		return nil
	}

	if err := s.notificationRepo.MarkAsRead(ctx, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	return nil
}

// MarkAllAsRead marks all of the current user's notifications as read
func (s *NotificationService) MarkAllAsRead(ctx context.Context) error {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUserContextRequired
	}

	if err := s.notificationRepo.MarkAllAsRead(ctx, actor.UserID); err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	return nil
}

// GetUnreadCount returns the count of unread notifications for the current user
func (s *NotificationService) GetUnreadCount(ctx context.Context) (*domain.UnreadCountDTO, error) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	count, err := s.notificationRepo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &domain.UnreadCountDTO{Count: count}, nil
}
