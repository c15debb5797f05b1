package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/auth"
	"github.com/logfrete/freight-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, username string, userType domain.UserType, carrierName string, active bool) *domain.User {
	t.Helper()

	u := &domain.User{
		FullName:     "User " + username,
		Username:     username,
		Email:        username + "@logfrete.com.br",
		PasswordHash: "x",
		UserType:     userType,
		CarrierName:  carrierName,
		Active:       active,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func userContext(u *domain.User) context.Context {
	return auth.WithActor(context.Background(), &auth.Actor{
		UserID:      u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		Role:        u.UserType,
		CarrierName: u.CarrierName,
	})
}

func TestNotifyStaffReachesActiveStaffOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotificationService(db)

	staff := seedUser(t, db, "ana", domain.UserTypeUser, "", true)
	admin := seedUser(t, db, "carlos", domain.UserTypeAdmin, "", true)
	seedUser(t, db, "inativo", domain.UserTypeUser, "", false)
	seedUser(t, db, "ops.acme", domain.UserTypeCarrier, "Acme Transportes", true)

	entityID := uuid.New()
	svc.NotifyStaff(context.Background(), domain.NotificationTypeProposalReceived,
		"Nova proposta", "Acme propôs R$ 900,00", &entityID)

	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	for _, u := range []*domain.User{staff, admin} {
		var n domain.Notification
		require.NoError(t, db.Where("user_id = ?", u.ID).First(&n).Error)
		assert.Equal(t, "Nova proposta", n.Title)
		assert.Equal(t, string(domain.NotificationTypeProposalReceived), n.Type)
		assert.False(t, n.Read)
		require.NotNil(t, n.EntityID)
		assert.Equal(t, entityID, *n.EntityID)
	}
}

func TestNotifyCarrierReachesBoundUsers(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotificationService(db)

	acme := seedUser(t, db, "ops.acme", domain.UserTypeCarrier, "Acme Transportes", true)
	seedUser(t, db, "ops.beta", domain.UserTypeCarrier, "Beta Logística", true)

	svc.NotifyCarrier(context.Background(), "Acme Transportes",
		domain.NotificationTypeFreightContracted, "Frete contratado", "Mapa MAP-1 contratado", nil)

	var notifications []domain.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, acme.ID, notifications[0].UserID)
}

func TestMarkAsReadEnforcesOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotificationService(db)

	owner := seedUser(t, db, "ana", domain.UserTypeUser, "", true)
	other := seedUser(t, db, "carlos", domain.UserTypeUser, "", true)

	n := &domain.Notification{
		UserID:  owner.ID,
		Type:    string(domain.NotificationTypeProposalReceived),
		Title:   "Nova proposta",
		Message: "mensagem",
	}
	require.NoError(t, db.Create(n).Error)

	err := svc.MarkAsRead(userContext(other), n.ID)
	assert.ErrorIs(t, err, ErrNotificationNotOwned)

	require.NoError(t, svc.MarkAsRead(userContext(owner), n.ID))

	var stored domain.Notification
	require.NoError(t, db.Where("id = ?", n.ID).First(&stored).Error)
	assert.True(t, stored.Read)
	assert.NotNil(t, stored.ReadAt)

	// Marking twice is a no-op
	require.NoError(t, svc.MarkAsRead(userContext(owner), n.ID))
}

func TestUnreadCountAndMarkAllAsRead(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotificationService(db)

	user := seedUser(t, db, "ana", domain.UserTypeUser, "", true)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&domain.Notification{
			UserID:  user.ID,
			Type:    string(domain.NotificationTypeNegotiationStale),
			Title:   "Lembrete",
			Message: "mensagem",
		}).Error)
	}

	ctx := userContext(user)

	count, err := svc.GetUnreadCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count.Count)

	require.NoError(t, svc.MarkAllAsRead(ctx))

	count, err = svc.GetUnreadCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count.Count)
}

func TestGetForCurrentUserPaginates(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotificationService(db)

	user := seedUser(t, db, "ana", domain.UserTypeUser, "", true)
	stranger := seedUser(t, db, "carlos", domain.UserTypeUser, "", true)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&domain.Notification{
			UserID:  user.ID,
			Type:    string(domain.NotificationTypeProposalReceived),
			Title:   "Nova proposta",
			Message: "mensagem",
		}).Error)
	}
	require.NoError(t, db.Create(&domain.Notification{
		UserID:  stranger.ID,
		Type:    string(domain.NotificationTypeProposalReceived),
		Title:   "Alheia",
		Message: "mensagem",
	}).Error)

	resp, err := svc.GetForCurrentUser(userContext(user), 1, 2, false)
	require.NoError(t, err)
	assert.EqualValues(t, 5, resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Len(t, resp.Data.([]domain.NotificationDTO), 2)
}
