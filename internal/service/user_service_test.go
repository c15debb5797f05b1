package service

import (
	"context"
	"testing"
	"time"

	"github.com/logfrete/freight-api/internal/auth"
	"github.com/logfrete/freight-api/internal/domain"
	"github.com/logfrete/freight-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestUserService(db *gorm.DB) *UserService {
	issuer := auth.NewTokenIssuer("test-secret", "freight-api-test", time.Hour)
	return NewUserService(repository.NewUserRepository(db), issuer, zap.NewNop())
}

func TestLoginIssuesToken(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestUserService(db)

	_, err := svc.Create(context.Background(), &domain.CreateUserRequest{
		FullName: "Ana Souza",
		Username: "ana.souza",
		Email:    "ana@logfrete.com.br",
		Password: "senha-segura",
		UserType: domain.UserTypeUser,
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		Username: "ana.souza",
		Password: "senha-segura",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ana.souza", resp.User.Username)
	assert.False(t, resp.RequirePasswordChange)

	// Login by email works too
	resp, err = svc.Login(context.Background(), &domain.LoginRequest{
		Username: "ana@logfrete.com.br",
		Password: "senha-segura",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestUserService(db)

	_, err := svc.Create(context.Background(), &domain.CreateUserRequest{
		FullName: "Ana Souza",
		Username: "ana.souza",
		Email:    "ana@logfrete.com.br",
		Password: "senha-segura",
		UserType: domain.UserTypeUser,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &domain.LoginRequest{Username: "ana.souza", Password: "errada"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &domain.LoginRequest{Username: "ninguem", Password: "senha-segura"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestUserService(db)

	dto, err := svc.Create(context.Background(), &domain.CreateUserRequest{
		FullName: "Ana Souza",
		Username: "ana.souza",
		Email:    "ana@logfrete.com.br",
		Password: "senha-segura",
		UserType: domain.UserTypeUser,
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", dto.ID).Update("active", false).Error)

	_, err = svc.Login(context.Background(), &domain.LoginRequest{Username: "ana.souza", Password: "senha-segura"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateCarrierUserRequiresCarrierName(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestUserService(db)

	_, err := svc.Create(context.Background(), &domain.CreateUserRequest{
		FullName: "Operador Acme",
		Username: "ops.acme",
		Email:    "ops@acme.com.br",
		Password: "senha-segura",
		UserType: domain.UserTypeCarrier,
	})
	assert.ErrorIs(t, err, ErrCarrierNameRequired)

	dto, err := svc.Create(context.Background(), &domain.CreateUserRequest{
		FullName:    "Operador Acme",
		Username:    "ops.acme",
		Email:       "ops@acme.com.br",
		Password:    "senha-segura",
		UserType:    domain.UserTypeCarrier,
		CarrierName: "Acme Transportes",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Transportes", dto.CarrierName)
}

func TestCreateBlanksCarrierNameForStaff(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestUserService(db)

	dto, err := svc.Create(context.Background(), &domain.CreateUserRequest{
		FullName:    "Ana Souza",
		Username:    "ana.souza",
		Email:       "ana@logfrete.com.br",
		Password:    "senha-segura",
		UserType:    domain.UserTypeUser,
		CarrierName: "Acme Transportes",
	})
	require.NoError(t, err)
	assert.Empty(t, dto.CarrierName)
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestUserService(db)

	dto, err := svc.Create(context.Background(), &domain.CreateUserRequest{
		FullName:              "Ana Souza",
		Username:              "ana.souza",
		Email:                 "ana@logfrete.com.br",
		Password:              "senha-inicial",
		UserType:              domain.UserTypeUser,
		RequirePasswordChange: true,
	})
	require.NoError(t, err)

	ctx := auth.WithActor(context.Background(), &auth.Actor{
		UserID:   dto.ID,
		FullName: dto.FullName,
		Role:     dto.UserType,
	})

	err = svc.ChangePassword(ctx, &domain.ChangePasswordRequest{
		CurrentPassword: "errada",
		NewPassword:     "senha-nova-123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, &domain.ChangePasswordRequest{
		CurrentPassword: "senha-inicial",
		NewPassword:     "senha-nova-123",
	}))

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		Username: "ana.souza",
		Password: "senha-nova-123",
	})
	require.NoError(t, err)
	assert.False(t, resp.RequirePasswordChange)
}

func TestDeactivateUserPersistsAndBlocksLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestUserService(db)

	dto, err := svc.Create(context.Background(), &domain.CreateUserRequest{
		FullName: "Ana Souza",
		Username: "ana.souza",
		Email:    "ana@logfrete.com.br",
		Password: "senha-segura",
		UserType: domain.UserTypeUser,
	})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(context.Background(), dto.ID, &domain.UpdateUserRequest{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	var stored domain.User
	require.NoError(t, db.First(&stored, "id = ?", dto.ID).Error)
	assert.False(t, stored.Active)

	_, err = svc.Login(context.Background(), &domain.LoginRequest{
		Username: "ana.souza",
		Password: "senha-segura",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
