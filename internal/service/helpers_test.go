package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/auth"
	"github.com/logfrete/freight-api/internal/database"
	"github.com/logfrete/freight-api/internal/domain"
	"github.com/logfrete/freight-api/internal/mailer"
	"github.com/logfrete/freight-api/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive for the
	// whole test
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newTestNotificationService(db *gorm.DB) *NotificationService {
	return NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
		mailer.NoopMailer{},
		zap.NewNop(),
	)
}

func newTestNegotiationService(db *gorm.DB) *NegotiationService {
	return NewNegotiationService(
		repository.NewFreightMapRepository(db),
		newTestNotificationService(db),
		zap.NewNop(),
	)
}

func newTestFreightMapService(db *gorm.DB) *FreightMapService {
	return NewFreightMapService(
		repository.NewFreightMapRepository(db),
		repository.NewCarrierRepository(db),
		nil,
		zap.NewNop(),
	)
}

func staffContext() context.Context {
	return auth.WithActor(context.Background(), &auth.Actor{
		UserID:   uuid.New(),
		FullName: "Ana Souza",
		Email:    "ana@logfrete.com.br",
		Role:     domain.UserTypeUser,
	})
}

func adminContext() context.Context {
	return auth.WithActor(context.Background(), &auth.Actor{
		UserID:   uuid.New(),
		FullName: "Carlos Lima",
		Email:    "carlos@logfrete.com.br",
		Role:     domain.UserTypeAdmin,
	})
}

func carrierContext(carrierName string) context.Context {
	return auth.WithActor(context.Background(), &auth.Actor{
		UserID:      uuid.New(),
		FullName:    "Operador " + carrierName,
		Email:       "ops@transportadora.com.br",
		Role:        domain.UserTypeCarrier,
		CarrierName: carrierName,
	})
}

func seedFreightMap(t *testing.T, db *gorm.DB, mapNumber, carrier string, mapValue float64, createdAt time.Time) *domain.FreightMap {
	t.Helper()

	m := &domain.FreightMap{
		MapNumber:        mapNumber,
		Origin:           "Uberlândia/MG",
		Destination:      "Santos/SP",
		TotalKm:          780,
		Weight:           32.5,
		TruckType:        "Carreta",
		LoadingMode:      domain.LoadingModePaletizados,
		LoadingDate:      time.Now().AddDate(0, 0, 7),
		MapValue:         mapValue,
		SelectedCarrier:  carrier,
		CarrierProposals: domain.CarrierProposalMap{},
		Status:           domain.FreightStatusNegotiating,
		EditObservations: domain.EditObservationList{},
		InvoiceURLs:      domain.InvoiceList{},
	}
	m.CreatedAt = createdAt
	m.UpdatedAt = createdAt
	require.NoError(t, db.Create(m).Error)
	return m
}

func seedCarrier(t *testing.T, db *gorm.DB, name string, active bool) *domain.Carrier {
	t.Helper()

	c := &domain.Carrier{
		Name:       name,
		Modalities: []string{"paletizados"},
		Active:     active,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func reloadFreightMap(t *testing.T, db *gorm.DB, id uuid.UUID) *domain.FreightMap {
	t.Helper()

	var m domain.FreightMap
	require.NoError(t, db.Where("id = ?", id).First(&m).Error)
	return &m
}
