package jobs

import (
	"testing"
	"time"

	"github.com/logfrete/freight-api/internal/database"
	"github.com/logfrete/freight-api/internal/domain"
	"github.com/logfrete/freight-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupJobTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newTestJob(db *gorm.DB) *StaleNegotiationJob {
	return NewStaleNegotiationJob(
		repository.NewFreightMapRepository(db),
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
		zap.NewNop(),
	)
}

func TestStaleNegotiationJobNotifiesStaff(t *testing.T) {
	db := setupJobTestDB(t)

	staff := &domain.User{
		FullName:     "Ana Souza",
		Username:     "ana",
		Email:        "ana@logfrete.com.br",
		PasswordHash: "x",
		UserType:     domain.UserTypeUser,
		Active:       true,
	}
	require.NoError(t, db.Create(staff).Error)

	carrier := &domain.User{
		FullName:     "Operador Acme",
		Username:     "ops.acme",
		Email:        "ops@acme.com.br",
		PasswordHash: "x",
		UserType:     domain.UserTypeCarrier,
		CarrierName:  "Acme Transportes",
		Active:       true,
	}
	require.NoError(t, db.Create(carrier).Error)

	stale := &domain.FreightMap{
		MapNumber:       "MAP-900",
		Origin:          "Uberlândia/MG",
		Destination:     "Santos/SP",
		TotalKm:         780,
		Weight:          32.5,
		LoadingMode:     domain.LoadingModePaletizados,
		LoadingDate:     time.Now().AddDate(0, 0, -2),
		MapValue:        1000,
		SelectedCarrier: "Acme Transportes",
		Status:          domain.FreightStatusNegotiating,
	}
	require.NoError(t, db.Create(stale).Error)

	fresh := &domain.FreightMap{
		MapNumber:       "MAP-901",
		Origin:          "Uberlândia/MG",
		Destination:     "Santos/SP",
		TotalKm:         780,
		Weight:          32.5,
		LoadingMode:     domain.LoadingModePaletizados,
		LoadingDate:     time.Now().AddDate(0, 0, 7),
		MapValue:        1000,
		SelectedCarrier: "Beta Logística",
		Status:          domain.FreightStatusNegotiating,
	}
	require.NoError(t, db.Create(fresh).Error)

	newTestJob(db).Run()

	var notifications []domain.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, staff.ID, notifications[0].UserID)
	assert.Equal(t, string(domain.NotificationTypeNegotiationStale), notifications[0].Type)
	assert.Contains(t, notifications[0].Title, "MAP-900")
}

func TestStaleNegotiationJobNoStaleMaps(t *testing.T) {
	db := setupJobTestDB(t)

	newTestJob(db).Run()

	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}
