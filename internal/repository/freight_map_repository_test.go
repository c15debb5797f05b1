package repository

import (
	"context"
	"testing"
	"time"

	"github.com/logfrete/freight-api/internal/database"
	"github.com/logfrete/freight-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
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

func seedRow(t *testing.T, db *gorm.DB, mapNumber, carrier string, status domain.FreightStatus, createdAt time.Time) *domain.FreightMap {
	t.Helper()

	m := &domain.FreightMap{
		MapNumber:       mapNumber,
		Origin:          "Uberlândia/MG",
		Destination:     "Santos/SP",
		TotalKm:         780,
		Weight:          32.5,
		LoadingMode:     domain.LoadingModePaletizados,
		LoadingDate:     time.Now().AddDate(0, 0, 7),
		MapValue:        1000,
		SelectedCarrier: carrier,
		Status:          status,
	}
	m.CreatedAt = createdAt
	m.UpdatedAt = createdAt
	require.NoError(t, db.Create(m).Error)
	return m
}

func TestListByMapNumberOrdersOldestFirst(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewFreightMapRepository(db)

	base := time.Now().Add(-time.Hour)
	seedRow(t, db, "MAP-1", "Beta Logística", domain.FreightStatusNegotiating, base.Add(time.Minute))
	seedRow(t, db, "MAP-1", "Acme Transportes", domain.FreightStatusNegotiating, base)
	seedRow(t, db, "MAP-2", "Gama Cargas", domain.FreightStatusNegotiating, base)

	group, err := repo.ListByMapNumber(context.Background(), "MAP-1")
	require.NoError(t, err)
	require.Len(t, group, 2)
	assert.Equal(t, "Acme Transportes", group[0].SelectedCarrier)
	assert.Equal(t, "Beta Logística", group[1].SelectedCarrier)
}

func TestListFilters(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewFreightMapRepository(db)

	base := time.Now().Add(-time.Hour)
	seedRow(t, db, "MAP-1", "Acme Transportes", domain.FreightStatusNegotiating, base)
	seedRow(t, db, "MAP-1", "Beta Logística", domain.FreightStatusRejected, base.Add(time.Minute))
	seedRow(t, db, "MAP-2", "Acme Transportes", domain.FreightStatusContracted, base.Add(2*time.Minute))

	status := domain.FreightStatusNegotiating
	rows, err := repo.List(context.Background(), FreightMapFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme Transportes", rows[0].SelectedCarrier)

	rows, err = repo.List(context.Background(), FreightMapFilter{Carrier: "Acme Transportes"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = repo.List(context.Background(), FreightMapFilter{MapNumber: "MAP-2"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	// Search is case insensitive over map number, origin and destination
	rows, err = repo.List(context.Background(), FreightMapFilter{Search: "santos"})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = repo.List(context.Background(), FreightMapFilter{Search: "map-1"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestListOrdersNewestFirst(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewFreightMapRepository(db)

	base := time.Now().Add(-time.Hour)
	seedRow(t, db, "MAP-1", "Acme Transportes", domain.FreightStatusNegotiating, base)
	seedRow(t, db, "MAP-2", "Beta Logística", domain.FreightStatusNegotiating, base.Add(time.Minute))

	rows, err := repo.List(context.Background(), FreightMapFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "MAP-2", rows[0].MapNumber)
}

func TestCountByStatus(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewFreightMapRepository(db)

	base := time.Now()
	seedRow(t, db, "MAP-1", "Acme Transportes", domain.FreightStatusNegotiating, base)
	seedRow(t, db, "MAP-2", "Beta Logística", domain.FreightStatusNegotiating, base)
	seedRow(t, db, "MAP-3", "Gama Cargas", domain.FreightStatusContracted, base)

	count, err := repo.CountByStatus(context.Background(), domain.FreightStatusNegotiating)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestListNegotiatingPastLoadingDate(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewFreightMapRepository(db)

	stale := seedRow(t, db, "MAP-1", "Acme Transportes", domain.FreightStatusNegotiating, time.Now())
	require.NoError(t, db.Model(stale).Update("loading_date", time.Now().AddDate(0, 0, -2)).Error)

	fresh := seedRow(t, db, "MAP-2", "Beta Logística", domain.FreightStatusNegotiating, time.Now())
	_ = fresh

	done := seedRow(t, db, "MAP-3", "Gama Cargas", domain.FreightStatusContracted, time.Now())
	require.NoError(t, db.Model(done).Update("loading_date", time.Now().AddDate(0, 0, -2)).Error)

	rows, err := repo.ListNegotiatingPastLoadingDate(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "MAP-1", rows[0].MapNumber)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewFreightMapRepository(db)

	m := seedRow(t, db, "MAP-1", "Acme Transportes", domain.FreightStatusNegotiating, time.Now())

	wantErr := assert.AnError
	err := repo.Transaction(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Model(&domain.FreightMap{}).
			Where("id = ?", m.ID).
			Update("status", domain.FreightStatusContracted).Error; err != nil {
			return err
		}
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	var stored domain.FreightMap
	require.NoError(t, db.Where("id = ?", m.ID).First(&stored).Error)
	assert.Equal(t, domain.FreightStatusNegotiating, stored.Status)
}
