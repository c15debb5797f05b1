package service

import (
	"context"
	"testing"

	"github.com/logfrete/freight-api/internal/domain"
	"github.com/logfrete/freight-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestCarrierService(db *gorm.DB) *CarrierService {
	return NewCarrierService(repository.NewCarrierRepository(db), zap.NewNop())
}

func TestCreateInactiveCarrierStaysInactive(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestCarrierService(db)

	inactive := false
	dto, err := svc.Create(context.Background(), &domain.CreateCarrierRequest{
		Name:       "Parada Ltda",
		Modalities: []string{"paletizados"},
		Active:     &inactive,
	})
	require.NoError(t, err)
	assert.False(t, dto.Active)

	// The insert must not be silently flipped back to active
	var stored domain.Carrier
	require.NoError(t, db.First(&stored, "id = ?", dto.ID).Error)
	assert.False(t, stored.Active)
}

func TestDeactivateCarrierPersists(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestCarrierService(db)

	c := seedCarrier(t, db, "Acme Transportes", true)

	inactive := false
	dto, err := svc.Update(context.Background(), c.ID, &domain.UpdateCarrierRequest{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, dto.Active)

	var stored domain.Carrier
	require.NoError(t, db.First(&stored, "id = ?", c.ID).Error)
	assert.False(t, stored.Active)
}
