package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/logfrete/freight-api/internal/config"
	"github.com/logfrete/freight-api/internal/domain"
	"github.com/logfrete/freight-api/internal/repository"
	"github.com/logfrete/freight-api/internal/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validCreateRequest(mapNumber string, carriers ...string) *domain.CreateFreightMapRequest {
	return &domain.CreateFreightMapRequest{
		MapNumber:   mapNumber,
		Origin:      "Uberlândia/MG",
		Destination: "Santos/SP",
		TotalKm:     780,
		Weight:      32.5,
		TruckType:   "Carreta",
		LoadingMode: domain.LoadingModePaletizados,
		LoadingDate: time.Now().AddDate(0, 0, 7),
		MapValue:    1000,
		Carriers:    carriers,
	}
}

func TestCreateOneRowPerCarrier(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFreightMapService(db)

	seedCarrier(t, db, "Acme Transportes", true)
	seedCarrier(t, db, "Beta Logística", true)

	dtos, err := svc.Create(staffContext(), validCreateRequest("MAP-600", "Acme Transportes", "Beta Logística"))
	require.NoError(t, err)
	require.Len(t, dtos, 2)

	carriers := []string{dtos[0].SelectedCarrier, dtos[1].SelectedCarrier}
	assert.ElementsMatch(t, []string{"Acme Transportes", "Beta Logística"}, carriers)
	for _, dto := range dtos {
		assert.Equal(t, "MAP-600", dto.MapNumber)
		assert.Equal(t, domain.FreightStatusNegotiating, dto.Status)
		assert.Empty(t, dto.CarrierProposals)
	}

	var count int64
	require.NoError(t, db.Model(&domain.FreightMap{}).Where("map_number = ?", "MAP-600").Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestCreateBackfillsDistanceFromRouting(t *testing.T) {
	db := setupTestDB(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"Ok","routes":[{"distance":780500,"duration":27000}]}`))
	}))
	defer srv.Close()

	routingClient := routing.NewClient(&config.RoutingConfig{
		Enabled: true,
		BaseURL: srv.URL,
		Timeout: 5,
	}, zap.NewNop())
	svc := NewFreightMapService(
		repository.NewFreightMapRepository(db),
		repository.NewCarrierRepository(db),
		routingClient,
		zap.NewNop(),
	)

	seedCarrier(t, db, "Acme Transportes", true)

	req := validCreateRequest("MAP-610", "Acme Transportes")
	req.TotalKm = 0
	dtos, err := svc.Create(staffContext(), req)
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	// 780.5 km from the collaborator, rounded to the nearest whole km
	assert.Equal(t, 781, dtos[0].TotalKm)

	// A manually entered distance is never overridden
	req = validCreateRequest("MAP-611", "Acme Transportes")
	dtos, err = svc.Create(staffContext(), req)
	require.NoError(t, err)
	assert.Equal(t, 780, dtos[0].TotalKm)
}

func TestCreateRejectsUnknownOrInactiveCarrier(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFreightMapService(db)

	seedCarrier(t, db, "Acme Transportes", true)
	seedCarrier(t, db, "Parada Ltda", false)

	_, err := svc.Create(staffContext(), validCreateRequest("MAP-601", "Acme Transportes", "Fantasma"))
	assert.ErrorIs(t, err, ErrCarrierNotFound)

	_, err = svc.Create(staffContext(), validCreateRequest("MAP-601", "Parada Ltda"))
	assert.ErrorIs(t, err, ErrCarrierNotFound)

	// Nothing persisted on either failure
	var count int64
	require.NoError(t, db.Model(&domain.FreightMap{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateIsStaffOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFreightMapService(db)

	seedCarrier(t, db, "Acme Transportes", true)

	_, err := svc.Create(carrierContext("Acme Transportes"), validCreateRequest("MAP-602", "Acme Transportes"))
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestListGroupsOrdersByLatestRow(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFreightMapService(db)

	base := time.Now().Add(-3 * time.Hour)
	seedFreightMap(t, db, "MAP-OLD", "Acme Transportes", 1000, base)
	seedFreightMap(t, db, "MAP-NEW", "Acme Transportes", 1000, base.Add(2*time.Hour))
	// An old group with a fresh row moves to the front
	seedFreightMap(t, db, "MAP-OLD", "Beta Logística", 1000, base.Add(150*time.Minute))

	resp, err := svc.ListGroups(staffContext(), repository.FreightMapFilter{}, 1, 20)
	require.NoError(t, err)

	groups, ok := resp.Data.([]domain.FreightMapGroupDTO)
	require.True(t, ok)
	require.Len(t, groups, 2)
	assert.Equal(t, "MAP-OLD", groups[0].MapNumber)
	assert.Equal(t, "MAP-NEW", groups[1].MapNumber)

	// Rows within a group run oldest first
	require.Len(t, groups[0].Maps, 2)
	assert.Equal(t, "Acme Transportes", groups[0].Maps[0].SelectedCarrier)
	assert.Equal(t, "Beta Logística", groups[0].Maps[1].SelectedCarrier)
}

func TestListGroupsCarrierSeesOnlyOwnRows(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFreightMapService(db)

	base := time.Now().Add(-time.Hour)
	seedFreightMap(t, db, "MAP-610", "Acme Transportes", 1000, base)
	seedFreightMap(t, db, "MAP-610", "Beta Logística", 1000, base.Add(time.Minute))

	resp, err := svc.ListGroups(carrierContext("Beta Logística"), repository.FreightMapFilter{}, 1, 20)
	require.NoError(t, err)

	groups := resp.Data.([]domain.FreightMapGroupDTO)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Maps, 1)
	assert.Equal(t, "Beta Logística", groups[0].Maps[0].SelectedCarrier)
}

func TestListGroupsPagination(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFreightMapService(db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedFreightMap(t, db, "MAP-62"+string(rune('0'+i)), "Acme Transportes", 1000, base.Add(time.Duration(i)*time.Minute))
	}

	resp, err := svc.ListGroups(staffContext(), repository.FreightMapFilter{}, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Len(t, resp.Data.([]domain.FreightMapGroupDTO), 2)

	// A page past the end clamps to the last page
	resp, err = svc.ListGroups(staffContext(), repository.FreightMapFilter{}, 99, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Page)
	assert.Len(t, resp.Data.([]domain.FreightMapGroupDTO), 1)
}

func TestUpdateGuardedFieldRequiresObservation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFreightMapService(db)

	m := seedFreightMap(t, db, "MAP-630", "Acme Transportes", 1000, time.Now())
	newValue := 1200.0

	_, err := svc.Update(staffContext(), m.ID, &domain.UpdateFreightMapRequest{MapValue: &newValue})
	assert.ErrorIs(t, err, ErrObservationRequired)
	assert.Equal(t, 1000.0, reloadFreightMap(t, db, m.ID).MapValue)

	dto, err := svc.Update(staffContext(), m.ID, &domain.UpdateFreightMapRequest{
		MapValue:    &newValue,
		Observation: "Reajuste de tabela do cliente",
	})
	require.NoError(t, err)
	assert.Equal(t, 1200.0, dto.MapValue)
	require.Len(t, dto.EditObservations, 1)
	assert.Equal(t, "Valor do mapa alterado de R$ 1000,00 para R$ 1200,00", dto.EditObservations[0].Details)
}

func TestUpdateCannotLowerMapValueBelowProposal(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFreightMapService(db)

	m := seedFreightMap(t, db, "MAP-634", "Acme Transportes", 1000, time.Now())
	m.CarrierProposals = domain.CarrierProposalMap{"Acme Transportes": 950}
	require.NoError(t, db.Save(m).Error)

	newValue := 800.0
	_, err := svc.Update(staffContext(), m.ID, &domain.UpdateFreightMapRequest{
		MapValue:    &newValue,
		Observation: "Tentativa de reduzir abaixo da proposta",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	stored := reloadFreightMap(t, db, m.ID)
	assert.Equal(t, 1000.0, stored.MapValue)
	assert.Empty(t, stored.EditObservations)

	// Lowering down to the recorded proposal is still allowed
	newValue = 950.0
	dto, err := svc.Update(staffContext(), m.ID, &domain.UpdateFreightMapRequest{
		MapValue:    &newValue,
		Observation: "Ajuste ao valor proposto",
	})
	require.NoError(t, err)
	assert.Equal(t, 950.0, dto.MapValue)
}

func TestUpdateOnlyWhileNegotiating(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFreightMapService(db)

	m := seedFreightMap(t, db, "MAP-631", "Acme Transportes", 1000, time.Now())
	require.NoError(t, db.Model(m).Update("status", domain.FreightStatusContracted).Error)

	origin := "Campinas/SP"
	_, err := svc.Update(staffContext(), m.ID, &domain.UpdateFreightMapRequest{Origin: &origin})
	assert.ErrorIs(t, err, ErrMapNotNegotiating)
}

func TestUpdateContractedFinalValueBoundedByProposal(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFreightMapService(db)

	m := seedFreightMap(t, db, "MAP-632", "Acme Transportes", 1000, time.Now())
	m.CarrierProposals = domain.CarrierProposalMap{"Acme Transportes": 900}
	final := 900.0
	m.FinalValue = &final
	m.Status = domain.FreightStatusContracted
	require.NoError(t, db.Save(m).Error)

	tooHigh := 950.0
	_, err := svc.UpdateContracted(staffContext(), m.ID, &domain.UpdateContractedFreightRequest{
		FinalValue:  &tooHigh,
		Observation: "Tentativa de aumento",
	})
	assert.ErrorIs(t, err, ErrFinalValueExceedsProposal)

	lower := 880.0
	dto, err := svc.UpdateContracted(staffContext(), m.ID, &domain.UpdateContractedFreightRequest{
		FinalValue:  &lower,
		Observation: "Desconto negociado após o fechamento",
	})
	require.NoError(t, err)
	assert.Equal(t, 880.0, *dto.FinalValue)
	require.Len(t, dto.EditObservations, 1)
	assert.Equal(t, "Valor final alterado de R$ 900,00 para R$ 880,00", dto.EditObservations[0].Details)
}

func TestDeleteForbidsContractedRows(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFreightMapService(db)

	m := seedFreightMap(t, db, "MAP-640", "Acme Transportes", 1000, time.Now())
	require.NoError(t, db.Model(m).Update("status", domain.FreightStatusContracted).Error)

	err := svc.Delete(staffContext(), m.ID)
	assert.ErrorIs(t, err, ErrCannotDeleteContracted)

	require.NoError(t, db.Model(m).Update("status", domain.FreightStatusRejected).Error)
	require.NoError(t, svc.Delete(staffContext(), m.ID))

	var count int64
	require.NoError(t, db.Model(&domain.FreightMap{}).Where("id = ?", m.ID).Count(&count).Error)
	assert.Zero(t, count)
}
