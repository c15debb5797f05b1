package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/auth"
	"github.com/logfrete/freight-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testActor() *auth.Actor {
	return &auth.Actor{
		UserID:   uuid.New(),
		FullName: "Ana Souza",
		Role:     domain.UserTypeUser,
	}
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1000,00", formatBRL(1000))
	assert.Equal(t, "R$ 1200,00", formatBRL(1200))
	assert.Equal(t, "R$ 123,46", formatBRL(123.456))
	assert.Equal(t, "R$ 0,00", formatBRL(0))
}

func TestGuardedChangeWithoutObservationFails(t *testing.T) {
	m := &domain.FreightMap{MapValue: 1000, SelectedCarrier: "Acme Transportes"}
	newValue := 1200.0

	err := applyGuardedChanges(m, guardedChanges{MapValue: &newValue}, "   ", testActor(), time.Now())
	assert.ErrorIs(t, err, ErrObservationRequired)

	// Nothing changed and nothing was recorded
	assert.Equal(t, 1000.0, m.MapValue)
	assert.Empty(t, m.EditObservations)
}

func TestGuardedChangeRecordsDetails(t *testing.T) {
	m := &domain.FreightMap{MapValue: 1000, SelectedCarrier: "Acme Transportes"}
	newValue := 1200.0
	now := time.Now()

	err := applyGuardedChanges(m, guardedChanges{MapValue: &newValue}, "Ajuste de tabela", testActor(), now)
	require.NoError(t, err)

	assert.Equal(t, 1200.0, m.MapValue)
	require.Len(t, m.EditObservations, 1)
	entry := m.EditObservations[0]
	assert.Equal(t, "Ajuste de tabela", entry.Observation)
	assert.Equal(t, "Ana Souza", entry.User)
	assert.Equal(t, now, entry.Timestamp)
	assert.Equal(t, "Valor do mapa alterado de R$ 1000,00 para R$ 1200,00", entry.Details)
}

func TestGuardedChangeJoinsMultipleDetails(t *testing.T) {
	final := 900.0
	m := &domain.FreightMap{MapValue: 1000, FinalValue: &final, SelectedCarrier: "Acme Transportes"}

	newFinal := 880.0
	newCarrier := "Beta Logística"
	err := applyGuardedChanges(m, guardedChanges{
		FinalValue:      &newFinal,
		SelectedCarrier: &newCarrier,
	}, "Renegociado com outra transportadora", testActor(), time.Now())
	require.NoError(t, err)

	require.Len(t, m.EditObservations, 1)
	assert.Equal(t,
		"Valor final alterado de R$ 900,00 para R$ 880,00; Transportadora alterada de Acme Transportes para Beta Logística",
		m.EditObservations[0].Details,
	)
	assert.Equal(t, 880.0, *m.FinalValue)
	assert.Equal(t, "Beta Logística", m.SelectedCarrier)
}

func TestUnchangedGuardedFieldNeedsNoObservation(t *testing.T) {
	m := &domain.FreightMap{MapValue: 1000, SelectedCarrier: "Acme Transportes"}
	same := 1000.0

	err := applyGuardedChanges(m, guardedChanges{MapValue: &same}, "", testActor(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, m.EditObservations)
}

func TestObservationAloneIsRecorded(t *testing.T) {
	m := &domain.FreightMap{MapValue: 1000, SelectedCarrier: "Acme Transportes"}

	err := applyGuardedChanges(m, guardedChanges{}, "Cliente pediu atenção ao prazo", testActor(), time.Now())
	require.NoError(t, err)

	require.Len(t, m.EditObservations, 1)
	assert.Equal(t, "Cliente pediu atenção ao prazo", m.EditObservations[0].Observation)
	assert.Empty(t, m.EditObservations[0].Details)
}

func TestLedgerIsAppendOnly(t *testing.T) {
	m := &domain.FreightMap{MapValue: 1000, SelectedCarrier: "Acme Transportes"}
	actor := testActor()

	first := 1100.0
	require.NoError(t, applyGuardedChanges(m, guardedChanges{MapValue: &first}, "Primeiro ajuste", actor, time.Now()))
	second := 1200.0
	require.NoError(t, applyGuardedChanges(m, guardedChanges{MapValue: &second}, "Segundo ajuste", actor, time.Now()))
	appendAuditEntry(m, "Frete reaberto", "Frete reaberto para renegociação", actor, time.Now())

	require.Len(t, m.EditObservations, 3)
	assert.Equal(t, "Primeiro ajuste", m.EditObservations[0].Observation)
	assert.Equal(t, "Segundo ajuste", m.EditObservations[1].Observation)
	assert.Equal(t, "Frete reaberto", m.EditObservations[2].Observation)
}
