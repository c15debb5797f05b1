package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/logfrete/freight-api/internal/auth"
	"github.com/logfrete/freight-api/internal/domain"
)

// guardedChanges carries the commercially sensitive fields of a freight map
// edit. Nil pointers mean "leave untouched".
type guardedChanges struct {
	MapValue        *float64
	FinalValue      *float64
	SelectedCarrier *string
}

// formatBRL renders a value the way the audit trail expects: comma decimal,
// two places, "R$" prefix.
func formatBRL(v float64) string {
	return "R$ " + strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}

// applyGuardedChanges enforces the audit contract on sensitive freight map
// fields. When mapValue, finalValue or selectedCarrier actually change, the
// edit must carry a non-empty observation; the change is then recorded as an
// immutable entry in editObservations before being applied to the row.
// Returns ErrObservationRequired without touching the row otherwise.
func applyGuardedChanges(m *domain.FreightMap, changes guardedChanges, observation string, actor *auth.Actor, now time.Time) error {
	var details []string

	if changes.MapValue != nil && *changes.MapValue != m.MapValue {
		details = append(details, fmt.Sprintf(
			"Valor do mapa alterado de %s para %s",
			formatBRL(m.MapValue), formatBRL(*changes.MapValue),
		))
	}
	if changes.FinalValue != nil {
		current := 0.0
		if m.FinalValue != nil {
			current = *m.FinalValue
		}
		if *changes.FinalValue != current {
			details = append(details, fmt.Sprintf(
				"Valor final alterado de %s para %s",
				formatBRL(current), formatBRL(*changes.FinalValue),
			))
		}
	}
	if changes.SelectedCarrier != nil && *changes.SelectedCarrier != m.SelectedCarrier {
		details = append(details, fmt.Sprintf(
			"Transportadora alterada de %s para %s",
			m.SelectedCarrier, *changes.SelectedCarrier,
		))
	}

	trimmed := strings.TrimSpace(observation)

	if len(details) > 0 && trimmed == "" {
		return ErrObservationRequired
	}

	if len(details) > 0 || trimmed != "" {
		m.EditObservations = append(m.EditObservations, domain.EditObservation{
			Observation: trimmed,
			User:        actor.FullName,
			Timestamp:   now,
			Details:     strings.Join(details, "; "),
		})
	}

	if changes.MapValue != nil {
		m.MapValue = *changes.MapValue
	}
	if changes.FinalValue != nil {
		m.FinalValue = changes.FinalValue
	}
	if changes.SelectedCarrier != nil {
		m.SelectedCarrier = *changes.SelectedCarrier
	}

	return nil
}

// appendAuditEntry records a lifecycle event (reopen, finalization note) in
// the same ledger used by guarded edits
func appendAuditEntry(m *domain.FreightMap, observation, details string, actor *auth.Actor, now time.Time) {
	m.EditObservations = append(m.EditObservations, domain.EditObservation{
		Observation: strings.TrimSpace(observation),
		User:        actor.FullName,
		Timestamp:   now,
		Details:     details,
	})
}
