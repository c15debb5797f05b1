package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/auth"
	"github.com/logfrete/freight-api/internal/domain"
	"github.com/logfrete/freight-api/internal/mapper"
	"github.com/logfrete/freight-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// rejectedReasonLostBid is written to every sibling row when a competing
// carrier wins the map. Consumers match on this exact text.
const rejectedReasonLostBid = "Outra proposta foi aceita para este mapa."

const minJustificationLen = 10

// NegotiationService owns the freight map state machine: proposal intake,
// lowest-bid detection with the justification gate, atomic contracting with
// sibling rejection, standalone rejection, and reopening.
type NegotiationService struct {
	freightMapRepo *repository.FreightMapRepository
	notifications  *NotificationService
	logger         *zap.Logger
}

// NewNegotiationService creates a new NegotiationService instance
func NewNegotiationService(
	freightMapRepo *repository.FreightMapRepository,
	notifications *NotificationService,
	logger *zap.Logger,
) *NegotiationService {
	return &NegotiationService{
		freightMapRepo: freightMapRepo,
		notifications:  notifications,
		logger:         logger,
	}
}

// SubmitProposal records a carrier's price proposal on a negotiating row.
// The caller must be bound to the row's selected carrier; the value must be
// positive and not exceed the map value; a carrier never silently overwrites
// its own earlier proposal.
func (s *NegotiationService) SubmitProposal(ctx context.Context, id uuid.UUID, req *domain.SubmitProposalRequest) (*domain.FreightMapDTO, error) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	m, err := s.freightMapRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMapNotFound
		}
		return nil, fmt.Errorf("failed to get freight map: %w", err)
	}

	if !actor.CanActOn(m) {
		return nil, ErrPermissionDenied
	}
	if m.Status != domain.FreightStatusNegotiating {
		return nil, ErrMapNotNegotiating
	}
	if req.Value <= 0 {
		return nil, ErrInvalidInput
	}
	if req.Value > m.MapValue {
		return nil, ErrProposalExceedsMapValue
	}
	if _, exists := m.OwnProposal(); exists {
		return nil, ErrProposalAlreadySubmitted
	}

	if m.CarrierProposals == nil {
		m.CarrierProposals = domain.CarrierProposalMap{}
	}
	m.CarrierProposals[m.SelectedCarrier] = req.Value

	if err := s.freightMapRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save proposal: %w", err)
	}

	s.logger.Info("proposal submitted",
		zap.String("map_id", m.ID.String()),
		zap.String("map_number", m.MapNumber),
		zap.String("carrier", m.SelectedCarrier),
		zap.Float64("value", req.Value),
	)

	s.notifications.NotifyStaff(ctx,
		domain.NotificationTypeProposalReceived,
		fmt.Sprintf("Nova proposta para o mapa %s", m.MapNumber),
		fmt.Sprintf("%s propôs %s para o mapa %s (%s → %s).",
			m.SelectedCarrier, formatBRL(req.Value), m.MapNumber, m.Origin, m.Destination),
		&m.ID,
	)

	dto := mapper.ToFreightMapDTO(m)
	return &dto, nil
}

// LowestBid returns the lowest recorded proposal among the rows of a map
// number group. Each row contributes only the proposal keyed by its own
// selected carrier; ties go to the earliest created row.
func (s *NegotiationService) LowestBid(ctx context.Context, mapNumber string) (*domain.LowestBidDTO, error) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	// The answer names a competitor and its bid, so carriers may not ask
	if !actor.IsStaff() {
		return nil, ErrPermissionDenied
	}

	group, err := s.freightMapRepo.ListByMapNumber(ctx, mapNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list map group: %w", err)
	}
	if len(group) == 0 {
		return nil, ErrMapNotFound
	}
	return lowestBid(group), nil
}

// lowestBid scans a group ordered by created_at ascending, so the first
// minimum encountered is the earliest submitted. Returns nil when no row has
// a positive proposal from its own carrier.
func lowestBid(group []domain.FreightMap) *domain.LowestBidDTO {
	var best *domain.LowestBidDTO
	for i := range group {
		value, ok := group[i].OwnProposal()
		if !ok || value <= 0 {
			continue
		}
		if best == nil || value < best.Value {
			best = &domain.LowestBidDTO{
				Carrier: group[i].SelectedCarrier,
				Value:   value,
			}
		}
	}
	return best
}

// Finalize contracts the given row at the given value and rejects every
// sibling sharing its map number, as one transaction. When the row's carrier
// is not the group's lowest bidder, a justification of at least 10 characters
// is mandatory; the engine mutates nothing when raising
// ErrJustificationRequired.
func (s *NegotiationService) Finalize(ctx context.Context, id uuid.UUID, req *domain.FinalizeFreightRequest) (*domain.FreightMapDTO, error) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	if !actor.IsStaff() {
		return nil, ErrPermissionDenied
	}
	if req.Value <= 0 {
		return nil, ErrInvalidInput
	}

	var winner *domain.FreightMap
	var losers []domain.FreightMap

	err := s.freightMapRepo.Transaction(ctx, func(tx *gorm.DB) error {
		var m domain.FreightMap
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMapNotFound
			}
			return fmt.Errorf("failed to get freight map: %w", err)
		}

		if m.Status != domain.FreightStatusNegotiating {
			return ErrMapNotNegotiating
		}

		var group []domain.FreightMap
		if err := tx.Where("map_number = ?", m.MapNumber).
			Order("created_at ASC").
			Find(&group).Error; err != nil {
			return fmt.Errorf("failed to list map group: %w", err)
		}

		// The conflict check runs inside the transaction so two racing
		// finalizations cannot both contract.
		for i := range group {
			if group[i].Status == domain.FreightStatusContracted {
				return ErrGroupAlreadyContracted
			}
		}

		proposal, hasProposal := m.OwnProposal()
		if !hasProposal || proposal <= 0 {
			return ErrNoProposalSubmitted
		}
		if req.Value > proposal {
			return ErrFinalValueExceedsProposal
		}

		if lowest := lowestBid(group); lowest != nil && lowest.Carrier != m.SelectedCarrier {
			if len(strings.TrimSpace(req.Justification)) < minJustificationLen {
				return ErrJustificationRequired
			}
			m.Justification = strings.TrimSpace(req.Justification)
		}

		now := time.Now()
		value := req.Value
		m.FinalValue = &value
		m.Status = domain.FreightStatusContracted
		m.ContractedAt = &now
		m.FinalizationObservation = strings.TrimSpace(req.FinalizationObservation)

		if err := tx.Save(&m).Error; err != nil {
			return fmt.Errorf("failed to contract freight map: %w", err)
		}

		losers = losers[:0]
		for i := range group {
			sibling := group[i]
			if sibling.ID == m.ID || sibling.Status != domain.FreightStatusNegotiating {
				continue
			}
			sibling.Status = domain.FreightStatusRejected
			sibling.RejectedReason = rejectedReasonLostBid
			if err := tx.Save(&sibling).Error; err != nil {
				return fmt.Errorf("failed to reject sibling map: %w", err)
			}
			losers = append(losers, sibling)
		}

		winner = &m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("freight map contracted",
		zap.String("map_id", winner.ID.String()),
		zap.String("map_number", winner.MapNumber),
		zap.String("carrier", winner.SelectedCarrier),
		zap.Float64("final_value", req.Value),
		zap.Int("rejected_siblings", len(losers)),
	)

	s.notifications.NotifyCarrier(ctx, winner.SelectedCarrier,
		domain.NotificationTypeFreightContracted,
		fmt.Sprintf("Frete contratado: mapa %s", winner.MapNumber),
		fmt.Sprintf("Sua proposta para o mapa %s foi aceita por %s.",
			winner.MapNumber, formatBRL(req.Value)),
		&winner.ID,
	)
	for i := range losers {
		s.notifications.NotifyCarrier(ctx, losers[i].SelectedCarrier,
			domain.NotificationTypeFreightRejected,
			fmt.Sprintf("Mapa %s encerrado", losers[i].MapNumber),
			rejectedReasonLostBid,
			&losers[i].ID,
		)
	}

	dto := mapper.ToFreightMapDTO(winner)
	return &dto, nil
}

// Reject moves a negotiating row to rejected. Staff-only and unconditional.
func (s *NegotiationService) Reject(ctx context.Context, id uuid.UUID, req *domain.RejectFreightRequest) (*domain.FreightMapDTO, error) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	if !actor.IsStaff() {
		return nil, ErrPermissionDenied
	}

	m, err := s.freightMapRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMapNotFound
		}
		return nil, fmt.Errorf("failed to get freight map: %w", err)
	}

	if m.Status != domain.FreightStatusNegotiating {
		return nil, ErrMapNotNegotiating
	}

	m.Status = domain.FreightStatusRejected
	m.RejectedReason = strings.TrimSpace(req.Reason)

	if err := s.freightMapRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to reject freight map: %w", err)
	}

	s.logger.Info("freight map rejected",
		zap.String("map_id", m.ID.String()),
		zap.String("map_number", m.MapNumber),
		zap.String("carrier", m.SelectedCarrier),
	)

	s.notifications.NotifyCarrier(ctx, m.SelectedCarrier,
		domain.NotificationTypeFreightRejected,
		fmt.Sprintf("Mapa %s encerrado", m.MapNumber),
		fmt.Sprintf("A negociação do mapa %s foi encerrada.", m.MapNumber),
		&m.ID,
	)

	dto := mapper.ToFreightMapDTO(m)
	return &dto, nil
}

// Reopen reverts a contracted row to negotiating. The mandatory justification
// is recorded in the audit ledger; the contracting fields are cleared so the
// group can bid again.
func (s *NegotiationService) Reopen(ctx context.Context, id uuid.UUID, req *domain.ReopenFreightRequest) (*domain.FreightMapDTO, error) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	if !actor.IsStaff() {
		return nil, ErrPermissionDenied
	}
	if len(strings.TrimSpace(req.Justification)) < minJustificationLen {
		return nil, ErrInvalidInput
	}

	m, err := s.freightMapRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMapNotFound
		}
		return nil, fmt.Errorf("failed to get freight map: %w", err)
	}

	if m.Status != domain.FreightStatusContracted {
		return nil, ErrMapNotContracted
	}

	previousValue := ""
	if m.FinalValue != nil {
		previousValue = formatBRL(*m.FinalValue)
	}

	m.Status = domain.FreightStatusNegotiating
	m.FinalValue = nil
	m.ContractedAt = nil
	m.Justification = ""
	m.FinalizationObservation = ""

	details := "Frete reaberto para renegociação"
	if previousValue != "" {
		details = fmt.Sprintf("Frete reaberto para renegociação (valor contratado anterior: %s)", previousValue)
	}
	appendAuditEntry(m, req.Justification, details, actor, time.Now())

	if err := s.freightMapRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to reopen freight map: %w", err)
	}

	s.logger.Info("freight map reopened",
		zap.String("map_id", m.ID.String()),
		zap.String("map_number", m.MapNumber),
		zap.String("carrier", m.SelectedCarrier),
	)

	s.notifications.NotifyCarrier(ctx, m.SelectedCarrier,
		domain.NotificationTypeFreightReopened,
		fmt.Sprintf("Mapa %s reaberto", m.MapNumber),
		fmt.Sprintf("O mapa %s voltou para negociação.", m.MapNumber),
		&m.ID,
	)

	dto := mapper.ToFreightMapDTO(m)
	return &dto, nil
}
