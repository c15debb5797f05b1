package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/auth"
	"github.com/logfrete/freight-api/internal/domain"
	"github.com/logfrete/freight-api/internal/mapper"
	"github.com/logfrete/freight-api/internal/repository"
	"github.com/logfrete/freight-api/internal/routing"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FreightMapService handles creation, querying and guarded editing of
// freight maps. Lifecycle transitions live in NegotiationService.
type FreightMapService struct {
	freightMapRepo *repository.FreightMapRepository
	carrierRepo    *repository.CarrierRepository
	routingClient  *routing.Client
	logger         *zap.Logger
}

// NewFreightMapService creates a new FreightMapService instance. The routing
// client may be nil when route lookups are not configured.
func NewFreightMapService(
	freightMapRepo *repository.FreightMapRepository,
	carrierRepo *repository.CarrierRepository,
	routingClient *routing.Client,
	logger *zap.Logger,
) *FreightMapService {
	return &FreightMapService{
		freightMapRepo: freightMapRepo,
		carrierRepo:    carrierRepo,
		routingClient:  routingClient,
		logger:         logger,
	}
}

// Create opens a negotiation: one freight map row per listed carrier, all
// sharing the request's map number
func (s *FreightMapService) Create(ctx context.Context, req *domain.CreateFreightMapRequest) ([]domain.FreightMapDTO, error) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	if !actor.IsStaff() {
		return nil, ErrPermissionDenied
	}
	if !req.LoadingMode.IsValid() {
		return nil, ErrInvalidInput
	}

	for _, carrierName := range req.Carriers {
		carrier, err := s.carrierRepo.GetByName(ctx, carrierName)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCarrierNotFound
			}
			return nil, fmt.Errorf("failed to get carrier: %w", err)
		}
		if !carrier.Active {
			return nil, ErrCarrierNotFound
		}
	}

	totalKm := req.TotalKm
	if totalKm == 0 && s.routingClient != nil && s.routingClient.Enabled() {
		route, err := s.routingClient.Lookup(ctx, req.Origin, req.Destination)
		if err != nil {
			s.logger.Warn("route lookup failed, keeping manual distance",
				zap.String("origin", req.Origin),
				zap.String("destination", req.Destination),
				zap.Error(err),
			)
		} else {
			totalKm = int(math.Round(route.DistanceKm))
		}
	}

	managers := make(domain.ManagerAllocationList, len(req.Managers))
	for i, alloc := range req.Managers {
		managers[i] = domain.ManagerAllocation{Gerente: alloc.Gerente, Valor: alloc.Valor}
	}

	maps := make([]*domain.FreightMap, 0, len(req.Carriers))
	for _, carrierName := range req.Carriers {
		maps = append(maps, &domain.FreightMap{
			MapNumber:        req.MapNumber,
			Origin:           req.Origin,
			Destination:      req.Destination,
			TotalKm:          totalKm,
			Weight:           req.Weight,
			TruckType:        req.TruckType,
			LoadingMode:      req.LoadingMode,
			LoadingDate:      req.LoadingDate,
			RouteInfo:        req.RouteInfo,
			MapImage:         req.MapImage,
			MapValue:         req.MapValue,
			SelectedCarrier:  carrierName,
			CarrierProposals: domain.CarrierProposalMap{},
			Status:           domain.FreightStatusNegotiating,
			EditObservations: domain.EditObservationList{},
			InvoiceURLs:      domain.InvoiceList{},
			Managers:         managers,
		})
	}

	if err := s.freightMapRepo.CreateBatch(ctx, maps); err != nil {
		return nil, fmt.Errorf("failed to create freight maps: %w", err)
	}

	s.logger.Info("freight map group created",
		zap.String("map_number", req.MapNumber),
		zap.Int("carriers", len(req.Carriers)),
		zap.Float64("map_value", req.MapValue),
	)

	dtos := make([]domain.FreightMapDTO, len(maps))
	for i, m := range maps {
		dtos[i] = mapper.ToFreightMapDTO(m)
	}
	return dtos, nil
}

// GetByID returns a single freight map row, enforcing carrier visibility
func (s *FreightMapService) GetByID(ctx context.Context, id uuid.UUID) (*domain.FreightMapDTO, error) {
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

	dto := mapper.ToFreightMapDTO(m)
	return &dto, nil
}

// ListGroups returns map number groups visible to the caller, ordered by
// each group's most recent row and paginated over groups rather than rows
func (s *FreightMapService) ListGroups(ctx context.Context, filter repository.FreightMapFilter, page, pageSize int) (*domain.PaginatedResponse, error) {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	if actor.IsCarrier() {
		filter.Carrier = actor.CarrierName
	}

	rows, err := s.freightMapRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list freight maps: %w", err)
	}

	groups := groupByMapNumber(rows)

	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	total := int64(len(groups))
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(groups) {
		start = len(groups)
	}
	if end > len(groups) {
		end = len(groups)
	}

	return &domain.PaginatedResponse{
		Data:       groups[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// groupByMapNumber partitions rows into groups keyed by map number, groups
// ordered by their most recent created_at descending, rows within a group by
// created_at ascending
func groupByMapNumber(rows []domain.FreightMap) []domain.FreightMapGroupDTO {
	index := make(map[string]int)
	groups := make([]domain.FreightMapGroupDTO, 0)

	for i := range rows {
		row := rows[i]
		gi, ok := index[row.MapNumber]
		if !ok {
			index[row.MapNumber] = len(groups)
			groups = append(groups, domain.FreightMapGroupDTO{
				MapNumber: row.MapNumber,
				Maps:      []domain.FreightMapDTO{},
				Latest:    row.CreatedAt,
			})
			gi = len(groups) - 1
		}
		groups[gi].Maps = append(groups[gi].Maps, mapper.ToFreightMapDTO(&row))
		if row.CreatedAt.After(groups[gi].Latest) {
			groups[gi].Latest = row.CreatedAt
		}
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Latest.After(groups[b].Latest)
	})
	for gi := range groups {
		sort.SliceStable(groups[gi].Maps, func(a, b int) bool {
			return groups[gi].Maps[a].CreatedAt.Before(groups[gi].Maps[b].CreatedAt)
		})
	}

	return groups
}

// Update edits a negotiating freight map. Changes to mapValue or
// selectedCarrier go through the audit guard and require an observation.
func (s *FreightMapService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateFreightMapRequest) (*domain.FreightMapDTO, error) {
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

	// Recorded proposals must stay within the map value, so the map value
	// cannot drop below any of them
	if req.MapValue != nil {
		for _, value := range m.CarrierProposals {
			if value > *req.MapValue {
				return nil, ErrInvalidInput
			}
		}
	}

	// Guarded fields first: the edit fails before any write when the
	// observation is missing
	err = applyGuardedChanges(m, guardedChanges{
		MapValue:        req.MapValue,
		SelectedCarrier: req.SelectedCarrier,
	}, req.Observation, actor, time.Now())
	if err != nil {
		return nil, err
	}

	if req.Origin != nil {
		m.Origin = *req.Origin
	}
	if req.Destination != nil {
		m.Destination = *req.Destination
	}
	if req.TotalKm != nil {
		m.TotalKm = *req.TotalKm
	}
	if req.Weight != nil {
		m.Weight = *req.Weight
	}
	if req.TruckType != nil {
		m.TruckType = *req.TruckType
	}
	if req.LoadingMode != nil {
		if !req.LoadingMode.IsValid() {
			return nil, ErrInvalidInput
		}
		m.LoadingMode = *req.LoadingMode
	}
	if req.LoadingDate != nil {
		m.LoadingDate = *req.LoadingDate
	}
	if req.RouteInfo != nil {
		m.RouteInfo = *req.RouteInfo
	}
	if req.MapImage != nil {
		m.MapImage = *req.MapImage
	}
	if req.Managers != nil {
		managers := make(domain.ManagerAllocationList, len(req.Managers))
		for i, alloc := range req.Managers {
			managers[i] = domain.ManagerAllocation{Gerente: alloc.Gerente, Valor: alloc.Valor}
		}
		m.Managers = managers
	}

	if err := s.freightMapRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update freight map: %w", err)
	}

	s.logger.Info("freight map updated",
		zap.String("map_id", m.ID.String()),
		zap.String("map_number", m.MapNumber),
		zap.String("user", actor.FullName),
	)

	dto := mapper.ToFreightMapDTO(m)
	return &dto, nil
}

// UpdateContracted edits a contracted freight. Same audit contract as Update,
// with finalValue additionally guarded and bounded by the carrier's proposal.
func (s *FreightMapService) UpdateContracted(ctx context.Context, id uuid.UUID, req *domain.UpdateContractedFreightRequest) (*domain.FreightMapDTO, error) {
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

	if m.Status != domain.FreightStatusContracted {
		return nil, ErrMapNotContracted
	}

	if req.FinalValue != nil {
		if proposal, ok := m.OwnProposal(); ok && *req.FinalValue > proposal {
			return nil, ErrFinalValueExceedsProposal
		}
	}

	// Same floor as the negotiating edit: proposals stay within the map value
	if req.MapValue != nil {
		for _, value := range m.CarrierProposals {
			if value > *req.MapValue {
				return nil, ErrInvalidInput
			}
		}
	}

	err = applyGuardedChanges(m, guardedChanges{
		MapValue:        req.MapValue,
		FinalValue:      req.FinalValue,
		SelectedCarrier: req.SelectedCarrier,
	}, req.Observation, actor, time.Now())
	if err != nil {
		return nil, err
	}

	if req.RouteInfo != nil {
		m.RouteInfo = *req.RouteInfo
	}
	if req.Managers != nil {
		managers := make(domain.ManagerAllocationList, len(req.Managers))
		for i, alloc := range req.Managers {
			managers[i] = domain.ManagerAllocation{Gerente: alloc.Gerente, Valor: alloc.Valor}
		}
		m.Managers = managers
	}

	if err := s.freightMapRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update contracted freight: %w", err)
	}

	s.logger.Info("contracted freight updated",
		zap.String("map_id", m.ID.String()),
		zap.String("map_number", m.MapNumber),
		zap.String("user", actor.FullName),
	)

	dto := mapper.ToFreightMapDTO(m)
	return &dto, nil
}

// Delete removes a freight map row. Contracted rows cannot be deleted; the
// audit trail and the one-winner invariant would not survive it.
func (s *FreightMapService) Delete(ctx context.Context, id uuid.UUID) error {
	actor, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUserContextRequired
	}
	if !actor.IsStaff() {
		return ErrPermissionDenied
	}

	m, err := s.freightMapRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMapNotFound
		}
		return fmt.Errorf("failed to get freight map: %w", err)
	}

	if m.Status == domain.FreightStatusContracted {
		return ErrCannotDeleteContracted
	}

	if err := s.freightMapRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete freight map: %w", err)
	}

	s.logger.Info("freight map deleted",
		zap.String("map_id", id.String()),
		zap.String("map_number", m.MapNumber),
		zap.String("user", actor.FullName),
	)

	return nil
}
