package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/domain"
	"github.com/logfrete/freight-api/internal/repository"
	"github.com/logfrete/freight-api/internal/service"
	"go.uber.org/zap"
)

type FreightMapHandler struct {
	freightMapService  *service.FreightMapService
	negotiationService *service.NegotiationService
	logger             *zap.Logger
}

func NewFreightMapHandler(
	freightMapService *service.FreightMapService,
	negotiationService *service.NegotiationService,
	logger *zap.Logger,
) *FreightMapHandler {
	return &FreightMapHandler{
		freightMapService:  freightMapService,
		negotiationService: negotiationService,
		logger:             logger,
	}
}

// @Summary List freight map groups
// @Description List freight maps grouped by map number, newest group first. Carrier users see only their own rows.
// @Tags FreightMaps
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size (groups per page)" default(20)
// @Param status query string false "Filter by status (negotiating, contracted, rejected)"
// @Param mapNumber query string false "Filter by map number"
// @Param search query string false "Search in map number, origin and destination"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Router /freight-maps [get]
func (h *FreightMapHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	filter := repository.FreightMapFilter{
		MapNumber: r.URL.Query().Get("mapNumber"),
		Search:    r.URL.Query().Get("search"),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.FreightStatus(s)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		filter.Status = &status
	}

	result, err := h.freightMapService.ListGroups(r.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.Error("failed to list freight maps", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Get freight map
// @Description Get a single freight map row by ID
// @Tags FreightMaps
// @Produce json
// @Param id path string true "Freight map ID"
// @Success 200 {object} domain.FreightMapDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /freight-maps/{id} [get]
func (h *FreightMapHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid freight map ID")
		return
	}

	dto, err := h.freightMapService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// @Summary Create freight map group
// @Description Open a negotiation: creates one freight map row per listed carrier, all sharing the map number
// @Tags FreightMaps
// @Accept json
// @Produce json
// @Param request body domain.CreateFreightMapRequest true "Freight map data"
// @Success 201 {array} domain.FreightMapDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /freight-maps [post]
func (h *FreightMapHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFreightMapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dtos, err := h.freightMapService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create freight maps", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dtos)
}

// @Summary Update freight map
// @Description Edit a negotiating freight map. Changes to mapValue or selectedCarrier require a non-empty observation.
// @Tags FreightMaps
// @Accept json
// @Produce json
// @Param id path string true "Freight map ID"
// @Param request body domain.UpdateFreightMapRequest true "Fields to update"
// @Success 200 {object} domain.FreightMapDTO
// @Failure 422 {object} domain.APIError "Observation required"
// @Security BearerAuth
// @Router /freight-maps/{id} [put]
func (h *FreightMapHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid freight map ID")
		return
	}

	var req domain.UpdateFreightMapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.freightMapService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// @Summary Update contracted freight
// @Description Edit a contracted freight. Changes to mapValue, finalValue or selectedCarrier require a non-empty observation.
// @Tags FreightMaps
// @Accept json
// @Produce json
// @Param id path string true "Freight map ID"
// @Param request body domain.UpdateContractedFreightRequest true "Fields to update"
// @Success 200 {object} domain.FreightMapDTO
// @Failure 422 {object} domain.APIError "Observation required"
// @Security BearerAuth
// @Router /freight-maps/{id}/contracted [put]
func (h *FreightMapHandler) UpdateContracted(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid freight map ID")
		return
	}

	var req domain.UpdateContractedFreightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.freightMapService.UpdateContracted(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// @Summary Delete freight map
// @Description Delete a freight map row. Contracted rows cannot be deleted.
// @Tags FreightMaps
// @Param id path string true "Freight map ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /freight-maps/{id} [delete]
func (h *FreightMapHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid freight map ID")
		return
	}

	if err := h.freightMapService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// @Summary Submit proposal
// @Description Record the bound carrier's price proposal on a negotiating freight map
// @Tags Negotiation
// @Accept json
// @Produce json
// @Param id path string true "Freight map ID"
// @Param request body domain.SubmitProposalRequest true "Proposal value"
// @Success 200 {object} domain.FreightMapDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Proposal already submitted"
// @Security BearerAuth
// @Router /freight-maps/{id}/proposal [post]
func (h *FreightMapHandler) SubmitProposal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid freight map ID")
		return
	}

	var req domain.SubmitProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.negotiationService.SubmitProposal(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// @Summary Finalize freight map
// @Description Contract the selected carrier at the given value and reject all sibling rows of the map number group. Requires a justification of at least 10 characters when the carrier is not the group's lowest bidder.
// @Tags Negotiation
// @Accept json
// @Produce json
// @Param id path string true "Freight map ID"
// @Param request body domain.FinalizeFreightRequest true "Final value and optional justification"
// @Success 200 {object} domain.FreightMapDTO
// @Failure 409 {object} domain.APIError "Group already contracted"
// @Failure 422 {object} domain.APIError "Justification required"
// @Security BearerAuth
// @Router /freight-maps/{id}/finalize [post]
func (h *FreightMapHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid freight map ID")
		return
	}

	var req domain.FinalizeFreightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.negotiationService.Finalize(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// @Summary Reject freight map
// @Description Move a negotiating freight map to rejected
// @Tags Negotiation
// @Accept json
// @Produce json
// @Param id path string true "Freight map ID"
// @Param request body domain.RejectFreightRequest true "Optional reason"
// @Success 200 {object} domain.FreightMapDTO
// @Security BearerAuth
// @Router /freight-maps/{id}/reject [post]
func (h *FreightMapHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid freight map ID")
		return
	}

	var req domain.RejectFreightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dto, err := h.negotiationService.Reject(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// @Summary Reopen contracted freight
// @Description Revert a contracted freight map to negotiating. Requires a justification of at least 10 characters; the reopening is recorded in the audit ledger.
// @Tags Negotiation
// @Accept json
// @Produce json
// @Param id path string true "Freight map ID"
// @Param request body domain.ReopenFreightRequest true "Justification"
// @Success 200 {object} domain.FreightMapDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /freight-maps/{id}/reopen [post]
func (h *FreightMapHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid freight map ID")
		return
	}

	var req domain.ReopenFreightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.negotiationService.Reopen(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// @Summary Lowest bid of a map number group
// @Description Return the lowest recorded proposal among the rows sharing a map number (staff only)
// @Tags Negotiation
// @Produce json
// @Param mapNumber path string true "Map number"
// @Success 200 {object} domain.LowestBidDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /freight-maps/groups/{mapNumber}/lowest-bid [get]
func (h *FreightMapHandler) LowestBid(w http.ResponseWriter, r *http.Request) {
	mapNumber := chi.URLParam(r, "mapNumber")
	if mapNumber == "" {
		respondWithError(w, http.StatusBadRequest, "map number is required")
		return
	}

	dto, err := h.negotiationService.LowestBid(r.Context(), mapNumber)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if dto == nil {
		respondWithError(w, http.StatusNotFound, "no proposals recorded for this map")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}
