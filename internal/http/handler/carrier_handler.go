package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/domain"
	"github.com/logfrete/freight-api/internal/service"
	"go.uber.org/zap"
)

type CarrierHandler struct {
	carrierService *service.CarrierService
	logger         *zap.Logger
}

func NewCarrierHandler(carrierService *service.CarrierService, logger *zap.Logger) *CarrierHandler {
	return &CarrierHandler{
		carrierService: carrierService,
		logger:         logger,
	}
}

// @Summary List carriers
// @Tags Carriers
// @Produce json
// @Param active query bool false "Only active carriers"
// @Param modality query string false "Filter by loading modality (paletizados, bag)"
// @Success 200 {array} domain.CarrierDTO
// @Security BearerAuth
// @Router /carriers [get]
func (h *CarrierHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	modality := r.URL.Query().Get("modality")

	dtos, err := h.carrierService.List(r.Context(), activeOnly, modality)
	if err != nil {
		h.logger.Error("failed to list carriers", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dtos)
}

// @Summary Get carrier
// @Tags Carriers
// @Produce json
// @Param id path string true "Carrier ID"
// @Success 200 {object} domain.CarrierDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /carriers/{id} [get]
func (h *CarrierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid carrier ID")
		return
	}

	dto, err := h.carrierService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// @Summary Create carrier
// @Tags Carriers
// @Accept json
// @Produce json
// @Param request body domain.CreateCarrierRequest true "Carrier data"
// @Success 201 {object} domain.CarrierDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /carriers [post]
func (h *CarrierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCarrierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.carrierService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// @Summary Update carrier
// @Tags Carriers
// @Accept json
// @Produce json
// @Param id path string true "Carrier ID"
// @Param request body domain.UpdateCarrierRequest true "Fields to update"
// @Success 200 {object} domain.CarrierDTO
// @Security BearerAuth
// @Router /carriers/{id} [put]
func (h *CarrierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid carrier ID")
		return
	}

	var req domain.UpdateCarrierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.carrierService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// @Summary Delete carrier
// @Tags Carriers
// @Param id path string true "Carrier ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /carriers/{id} [delete]
func (h *CarrierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid carrier ID")
		return
	}

	if err := h.carrierService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
