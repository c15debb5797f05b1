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

type TruckTypeHandler struct {
	truckTypeService *service.TruckTypeService
	logger           *zap.Logger
}

func NewTruckTypeHandler(truckTypeService *service.TruckTypeService, logger *zap.Logger) *TruckTypeHandler {
	return &TruckTypeHandler{
		truckTypeService: truckTypeService,
		logger:           logger,
	}
}

// @Summary List truck types
// @Tags TruckTypes
// @Produce json
// @Param modality query string false "Filter by loading modality"
// @Success 200 {array} domain.TruckTypeDTO
// @Security BearerAuth
// @Router /truck-types [get]
func (h *TruckTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.truckTypeService.List(r.Context(), r.URL.Query().Get("modality"))
	if err != nil {
		h.logger.Error("failed to list truck types", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dtos)
}

// @Summary Get truck type
// @Tags TruckTypes
// @Produce json
// @Param id path string true "Truck type ID"
// @Success 200 {object} domain.TruckTypeDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /truck-types/{id} [get]
func (h *TruckTypeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid truck type ID")
		return
	}

	dto, err := h.truckTypeService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// @Summary Create truck type
// @Tags TruckTypes
// @Accept json
// @Produce json
// @Param request body domain.CreateTruckTypeRequest true "Truck type data"
// @Success 201 {object} domain.TruckTypeDTO
// @Security BearerAuth
// @Router /truck-types [post]
func (h *TruckTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTruckTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.truckTypeService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// @Summary Update truck type
// @Tags TruckTypes
// @Accept json
// @Produce json
// @Param id path string true "Truck type ID"
// @Param request body domain.UpdateTruckTypeRequest true "Fields to update"
// @Success 200 {object} domain.TruckTypeDTO
// @Security BearerAuth
// @Router /truck-types/{id} [put]
func (h *TruckTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid truck type ID")
		return
	}

	var req domain.UpdateTruckTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.truckTypeService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// @Summary Delete truck type
// @Tags TruckTypes
// @Param id path string true "Truck type ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /truck-types/{id} [delete]
func (h *TruckTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid truck type ID")
		return
	}

	if err := h.truckTypeService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
