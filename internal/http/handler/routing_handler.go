package handler

import (
	"net/http"

	"github.com/logfrete/freight-api/internal/routing"
	"go.uber.org/zap"
)

type RoutingHandler struct {
	client *routing.Client
	logger *zap.Logger
}

func NewRoutingHandler(client *routing.Client, logger *zap.Logger) *RoutingHandler {
	return &RoutingHandler{
		client: client,
		logger: logger,
	}
}

// @Summary Route lookup
// @Description Look up road distance and duration between two places via the routing collaborator
// @Tags Routing
// @Produce json
// @Param origin query string true "Origin (City/ST or lon,lat)"
// @Param destination query string true "Destination (City/ST or lon,lat)"
// @Success 200 {object} domain.RouteLookupDTO
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /routing/lookup [get]
func (h *RoutingHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	origin := r.URL.Query().Get("origin")
	destination := r.URL.Query().Get("destination")
	if origin == "" || destination == "" {
		respondWithError(w, http.StatusBadRequest, "origin and destination are required")
		return
	}

	if !h.client.Enabled() {
		respondWithError(w, http.StatusServiceUnavailable, "route lookup is not configured")
		return
	}

	dto, err := h.client.Lookup(r.Context(), origin, destination)
	if err != nil {
		h.logger.Warn("route lookup failed",
			zap.String("origin", origin),
			zap.String("destination", destination),
			zap.Error(err),
		)
		respondWithError(w, http.StatusBadGateway, "route lookup failed")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}
