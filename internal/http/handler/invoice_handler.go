package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/service"
	"go.uber.org/zap"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	maxUploadSize  int64
	logger         *zap.Logger
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, maxUploadSizeMB int64, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		maxUploadSize:  maxUploadSizeMB << 20,
		logger:         logger,
	}
}

// @Summary Attach invoice
// @Description Upload an invoice document and attach it to a contracted freight map
// @Tags Invoices
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Freight map ID"
// @Param file formData file true "Invoice document"
// @Success 201 {object} domain.InvoiceAttachment
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /freight-maps/{id}/invoices [post]
func (h *InvoiceHandler) Attach(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid freight map ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "file too large or malformed multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment, err := h.invoiceService.Attach(r.Context(), id, header.Filename, contentType, file)
	if err != nil {
		h.logger.Error("failed to attach invoice",
			zap.String("map_id", id.String()),
			zap.Error(err),
		)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, attachment)
}

// @Summary List invoices
// @Description List the invoice attachments of a freight map
// @Tags Invoices
// @Produce json
// @Param id path string true "Freight map ID"
// @Success 200 {array} domain.InvoiceAttachment
// @Security BearerAuth
// @Router /freight-maps/{id}/invoices [get]
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid freight map ID")
		return
	}

	invoices, err := h.invoiceService.List(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, invoices)
}
