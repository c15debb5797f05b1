package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/logfrete/freight-api/internal/domain"
	"github.com/logfrete/freight-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) domain.APIError {
	t.Helper()

	var apiErr domain.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
	return apiErr
}

func TestRespondServiceErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"map not found", service.ErrMapNotFound, http.StatusNotFound},
		{"carrier not found", service.ErrCarrierNotFound, http.StatusNotFound},
		{"group already contracted", service.ErrGroupAlreadyContracted, http.StatusConflict},
		{"proposal already submitted", service.ErrProposalAlreadySubmitted, http.StatusConflict},
		{"permission denied", service.ErrPermissionDenied, http.StatusForbidden},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not negotiating", service.ErrMapNotNegotiating, http.StatusBadRequest},
		{"proposal exceeds map value", service.ErrProposalExceedsMapValue, http.StatusBadRequest},
		{"final value exceeds proposal", service.ErrFinalValueExceedsProposal, http.StatusBadRequest},
		{"cannot delete contracted", service.ErrCannotDeleteContracted, http.StatusBadRequest},
		{"unknown error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			apiErr := decodeAPIError(t, rec)
			assert.Equal(t, tc.status, apiErr.Status)
		})
	}
}

func TestJustificationGateUsesDedicatedErrorType(t *testing.T) {
	for _, err := range []error{service.ErrJustificationRequired, service.ErrObservationRequired} {
		rec := httptest.NewRecorder()
		respondServiceError(rec, err)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		apiErr := decodeAPIError(t, rec)
		assert.Equal(t, domain.ErrorTypeJustificationRequired, apiErr.Type)
		assert.Equal(t, "Justification Required", apiErr.Title)
	}
}

func TestRespondValidationErrorListsFields(t *testing.T) {
	req := domain.SubmitProposalRequest{Value: 0}
	err := validate.Struct(req)
	require.Error(t, err)

	rec := httptest.NewRecorder()
	respondValidationError(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	apiErr := decodeAPIError(t, rec)
	assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
	assert.Contains(t, apiErr.Errors, "value")
}
