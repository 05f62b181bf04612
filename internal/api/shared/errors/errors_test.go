package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apierrors "github.com/solspace/solspace-backend/internal/api/shared/errors"
	"github.com/solspace/solspace-backend/internal/domain"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   apierrors.ErrorCode
		status int
	}{
		{"malformed input", domain.ErrMalformedInput, apierrors.ErrCodeMalformedInput, http.StatusBadRequest},
		{"wrapped invalid value", fmt.Errorf("profit: %w", domain.ErrInvalidValue), apierrors.ErrCodeInvalidValue, http.StatusBadRequest},
		{"invalid round", domain.ErrInvalidRound, apierrors.ErrCodeInvalidRound, http.StatusBadRequest},
		{"implausible result", domain.ErrImplausibleResult, apierrors.ErrCodeImplausibleResult, http.StatusBadRequest},
		{"invalid season", domain.ErrInvalidSeason, apierrors.ErrCodeInvalidSeason, http.StatusBadRequest},
		{"identity blocked", domain.ErrIdentityBlocked, apierrors.ErrCodeIdentityBlocked, http.StatusForbidden},
		{"invalid signature", domain.ErrInvalidSignature, apierrors.ErrCodeInvalidSignature, http.StatusForbidden},
		{"too fast", domain.ErrTooFast, apierrors.ErrCodeTooFast, http.StatusTooManyRequests},
		{"rate limited", domain.ErrRateLimited, apierrors.ErrCodeRateLimited, http.StatusTooManyRequests},
		{"source unavailable", domain.ErrSourceUnavailable, apierrors.ErrCodeSourceUnavailable, http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), apierrors.ErrCodeInternalError, http.StatusInternalServerError},
		{"api error passes through", apierrors.NewNotFoundError("missing"), apierrors.ErrCodeNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := apierrors.FromDomainError(tt.err)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.status, apiErr.StatusCode())
		})
	}
}

func TestFromDomainError_HidesInternalText(t *testing.T) {
	apiErr := apierrors.FromDomainError(errors.New("pq: password authentication failed"))
	assert.NotContains(t, apiErr.Error(), "password")
}

func TestAPIError_Error(t *testing.T) {
	err := apierrors.NewValidationError("identity is required", "body")
	assert.JSONEq(t, `{"code":"validation_failed","message":"Validation failed","details":"identity is required, body"}`, err.Error())
}
