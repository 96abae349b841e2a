package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessage(t *testing.T) {
	appErr := NewAppError(ErrDatabase, "Failed to save", errors.New("connection reset"))
	assert.Equal(t, "Failed to save: connection reset", appErr.Error())

	appErr = NewAppError(ErrDuplicate, "Email already registered", nil)
	assert.Equal(t, "Email already registered", appErr.Error())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewAccountNotFoundError()))
	assert.True(t, IsNotFound(NewListingNotFoundError()))
	assert.True(t, IsNotFound(NewResponseNotFoundError()))
	assert.False(t, IsNotFound(NewInvalidCredentialsError()))
	assert.False(t, IsNotFound(errors.New("plain error")))
}

func TestAppErrorToHTTPStatus(t *testing.T) {
	cases := map[string]int{
		ErrListingNotFound:    http.StatusNotFound,
		ErrInvalidInput:       http.StatusBadRequest,
		ErrInvalidCredentials: http.StatusUnauthorized,
		ErrForbidden:          http.StatusForbidden,
		ErrDuplicate:          http.StatusConflict,
		ErrDatabase:           http.StatusInternalServerError,
		ErrAssetHost:          http.StatusInternalServerError,
		"SOMETHING_ELSE":      http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, AppErrorToHTTPStatus(code), code)
	}
}

func TestMetricsSnapshot(t *testing.T) {
	mc := NewMetricsCollector()
	mc.AddOperationLatency("create_listing", 10e6)
	mc.AddOperationLatency("create_listing", 30e6)
	mc.IncrementRequests()
	mc.IncrementErrors()

	stats := mc.Snapshot()
	assert.Equal(t, 2, stats["create_listing"].Count)
	assert.InDelta(t, 20.0, stats["create_listing"].AvgMillis, 0.001)

	requests, errs := mc.Counts()
	assert.Equal(t, uint64(1), requests)
	assert.Equal(t, uint64(1), errs)
}
