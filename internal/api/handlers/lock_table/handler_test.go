package lock_table

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	lockTable "github.com/m04kA/SMC-ReservationService/internal/usecase/lock_table"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	resp *lockTable.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, _ *lockTable.Request) (*lockTable.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeMetrics struct {
	acquired  int
	conflicts int
}

func (f *fakeMetrics) IncLockAcquired() { f.acquired++ }
func (f *fakeMetrics) IncLockConflict() { f.conflicts++ }

func doLockRequest(t *testing.T, uc *fakeUseCase, metrics *fakeMetrics, withUser bool) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(uc, metrics, nopLogger{})

	body, err := json.Marshal(LockTableRequest{
		TableID:   1,
		Date:      "2026-08-24",
		StartTime: "18:00",
		Guests:    2,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/lock", bytes.NewReader(body))
	if withUser {
		req.Header.Set(middleware.HeaderUserID, "customer-1")
	}

	rec := httptest.NewRecorder()
	auth := middleware.NewAuth(nopLogger{})
	auth.Require(http.HandlerFunc(h.Handle)).ServeHTTP(rec, req)
	return rec
}

func TestHandler_Handle_LockAcquired(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &lockTable.Response{
		ID:              "res-1",
		TableID:         1,
		TableNumber:     5,
		CustomerID:      "customer-1",
		Date:            time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		StartTime:       "18:00",
		DurationMinutes: 90,
		Guests:          2,
		Status:          string(domain.StatusLocked),
		LockExpiresAt:   now.Add(5 * time.Minute),
		CreatedAt:       now,
		UpdatedAt:       now,
	}}
	metrics := &fakeMetrics{}

	rec := doLockRequest(t, uc, metrics, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, metrics.acquired)
	assert.Equal(t, 0, metrics.conflicts)
}

func TestHandler_Handle_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input", lockTable.ErrInvalidInput, http.StatusBadRequest},
		{"window in past", lockTable.ErrWindowInPast, http.StatusBadRequest},
		// Превышение вместимости - ошибка валидации запроса, не конфликт
		{"capacity exceeded", lockTable.ErrCapacityExceeded, http.StatusBadRequest},
		{"table not found", lockTable.ErrTableNotFound, http.StatusNotFound},
		{"table not available", lockTable.ErrTableNotAvailable, http.StatusConflict},
		{"window conflict", lockTable.ErrWindowConflict, http.StatusConflict},
		{"internal error", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := &fakeMetrics{}
			rec := doLockRequest(t, &fakeUseCase{err: tt.err}, metrics, true)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, 0, metrics.acquired)
		})
	}
}

func TestHandler_Handle_WindowConflictCountsMetric(t *testing.T) {
	metrics := &fakeMetrics{}
	rec := doLockRequest(t, &fakeUseCase{err: lockTable.ErrWindowConflict}, metrics, true)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 1, metrics.conflicts)
}

func TestHandler_Handle_MissingUserID(t *testing.T) {
	rec := doLockRequest(t, &fakeUseCase{}, &fakeMetrics{}, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
