package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/apperrors"
	"github.com/gsocguide/backend/pkg/repositories"
	"github.com/gsocguide/backend/pkg/services"
)

func newAdminMux(svc services.FirstTimeService, adminKey string) *http.ServeMux {
	mux := http.NewServeMux()
	NewAdminHandler(svc, adminKey, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func adminRequest(method, target, key string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	if key != "" {
		r.Header.Set("x-admin-key", key)
	}
	return r
}

func TestAdminHandler_Compute(t *testing.T) {
	svc := &mockFirstTimeService{result: &services.RecomputeResult{
		Year: 2025, Total: 100, Updated: 100, FirstTimeCount: 12,
	}}
	mux := newAdminMux(svc, "secret")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, adminRequest("POST", "/admin/compute-first-time?year=2025", "secret"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2025, svc.capturedYear)

	var envelope struct {
		Success bool                     `json:"success"`
		Data    services.RecomputeResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, 12, envelope.Data.FirstTimeCount)
}

func TestAdminHandler_ComputeDefaultsToCurrentYear(t *testing.T) {
	svc := &mockFirstTimeService{}
	mux := newAdminMux(svc, "secret")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, adminRequest("POST", "/admin/compute-first-time", "secret"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.CurrentYear(), svc.capturedYear)
}

func TestAdminHandler_KeyChecks(t *testing.T) {
	tests := []struct {
		name      string
		serverKey string
		sentKey   string
		want      int
	}{
		{"valid key", "secret", "secret", http.StatusOK},
		{"wrong key", "secret", "nope", http.StatusUnauthorized},
		{"missing key", "secret", "", http.StatusUnauthorized},
		// No configured secret fails closed, even for a matching empty header.
		{"no server key", "", "", http.StatusUnauthorized},
		{"no server key with header", "", "anything", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newAdminMux(&mockFirstTimeService{}, tt.serverKey)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, adminRequest("POST", "/admin/compute-first-time?year=2025", tt.sentKey))
			assert.Equal(t, tt.want, w.Code)

			if tt.want == http.StatusUnauthorized {
				var envelope Envelope
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
				assert.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
			}
		})
	}
}

func TestAdminHandler_ComputeBadYear(t *testing.T) {
	mux := newAdminMux(&mockFirstTimeService{}, "secret")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, adminRequest("POST", "/admin/compute-first-time?year=banana", "secret"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_YEAR", envelope.Error.Code)
}

func TestAdminHandler_ComputeYearOutOfRange(t *testing.T) {
	svc := &mockFirstTimeService{err: apperrors.ErrInvalidYear}
	mux := newAdminMux(svc, "secret")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, adminRequest("POST", "/admin/compute-first-time?year=1999", "secret"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandler_Distribution(t *testing.T) {
	year := 2025
	svc := &mockFirstTimeService{dist: &repositories.FirstTimeDistribution{
		Total: 100, FirstTime: 12, ComputedForYear: &year,
	}}

	// The read-only variant still requires the key.
	mux := newAdminMux(svc, "secret")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, adminRequest("GET", "/admin/compute-first-time", ""))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, adminRequest("GET", "/admin/compute-first-time", "secret"))
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data repositories.FirstTimeDistribution `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 12, envelope.Data.FirstTime)
}
