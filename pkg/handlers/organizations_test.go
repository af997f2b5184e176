package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/models"
	"github.com/gsocguide/backend/pkg/services"
)

func newOrgMux(svc services.OrganizationService) *http.ServeMux {
	mux := http.NewServeMux()
	NewOrganizationsHandler(svc, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestOrganizationsHandler_List(t *testing.T) {
	svc := &mockOrgService{page: &services.OrganizationPage{
		Page: 2, Limit: 10, Total: 45, Pages: 5,
		Items: []*models.Organization{{Slug: "mozilla", Name: "Mozilla"}},
	}}
	mux := newOrgMux(svc)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/organizations?page=2&limit=10&techs=Rust", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.capturedPage != 2 || svc.capturedLimit != 10 {
		t.Errorf("page/limit = %d/%d, want 2/10", svc.capturedPage, svc.capturedLimit)
	}
	if len(svc.capturedFilters.Techs) != 1 || svc.capturedFilters.Techs[0] != "Rust" {
		t.Errorf("techs = %v", svc.capturedFilters.Techs)
	}

	var envelope struct {
		Success bool                      `json:"success"`
		Data    services.OrganizationPage `json:"data"`
		Meta    Meta                      `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if !envelope.Success || envelope.Data.Total != 45 {
		t.Errorf("envelope = %+v", envelope)
	}
}

func TestOrganizationsHandler_ListLegacy(t *testing.T) {
	svc := &mockOrgService{page: &services.OrganizationPage{
		Page: 1, Limit: 20, Total: 1, Pages: 1,
		Items: []*models.Organization{{Slug: "zulip"}},
	}}
	mux := newOrgMux(svc)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/organizations", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if _, enveloped := body["success"]; enveloped {
		t.Error("legacy listing must use the bare shape")
	}
	if body["total"] != float64(1) || body["pages"] != float64(1) {
		t.Errorf("body = %v", body)
	}
}

func TestOrganizationsHandler_Get(t *testing.T) {
	svc := &mockOrgService{org: &models.Organization{Slug: "mozilla", Name: "Mozilla"}}
	mux := newOrgMux(svc)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/organizations/mozilla", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/organizations/unknown", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var envelope Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Error == nil || envelope.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v", envelope.Error)
	}
}

func TestOrganizationsHandler_ListError(t *testing.T) {
	svc := &mockOrgService{listErr: errors.New("connection refused")}
	mux := newOrgMux(svc)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/organizations", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var envelope Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	// Internal detail stays in the logs.
	if envelope.Error.Code != "INTERNAL_ERROR" || envelope.Error.Message == "connection refused" {
		t.Errorf("error = %+v", envelope.Error)
	}
}
