package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"intervue/internal/config"
	"intervue/internal/storage"
)

func newTestHealthHandler(provider *mockProvider, promptMgr *mockPromptManager, store *storage.Store, cfg *config.Config) *HealthHandler {
	handler := &HealthHandler{
		store:  store,
		config: cfg,
	}

	if provider != nil {
		handler.provider = provider
	}
	if promptMgr != nil {
		handler.promptManager = promptMgr
	}

	return handler
}

func decodeReadinessResponse(t *testing.T, rec *httptest.ResponseRecorder) ReadinessResponse {
	t.Helper()
	var response ReadinessResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return response
}

func TestReadyzHandler_AllHealthy(t *testing.T) {
	provider := &mockProvider{}
	promptMgr := &mockPromptManager{}
	cfg := &config.Config{Provider: "gemini"}
	handler := newTestHealthHandler(provider, promptMgr, newTestStore(t), cfg)

	req := httptest.NewRequest("GET", "/readyz", nil)
	rec := httptest.NewRecorder()

	handler.ReadyzHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	response := decodeReadinessResponse(t, rec)

	if response.Status != "ready" {
		t.Errorf("expected status 'ready', got '%s'", response.Status)
	}
	if response.Service != "intervue" {
		t.Errorf("expected service 'intervue', got '%s'", response.Service)
	}

	expectedChecks := []string{"provider", "prompt_manager", "store", "configuration"}
	for _, checkName := range expectedChecks {
		check, exists := response.Checks[checkName]
		if !exists {
			t.Errorf("missing check: %s", checkName)
			continue
		}
		if check.Status != "ok" {
			t.Errorf("check %s: expected status 'ok', got '%s'", checkName, check.Status)
		}
	}
}

func TestReadyzHandler_DependenciesFail(t *testing.T) {
	handler := newTestHealthHandler(nil, nil, nil, nil)

	req := httptest.NewRequest("GET", "/readyz", nil)
	rec := httptest.NewRecorder()

	handler.ReadyzHandler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}

	response := decodeReadinessResponse(t, rec)

	if response.Status != "not_ready" {
		t.Errorf("expected status 'not_ready', got '%s'", response.Status)
	}

	expectedFailures := []string{"provider", "prompt_manager", "store", "configuration"}
	for _, checkName := range expectedFailures {
		check, exists := response.Checks[checkName]
		if !exists {
			t.Errorf("missing check: %s", checkName)
			continue
		}
		if check.Status != "failed" {
			t.Errorf("check %s: expected status 'failed', got '%s'", checkName, check.Status)
		}
		if check.Message == "" {
			t.Errorf("check %s: expected error message, got empty string", checkName)
		}
	}
}

func TestReadyzHandler_NoTemplatesLoaded(t *testing.T) {
	provider := &mockProvider{}
	promptMgr := &mockPromptManager{
		modesFn: func() []string { return nil },
	}
	cfg := &config.Config{Provider: "gemini"}
	handler := newTestHealthHandler(provider, promptMgr, newTestStore(t), cfg)

	req := httptest.NewRequest("GET", "/readyz", nil)
	rec := httptest.NewRecorder()

	handler.ReadyzHandler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}

	response := decodeReadinessResponse(t, rec)

	pmCheck, exists := response.Checks["prompt_manager"]
	if !exists {
		t.Fatal("prompt_manager check missing from response")
	}
	if pmCheck.Status != "failed" {
		t.Errorf("expected prompt_manager check status 'failed', got '%s'", pmCheck.Status)
	}
	if pmCheck.Message != "No prompt templates loaded" {
		t.Errorf("expected error message about no templates, got '%s'", pmCheck.Message)
	}
}

func TestHealthzHandler_AlwaysReturnsOK(t *testing.T) {
	// even with nil dependencies, healthz should work (liveness probe)
	handler := newTestHealthHandler(nil, nil, nil, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()

	handler.HealthzHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response["status"] != "ok" {
		t.Errorf("expected status 'ok', got '%s'", response["status"])
	}
	if response["service"] != "intervue" {
		t.Errorf("expected service 'intervue', got '%s'", response["service"])
	}
}
