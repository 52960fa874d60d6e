package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"webready/internal/cache"
	"webready/internal/config"
	"webready/internal/db"
	"webready/internal/engine"
	"webready/internal/hub"
	"webready/internal/jobs"
	"webready/internal/toolkit"
)

func testServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	results, err := cache.New(cache.DefaultSize)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	store := jobs.NewStore(database)
	eng := engine.New(toolkit.DefaultRegistry(), config.DefaultThresholds(), 2)
	h := hub.New()
	runner := jobs.NewRunner(store, eng, h, results)

	return New(cfg, runner, store, h)
}

func TestHealthCheck(t *testing.T) {
	srv := testServer(t, Config{Port: 0})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := testServer(t, Config{Port: 0, AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestJobRoutesMounted(t *testing.T) {
	srv := testServer(t, Config{Port: 0})

	req := httptest.NewRequest("GET", "/api/jobs", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list []jobs.Job
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty job list, got %d", len(list))
	}
}
