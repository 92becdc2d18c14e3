package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/sentinelconf/internal/sentinelconfig"
	"github.com/eugenenazirov/sentinelconf/internal/source"
)

func newTestConfig(t *testing.T, file map[string]string, props map[string]string) *sentinelconfig.Loader {
	t.Helper()

	loader := sentinelconfig.New(
		sentinelconfig.WithResolver(&source.Resolver{}),
		sentinelconfig.WithLoadFunc(func(string) (map[string]string, error) { return file, nil }),
		sentinelconfig.WithPropertySource(func() map[string]string { return props }),
		sentinelconfig.WithLogger(zaptest.NewLogger(t)),
	)
	loader.Init()
	return loader
}

func setupTestRouter(t *testing.T, config ConfigProvider) (http.Handler, time.Time) {
	t.Helper()

	now := time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)
	handler := NewHandler(config, WithClock(func() time.Time { return now }))
	router := NewRouter(handler, zaptest.NewLogger(t), WithLogging(false))

	return router, now
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := contextWithRequestID(context.Background(), "abc")
	if got := requestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
	if got := requestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty request id, got %s", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, now := setupTestRouter(t, newTestConfig(t, nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %s", body.Status)
	}
	if !body.Timestamp.Equal(now) {
		t.Fatalf("expected timestamp %s, got %s", now, body.Timestamp)
	}
}

func TestListConfigEndpoint(t *testing.T) {
	config := newTestConfig(t,
		map[string]string{"a": "1", "b": "2"},
		map[string]string{"b": "3", "c": "4"},
	)
	router, _ := setupTestRouter(t, config)

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var body configResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	want := map[string]string{"a": "1", "b": "3", "c": "4"}
	if len(body.Entries) != len(want) {
		t.Fatalf("unexpected entries: %v", body.Entries)
	}
	for k, v := range want {
		if body.Entries[k] != v {
			t.Fatalf("expected %s=%s, got %s", k, v, body.Entries[k])
		}
	}
	if body.Source.Path != source.DefaultPath || body.Source.Origin != source.OriginDefault {
		t.Fatalf("unexpected source: %+v", body.Source)
	}
	if body.Status != string(sentinelconfig.StatusComplete) {
		t.Fatalf("expected complete status, got %s", body.Status)
	}
	if body.FileEntries != 2 {
		t.Fatalf("expected 2 file entries, got %d", body.FileEntries)
	}
	if len(body.Overrides) != 1 || body.Overrides[0] != (sentinelconfig.Override{Key: "b", Old: "2", New: "3"}) {
		t.Fatalf("unexpected overrides: %+v", body.Overrides)
	}
	if body.Error != "" {
		t.Fatalf("expected no error, got %s", body.Error)
	}
}

func TestListConfigReportsInitFailure(t *testing.T) {
	loader := sentinelconfig.New(
		sentinelconfig.WithResolver(&source.Resolver{}),
		sentinelconfig.WithLoadFunc(func(string) (map[string]string, error) {
			return nil, errors.New("disk on fire")
		}),
		sentinelconfig.WithPropertySource(func() map[string]string { return nil }),
		sentinelconfig.WithLogger(zaptest.NewLogger(t)),
	)
	router, _ := setupTestRouter(t, loader)

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 even after failed init, got %d", rec.Code)
	}

	var body configResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Status != string(sentinelconfig.StatusFailed) {
		t.Fatalf("expected failed status, got %s", body.Status)
	}
	if body.Error != "disk on fire" {
		t.Fatalf("expected init error in response, got %q", body.Error)
	}
	if len(body.Entries) != 0 || body.Overrides == nil {
		t.Fatalf("expected empty entries and non-nil overrides, got %+v", body)
	}
}

func TestGetConfigKeyEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, newTestConfig(t,
		map[string]string{"csp.sentinel.api.port": "8719"},
		nil,
	))

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/config/csp.sentinel.api.port", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var body entryResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body.Key != "csp.sentinel.api.port" || body.Value != "8719" {
			t.Fatalf("unexpected entry: %+v", body)
		}
	})

	t.Run("missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/config/project.name", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}

		var body errorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body.Error != "Not found" || body.Suggestion == "" {
			t.Fatalf("unexpected error body: %+v", body)
		}
	})
}
