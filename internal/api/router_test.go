package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func testLogger(t *testing.T) *zap.Logger {
	t.Helper()
	return zaptest.NewLogger(t)
}

func newTestRouter(t *testing.T, opts ...RouterOption) http.Handler {
	t.Helper()

	handler := NewHandler(newTestConfig(t, map[string]string{"a": "1"}, nil))
	return NewRouter(handler, testLogger(t), opts...)
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), tag("outer"), nil, tag("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	want := []string{"outer", "inner", "handler"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestAccessLogRecordsRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	router := NewRouter(NewHandler(newTestConfig(t, map[string]string{"a": "1"}, nil)), zap.New(core),
		WithRateLimiter(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/config/missing", nil)
	req.Header.Set(requestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	entries := logs.FilterMessage("request completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one access log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusNotFound) {
		t.Fatalf("expected status 404 in access log, got %v", fields["status"])
	}
	if fields["path"] != "/api/config/missing" || fields["request_id"] != "req-42" {
		t.Fatalf("unexpected access log fields: %v", fields)
	}
	if fields["bytes"] != int64(rec.Body.Len()) {
		t.Fatalf("expected bytes %d, got %v", rec.Body.Len(), fields["bytes"])
	}
	if fields["component"] != "http" {
		t.Fatalf("expected component field, got %v", fields["component"])
	}
}

func TestWithLoggingDisabled(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := NewRouter(NewHandler(newTestConfig(t, nil, nil)), zap.New(core), WithLogging(false))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if n := logs.FilterMessage("request completed").Len(); n != 0 {
		t.Fatalf("expected no access log, got %d entries", n)
	}
}

func TestRecoveryLogsPathAndRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), withRequestID, withRecovery(zap.New(core)))

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	req.Header.Set(requestIDHeader, "req-7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
	entries := logs.FilterMessage("panic recovered").All()
	if len(entries) != 1 {
		t.Fatalf("expected one recovery log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/api/config" || fields["request_id"] != "req-7" {
		t.Fatalf("unexpected recovery fields: %v", fields)
	}
}

func TestStatusWriter(t *testing.T) {
	t.Run("ImplicitOK", func(t *testing.T) {
		sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}
		if _, err := sw.Write([]byte("hello")); err != nil {
			t.Fatalf("write: %v", err)
		}
		if sw.Status() != http.StatusOK || sw.bytes != 5 {
			t.Fatalf("expected 200 and 5 bytes, got %d and %d", sw.Status(), sw.bytes)
		}
	})

	t.Run("FirstHeaderWins", func(t *testing.T) {
		underlying := httptest.NewRecorder()
		sw := &statusWriter{ResponseWriter: underlying}
		sw.WriteHeader(http.StatusTeapot)
		sw.WriteHeader(http.StatusOK)
		if sw.Status() != http.StatusTeapot {
			t.Fatalf("expected 418 to be recorded, got %d", sw.Status())
		}
		if underlying.Code != http.StatusTeapot {
			t.Fatalf("expected status to propagate to ResponseWriter")
		}
	})

	t.Run("NothingWritten", func(t *testing.T) {
		sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}
		if sw.Status() != http.StatusOK {
			t.Fatalf("expected default 200, got %d", sw.Status())
		}
	})
}

func TestRequestIDIsGeneratedOrEchoed(t *testing.T) {
	router := newTestRouter(t, WithLogging(false))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if got := rec.Header().Get(requestIDHeader); len(got) != 32 {
		t.Fatalf("expected generated 32 hex char id, got %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "  caller-id  ")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "caller-id" {
		t.Fatalf("expected caller id to be echoed, got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, WithLogging(false))

	req := httptest.NewRequest(http.MethodOptions, "/api/config", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET,OPTIONS" {
		t.Fatalf("expected read-only CORS methods, got %q", got)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestWriteMethodsNotRouted(t *testing.T) {
	router := newTestRouter(t, WithLogging(false))

	for _, method := range []string{http.MethodPut, http.MethodPost, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/config/a", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405 for %s, got %d", method, rec.Code)
		}
	}
}

func TestEveryRouteIsServed(t *testing.T) {
	router := newTestRouter(t, WithLogging(false))

	for _, path := range []string{"/api/health", "/api/config", "/api/config/a"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", path, rec.Code)
		}
	}
}
