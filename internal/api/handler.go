package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/eugenenazirov/sentinelconf/internal/sentinelconfig"
	"github.com/eugenenazirov/sentinelconf/internal/source"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// ConfigProvider exposes the resolved configuration and how it was resolved.
// *sentinelconfig.Loader satisfies it.
type ConfigProvider interface {
	Properties() *sentinelconfig.Store
	Init() sentinelconfig.Result
}

// Handler serves read-only views of the resolved configuration.
type Handler struct {
	config ConfigProvider
	clock  func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(config ConfigProvider, opts ...HandlerOption) *Handler {
	h := &Handler{
		config: config,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListConfig(w http.ResponseWriter, r *http.Request) {
	_ = r
	res := h.config.Init()

	resp := configResponse{
		Source:      res.Source,
		Status:      string(res.Status),
		FileEntries: res.FileEntries,
		Entries:     h.config.Properties().Snapshot(),
		Overrides:   res.Overrides,
	}
	if resp.Overrides == nil {
		resp.Overrides = []sentinelconfig.Override{}
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetConfigKey(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "Invalid request", "key must not be empty")
		return
	}

	value, ok := h.config.Properties().Get(key)
	if !ok {
		writeError(w, http.StatusNotFound, "Not found", "no configuration entry for key "+key,
			"GET /api/config lists every resolved key")
		return
	}

	writeJSON(w, http.StatusOK, entryResponse{Key: key, Value: value})
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type configResponse struct {
	Source      source.Resolution         `json:"source"`
	Status      string                    `json:"status"`
	FileEntries int                       `json:"fileEntries"`
	Entries     map[string]string         `json:"entries"`
	Overrides   []sentinelconfig.Override `json:"overrides"`
	Error       string                    `json:"error,omitempty"`
}

type entryResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}
