package application

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/sentinelconf/internal/api"
	"github.com/eugenenazirov/sentinelconf/internal/sentinelconfig"
	"github.com/eugenenazirov/sentinelconf/internal/settings"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	config  *sentinelconfig.Loader
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New wires the inspection server around an already constructed loader.
// The loader is initialized here if nobody has done so yet.
func New(cfg settings.Settings, loader *sentinelconfig.Loader, logger *zap.Logger) *App {
	res := loader.Init()
	logger.Info("sentinel configuration resolved",
		zap.String("path", res.Source.Path),
		zap.String("origin", string(res.Source.Origin)),
		zap.String("status", string(res.Status)),
		zap.Int("entries", loader.Properties().Len()),
	)

	handler := api.NewHandler(loader)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		config:  loader,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  NewServer(cfg, BuildRootHandler(apiRouter)),
	}
}

// BuildRootHandler routes API requests and sends the bare root to the
// configuration listing.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/api/config", http.StatusFound)
	}))
	return mux
}

// NewServer creates and configures an HTTP server from the provided settings.
func NewServer(cfg settings.Settings, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
