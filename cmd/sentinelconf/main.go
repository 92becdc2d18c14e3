package main

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/sentinelconf/internal/application"
	"github.com/eugenenazirov/sentinelconf/internal/logging"
	"github.com/eugenenazirov/sentinelconf/internal/sentinelconfig"
	"github.com/eugenenazirov/sentinelconf/internal/settings"
	"github.com/eugenenazirov/sentinelconf/internal/source"
	"github.com/eugenenazirov/sentinelconf/internal/sysprop"
)

//go:embed resources
var bundled embed.FS

var signalNotify = signal.Notify

func main() {
	sentinelconfig.SetDefaultResources(bundledResources())
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, sentinelconfig.Default))
}

// run executes one CLI invocation. loaderFor is called only after defines have
// been applied, so a lazily initialized loader sees them.
func run(args []string, stdout, stderr io.Writer, loaderFor func() *sentinelconfig.Loader) int {
	app := kingpin.New("sentinelconf", "Resolves and inspects the effective Sentinel configuration")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	helped := false
	app.Terminate(func(int) { helped = true })

	defines := app.Flag("define", "Process property as key=value (repeatable)").Short('D').Strings()
	configFile := app.Flag("config-file", "Sentinel configuration file, sets "+source.PropertyKey).String()
	settingsFile := app.Flag("settings", "Path to YAML settings file for this tool").String()
	logLevel := app.Flag("log-level", "Log level (debug, info, warn, error)").String()

	showCmd := app.Command("show", "Print every resolved configuration entry")
	format := showCmd.Flag("format", "Output format").Default("properties").Enum("properties", "yaml")

	getCmd := app.Command("get", "Print the value of one configuration entry")
	key := getCmd.Arg("key", "Configuration key").Required().String()

	sourceCmd := app.Command("source", "Print which file the configuration was resolved from")

	serveCmd := app.Command("serve", "Serve the resolved configuration over a read-only HTTP API")
	port := serveCmd.Flag("port", "HTTP port exposed by the inspection API").String()
	rateLimitRPSFlag := serveCmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := serveCmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	command, err := app.Parse(args)
	if helped {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "sentinelconf: %v\n", err)
		return 2
	}

	if err := sysprop.ParseDefines(*defines); err != nil {
		fmt.Fprintf(stderr, "sentinelconf: %v\n", err)
		return 2
	}
	if *configFile != "" {
		sysprop.Set(source.PropertyKey, *configFile)
	}

	overrides := &settings.CLIOverrides{
		SettingsFile: *settingsFile,
	}
	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}
	if *port != "" {
		overrides.Port = port
	}
	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}
	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := settings.Load(overrides)
	if err != nil {
		fmt.Fprintf(stderr, "sentinelconf: failed to load settings: %v\n", err)
		return 1
	}

	logger, err := logging.NewWithLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "sentinelconf: failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()
	restore := zap.ReplaceGlobals(logger)
	defer restore()

	loader := loaderFor()
	res := loader.Init()

	switch command {
	case showCmd.FullCommand():
		if err := writeEntries(stdout, loader.Properties(), *format); err != nil {
			fmt.Fprintf(stderr, "sentinelconf: %v\n", err)
			return 1
		}
	case getCmd.FullCommand():
		value, ok := loader.Properties().Get(*key)
		if !ok {
			fmt.Fprintf(stderr, "sentinelconf: %s is not set\n", *key)
			return 1
		}
		fmt.Fprintln(stdout, value)
	case sourceCmd.FullCommand():
		writeResult(stdout, res, loader.Properties().Len())
	case serveCmd.FullCommand():
		srv := application.New(cfg, loader, logger)
		if err := srv.Start(); err != nil {
			logger.Error("failed to start server", zap.Error(err))
			return 1
		}
		shutdown(srv.Server(), cfg.ShutdownGracePeriod, logger)
	}

	return 0
}

func bundledResources() fs.FS {
	sub, err := fs.Sub(bundled, "resources")
	if err != nil {
		return bundled
	}
	return sub
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
