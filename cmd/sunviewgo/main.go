package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sunviewgo/internal/api"
	"sunviewgo/pkg/airport"
	"sunviewgo/pkg/cache"
	"sunviewgo/pkg/config"
	"sunviewgo/pkg/db"
	"sunviewgo/pkg/logging"
	"sunviewgo/pkg/probe"
	"sunviewgo/pkg/request"
	"sunviewgo/pkg/seat"
	"sunviewgo/pkg/session"
	"sunviewgo/pkg/solar"
	"sunviewgo/pkg/store"
	"sunviewgo/pkg/version"
)

var (
	configPath = flag.String("config", "configs/sunview.yaml", "Path to config file")
	trace      = flag.Bool("trace", false, "Enable trace logging")
)

func main() {
	flag.Parse()
	logging.EnableTrace = *trace

	// Secrets may live in a local .env during development.
	_ = godotenv.Load()

	if err := run(context.Background(), *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("SunView Started", "version", version.Version)

	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbConn.Close()

	if err := dbConn.PruneCache(30 * 24 * time.Hour); err != nil {
		slog.Warn("Cache pruning failed", "error", err)
	}

	st := store.NewSQLiteStore(dbConn)

	reqClient := request.New(
		cache.NewSQLiteCache(dbConn),
		time.Duration(appCfg.Request.Timeout),
		appCfg.Request.Retries,
		request.NewProviderBackoff(
			time.Duration(appCfg.Request.Backoff.BaseDelay),
			time.Duration(appCfg.Request.Backoff.MaxDelay),
		),
	)

	resolver := airport.NewResolver(st, reqClient, appCfg.Airports.Host, appCfg.Airports.APIKey)

	sun, err := solar.NewEphemeris(appCfg.Sim.SunCacheSize)
	if err != nil {
		return fmt.Errorf("failed to initialize solar ephemeris: %w", err)
	}

	// Startup Probes
	probes := []probe.Probe{
		{
			Name: "Solar Ephemeris",
			Check: func(context.Context) error {
				p, err := sun.SubsolarAt(time.Now().UTC())
				if err != nil {
					return err
				}
				if math.Abs(p.Lat) > 23.7 {
					return fmt.Errorf("sub-solar latitude %.2f outside tropics", p.Lat)
				}
				return nil
			},
			Critical: true,
		},
	}
	if appCfg.Airports.APIKey == "" {
		probes = append(probes, probe.Probe{
			Name:     "Airport Provider",
			Check:    func(context.Context) error { return fmt.Errorf("no API key configured, lookups limited to local database") },
			Critical: false, // App runs on locally stored airports.
		})
	}
	if err := probe.AnalyzeResults(probe.Run(ctx, probes)); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	sessionMgr := session.NewManager(session.Config{
		RoutePoints:  appCfg.Sim.RoutePoints,
		TickInterval: time.Duration(appCfg.Sim.TickInterval),
		StepPercent:  appCfg.Sim.StepPercent,
	}, sun)
	defer sessionMgr.Close()

	srv := api.NewServer(appCfg.Server.Address,
		api.NewAirportHandler(resolver),
		api.NewSubsolarHandler(sun),
		api.NewRecommendHandler(resolver, seat.NewScorer(sun), appCfg.Sim.RoutePoints),
		api.NewSessionHandler(sessionMgr, resolver),
		api.NewStreamHandler(sessionMgr),
		cancel,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	return runServerLifecycle(ctx, srv, quit)
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
