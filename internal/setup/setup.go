package setup

import (
	"context"
	"errors"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sensai-ai/hubkit/internal/api"
	"github.com/sensai-ai/hubkit/internal/redis"
	"github.com/sensai-ai/hubkit/internal/session"
	"github.com/sensai-ai/hubkit/internal/setup/client"
	"github.com/sensai-ai/hubkit/internal/setup/config"
	"github.com/sensai-ai/hubkit/internal/setup/telemetry"
	"go.uber.org/zap"
)

// App bundles the dependencies every command needs.
type App struct {
	Config       *config.Config     // Application configuration
	Logger       *zap.Logger        // Main application logger
	API          *api.Client        // Backend HTTP client
	RedisManager *redis.Manager     // Redis connection manager
	Sessions     *session.Store     // Stored viewer sessions
	LogManager   *telemetry.Manager // Log management system
	Registry     *prometheus.Registry
	debugServer  *debugServer
}

// InitializeApp loads configuration and wires the logger, backend client and
// session store together.
func InitializeApp(ctx context.Context, logDir string) (*App, error) {
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging comes first so the remaining steps can report problems
	logManager := telemetry.NewManager(logDir, &cfg.Debug, &cfg.Telemetry)

	logger, err := logManager.GetLogger()
	if err != nil {
		logManager.Stop(ctx)
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	apiClient, err := client.GetAPIClient(cfg, logger, registry)
	if err != nil {
		logManager.Stop(ctx)
		return nil, err
	}

	redisManager := redis.NewManager(&cfg.Redis, logger)

	sessionClient, err := redisManager.GetClient(redis.SessionDBIndex)
	if err != nil {
		redisManager.Close()
		logManager.Stop(ctx)
		return nil, err
	}

	var debugSrv *debugServer

	if cfg.Debug.EnableDebugServer {
		srv, err := startDebugServer(cfg.Debug.DebugPort, registry, logger)
		if err != nil {
			logger.Error("Failed to start debug server", zap.Error(err))
		} else {
			debugSrv = srv

			logger.Warn("Debug endpoint enabled - this should not be used in production!")
		}
	}

	return &App{
		Config:       cfg,
		Logger:       logger,
		API:          apiClient,
		RedisManager: redisManager,
		Sessions:     session.NewStore(sessionClient, logger),
		LogManager:   logManager,
		Registry:     registry,
		debugServer:  debugSrv,
	}, nil
}

// Cleanup shuts components down in reverse order. Errors are logged so every
// component still gets its chance to stop.
func (s *App) Cleanup(ctx context.Context) {
	if s.debugServer != nil {
		if err := s.debugServer.srv.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.Logger.Error("Failed to shutdown debug server", zap.Error(err))
		}

		s.debugServer.listener.Close()
	}

	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	s.LogManager.Stop(ctx)

	// Redis goes last as the session store may still flush during cleanup
	s.RedisManager.Close()
}
