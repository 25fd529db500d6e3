package client

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jaxron/axonet/middleware/circuitbreaker"
	"github.com/jaxron/axonet/middleware/retry"
	"github.com/jaxron/axonet/pkg/client"
	"github.com/jaxron/axonet/pkg/client/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sensai-ai/hubkit/internal/api"
	"github.com/sensai-ai/hubkit/internal/setup/client/interceptor/metrics"
	"github.com/sensai-ai/hubkit/internal/setup/config"
	"github.com/sensai-ai/hubkit/internal/setup/telemetry/logger"
	"go.uber.org/zap"
)

// GetHTTPClient constructs the backend HTTP client and its middleware chain.
// Retries are off unless configured, since user actions must not be replayed silently.
func GetHTTPClient(cfg *config.Config, zapLogger *zap.Logger, reg prometheus.Registerer) (*client.Client, error) {
	metricsMiddleware, err := metrics.New(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to register client metrics: %w", err)
	}

	// Build middleware chain - order matters!
	middlewares := []middleware.Middleware{
		metricsMiddleware,
		circuitbreaker.New(
			cfg.CircuitBreaker.MaxRequests,
			time.Duration(cfg.CircuitBreaker.Interval)*time.Millisecond,
			time.Duration(cfg.CircuitBreaker.Timeout)*time.Millisecond,
		),
	}

	if cfg.Retry.MaxRetries > 0 {
		middlewares = append(middlewares, retry.New(
			cfg.Retry.MaxRetries,
			time.Duration(cfg.Retry.Delay)*time.Millisecond,
			time.Duration(cfg.Retry.MaxDelay)*time.Millisecond,
		))
	}

	return client.NewClient(
		client.WithMarshalFunc(sonic.Marshal),
		client.WithUnmarshalFunc(sonic.Unmarshal),
		client.WithLogger(logger.New(zapLogger)),
		client.WithTimeout(time.Duration(cfg.API.RequestTimeout)*time.Millisecond),
		client.WithMiddleware(middlewares...),
	), nil
}

// GetAPIClient constructs the typed backend client.
func GetAPIClient(cfg *config.Config, zapLogger *zap.Logger, reg prometheus.Registerer) (*api.Client, error) {
	httpClient, err := GetHTTPClient(cfg, zapLogger, reg)
	if err != nil {
		return nil, err
	}

	return api.New(httpClient, cfg.API.BaseURL, zapLogger)
}
