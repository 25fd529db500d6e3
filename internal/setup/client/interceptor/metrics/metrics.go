package metrics

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jaxron/axonet/pkg/client/logger"
	"github.com/jaxron/axonet/pkg/client/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// numericIDPattern matches path segments that are ids.
var numericIDPattern = regexp.MustCompile(`^\d+$`)

// Middleware records request counts and latencies per method, route and status.
type Middleware struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	logger   logger.Logger
}

// New creates a Middleware and registers its collectors.
func New(reg prometheus.Registerer) (*Middleware, error) {
	m := &Middleware{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hubkit",
				Name:      "api_requests_total",
				Help:      "Total number of backend API requests",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "hubkit",
				Name:      "api_request_duration_seconds",
				Help:      "Duration of backend API requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		logger: &logger.NoOpLogger{},
	}

	for _, collector := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Process times the request and records its outcome.
func (m *Middleware) Process(
	ctx context.Context, httpClient *http.Client, req *http.Request, next middleware.NextFunc,
) (*http.Response, error) {
	route := NormalizedPath(req.URL.Path)
	start := time.Now()

	resp, err := next(ctx, httpClient, req)

	m.duration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())

	status := "error"
	if resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	m.requests.WithLabelValues(req.Method, route, status).Inc()

	if err != nil {
		m.logger.WithFields(
			logger.String("route", route),
			logger.String("status", status),
		).Debug("Backend request failed")
	}

	return resp, err
}

// SetLogger sets the logger for the middleware.
func (m *Middleware) SetLogger(l logger.Logger) {
	m.logger = l
}

// NormalizedPath replaces numeric ids in path with {id} to keep label cardinality bounded.
func NormalizedPath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if numericIDPattern.MatchString(part) {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}
