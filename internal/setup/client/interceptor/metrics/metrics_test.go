package metrics_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sensai-ai/hubkit/internal/setup/client/interceptor/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizedPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"/hubs/posts/42", "/hubs/posts/{id}"},
		{"/hubs/polls/7/votes/9", "/hubs/polls/{id}/votes/{id}"},
		{"/cohorts/", "/cohorts/"},
		{"/enhanced-hubs/leaderboard", "/enhanced-hubs/leaderboard"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, metrics.NormalizedPath(tt.path))
	}
}

func TestProcessRecordsOutcome(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Path: "/hubs/posts/42"}}

	ok := func(context.Context, *http.Client, *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK}, nil
	}
	failed := func(context.Context, *http.Client, *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}

	_, err = m.Process(t.Context(), http.DefaultClient, req, ok)
	require.NoError(t, err)
	_, err = m.Process(t.Context(), http.DefaultClient, req, ok)
	require.NoError(t, err)
	_, err = m.Process(t.Context(), http.DefaultClient, req, failed)
	require.Error(t, err)

	expected := `
# HELP hubkit_api_requests_total Total number of backend API requests
# TYPE hubkit_api_requests_total counter
hubkit_api_requests_total{method="GET",route="/hubs/posts/{id}",status="200"} 2
hubkit_api_requests_total{method="GET",route="/hubs/posts/{id}",status="error"} 1
`
	require.NoError(t, testutil.CollectAndCompare(reg, strings.NewReader(expected), "hubkit_api_requests_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "hubkit_api_request_duration_seconds"))

	// Registering twice on the same registry fails
	_, err = metrics.New(reg)
	require.Error(t, err)
}
