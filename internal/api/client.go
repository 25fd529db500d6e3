// Package api is a typed client for the learning-hub REST API.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/jaxron/axonet/pkg/client"
	"github.com/sensai-ai/hubkit/internal/api/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Client talks to the learning-hub backend. It never retries or caches on its own.
type Client struct {
	http    *client.Client
	baseURL string
	logger  *zap.Logger
	tracer  trace.Tracer
}

// New creates a Client that sends requests through the given axonet client.
func New(httpClient *client.Client, baseURL string, logger *zap.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingBaseURL, err)
	}

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		logger:  logger.Named("api"),
		tracer:  otel.Tracer("hubkit/api"),
	}, nil
}

// call describes a single request.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
}

// do sends the call and decodes a JSON response into c.out when set.
func (c *Client) do(ctx context.Context, req call) error {
	ctx, span := c.tracer.Start(ctx, req.method+" "+req.path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.method),
			attribute.String("http.route", req.path),
		),
	)
	defer span.End()

	err := c.send(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("Request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Error(err))
	}

	return err
}

func (c *Client) send(ctx context.Context, req call) error {
	builder := c.http.NewRequest().
		Method(req.method).
		URL(c.baseURL + req.path)

	for key, values := range req.query {
		for _, value := range values {
			builder = builder.Query(key, value)
		}
	}

	if req.body != nil {
		builder = builder.
			Header("Content-Type", "application/json").
			MarshalBody(req.body)
	}

	resp, err := builder.Do(ctx)
	if resp != nil {
		defer resp.Body.Close()
	}

	// Some transports report non-2xx as an error while still returning the response
	if resp != nil && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return statusError(req, resp)
	}

	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, req.method, req.path, err)
	}

	if req.out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body of %s %s: %w", ErrRequestFailed, req.method, req.path, err)
	}

	if len(body) == 0 {
		return fmt.Errorf("%w: %w: %s %s", ErrRequestFailed, ErrEmptyResponseBody, req.method, req.path)
	}

	if err := sonic.Unmarshal(body, req.out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %w", ErrRequestFailed, req.method, req.path, err)
	}

	return nil
}

// statusError builds a StatusError, keeping the server's detail message when present.
func statusError(req call, resp *http.Response) error {
	statusErr := &StatusError{
		Method:     req.method,
		Path:       req.path,
		StatusCode: resp.StatusCode,
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var detail types.ErrorResponse
	if err := sonic.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		statusErr.Detail = detail.Detail
	} else {
		statusErr.Detail = strings.TrimSpace(string(body))
	}

	return statusErr
}

// pathf formats an API path, escaping every argument as a path segment.
func pathf(format string, args ...any) string {
	escaped := make([]any, len(args))
	for i, arg := range args {
		escaped[i] = url.PathEscape(fmt.Sprint(arg))
	}
	return fmt.Sprintf(format, escaped...)
}
