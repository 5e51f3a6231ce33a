// Package api is the HTTP transport for the contract analysis service.
//
// Every request carries an X-Request-ID, is paced by a client-side rate
// limiter, runs inside an OpenTelemetry span and is logged with its status
// and duration. Non-2xx responses become *errors.TransportError carrying the
// server's {error, details} body when present.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/Iron-Ham/contractlens/internal/config"
	"github.com/Iron-Ham/contractlens/internal/errors"
	"github.com/Iron-Ham/contractlens/internal/logging"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 64 << 20

const tracerName = "github.com/Iron-Ham/contractlens/internal/api"

// Client talks to the analysis service.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	tracer     trace.Tracer
	schemas    schemaSet
	logger     *logging.Logger
	requestID  func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit paces requests. A non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for request logs.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.logger = l.WithComponent("api") }
}

// WithTracerProvider sets the provider spans are created from.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer(tracerName) }
}

// WithoutResponseValidation disables JSON schema checks on responses.
func WithoutResponseValidation() Option {
	return func(c *Client) { c.schemas = nil }
}

// WithRequestIDFunc overrides request id generation.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) { c.requestID = fn }
}

// New creates a Client for the API rooted at baseURL, e.g.
// "http://localhost:5000/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must use http or https", baseURL)
	}

	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		tracer:     otel.Tracer(tracerName),
		schemas:    schemas,
		logger:     logging.NopLogger(),
		requestID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig creates a Client from the api configuration section.
func NewFromConfig(cfg config.APIConfig, logger *logging.Logger) (*Client, error) {
	opts := []Option{
		WithTimeout(cfg.Timeout()),
		WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
		WithLogger(logger),
	}
	if !cfg.ValidateResponses {
		opts = append(opts, WithoutResponseValidation())
	}
	return New(cfg.BaseURL, opts...)
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// endpointURL joins an API-relative path such as "/upload/" onto the base.
func (c *Client) endpointURL(path string) string {
	return c.baseURL.String() + path
}

// serverRootURL is the base URL with a trailing /api removed.
func (c *Client) serverRootURL(path string) string {
	root := *c.baseURL
	root.Path = strings.TrimSuffix(strings.TrimRight(root.Path, "/"), "/api")
	return root.String() + path
}

// response is a fully read HTTP response.
type response struct {
	status    int
	header    http.Header
	body      []byte
	requestID string
}

// errorBody is the service's failure shape.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// do sends one request and returns the response when the status is 2xx.
func (c *Client) do(ctx context.Context, op errors.Operation, method, target string, body []byte, contentType string) (*response, error) {
	requestID := c.requestID()

	ctx, span := c.tracer.Start(ctx, "contractlens."+strings.ReplaceAll(string(op), " ", "_"),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", target),
			attribute.String("contractlens.request_id", requestID),
		),
	)
	defer span.End()

	fail := func(err *errors.TransportError) (*response, error) {
		err.WithRequestID(requestID)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.UserMessage())
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(errors.NewTransportError(op, classifyNetErr(ctx, err)))
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fail(errors.NewTransportError(op, err).WithStatus(0))
	}
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("api request failed",
			"request_id", requestID,
			"endpoint", target,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		return fail(errors.NewTransportError(op, classifyNetErr(ctx, err)))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	duration := time.Since(start)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.Info("api request",
		"request_id", requestID,
		"endpoint", target,
		"status", resp.StatusCode,
		"duration_ms", duration.Milliseconds(),
	)
	if err != nil {
		return fail(errors.NewTransportError(op, classifyNetErr(ctx, err)).WithStatus(resp.StatusCode))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		terr := errors.NewTransportError(op, errors.ErrServerRejected).WithStatus(resp.StatusCode)
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			terr.WithServerMessage(eb.Error).WithDetails(eb.Details)
		}
		if terr.Details != "" {
			c.logger.Warn("server error details",
				"request_id", requestID,
				"endpoint", target,
				"status", resp.StatusCode,
				"details", terr.Details,
			)
		}
		return fail(terr)
	}

	return &response{
		status:    resp.StatusCode,
		header:    resp.Header,
		body:      data,
		requestID: requestID,
	}, nil
}

// decode validates body against the schema for kind and unmarshals it.
func (c *Client) decode(op errors.Operation, kind schemaKind, resp *response, v any) error {
	if err := c.schemas.validate(kind, resp.body); err != nil {
		return errors.NewTransportError(op, fmt.Errorf("%w: %v", errors.ErrMalformedResponse, err)).
			WithStatus(resp.status).
			WithRequestID(resp.requestID)
	}
	if err := json.Unmarshal(resp.body, v); err != nil {
		return errors.NewTransportError(op, fmt.Errorf("%w: %v", errors.ErrMalformedResponse, err)).
			WithStatus(resp.status).
			WithRequestID(resp.requestID)
	}
	return nil
}

// classifyNetErr marks deadline and network timeouts with ErrTimeout.
func classifyNetErr(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", errors.ErrTimeout, err)
	}
	return err
}
