// Package api is the thin request/response client for the hosted pub
// service: pubs, visits, favourites, leagues, reports, and profile
// statistics. Calls map one-to-one onto backend endpoints; there is no retry
// logic, failures surface to the UI as alerts and the user retries manually.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ErrUnauthorized reports a missing, rejected, or expired session token.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
}

// Unwrap lets errors.Is(err, ErrUnauthorized) see through 401 responses.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Config carries client construction settings.
type Config struct {
	BaseURL string
	// APIKey is the project key sent on every request alongside the user's
	// bearer token.
	APIKey  string
	Token   string
	Timeout time.Duration
	// Tracer wraps every request in a span when set; nil disables tracing.
	Tracer oteltrace.Tracer
}

// Client talks to the hosted backend. Safe for concurrent use.
type Client struct {
	base   string
	apiKey string
	hc     *http.Client
	tracer oteltrace.Tracer

	mu    sync.RWMutex
	token string
}

// New returns a client for the given backend.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("snug/api")
	}
	return &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey: cfg.APIKey,
		hc:     &http.Client{Timeout: timeout},
		tracer: tracer,
		token:  cfg.Token,
	}
}

// SetToken installs the bearer token used from the next request on.
func (c *Client) SetToken(tok string) {
	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// doJSON runs one request: optional JSON body in, decoded JSON out, non-2xx
// mapped to *APIError. Each call gets a span so request timing lands on the
// OTLP exporter when tracing is enabled.
func doJSON[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out T

	ctx, span := c.tracer.Start(ctx, method+" "+routeOf(path),
		oteltrace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("url.path", path),
		))
	defer span.End()

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return out, spanErr(span, fmt.Errorf("encode request: %w", err))
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return out, spanErr(span, fmt.Errorf("build request: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if tok := c.bearer(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return out, spanErr(span, fmt.Errorf("%s %s: %w", method, path, err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		return out, spanErr(span, decodeAPIError(resp))
	}
	if resp.StatusCode == http.StatusNoContent {
		return out, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, spanErr(span, fmt.Errorf("decode response: %w", err))
	}
	return out, nil
}

func getJSON[T any](ctx context.Context, c *Client, path string) (T, error) {
	return doJSON[T](ctx, c, http.MethodGet, path, nil)
}

func postJSON[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return doJSON[T](ctx, c, http.MethodPost, path, body)
}

func spanErr(span oteltrace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// routeOf strips the query string so span names stay low-cardinality.
func routeOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(data) > 0 {
		var payload struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &payload) == nil && (payload.Code != "" || payload.Message != "") {
			apiErr.Code = payload.Code
			apiErr.Message = payload.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
	}
	return apiErr
}
