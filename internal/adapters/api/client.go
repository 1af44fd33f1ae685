// Package api implements the HTTP clients for the task and auth services.
// Both speak the {success, data, message?, meta?} envelope and carry the
// persisted bearer token on every request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taskmaster/client/internal/domain/entities"
	"github.com/taskmaster/client/internal/infrastructure/config"
	"github.com/taskmaster/client/internal/infrastructure/logger"
	"github.com/taskmaster/client/internal/infrastructure/metrics"
	"github.com/taskmaster/client/internal/ports"
)

// APIError is a failed service call. Status 0 means the transport never
// delivered a response.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// IsNetwork reports whether the failure happened before any response arrived
func (e *APIError) IsNetwork() bool {
	return e.Status == 0
}

// NetworkError wraps a transport-level failure
func NetworkError() *APIError {
	return &APIError{Status: 0, Message: "network error or server unavailable"}
}

// Client is the shared HTTP transport for the service clients
type Client struct {
	baseURL string
	http    *http.Client
	session ports.SessionStore
	logger  *logger.Logger
	metrics *metrics.Collector
}

// NewClient creates the shared transport. The metrics collector is
// optional; pass nil to skip instrumentation.
func NewClient(cfg config.APIConfig, session ports.SessionStore, appLogger *logger.Logger, collector *metrics.Collector) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		session: session,
		logger:  appLogger.WithComponent("api"),
		metrics: collector,
	}
}

// do issues one request and decodes the enveloped response into T.
// Non-2xx bodies are best-effort parsed for a message field; an absent
// message yields the generic "HTTP <status>" form.
func do[T any](ctx context.Context, c *Client, method, endpoint string, query url.Values, body interface{}) (T, *entities.Meta, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return zero, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return zero, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if session, err := c.session.Get(); err == nil && session != nil && session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		c.observe(method, endpoint, 0, elapsed, err)
		return zero, nil, NetworkError()
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(method, endpoint, resp.StatusCode, elapsed, err)
		return zero, nil, NetworkError()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := fmt.Sprintf("HTTP %d", resp.StatusCode)
		var errBody struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &errBody); err == nil && errBody.Message != "" {
			message = errBody.Message
		}
		apiErr := &APIError{Status: resp.StatusCode, Message: message}
		c.observe(method, endpoint, resp.StatusCode, elapsed, apiErr)
		return zero, nil, apiErr
	}

	c.observe(method, endpoint, resp.StatusCode, elapsed, nil)

	if len(raw) == 0 {
		return zero, nil, nil
	}

	var envelope entities.Response[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return zero, nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return envelope.Data, envelope.Meta, nil
}

func (c *Client) observe(method, endpoint string, status int, elapsed time.Duration, err error) {
	c.logger.LogAPIRequest(method, endpoint, status, float64(elapsed.Nanoseconds())/1e6, err)
	if c.metrics != nil {
		c.metrics.Observe(method, endpoint, status, elapsed.Seconds())
	}
}
