// Package upstream talks to the CRM reporting API and the document API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/loan_dashboard/internal/apperrors"
	"github.com/SscSPs/loan_dashboard/internal/metrics"
	"github.com/SscSPs/loan_dashboard/internal/models"
)

const defaultErrorMessage = "An error occurred while fetching data"

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// APIError is a non-2xx answer from an upstream API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: upstream returned %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Unwrap classifies the failure: 404 is ErrNotFound, everything else ErrUpstream.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrUpstream
}

// Client is a small JSON-over-HTTP client bound to one base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    metrics.Recorder
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMetrics records response status codes.
func WithMetrics(rec metrics.Recorder) ClientOption {
	return func(c *Client) {
		c.metrics = rec
	}
}

// WithLogger sets the logger used for failed calls.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for baseURL with the given request timeout.
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     slog.Default(),
		metrics:    metrics.Noop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doJSON sends body (if any) as JSON and decodes a 2xx response into out (if any).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request for %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request for %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "upstream request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %s %s: %v", apperrors.ErrUpstream, method, path, err)
	}
	defer resp.Body.Close()
	c.metrics.RecordUpstreamStatus(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
		if resp.StatusCode != http.StatusNotFound {
			c.logger.WarnContext(ctx, "upstream returned error status",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
				slog.String("message", apiErr.Message),
			)
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s %s response: %v", apperrors.ErrUpstream, method, path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decoding %s %s response: %v", apperrors.ErrUpstream, method, path, err)
	}
	return nil
}

// readErrorMessage extracts a readable message from an error body. Field-level
// validation errors ({"field": ["msg"]}) are flattened to "field: msg".
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return defaultErrorMessage
	}
	var body models.APIErrorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, m := range []string{body.Message, body.Detail, body.Error} {
			if m != "" {
				return m
			}
		}
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err == nil && len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for k, v := range fields {
			parts = append(parts, fmt.Sprintf("%s: %v", k, flattenMessage(v)))
		}
		slices.Sort(parts)
		return strings.Join(parts, ", ")
	}
	return defaultErrorMessage
}

func flattenMessage(v any) string {
	if list, ok := v.([]any); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, " ")
	}
	return fmt.Sprint(v)
}

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
