// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// This file contains the transport client. It resolves the base URL
// once per client lifetime, attaches default headers and a bounded
// timeout, and pipes every successful response through the envelope
// normalizer. Transport-level failures surface as *TransportError,
// application-level failures as *AppError; the two are never conflated.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// INTERFACES
// =============================================================================

// HTTPClient abstracts HTTP dispatch for testability.
//
// The production implementation wraps *http.Client. Tests inject mocks
// with canned responses and call counters to assert that precondition
// failures never reach the network.
type HTTPClient interface {
	// Get issues a GET request with the given headers.
	Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error)

	// Post issues a POST request with the given content type and body.
	Post(ctx context.Context, url, contentType string, body io.Reader) (*http.Response, error)

	// Delete issues a DELETE request. Body may be nil; when non-nil the
	// content type applies to it.
	Delete(ctx context.Context, url, contentType string, body io.Reader) (*http.Response, error)
}

// =============================================================================
// DEFAULT HTTP CLIENT
// =============================================================================

// defaultHTTPClient is the production HTTPClient backed by *http.Client.
type defaultHTTPClient struct {
	client *http.Client
}

// NewHTTPClient returns the production HTTPClient with the given
// request timeout. A zero timeout means no bound; streaming
// connections stay open until the server or caller closes them, so
// they use an unbounded client.
func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &defaultHTTPClient{client: &http.Client{Timeout: timeout}}
}

func (c *defaultHTTPClient) Get(ctx context.Context, target string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.client.Do(req)
}

func (c *defaultHTTPClient) Post(ctx context.Context, target, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.client.Do(req)
}

func (c *defaultHTTPClient) Delete(ctx context.Context, target, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	return c.client.Do(req)
}

// =============================================================================
// CLIENT
// =============================================================================

// DefaultTimeout bounds ordinary (non-streaming) requests.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response body is retained in
// a TransportError for diagnostics.
const maxErrorBody = 4096

// Config holds configuration for the transport client.
//
// Only zero values have defaults applied; see NewClient.
type Config struct {
	// Mode selects the deployment environment.
	Mode Mode

	// BaseURL is the operator override for the backend address. Empty
	// means the resolver's relative default.
	BaseURL string

	// Timeout bounds ordinary requests. Default: DefaultTimeout.
	// Streaming connections do not go through this client and carry no
	// such bound.
	Timeout time.Duration

	// HTTP is the HTTP dispatcher. Default: production client.
	HTTP HTTPClient

	// Logger receives diagnostic logging. Default: slog.Default().
	Logger *slog.Logger
}

// Client is the transport client for the hachimi backend.
//
// Thread Safety: Client is immutable after construction and safe for
// concurrent use.
type Client struct {
	baseURL string
	http    HTTPClient
	logger  *slog.Logger
}

// NewClient creates a transport client.
//
// The base URL is resolved exactly once, here; every request built by
// this client reuses the resolved value.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = &defaultHTTPClient{client: &http.Client{Timeout: timeout}}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: ResolveBaseURL(cfg.Mode, cfg.BaseURL),
		http:    httpClient,
		logger:  logger,
	}
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoint builds a normalized endpoint URL under the resolved base.
func (c *Client) Endpoint(feature string, query url.Values) string {
	return JoinEndpoint(c.baseURL, feature, query)
}

// GetJSON issues a GET, normalizes the envelope, and decodes the
// payload into out. Pass a nil out to discard the payload.
func (c *Client) GetJSON(ctx context.Context, feature string, query url.Values, out any) error {
	target := c.Endpoint(feature, query)
	requestID := uuid.New().String()

	c.logger.Debug("api GET", "request_id", requestID, "url", target)

	resp, err := c.http.Get(ctx, target, map[string]string{
		"Accept":       "application/json",
		"X-Request-Id": requestID,
	})
	if err != nil {
		c.logger.Error("api GET failed", "request_id", requestID, "url", target, "error", err)
		return &TransportError{URL: target, Err: err}
	}
	return c.handleResponse(requestID, target, resp, out)
}

// PostJSON issues a POST with a JSON body, normalizes the envelope, and
// decodes the payload into out. A nil body sends an empty request body.
func (c *Client) PostJSON(ctx context.Context, feature string, query url.Values, body, out any) error {
	target := c.Endpoint(feature, query)
	requestID := uuid.New().String()

	reader, err := encodeBody(body)
	if err != nil {
		return err
	}

	c.logger.Debug("api POST", "request_id", requestID, "url", target)

	resp, err := c.http.Post(ctx, target, "application/json", reader)
	if err != nil {
		c.logger.Error("api POST failed", "request_id", requestID, "url", target, "error", err)
		return &TransportError{URL: target, Err: err}
	}
	return c.handleResponse(requestID, target, resp, out)
}

// DeleteJSON issues a DELETE with an optional JSON body, normalizes the
// envelope, and decodes the payload into out.
func (c *Client) DeleteJSON(ctx context.Context, feature string, body, out any) error {
	target := c.Endpoint(feature, nil)
	requestID := uuid.New().String()

	reader, err := encodeBody(body)
	if err != nil {
		return err
	}

	c.logger.Debug("api DELETE", "request_id", requestID, "url", target)

	resp, err := c.http.Delete(ctx, target, "application/json", reader)
	if err != nil {
		c.logger.Error("api DELETE failed", "request_id", requestID, "url", target, "error", err)
		return &TransportError{URL: target, Err: err}
	}
	return c.handleResponse(requestID, target, resp, out)
}

// handleResponse applies the error taxonomy to an HTTP response.
//
// 2xx bodies go through the envelope normalizer. Non-2xx bodies are
// still probed for an envelope so backend failures keep their code and
// message; only an unparseable failure degrades to a TransportError.
func (c *Client) handleResponse(requestID, target string, resp *http.Response, out any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "request_id", requestID, "error", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("failed to read response body",
			"request_id", requestID,
			"url", target,
			"status_code", resp.StatusCode,
			"error", err,
		)
		return &TransportError{StatusCode: resp.StatusCode, URL: target, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if _, normErr := Normalize(raw); normErr != nil {
			if ae, ok := IsAppError(normErr); ok {
				c.logger.Warn("backend rejected request",
					"request_id", requestID,
					"url", target,
					"status_code", resp.StatusCode,
					"code", ae.Code,
					"message", ae.Message,
				)
				return normErr
			}
		}
		body := string(raw)
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		c.logger.Error("server returned error",
			"request_id", requestID,
			"url", target,
			"status_code", resp.StatusCode,
			"response_body", body,
		)
		return &TransportError{StatusCode: resp.StatusCode, URL: target, Body: body}
	}

	if err := NormalizeInto(raw, out); err != nil {
		c.logger.Warn("response normalization failed",
			"request_id", requestID,
			"url", target,
			"error", err,
		)
		return err
	}
	return nil
}

func encodeBody(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return bytes.NewReader(data), nil
}

// =============================================================================
// COMPILE-TIME INTERFACE CHECKS
// =============================================================================

var _ HTTPClient = (*defaultHTTPClient)(nil)
