// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package stream

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/AleutianAI/hachimi-client/pkg/api"
)

// =============================================================================
// Result Types
// =============================================================================

// StopResult reports the outcome of stopping one stream.
type StopResult struct {
	StreamID string `json:"streamId"`
	Stopped  bool   `json:"stopped"`
	ChatID   string `json:"chatId,omitempty"`
	Message  string `json:"message,omitempty"`
}

// StopAllResult reports the outcome of stopping every active stream.
type StopAllResult struct {
	StoppedCount int    `json:"stoppedCount"`
	Message      string `json:"message,omitempty"`
}

// ActiveInfo reports the backend's active stream count.
type ActiveInfo struct {
	ActiveCount int   `json:"activeCount"`
	Timestamp   int64 `json:"timestamp,omitempty"`
}

// =============================================================================
// Controller
// =============================================================================

// Config holds configuration for the stream controller.
type Config struct {
	// API is the transport client for control-plane calls (start,
	// stop, status). Required.
	API *api.Client

	// StreamHTTP dispatches the SSE connections themselves. It must
	// not carry a request timeout. Default: api.NewHTTPClient(0).
	StreamHTTP api.HTTPClient

	// Logger receives diagnostic logging. Default: slog.Default().
	Logger *slog.Logger
}

// Controller starts and stops chat streams.
//
// Control-plane calls go through the timeout-bound transport client;
// the SSE connections themselves use an unbounded HTTP client because
// a healthy stream can legitimately outlive any fixed deadline.
//
// Two flows exist. The chat flow builds a streaming URL directly and
// connects; the agent flow first issues a control request that
// validates the message server-side, then connects to the streaming
// endpoint. StopStream works on either.
type Controller struct {
	api    *api.Client
	http   api.HTTPClient
	logger *slog.Logger
}

// NewController creates a stream controller.
func NewController(cfg Config) *Controller {
	httpClient := cfg.StreamHTTP
	if httpClient == nil {
		httpClient = api.NewHTTPClient(0)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{api: cfg.API, http: httpClient, logger: logger}
}

// =============================================================================
// Chat Flow
// =============================================================================

// BuildChatStreamURL builds the streaming URL for a chat exchange.
// Pure URL construction: no network. Both message and chat id are
// required.
func (c *Controller) BuildChatStreamURL(message, chatID string) (string, error) {
	if message == "" {
		return "", fmt.Errorf("%w: message is empty", api.ErrInvalidArgument)
	}
	if chatID == "" {
		return "", fmt.Errorf("%w: chat id is empty", api.ErrInvalidArgument)
	}
	query := url.Values{}
	query.Set("message", message)
	query.Set("chatId", chatID)
	return c.api.Endpoint("/ai/love_app/chat/sse/emitter", query), nil
}

// StartChatStream starts an interruptible chat exchange: a control
// request registers the stream server-side, and on success the
// streaming URL comes back for the caller to open. Backend rejections
// (empty message, AI failures) surface as *AppError.
func (c *Controller) StartChatStream(ctx context.Context, message, chatID string) (string, error) {
	streamURL, err := c.BuildChatStreamURL(message, chatID)
	if err != nil {
		return "", err
	}
	query := url.Values{}
	query.Set("message", message)
	query.Set("chatId", chatID)
	if err := c.api.GetJSON(ctx, "/ai/love_app/chat/sse/interruptible", query, nil); err != nil {
		return "", fmt.Errorf("failed to start chat: %w", err)
	}
	return streamURL, nil
}

// =============================================================================
// Agent Flow
// =============================================================================

// OpenAgentStream starts an agent task. The control request validates
// the message and registers the stream; only on success does the
// caller get a streaming URL back, so a rejected task never leaves a
// half-open connection behind.
func (c *Controller) OpenAgentStream(ctx context.Context, message string) (string, error) {
	if message == "" {
		return "", fmt.Errorf("%w: message is empty", api.ErrInvalidArgument)
	}
	query := url.Values{}
	query.Set("message", message)
	if err := c.api.GetJSON(ctx, "/ai/manus/chat/interruptible", query, nil); err != nil {
		return "", fmt.Errorf("failed to start chat: %w", err)
	}
	return c.api.Endpoint("/ai/manus/chat/sse/stream", query), nil
}

// =============================================================================
// Connection + Control
// =============================================================================

// Open connects to a streaming URL built by one of the flow methods
// and returns the live handle. The caller owns the handle and must
// Close it.
func (c *Controller) Open(ctx context.Context, streamURL string) (*Stream, error) {
	if streamURL == "" {
		return nil, fmt.Errorf("%w: stream url is empty", api.ErrInvalidArgument)
	}
	return Open(ctx, c.http, streamURL, c.logger)
}

// StopStream asks the backend to stop one stream. An empty stream id
// fails before any I/O. Backend refusals (stream unknown, already
// stopped) come back inside the result or as *AppError, never
// swallowed locally.
func (c *Controller) StopStream(ctx context.Context, streamID string) (*StopResult, error) {
	if streamID == "" {
		return nil, fmt.Errorf("%w: stream id is empty", api.ErrInvalidArgument)
	}
	var result StopResult
	feature := fmt.Sprintf("/ai/chat/stop/%s", url.PathEscape(streamID))
	if err := c.api.PostJSON(ctx, feature, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StopAllStreams asks the backend to stop every active stream.
func (c *Controller) StopAllStreams(ctx context.Context) (*StopAllResult, error) {
	var result StopAllResult
	if err := c.api.PostJSON(ctx, "/ai/chat/stop/all", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ActiveStreams returns the backend's view of currently running
// streams.
func (c *Controller) ActiveStreams(ctx context.Context) (*ActiveInfo, error) {
	var info ActiveInfo
	if err := c.api.GetJSON(ctx, "/ai/chat/sessions/active", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
