// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package stream

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/AleutianAI/hachimi-client/pkg/api"
)

// =============================================================================
// Stream Handle
// =============================================================================

// Stream owns one live SSE connection. The caller that opened it is
// responsible for closing it; the controller never retains handles.
//
// A Stream carries no request timeout. Streams run as long as the
// model keeps talking; the caller bounds them with ctx when needed.
type Stream struct {
	url    string
	body   io.ReadCloser
	reader Reader
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// maxOpenErrorBody caps how much of a failed open's body is kept for
// diagnostics.
const maxOpenErrorBody = 4096

// Open connects to a streaming URL and returns the live handle.
//
// The HTTP client must not carry a request timeout; see
// api.NewHTTPClient(0). Non-2xx responses are drained into a
// *TransportError.
func Open(ctx context.Context, client api.HTTPClient, url string, logger *slog.Logger) (*Stream, error) {
	if logger == nil {
		logger = slog.Default()
	}
	requestID := uuid.New().String()

	logger.Debug("opening stream", "request_id", requestID, "url", url)

	resp, err := client.Get(ctx, url, map[string]string{
		"Accept":        "text/event-stream",
		"Cache-Control": "no-cache",
		"X-Request-Id":  requestID,
	})
	if err != nil {
		logger.Error("stream open failed", "request_id", requestID, "url", url, "error", err)
		return nil, &api.TransportError{URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxOpenErrorBody))
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "request_id", requestID, "error", err)
		}
		logger.Error("stream open rejected",
			"request_id", requestID,
			"url", url,
			"status_code", resp.StatusCode,
		)
		return nil, &api.TransportError{StatusCode: resp.StatusCode, URL: url, Body: string(body)}
	}

	return &Stream{
		url:    url,
		body:   resp.Body,
		reader: NewReader(),
		logger: logger,
	}, nil
}

// URL returns the URL this stream is connected to.
func (s *Stream) URL() string {
	return s.url
}

// Run consumes the stream, invoking callback per event until a
// terminal event, EOF, cancellation, or a callback error.
func (s *Stream) Run(ctx context.Context, callback Callback) error {
	return s.reader.Read(ctx, s.body, callback)
}

// ReadAll consumes the stream into an aggregated Result.
func (s *Stream) ReadAll(ctx context.Context) (*Result, error) {
	return s.reader.ReadAll(ctx, s.body)
}

// Close releases the connection. Safe to call more than once.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}

var _ io.Closer = (*Stream)(nil)
