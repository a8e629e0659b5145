// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// mockHTTPClient provides a canned-response HTTPClient and counts calls
// so tests can assert that no network request was made.
type mockHTTPClient struct {
	response *http.Response
	err      error
	calls    int
	lastURL  string
}

func (m *mockHTTPClient) Get(_ context.Context, url string, _ map[string]string) (*http.Response, error) {
	m.calls++
	m.lastURL = url
	return m.response, m.err
}

func (m *mockHTTPClient) Post(_ context.Context, url, _ string, _ io.Reader) (*http.Response, error) {
	m.calls++
	m.lastURL = url
	return m.response, m.err
}

func (m *mockHTTPClient) Delete(_ context.Context, url, _ string, _ io.Reader) (*http.Response, error) {
	m.calls++
	m.lastURL = url
	return m.response, m.err
}

func mockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// =============================================================================
// CLIENT TESTS
// =============================================================================

func TestNewClient_ResolvesBaseOnce(t *testing.T) {
	c := NewClient(Config{Mode: ModeProduction, BaseURL: "http://h"})
	if c.BaseURL() != "http://h/api" {
		t.Errorf("BaseURL = %q", c.BaseURL())
	}
}

func TestClient_GetJSON_UnwrapsEnvelope(t *testing.T) {
	mock := &mockHTTPClient{
		response: mockResponse(http.StatusOK, `{"code":0,"data":[{"sessionId":"s1"}]}`),
	}
	c := NewClient(Config{BaseURL: "http://h/api", HTTP: mock})

	var out []map[string]any
	if err := c.GetJSON(context.Background(), "/chat/sessions", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0]["sessionId"] != "s1" {
		t.Errorf("payload not unwrapped: %v", out)
	}
	if mock.lastURL != "http://h/api/chat/sessions" {
		t.Errorf("request URL = %q", mock.lastURL)
	}
}

func TestClient_GetJSON_NetworkError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	mock := &mockHTTPClient{err: cause}
	c := NewClient(Config{BaseURL: "http://h/api", HTTP: mock})

	err := c.GetJSON(context.Background(), "/chat/sessions", nil, nil)
	te, ok := IsTransportError(err)
	if !ok {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !errors.Is(te, cause) {
		t.Error("cause not preserved")
	}
}

func TestClient_GetJSON_NonSuccessStatus(t *testing.T) {
	t.Run("with envelope surfaces app error", func(t *testing.T) {
		mock := &mockHTTPClient{
			response: mockResponse(http.StatusInternalServerError, `{"code":50002,"message":"AI处理失败"}`),
		}
		c := NewClient(Config{BaseURL: "http://h/api", HTTP: mock})

		err := c.GetJSON(context.Background(), "/chat/sessions/s1", nil, nil)
		ae, ok := IsAppError(err)
		if !ok {
			t.Fatalf("expected AppError, got %v", err)
		}
		if ae.Code != CodeAIProcessError {
			t.Errorf("code = %d", ae.Code)
		}
	})

	t.Run("without envelope surfaces transport error", func(t *testing.T) {
		mock := &mockHTTPClient{
			response: mockResponse(http.StatusBadGateway, "<html>bad gateway</html>"),
		}
		c := NewClient(Config{BaseURL: "http://h/api", HTTP: mock})

		err := c.GetJSON(context.Background(), "/chat/sessions", nil, nil)
		te, ok := IsTransportError(err)
		if !ok {
			t.Fatalf("expected TransportError, got %v", err)
		}
		if te.StatusCode != http.StatusBadGateway {
			t.Errorf("status = %d", te.StatusCode)
		}
	})
}

func TestClient_AgainstHTTPTestServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/chat/sessions":
			_, _ = w.Write([]byte(`{"code":0,"data":[{"sessionId":"s1"},{"sessionId":"s2"}]}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/chat/sessions/s1":
			_, _ = w.Write([]byte(`{"code":0,"data":{"sessionId":"s1","deleted":true}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":40400,"message":"请求数据不存在"}`))
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	t.Run("list", func(t *testing.T) {
		var out []map[string]any
		if err := c.GetJSON(context.Background(), "/chat/sessions", nil, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 2 {
			t.Errorf("got %d sessions", len(out))
		}
	})

	t.Run("delete", func(t *testing.T) {
		var out map[string]any
		if err := c.DeleteJSON(context.Background(), "/chat/sessions/s1", nil, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out["deleted"] != true {
			t.Errorf("payload = %v", out)
		}
	})

	t.Run("not found", func(t *testing.T) {
		err := c.GetJSON(context.Background(), "/chat/unknown", nil, nil)
		if _, ok := IsAppError(err); !ok {
			t.Errorf("expected AppError, got %v", err)
		}
	})
}
