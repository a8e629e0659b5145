// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/AleutianAI/hachimi-client/pkg/api"
	"github.com/AleutianAI/hachimi-client/pkg/namestore"
)

// fakeHTTP is a canned-response HTTPClient with call counters, so
// tests can assert precondition failures never hit the network.
type fakeHTTP struct {
	status  int
	body    string
	err     error
	calls   int
	lastURL string
}

func (f *fakeHTTP) respond() (*http.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func (f *fakeHTTP) Get(_ context.Context, url string, _ map[string]string) (*http.Response, error) {
	f.lastURL = url
	return f.respond()
}

func (f *fakeHTTP) Post(_ context.Context, url, _ string, _ io.Reader) (*http.Response, error) {
	f.lastURL = url
	return f.respond()
}

func (f *fakeHTTP) Delete(_ context.Context, url, _ string, _ io.Reader) (*http.Response, error) {
	f.lastURL = url
	return f.respond()
}

func newTestDirectory(t *testing.T, httpClient *fakeHTTP) (*Directory, namestore.Store) {
	t.Helper()
	store, err := namestore.OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory name store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	client := api.NewClient(api.Config{BaseURL: "http://backend/api", HTTP: httpClient})
	return NewDirectory(client, store, nil), store
}

func TestListSessions(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeHTTP{status: 200, body: `{"code":0,"data":[{"sessionId":"s1"},{"id":"s2"}]}`}
		dir, _ := newTestDirectory(t, fake)

		sessions := dir.ListSessions(context.Background())
		if len(sessions) != 2 {
			t.Fatalf("got %d sessions, want 2", len(sessions))
		}
		if sessions[0].Identifier() != "s1" || sessions[1].Identifier() != "s2" {
			t.Errorf("unexpected identifiers: %q, %q", sessions[0].Identifier(), sessions[1].Identifier())
		}
		if fake.lastURL != "http://backend/api/chat/sessions" {
			t.Errorf("unexpected URL %q", fake.lastURL)
		}
	})

	t.Run("network failure degrades to empty", func(t *testing.T) {
		fake := &fakeHTTP{err: errors.New("connection refused")}
		dir, _ := newTestDirectory(t, fake)

		sessions := dir.ListSessions(context.Background())
		if sessions == nil || len(sessions) != 0 {
			t.Errorf("got %v, want empty non-nil slice", sessions)
		}
	})

	t.Run("backend error degrades to empty", func(t *testing.T) {
		fake := &fakeHTTP{status: 200, body: `{"code":40400,"message":"not found"}`}
		dir, _ := newTestDirectory(t, fake)

		if sessions := dir.ListSessions(context.Background()); len(sessions) != 0 {
			t.Errorf("got %d sessions, want 0", len(sessions))
		}
	})
}

func TestGetSessionMessages(t *testing.T) {
	t.Run("empty id fails before the network", func(t *testing.T) {
		fake := &fakeHTTP{status: 200, body: `{"code":0,"data":[]}`}
		dir, _ := newTestDirectory(t, fake)

		_, err := dir.GetSessionMessages(context.Background(), "")
		if !errors.Is(err, api.ErrInvalidArgument) {
			t.Fatalf("got %v, want ErrInvalidArgument", err)
		}
		if fake.calls != 0 {
			t.Errorf("made %d HTTP calls, want 0", fake.calls)
		}
	})

	t.Run("success", func(t *testing.T) {
		fake := &fakeHTTP{status: 200, body: `{"code":0,"data":[{"type":"user","text":"hi"},{"type":"ai","content":"hello"}]}`}
		dir, _ := newTestDirectory(t, fake)

		messages, err := dir.GetSessionMessages(context.Background(), "s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(messages) != 2 {
			t.Fatalf("got %d messages, want 2", len(messages))
		}
		if !messages[0].IsUser() || messages[0].TextValue() != "hi" {
			t.Errorf("unexpected first message: %+v", messages[0])
		}
		if fake.lastURL != "http://backend/api/chat/sessions/s1/messages" {
			t.Errorf("unexpected URL %q", fake.lastURL)
		}
	})

	t.Run("backend failure degrades to empty", func(t *testing.T) {
		fake := &fakeHTTP{err: errors.New("timeout")}
		dir, _ := newTestDirectory(t, fake)

		messages, err := dir.GetSessionMessages(context.Background(), "s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if messages == nil || len(messages) != 0 {
			t.Errorf("got %v, want empty non-nil slice", messages)
		}
	})
}

func TestGetSession(t *testing.T) {
	t.Run("empty id", func(t *testing.T) {
		fake := &fakeHTTP{}
		dir, _ := newTestDirectory(t, fake)
		if _, err := dir.GetSession(context.Background(), ""); !errors.Is(err, api.ErrInvalidArgument) {
			t.Fatalf("got %v, want ErrInvalidArgument", err)
		}
		if fake.calls != 0 {
			t.Errorf("made %d HTTP calls, want 0", fake.calls)
		}
	})

	t.Run("success", func(t *testing.T) {
		fake := &fakeHTTP{status: 200, body: `{"code":0,"data":{"sessionId":"s1","sessionName":"talks"}}`}
		dir, _ := newTestDirectory(t, fake)

		s, err := dir.GetSession(context.Background(), "s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s == nil || s.SessionName != "talks" {
			t.Errorf("unexpected session: %+v", s)
		}
	})

	t.Run("failure degrades to nil", func(t *testing.T) {
		fake := &fakeHTTP{status: 200, body: `{"code":40401,"message":"session not found"}`}
		dir, _ := newTestDirectory(t, fake)

		s, err := dir.GetSession(context.Background(), "missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s != nil {
			t.Errorf("got %+v, want nil", s)
		}
	})
}

func TestDeleteSession(t *testing.T) {
	t.Run("empty id fails before the network", func(t *testing.T) {
		fake := &fakeHTTP{}
		dir, _ := newTestDirectory(t, fake)
		if err := dir.DeleteSession(context.Background(), ""); !errors.Is(err, api.ErrInvalidArgument) {
			t.Fatalf("got %v, want ErrInvalidArgument", err)
		}
		if fake.calls != 0 {
			t.Errorf("made %d HTTP calls, want 0", fake.calls)
		}
	})

	t.Run("success cascades custom name removal", func(t *testing.T) {
		fake := &fakeHTTP{status: 200, body: `{"code":0,"data":true}`}
		dir, store := newTestDirectory(t, fake)
		if err := store.Set("s1", "my chat", 0); err != nil {
			t.Fatalf("seed custom name: %v", err)
		}

		if err := dir.DeleteSession(context.Background(), "s1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok, _ := store.Get("s1"); ok {
			t.Error("custom name survived session deletion")
		}
	})

	t.Run("backend failure propagates and keeps the name", func(t *testing.T) {
		fake := &fakeHTTP{status: 200, body: `{"code":50002,"message":"boom"}`}
		dir, store := newTestDirectory(t, fake)
		if err := store.Set("s1", "my chat", 0); err != nil {
			t.Fatalf("seed custom name: %v", err)
		}

		err := dir.DeleteSession(context.Background(), "s1")
		app, ok := api.IsAppError(err)
		if !ok || app.Code != 50002 {
			t.Fatalf("got %v, want AppError code 50002", err)
		}
		if _, ok, _ := store.Get("s1"); !ok {
			t.Error("custom name dropped although deletion failed")
		}
	})
}

func TestBatchDeleteSessions(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		fake := &fakeHTTP{}
		dir, _ := newTestDirectory(t, fake)
		if _, err := dir.BatchDeleteSessions(context.Background(), nil); !errors.Is(err, api.ErrInvalidArgument) {
			t.Fatalf("got %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		fake := &fakeHTTP{status: 200, body: `{"code":0,"data":{"total":2,"successCount":2,"failCount":0}}`}
		dir, store := newTestDirectory(t, fake)
		for _, id := range []string{"s1", "s2"} {
			if err := store.Set(id, "name-"+id, 0); err != nil {
				t.Fatalf("seed custom name: %v", err)
			}
		}

		result, err := dir.BatchDeleteSessions(context.Background(), []string{"s1", "s2"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.SuccessCount != 2 {
			t.Errorf("got %d deletions, want 2", result.SuccessCount)
		}
		names, err := store.All()
		if err != nil {
			t.Fatalf("read names: %v", err)
		}
		if len(names) != 0 {
			t.Errorf("custom names survived batch deletion: %v", names)
		}
	})
}

func TestSessionStats(t *testing.T) {
	fake := &fakeHTTP{status: 200, body: `{"code":0,"data":{"totalSessions":4,"totalMessages":17}}`}
	dir, _ := newTestDirectory(t, fake)

	stats, err := dir.SessionStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalSessions != 4 || stats.TotalMessages != 17 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestCustomNames(t *testing.T) {
	fake := &fakeHTTP{status: 200, body: `{"code":0,"data":null}`}
	dir, _ := newTestDirectory(t, fake)

	if err := dir.SetCustomName("", "x"); !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}
	if err := dir.SetCustomName("s1", "工作会话"); err != nil {
		t.Fatalf("set custom name: %v", err)
	}

	names := dir.CustomNames()
	if names["s1"] != "工作会话" {
		t.Errorf("got %v, want custom name present", names)
	}
	if got := dir.DisplayName(&Session{SessionID: "s1", Title: "stored"}); got != "工作会话" {
		t.Errorf("got %q, want custom name", got)
	}

	// Empty name clears the entry.
	if err := dir.SetCustomName("s1", ""); err != nil {
		t.Fatalf("clear custom name: %v", err)
	}
	if got := dir.DisplayName(&Session{SessionID: "s1", Title: "stored"}); got != "stored" {
		t.Errorf("got %q, want stored title after clearing", got)
	}
}
