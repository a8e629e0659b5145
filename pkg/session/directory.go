// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/AleutianAI/hachimi-client/pkg/api"
	"github.com/AleutianAI/hachimi-client/pkg/namestore"
)

// =========================================================================
// TYPES
// =========================================================================

// Stats aggregates session counts across the backend's storage.
type Stats struct {
	TotalSessions int `json:"totalSessions"`
	TotalMessages int `json:"totalMessages"`
}

// BatchDeleteResult reports the outcome of a batch deletion.
type BatchDeleteResult struct {
	Total        int `json:"total"`
	SuccessCount int `json:"successCount"`
	FailCount    int `json:"failCount"`
}

// Directory provides read and delete access to the backend's session
// store, plus custom display names persisted locally.
//
// Read operations degrade rather than fail: a backend outage must not
// take the session list down with it, so listing returns an empty
// slice and lookups return absent values, with the cause logged.
// Destructive operations propagate their errors so callers can tell
// the user the deletion did not happen.
type Directory struct {
	client *api.Client
	names  namestore.Store
	logger *slog.Logger
}

// NewDirectory creates a session directory. A nil logger falls back to
// slog.Default().
func NewDirectory(client *api.Client, names namestore.Store, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{client: client, names: names, logger: logger}
}

// =========================================================================
// READ OPERATIONS
// =========================================================================

// ListSessions returns all sessions known to the backend. Failures
// degrade to an empty slice; the caller renders an empty list and the
// cause goes to the log.
func (d *Directory) ListSessions(ctx context.Context) []Session {
	var sessions []Session
	if err := d.client.GetJSON(ctx, "/chat/sessions", nil, &sessions); err != nil {
		d.logger.Warn("failed to list sessions", "error", err)
		return []Session{}
	}
	if sessions == nil {
		sessions = []Session{}
	}
	return sessions
}

// GetSessionMessages returns the message history of one session in
// chronological order. Fails fast on an empty id; backend failures
// degrade to an empty slice.
func (d *Directory) GetSessionMessages(ctx context.Context, sessionID string) ([]Message, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is empty", api.ErrInvalidArgument)
	}
	var messages []Message
	feature := fmt.Sprintf("/chat/sessions/%s/messages", url.PathEscape(sessionID))
	if err := d.client.GetJSON(ctx, feature, nil, &messages); err != nil {
		d.logger.Warn("failed to fetch session messages", "session_id", sessionID, "error", err)
		return []Message{}, nil
	}
	if messages == nil {
		messages = []Message{}
	}
	return messages, nil
}

// GetSession returns one session's detail, or nil when the backend
// cannot produce it. Fails fast on an empty id.
func (d *Directory) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is empty", api.ErrInvalidArgument)
	}
	var s Session
	feature := fmt.Sprintf("/chat/sessions/%s", url.PathEscape(sessionID))
	if err := d.client.GetJSON(ctx, feature, nil, &s); err != nil {
		d.logger.Warn("failed to fetch session", "session_id", sessionID, "error", err)
		return nil, nil
	}
	return &s, nil
}

// SessionStats returns aggregate counts from the backend.
func (d *Directory) SessionStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := d.client.GetJSON(ctx, "/chat/sessions/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// =========================================================================
// DELETE OPERATIONS
// =========================================================================

// DeleteSession removes a session from the backend and drops any
// custom name stored for it. Backend failures propagate; the custom
// name is only removed after the backend confirms the deletion.
func (d *Directory) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id is empty", api.ErrInvalidArgument)
	}
	feature := fmt.Sprintf("/chat/sessions/%s", url.PathEscape(sessionID))
	if err := d.client.DeleteJSON(ctx, feature, nil, nil); err != nil {
		return err
	}
	d.dropCustomName(sessionID)
	return nil
}

// BatchDeleteSessions removes several sessions in one request and
// drops their custom names.
func (d *Directory) BatchDeleteSessions(ctx context.Context, sessionIDs []string) (*BatchDeleteResult, error) {
	if len(sessionIDs) == 0 {
		return nil, fmt.Errorf("%w: no session ids given", api.ErrInvalidArgument)
	}
	var result BatchDeleteResult
	if err := d.client.DeleteJSON(ctx, "/chat/sessions/batch", sessionIDs, &result); err != nil {
		return nil, err
	}
	for _, id := range sessionIDs {
		d.dropCustomName(id)
	}
	return &result, nil
}

func (d *Directory) dropCustomName(sessionID string) {
	if d.names == nil {
		return
	}
	if err := d.names.Delete(sessionID); err != nil {
		d.logger.Warn("failed to drop custom session name", "session_id", sessionID, "error", err)
	}
}

// =========================================================================
// CUSTOM NAMES
// =========================================================================

// SetCustomName assigns a user-chosen display name to a session. An
// empty name clears any existing custom name. Each write refreshes the
// name's retention window.
func (d *Directory) SetCustomName(sessionID, name string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id is empty", api.ErrInvalidArgument)
	}
	if d.names == nil {
		return fmt.Errorf("custom names are not enabled")
	}
	if name == "" {
		return d.names.Delete(sessionID)
	}
	return d.names.Set(sessionID, name, namestore.DefaultTTL)
}

// CustomNames returns all stored custom names keyed by session id.
// Store failures degrade to an empty map.
func (d *Directory) CustomNames() map[string]string {
	if d.names == nil {
		return map[string]string{}
	}
	names, err := d.names.All()
	if err != nil {
		d.logger.Warn("failed to load custom session names", "error", err)
		return map[string]string{}
	}
	return names
}

// DisplayName resolves the display name for a session using the
// stored custom names.
func (d *Directory) DisplayName(s *Session) string {
	return DisplayName(s, d.CustomNames())
}
