// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package session maintains the client-side directory of chat
// sessions: listing, lookup, deletion, and the resolution of
// human-friendly display names.
//
// The backend does not guarantee a single canonical session shape.
// Different storage backends surface different key and text fields, so
// Session and Message carry every known variant as an explicit
// optional field with a documented resolution order, instead of the ad
// hoc runtime field probing the shapes would otherwise invite.
package session

import "strings"

// Session is a chat session as reported by the backend.
//
// Identifier resolution order: SessionID, ConversationID, ID — first
// non-empty wins. All other fields are optional and may be absent
// depending on which backend store produced the record.
type Session struct {
	SessionID      string `json:"sessionId,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
	ID             string `json:"id,omitempty"`

	SessionName string `json:"sessionName,omitempty"`
	Name        string `json:"name,omitempty"`
	Title       string `json:"title,omitempty"`

	Messages []Message `json:"messages,omitempty"`

	LastMessage      string `json:"lastMessage,omitempty"`
	Question         string `json:"question,omitempty"`
	FirstUserMessage string `json:"firstUserMessage,omitempty"`
	LastUserMessage  string `json:"lastUserMessage,omitempty"`
	Summary          string `json:"summary,omitempty"`

	MessageCount int   `json:"messageCount,omitempty"`
	UpdateTime   int64 `json:"updateTime,omitempty"`
}

// Identifier returns the session's key field, first present wins.
// Empty when no identifier field is set.
func (s *Session) Identifier() string {
	switch {
	case s == nil:
		return ""
	case s.SessionID != "":
		return s.SessionID
	case s.ConversationID != "":
		return s.ConversationID
	default:
		return s.ID
	}
}

// Message is a single chat message within a session.
//
// Role resolution order: Type, Role, MessageType. Text resolution
// order: Text, Content, Body.
type Message struct {
	Type        string `json:"type,omitempty"`
	Role        string `json:"role,omitempty"`
	MessageType string `json:"messageType,omitempty"`

	Text    string `json:"text,omitempty"`
	Content string `json:"content,omitempty"`
	Body    string `json:"message,omitempty"`

	ConversationID string `json:"conversationId,omitempty"`
	MessageOrder   int    `json:"messageOrder,omitempty"`
}

// RoleValue returns the message's role-like field, first present wins.
func (m *Message) RoleValue() string {
	switch {
	case m.Type != "":
		return m.Type
	case m.Role != "":
		return m.Role
	default:
		return m.MessageType
	}
}

// IsUser reports whether the role-like field identifies a user message.
func (m *Message) IsUser() bool {
	return strings.EqualFold(m.RoleValue(), "user")
}

// TextValue returns the message's text-like field, first present wins.
func (m *Message) TextValue() string {
	switch {
	case m.Text != "":
		return m.Text
	case m.Content != "":
		return m.Content
	default:
		return m.Body
	}
}
