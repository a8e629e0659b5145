// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package stream manages live chat streams: the SSE wire format, the
// event reader, and the controller that starts and stops streams
// against the backend.
//
// The backend speaks two dialects over one SSE connection. Named
// events (stream_info, data, complete, error) carry the conversational
// flows; the agent flow additionally sends bare prefixed lines
// (TOOL_START:, FINAL_RESPONSE:, [DONE]) outside any named event. The
// parser folds both into a single Event type so consumers never see
// the difference.
package stream

// =============================================================================
// Event Types
// =============================================================================

// EventType identifies a streaming event.
type EventType string

const (
	// EventStreamInfo announces the stream id for a chat flow, sent
	// before any content.
	EventStreamInfo EventType = "stream_info"

	// EventStreamStart announces the stream id for an agent flow.
	EventStreamStart EventType = "stream_start"

	// EventData carries one chunk of answer text.
	EventData EventType = "data"

	// EventComplete marks a normally finished stream.
	EventComplete EventType = "complete"

	// EventInterrupted marks a stream stopped by a stop request.
	EventInterrupted EventType = "interrupted"

	// EventError carries a backend-side failure message.
	EventError EventType = "error"

	// Agent flow events, decoded from bare prefixed lines.
	EventThink      EventType = "think"
	EventToolStart  EventType = "tool_start"
	EventToolArgs   EventType = "tool_args"
	EventToolResult EventType = "tool_result"
	EventFinal      EventType = "final_response"
)

// Event is a single parsed streaming event.
type Event struct {
	// Id uniquely identifies this event (client-generated).
	Id string `json:"id"`

	// CreatedAt is the client receipt time in Unix milliseconds.
	CreatedAt int64 `json:"created_at"`

	// Index is the zero-based position within the stream.
	Index int `json:"index"`

	// Type identifies the event.
	Type EventType `json:"type"`

	// Content is the event's text payload: a token chunk for data
	// events, a message for complete/error events, tool output for
	// agent events.
	Content string `json:"content,omitempty"`

	// Info is populated for stream_info and stream_start events.
	Info *Info `json:"info,omitempty"`
}

// IsTerminal reports whether this event ends the stream.
func (e *Event) IsTerminal() bool {
	switch e.Type {
	case EventComplete, EventInterrupted, EventError:
		return true
	}
	return false
}

// Info describes a newly started stream, as announced by the backend's
// stream_info (chat flow) or stream_start (agent flow) event.
type Info struct {
	StreamID  string `json:"streamId"`
	ChatID    string `json:"chatId,omitempty"`
	Type      string `json:"type,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// Callback receives parsed events in stream order. Returning a non-nil
// error stops the read.
type Callback func(event Event) error

// Result aggregates one fully consumed stream.
type Result struct {
	// Id uniquely identifies this read (client-generated).
	Id string

	// CreatedAt is when the read started, Unix milliseconds.
	CreatedAt int64

	// Answer is the accumulated answer text. For agent flows the
	// final_response content supersedes the accumulated chunks.
	Answer string

	// Info is the stream announcement, when one was received.
	Info *Info

	// Interrupted is set when the stream was stopped mid-flight.
	Interrupted bool

	// Error is the backend failure message, empty on success.
	Error string

	TotalEvents  int
	TotalTokens  int
	FirstTokenAt int64
	CompletedAt  int64
}
