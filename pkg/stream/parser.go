// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// This file contains the SSE line parser. Parsers only parse: no I/O,
// no rendering, no stream state beyond the pending event name the SSE
// format itself requires.
package stream

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Parser Interface
// =============================================================================

// Parser converts SSE lines into Event structs.
//
// SSE interleaves `event:` lines naming the next payload with `data:`
// lines carrying it, so a parser is stateful across lines within one
// stream. Use one Parser per stream; instances are not safe for
// concurrent use.
//
// Example:
//
//	parser := NewParser()
//	parser.ParseLine("event: data")        // nil, nil
//	ev, _ := parser.ParseLine("data: 你好") // data event, Content "你好"
type Parser interface {
	// ParseLine parses a single line of SSE input, without its
	// trailing newline.
	//
	// Returns nil, nil for lines that carry no event: blank delimiter
	// lines, comments, and `event:` lines (which only set the type of
	// the following payload).
	ParseLine(line string) (*Event, error)
}

// NewParser creates a parser for the backend's SSE dialects.
func NewParser() Parser {
	return &sseParser{}
}

// =============================================================================
// Implementation
// =============================================================================

// agent flow lines arrive outside any named event, as bare prefixed
// payloads.
var rawLinePrefixes = []struct {
	prefix string
	typ    EventType
}{
	{"THINK:", EventThink},
	{"TOOL_START:", EventToolStart},
	{"TOOL_ARGS:", EventToolArgs},
	{"TOOL_RESULT:", EventToolResult},
	{"FINAL_RESPONSE:", EventFinal},
}

// doneMarker ends the agent flow in place of a complete event.
const doneMarker = "[DONE]"

type sseParser struct {
	// pending is the event name announced by the last `event:` line,
	// consumed by the next `data:` line.
	pending EventType
}

func (p *sseParser) ParseLine(line string) (*Event, error) {
	line = strings.TrimRight(line, "\r")

	// Blank lines delimit events and clear any unconsumed name.
	if strings.TrimSpace(line) == "" {
		p.pending = ""
		return nil, nil
	}

	// Comments.
	if strings.HasPrefix(line, ":") {
		return nil, nil
	}

	if name, ok := fieldValue(line, "event"); ok {
		p.pending = EventType(name)
		return nil, nil
	}

	if payload, ok := fieldValue(line, "data"); ok {
		typ := p.pending
		p.pending = ""
		if typ == "" {
			typ = EventData
		}
		return p.buildEvent(typ, payload)
	}

	// Bare agent-flow lines.
	for _, raw := range rawLinePrefixes {
		if strings.HasPrefix(line, raw.prefix) {
			return newEvent(raw.typ, strings.TrimPrefix(line, raw.prefix)), nil
		}
	}
	if line == doneMarker {
		return newEvent(EventComplete, ""), nil
	}

	// Anything else is a plain token chunk.
	return newEvent(EventData, line), nil
}

// buildEvent assembles an event for a named payload. Announcement
// events decode their JSON body into Info; everything else keeps the
// payload as text.
func (p *sseParser) buildEvent(typ EventType, payload string) (*Event, error) {
	event := newEvent(typ, payload)
	if typ == EventStreamInfo || typ == EventStreamStart {
		var info Info
		if err := json.Unmarshal([]byte(payload), &info); err != nil {
			return nil, err
		}
		event.Content = ""
		event.Info = &info
	}
	return event, nil
}

func newEvent(typ EventType, content string) *Event {
	return &Event{
		Id:        uuid.New().String(),
		CreatedAt: time.Now().UnixMilli(),
		Type:      typ,
		Content:   content,
	}
}

// fieldValue splits an SSE field line ("name: value" or "name:value")
// and reports whether the line carries the named field.
func fieldValue(line, field string) (string, bool) {
	if !strings.HasPrefix(line, field+":") {
		return "", false
	}
	value := line[len(field)+1:]
	return strings.TrimPrefix(value, " "), true
}

// =============================================================================
// Compile-time Interface Check
// =============================================================================

var _ Parser = (*sseParser)(nil)
