// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// This file contains the stream reader. Readers handle I/O and event
// sequencing; they use a Parser to turn lines into events and never
// render output themselves.
package stream

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Reader Interface
// =============================================================================

// Reader consumes a streaming response and invokes callbacks.
//
// A single Read or ReadAll call must not run concurrently with another
// on the same instance.
type Reader interface {
	// Read processes a stream, invoking callback for each event. The
	// caller is responsible for closing r.
	//
	// Reading stops at EOF, at a terminal event, when ctx is
	// cancelled, or when the callback returns an error.
	Read(ctx context.Context, r io.Reader, callback Callback) error

	// ReadAll reads the entire stream into an aggregated Result.
	//
	// A backend error event is captured in Result.Error and does not
	// make ReadAll return an error; only transport and callback
	// failures do.
	ReadAll(ctx context.Context, r io.Reader) (*Result, error)
}

// NewReader creates a reader with a fresh parser per stream.
func NewReader() Reader {
	return &sseReader{}
}

// =============================================================================
// Implementation
// =============================================================================

// maxLineBytes bounds a single SSE line. Agent tool results can be
// large, so the scanner buffer is raised well past bufio's default.
const maxLineBytes = 1024 * 1024

type sseReader struct{}

func (r *sseReader) Read(ctx context.Context, reader io.Reader, callback Callback) error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	parser := NewParser()
	eventIndex := 0

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		event, err := parser.ParseLine(scanner.Text())
		if err != nil {
			return err
		}
		if event == nil {
			continue
		}

		event.Index = eventIndex
		eventIndex++

		if err := callback(*event); err != nil {
			return err
		}
		if event.IsTerminal() {
			return nil
		}
	}
	return scanner.Err()
}

func (r *sseReader) ReadAll(ctx context.Context, reader io.Reader) (*Result, error) {
	result := &Result{
		Id:        uuid.New().String(),
		CreatedAt: time.Now().UnixMilli(),
	}

	var answer strings.Builder
	var final string

	err := r.Read(ctx, reader, func(event Event) error {
		result.TotalEvents++

		switch event.Type {
		case EventData:
			if result.FirstTokenAt == 0 {
				result.FirstTokenAt = time.Now().UnixMilli()
			}
			answer.WriteString(event.Content)
			result.TotalTokens++

		case EventFinal:
			final = event.Content

		case EventStreamInfo, EventStreamStart:
			result.Info = event.Info

		case EventComplete:
			result.CompletedAt = time.Now().UnixMilli()

		case EventInterrupted:
			result.Interrupted = true
			result.CompletedAt = time.Now().UnixMilli()

		case EventError:
			result.Error = event.Content
			result.CompletedAt = time.Now().UnixMilli()
		}
		return nil
	})

	result.Answer = answer.String()
	if final != "" {
		result.Answer = final
	}
	if result.CompletedAt == 0 {
		result.CompletedAt = time.Now().UnixMilli()
	}
	return result, err
}

// =============================================================================
// Compile-time Interface Check
// =============================================================================

var _ Reader = (*sseReader)(nil)
