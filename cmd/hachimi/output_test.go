// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AleutianAI/hachimi-client/pkg/stream"
)

func TestRenderer_LiveMode(t *testing.T) {
	var buf bytes.Buffer
	r := newRendererWithWriter(&buf, true)

	for _, ev := range []stream.Event{
		{Type: stream.EventData, Content: "你好"},
		{Type: stream.EventData, Content: "，世界"},
		{Type: stream.EventComplete},
	} {
		if err := r.handle(ev); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	r.finish()

	got := buf.String()
	if !strings.HasPrefix(got, "你好，世界") {
		t.Errorf("got %q, want tokens printed as they arrive", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("output must end with a newline: %q", got)
	}
}

func TestRenderer_PipedModeBuffersUntilFinish(t *testing.T) {
	var buf bytes.Buffer
	r := newRendererWithWriter(&buf, false)

	if err := r.handle(stream.Event{Type: stream.EventData, Content: "partial"}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("piped mode wrote before finish: %q", buf.String())
	}
	r.finish()
	if got := buf.String(); got != "partial\n" {
		t.Errorf("got %q, want %q", got, "partial\n")
	}
}

func TestRenderer_FinalSupersedesChunks(t *testing.T) {
	var buf bytes.Buffer
	r := newRendererWithWriter(&buf, false)

	_ = r.handle(stream.Event{Type: stream.EventData, Content: "progress chunk"})
	_ = r.handle(stream.Event{Type: stream.EventFinal, Content: "the real answer"})
	r.finish()

	if got := buf.String(); got != "the real answer\n" {
		t.Errorf("got %q", got)
	}
}

func TestRenderer_ErrorEventPropagates(t *testing.T) {
	var buf bytes.Buffer
	r := newRendererWithWriter(&buf, false)

	err := r.handle(stream.Event{Type: stream.EventError, Content: "AI处理失败"})
	if err == nil || !strings.Contains(err.Error(), "AI处理失败") {
		t.Fatalf("got %v, want the backend message", err)
	}
}

func TestRenderer_AgentProgressOnlyWhenLive(t *testing.T) {
	var live, piped bytes.Buffer

	rl := newRendererWithWriter(&live, true)
	_ = rl.handle(stream.Event{Type: stream.EventToolStart, Content: "webSearch"})
	if !strings.Contains(live.String(), "webSearch") {
		t.Errorf("live mode dropped tool progress: %q", live.String())
	}

	rp := newRendererWithWriter(&piped, false)
	_ = rp.handle(stream.Event{Type: stream.EventToolStart, Content: "webSearch"})
	rp.finish()
	if piped.Len() != 0 {
		t.Errorf("piped mode leaked tool progress: %q", piped.String())
	}
}
