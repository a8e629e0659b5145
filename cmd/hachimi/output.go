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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/AleutianAI/hachimi-client/pkg/stream"
)

// renderer turns stream events into terminal output.
//
// On a TTY, tokens print as they arrive for a live-typing effect and
// agent progress shows as annotated lines. When output is piped, the
// renderer buffers and emits only the final answer, so scripts get
// clean text.
type renderer struct {
	w      io.Writer
	live   bool
	answer strings.Builder
	final  string
}

func newRenderer() *renderer {
	return &renderer{
		w:    os.Stdout,
		live: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
}

func newRendererWithWriter(w io.Writer, live bool) *renderer {
	return &renderer{w: w, live: live}
}

// handle is the stream.Callback for one conversation.
func (r *renderer) handle(ev stream.Event) error {
	switch ev.Type {
	case stream.EventData:
		r.answer.WriteString(ev.Content)
		if r.live {
			fmt.Fprint(r.w, ev.Content)
		}

	case stream.EventThink:
		if r.live {
			fmt.Fprintf(r.w, "· %s\n", ev.Content)
		}

	case stream.EventToolStart:
		if r.live {
			fmt.Fprintf(r.w, "→ running %s\n", ev.Content)
		}

	case stream.EventToolResult:
		if r.live {
			fmt.Fprintf(r.w, "← %s\n", ev.Content)
		}

	case stream.EventFinal:
		r.final = ev.Content

	case stream.EventError:
		r.finish()
		return fmt.Errorf("%s", ev.Content)

	case stream.EventInterrupted:
		if r.live {
			fmt.Fprintln(r.w, "[stopped]")
		}
	}
	return nil
}

// finish flushes whatever the stream produced. The final response, when
// one arrived, supersedes the accumulated chunks.
func (r *renderer) finish() {
	text := r.answer.String()
	if r.final != "" {
		text = r.final
	}
	if text == "" {
		return
	}
	if r.live {
		if r.final != "" {
			fmt.Fprint(r.w, r.final)
		}
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(r.w)
		}
		return
	}
	fmt.Fprintln(r.w, text)
}
