// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"regexp"
	"strings"
)

// =========================================================================
// Display name resolution
// =========================================================================

const (
	// UnknownSessionName is returned for a nil session or one with no
	// identifier field at all.
	UnknownSessionName = "未知会话"

	// fallbackNamePrefix builds the last-resort name from the trailing
	// characters of the session identifier.
	fallbackNamePrefix = "会话 "

	// maxDerivedNameRunes bounds names derived from message content.
	// Names a user chose, and name fields the backend stored, are
	// never truncated.
	maxDerivedNameRunes = 20

	fallbackIDSuffixLen = 6
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// DisplayName resolves a human-friendly name for a session. The
// sources, in priority order:
//
//  1. A custom name the user assigned to this session id.
//  2. The text of the first user message in the message sequence.
//  3. The text of the first message, when no user message has text.
//  4. The first non-empty of LastMessage, Question, FirstUserMessage,
//     LastUserMessage.
//  5. Summary.
//  6. The first non-empty of SessionName, Name, Title.
//  7. "会话 " followed by the last six characters of the identifier.
//
// Names derived from message content (sources 2 through 5) are
// whitespace-collapsed and truncated to a fixed rune budget with a
// trailing ellipsis. Custom and stored names pass through verbatim.
// A session with no identifier resolves to UnknownSessionName.
func DisplayName(s *Session, customNames map[string]string) string {
	id := s.Identifier()
	if id == "" {
		return UnknownSessionName
	}
	if name, ok := customNames[id]; ok && name != "" {
		return name
	}

	for _, m := range s.Messages {
		if m.IsUser() {
			if name := deriveName(m.TextValue()); name != "" {
				return name
			}
		}
	}
	if len(s.Messages) > 0 {
		if name := deriveName(s.Messages[0].TextValue()); name != "" {
			return name
		}
	}
	for _, candidate := range []string{s.LastMessage, s.Question, s.FirstUserMessage, s.LastUserMessage} {
		if name := deriveName(candidate); name != "" {
			return name
		}
	}
	if name := deriveName(s.Summary); name != "" {
		return name
	}
	for _, candidate := range []string{s.SessionName, s.Name, s.Title} {
		if candidate != "" {
			return candidate
		}
	}
	return fallbackNamePrefix + idSuffix(id)
}

// deriveName normalizes message-derived text into a short name:
// interior whitespace runs collapse to a single space, the result is
// trimmed, and anything past the rune budget is cut with an ellipsis.
// Returns "" when nothing usable remains.
func deriveName(text string) string {
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxDerivedNameRunes {
		return text
	}
	return string(runes[:maxDerivedNameRunes]) + "..."
}

func idSuffix(id string) string {
	runes := []rune(id)
	if len(runes) <= fallbackIDSuffixLen {
		return id
	}
	return string(runes[len(runes)-fallbackIDSuffixLen:])
}
