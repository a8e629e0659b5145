// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package api provides the HTTP communication layer for the hachimi
// agent backend: base-URL resolution, response-envelope normalization,
// and a transport client applying both.
//
// This file contains the endpoint resolver. It is pure computation:
// no I/O, no errors, same inputs always produce the same output.
//
// Deployment environments differ in how the backend is addressed:
//
//   - local dev: a proxy maps /api to the backend, so a relative /api works
//   - same-origin production behind nginx: relative /api again
//   - explicit override: an operator-supplied URL that may or may not
//     already carry the /api suffix
//
// The resolver guarantees that appending a feature path to the resolved
// base never yields a duplicated /api/api/ segment. This holds both by
// construction (suffix handling in ResolveBaseURL) and defensively
// (JoinEndpoint collapses accidental repetitions). The two mechanisms
// are independent on purpose; each must be correct on its own.
package api

import (
	"net/url"
	"strings"
)

// Mode selects the deployment environment the client runs against.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// apiSuffix is the backend's API namespace. Every endpoint lives
// underneath it.
const apiSuffix = "/api"

// ResolveBaseURL computes the base URL for all backend requests.
//
// Description:
//
//	Resolution rules, in order:
//	  1. No configured URL: return the relative "/api". A dev proxy and
//	     a same-origin reverse proxy both route this correctly, so the
//	     mode does not change the default.
//	  2. Configured URL already ends with "/api": use it verbatim.
//	  3. Otherwise: append "/api".
//
//	Trailing slashes on the configured URL are stripped first, so
//	"http://h/api/" and "http://h/api" resolve identically.
//
// Inputs:
//
//	mode - Deployment mode. Reserved for mode-specific defaults; the
//	       current rules are mode-independent once configured is empty.
//	configured - Operator override, or "" when unset.
//
// Outputs:
//
//	string - The resolved base, without a trailing slash.
func ResolveBaseURL(mode Mode, configured string) string {
	_ = mode

	base := strings.TrimRight(strings.TrimSpace(configured), "/")
	if base == "" {
		return apiSuffix
	}
	if strings.HasSuffix(base, apiSuffix) {
		return base
	}
	return base + apiSuffix
}

// JoinEndpoint builds a concrete endpoint URL from a resolved base, a
// feature path, and optional query parameters.
//
// Description:
//
//	The feature path is joined with exactly one slash, query values are
//	URL-encoded, and the result passes through CollapseAPISegment as a
//	safety net against a doubled /api/ segment. The collapse is
//	defensive only; ResolveBaseURL already prevents the duplication.
//
// Inputs:
//
//	base - Resolved base URL (see ResolveBaseURL).
//	feature - Feature path, e.g. "/chat/sessions". Leading slash optional.
//	query - Query parameters, may be nil.
//
// Outputs:
//
//	string - The normalized endpoint URL.
func JoinEndpoint(base, feature string, query url.Values) string {
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(feature, "/") {
		feature = "/" + feature
	}

	endpoint := CollapseAPISegment(base + feature)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

// CollapseAPISegment collapses any run of repeated "/api/" segments
// into a single occurrence.
//
// Idempotent: applying it twice is the same as applying it once.
func CollapseAPISegment(endpoint string) string {
	for strings.Contains(endpoint, "/api/api/") {
		endpoint = strings.Replace(endpoint, "/api/api/", "/api/", 1)
	}
	// Repetition at the very end of the URL, before any query string.
	for strings.HasSuffix(endpoint, "/api/api") {
		endpoint = strings.TrimSuffix(endpoint, "/api")
	}
	return endpoint
}
