// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// This file contains the response-envelope normalizer. Every REST
// response from the backend is wrapped uniformly:
//
//	{ "code": 0, "data": <payload>, "message": "ok" }
//
// code 0 is success and data is the payload; any other code is an
// application-level failure whose message is the human-readable reason.
// Normalization is idempotent: a payload without a "code" key is
// treated as already-unwrapped data and passed through untouched.
package api

import (
	"encoding/json"
	"fmt"
)

// Envelope is the backend's uniform response wrapper.
type Envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Normalize unwraps a backend response envelope into its payload.
//
// Description:
//
//	Three cases:
//	  - raw has no "code" key (or is not a JSON object at all): raw is
//	    returned unchanged, supporting callers that already hold
//	    unwrapped payloads.
//	  - code == 0: the data payload is returned. A null or empty data
//	    field is a legitimate success.
//	  - code != 0: an *AppError carrying the backend message (or a
//	    generated default embedding the code) and the original envelope.
//
//	The input is never mutated.
//
// Inputs:
//
//	raw - Complete JSON response body.
//
// Outputs:
//
//	json.RawMessage - The unwrapped payload.
//	error - *AppError when the envelope signals failure.
func Normalize(raw []byte) (json.RawMessage, error) {
	// Probe for a "code" property without committing to the envelope
	// shape. Non-object payloads (arrays, scalars) fall through here.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return raw, nil
	}
	if _, ok := probe["code"]; !ok {
		return raw, nil
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return raw, nil
	}

	if env.Code == CodeOK {
		return env.Data, nil
	}

	msg := env.Message
	if msg == "" {
		msg = fmt.Sprintf("request failed: %d", env.Code)
	}
	return nil, &AppError{
		Code:     env.Code,
		Message:  msg,
		Envelope: &env,
	}
}

// NormalizeInto unwraps an envelope and decodes its payload into out.
//
// A nil or empty payload leaves out untouched and returns nil, so
// callers get their zero value for legitimately empty successes.
func NormalizeInto(raw []byte, out any) error {
	data, err := Normalize(raw)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
