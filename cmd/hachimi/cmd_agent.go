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
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/hachimi-client/cmd/hachimi/config"
	"github.com/AleutianAI/hachimi-client/pkg/stream"
)

// runAgent starts an agent task and streams its tool use and final
// answer. The control request validates the task before any stream is
// opened, so a rejected task fails fast with the backend's message.
func runAgent(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")

	client := buildAPIClient(&config.Global, appLogger)
	controller := buildController(client, appLogger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	streamURL, err := controller.OpenAgentStream(ctx, message)
	if err != nil {
		return err
	}

	s, err := controller.Open(ctx, streamURL)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	r := newRenderer()
	var streamID string

	err = s.Run(ctx, func(ev stream.Event) error {
		if ev.Info != nil && streamID == "" {
			streamID = ev.Info.StreamID
			appLogger.Debug("agent stream announced", "stream_id", streamID)
		}
		return r.handle(ev)
	})
	r.finish()

	if ctx.Err() != nil && streamID != "" {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, stopErr := controller.StopStream(stopCtx, streamID); stopErr != nil {
			appLogger.Warn("failed to stop agent stream after interrupt", "stream_id", streamID, "error", stopErr)
		}
		return nil
	}
	return err
}
