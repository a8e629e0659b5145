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
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/hachimi-client/cmd/hachimi/config"
	"github.com/AleutianAI/hachimi-client/pkg/stream"
)

// runChat sends one message through the interruptible chat flow and
// streams the reply. Ctrl-C stops the stream server-side before the
// process exits.
func runChat(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")

	id := chatID
	if id == "" {
		id = uuid.New().String()
		appLogger.Info("starting new conversation", "chat_id", id)
	}

	client := buildAPIClient(&config.Global, appLogger)
	controller := buildController(client, appLogger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	streamURL, err := controller.StartChatStream(ctx, message, id)
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
			appLogger.Debug("stream announced", "stream_id", streamID, "chat_id", id)
		}
		return r.handle(ev)
	})
	r.finish()

	if ctx.Err() != nil && streamID != "" {
		// The user interrupted; tell the backend so the model stops.
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, stopErr := controller.StopStream(stopCtx, streamID); stopErr != nil {
			appLogger.Warn("failed to stop stream after interrupt", "stream_id", streamID, "error", stopErr)
		}
		fmt.Println()
		return nil
	}
	return err
}
