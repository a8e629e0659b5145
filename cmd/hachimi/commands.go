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
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/hachimi-client/cmd/hachimi/config"
)

// --- Global Command Variables ---
var (
	chatID    string
	debugMode bool

	rootCmd = &cobra.Command{
		Use:   "hachimi",
		Short: "A cli for the hachimi chat backend",
		Long: `Hachimi talks to a hachimi-agent backend: streaming chat,
				agent tasks with tool use, and session history management.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := config.Load(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
				os.Exit(1)
			}
			if debugMode {
				config.Global.Logging.Level = "debug"
			}
			appLogger = buildLogger(&config.Global)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appLogger != nil {
				_ = appLogger.Close()
			}
		},
	}

	// --- Chat (streaming conversation) ---
	chatCmd = &cobra.Command{
		Use:   "chat [message]",
		Short: "Send a message and stream the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runChat, // Defined in cmd_chat.go
	}

	// --- Agent (tool-using task) ---
	agentCmd = &cobra.Command{
		Use:   "agent [task]",
		Short: "Run an agent task and stream its progress",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAgent, // Defined in cmd_agent.go
	}

	// --- Sessions ---
	sessionsCmd = &cobra.Command{
		Use:   "sessions",
		Short: "Manage chat session history",
	}
	listSessionsCmd = &cobra.Command{
		Use:   "list",
		Short: "List all sessions",
		RunE:  runListSessions,
	}
	showSessionCmd = &cobra.Command{
		Use:   "show [session-id]",
		Short: "Show one session's detail",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowSession,
	}
	sessionMessagesCmd = &cobra.Command{
		Use:   "messages [session-id]",
		Short: "Print a session's message history",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionMessages,
	}
	deleteSessionCmd = &cobra.Command{
		Use:   "delete [session-id...]",
		Short: "Delete one or more sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDeleteSessions,
	}
	renameSessionCmd = &cobra.Command{
		Use:   "rename [session-id] [name]",
		Short: "Set a custom display name for a session",
		Args:  cobra.ExactArgs(2),
		RunE:  runRenameSession,
	}
	sessionStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate session counts",
		RunE:  runSessionStats,
	}

	// --- Stream control ---
	streamCmd = &cobra.Command{
		Use:   "stream",
		Short: "Control running streams",
	}
	stopStreamCmd = &cobra.Command{
		Use:   "stop [stream-id]",
		Short: "Stop one running stream",
		Args:  cobra.ExactArgs(1),
		RunE:  runStopStream,
	}
	stopAllStreamsCmd = &cobra.Command{
		Use:   "stop-all",
		Short: "Stop every running stream",
		RunE:  runStopAllStreams,
	}
	activeStreamsCmd = &cobra.Command{
		Use:   "active",
		Short: "Show how many streams are running",
		RunE:  runActiveStreams,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	chatCmd.Flags().StringVar(&chatID, "chat-id", "", "continue an existing conversation")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(agentCmd)

	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(listSessionsCmd)
	sessionsCmd.AddCommand(showSessionCmd)
	sessionsCmd.AddCommand(sessionMessagesCmd)
	sessionsCmd.AddCommand(deleteSessionCmd)
	sessionsCmd.AddCommand(renameSessionCmd)
	sessionsCmd.AddCommand(sessionStatsCmd)

	rootCmd.AddCommand(streamCmd)
	streamCmd.AddCommand(stopStreamCmd)
	streamCmd.AddCommand(stopAllStreamsCmd)
	streamCmd.AddCommand(activeStreamsCmd)
}
