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
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/hachimi-client/cmd/hachimi/config"
)

func runListSessions(cmd *cobra.Command, args []string) error {
	client := buildAPIClient(&config.Global, appLogger)
	dir, names, err := buildDirectory(&config.Global, client, appLogger)
	if err != nil {
		return err
	}
	defer closeStore(names, appLogger)

	sessions := dir.ListSessions(cmd.Context())
	if len(sessions) == 0 {
		fmt.Println("no sessions")
		return nil
	}

	customNames := dir.CustomNames()
	for _, s := range sessions {
		id := s.Identifier()
		name := dir.DisplayName(&s)
		marker := ""
		if _, ok := customNames[id]; ok {
			marker = " *"
		}
		fmt.Printf("%-40s  %s%s\n", id, name, marker)
	}
	return nil
}

func runShowSession(cmd *cobra.Command, args []string) error {
	client := buildAPIClient(&config.Global, appLogger)
	dir, names, err := buildDirectory(&config.Global, client, appLogger)
	if err != nil {
		return err
	}
	defer closeStore(names, appLogger)

	s, err := dir.GetSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if s == nil {
		fmt.Println("session not available")
		return nil
	}
	fmt.Printf("id:       %s\n", s.Identifier())
	fmt.Printf("name:     %s\n", dir.DisplayName(s))
	if s.MessageCount > 0 {
		fmt.Printf("messages: %d\n", s.MessageCount)
	}
	return nil
}

func runSessionMessages(cmd *cobra.Command, args []string) error {
	client := buildAPIClient(&config.Global, appLogger)
	dir, names, err := buildDirectory(&config.Global, client, appLogger)
	if err != nil {
		return err
	}
	defer closeStore(names, appLogger)

	messages, err := dir.GetSessionMessages(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	for _, m := range messages {
		role := m.RoleValue()
		if role == "" {
			role = "unknown"
		}
		fmt.Printf("[%s] %s\n", strings.ToLower(role), m.TextValue())
	}
	return nil
}

func runDeleteSessions(cmd *cobra.Command, args []string) error {
	client := buildAPIClient(&config.Global, appLogger)
	dir, names, err := buildDirectory(&config.Global, client, appLogger)
	if err != nil {
		return err
	}
	defer closeStore(names, appLogger)

	if len(args) == 1 {
		if err := dir.DeleteSession(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	}

	result, err := dir.BatchDeleteSessions(cmd.Context(), args)
	if err != nil {
		return err
	}
	fmt.Printf("deleted %d of %d sessions\n", result.SuccessCount, result.Total)
	if result.FailCount > 0 {
		return fmt.Errorf("%d deletions failed", result.FailCount)
	}
	return nil
}

func runRenameSession(cmd *cobra.Command, args []string) error {
	client := buildAPIClient(&config.Global, appLogger)
	dir, names, err := buildDirectory(&config.Global, client, appLogger)
	if err != nil {
		return err
	}
	defer closeStore(names, appLogger)

	if names == nil {
		return fmt.Errorf("custom names are disabled: set names.dir in the config")
	}
	if err := dir.SetCustomName(args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("renamed %s to %q\n", args[0], args[1])
	return nil
}

func runSessionStats(cmd *cobra.Command, args []string) error {
	client := buildAPIClient(&config.Global, appLogger)
	dir, names, err := buildDirectory(&config.Global, client, appLogger)
	if err != nil {
		return err
	}
	defer closeStore(names, appLogger)

	stats, err := dir.SessionStats(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("sessions: %d\n", stats.TotalSessions)
	fmt.Printf("messages: %d\n", stats.TotalMessages)
	return nil
}
