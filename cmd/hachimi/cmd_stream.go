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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/hachimi-client/cmd/hachimi/config"
)

func runStopStream(cmd *cobra.Command, args []string) error {
	client := buildAPIClient(&config.Global, appLogger)
	controller := buildController(client, appLogger)

	result, err := controller.StopStream(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if result.Stopped {
		fmt.Printf("stopped %s\n", result.StreamID)
	} else {
		fmt.Printf("%s: %s\n", result.StreamID, result.Message)
	}
	return nil
}

func runStopAllStreams(cmd *cobra.Command, args []string) error {
	client := buildAPIClient(&config.Global, appLogger)
	controller := buildController(client, appLogger)

	result, err := controller.StopAllStreams(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("stopped %d streams\n", result.StoppedCount)
	return nil
}

func runActiveStreams(cmd *cobra.Command, args []string) error {
	client := buildAPIClient(&config.Global, appLogger)
	controller := buildController(client, appLogger)

	info, err := controller.ActiveStreams(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("active streams: %d\n", info.ActiveCount)
	return nil
}
