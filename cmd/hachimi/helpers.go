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
	"time"

	"github.com/AleutianAI/hachimi-client/cmd/hachimi/config"
	"github.com/AleutianAI/hachimi-client/pkg/api"
	"github.com/AleutianAI/hachimi-client/pkg/logging"
	"github.com/AleutianAI/hachimi-client/pkg/namestore"
	"github.com/AleutianAI/hachimi-client/pkg/session"
	"github.com/AleutianAI/hachimi-client/pkg/stream"
)

// appLogger is built once in the root PersistentPreRun.
var appLogger *logging.Logger

func buildLogger(cfg *config.HachimiConfig) *logging.Logger {
	level := logging.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	return logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.Dir,
		Service: "cli",
		JSON:    cfg.Logging.JSON,
	})
}

func buildAPIClient(cfg *config.HachimiConfig, logger *logging.Logger) *api.Client {
	mode := api.ModeDevelopment
	if cfg.Server.Mode == "production" {
		mode = api.ModeProduction
	}
	return api.NewClient(api.Config{
		Mode:    mode,
		BaseURL: cfg.Server.BaseURL,
		Timeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		Logger:  logger.Slog(),
	})
}

// buildDirectory opens the custom-name store when one is configured.
// The store's Close is the caller's job.
func buildDirectory(cfg *config.HachimiConfig, client *api.Client, logger *logging.Logger) (*session.Directory, namestore.Store, error) {
	var names namestore.Store
	if cfg.Names.Dir != "" {
		store, err := namestore.Open(cfg.Names.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open name store: %w", err)
		}
		names = store
	}
	return session.NewDirectory(client, names, logger.Slog()), names, nil
}

func buildController(client *api.Client, logger *logging.Logger) *stream.Controller {
	return stream.NewController(stream.Config{
		API:    client,
		Logger: logger.Slog(),
	})
}

func closeStore(names namestore.Store, logger *logging.Logger) {
	if names == nil {
		return
	}
	if err := names.Close(); err != nil {
		logger.Warn("failed to close name store", "error", err)
	}
}
