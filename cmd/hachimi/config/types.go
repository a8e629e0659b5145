// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
)

type HachimiConfig struct {
	// Server: where the backend lives and how long ordinary requests
	// may take.
	Server ServerConfig `yaml:"server"`

	// Logging: level and optional file destination.
	Logging LoggingConfig `yaml:"logging"`

	// Names: where custom session names are persisted.
	Names NamesConfig `yaml:"names"`
}

type ServerConfig struct {
	// Mode is "development" or "production".
	Mode string `yaml:"mode" validate:"oneof=development production"`

	// BaseURL overrides the backend address. Empty keeps the
	// same-origin relative default.
	BaseURL string `yaml:"base_url,omitempty" validate:"omitempty,url|startswith=/"`

	// TimeoutSeconds bounds ordinary requests. Streams are exempt.
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"gte=0,lte=600"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	Dir   string `yaml:"dir,omitempty"`
	JSON  bool   `yaml:"json"`
}

type NamesConfig struct {
	// Dir holds the custom-name database. Empty disables persistence.
	Dir string `yaml:"dir,omitempty"`
}

func DefaultConfig() HachimiConfig {
	namesDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		namesDir = filepath.Join(home, ".hachimi", "names")
	}
	return HachimiConfig{
		Server: ServerConfig{
			Mode:           "development",
			BaseURL:        "http://localhost:8123/api",
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Names: NamesConfig{
			Dir: namesDir,
		},
	}
}
