// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - config subcommand handlers for planchat.
package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/planchat-tui/internal/config"
)

// HandleConfig dispatches the config subcommands: show, path, init.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}
		fmt.Println(cfg.String())
		return nil

	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return fmt.Errorf("could not resolve config path: %w", err)
		}
		fmt.Println(path)
		return nil

	case "init":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return fmt.Errorf("could not resolve config path: %w", err)
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s", path)
		}
		if err := config.Save(config.Default()); err != nil {
			return fmt.Errorf("could not write config: %w", err)
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return nil

	default:
		return fmt.Errorf("unknown config subcommand: %s", args.Subcommand)
	}
}

// loadConfig loads configuration honoring the --config flag.
func loadConfig(args Args) (*config.Config, error) {
	if args.ConfigPath != "" {
		return config.LoadFromPath(args.ConfigPath)
	}
	return config.Load()
}
