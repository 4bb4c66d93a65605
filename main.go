// planchat TUI - a terminal client for the plan advisor.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/planchat-tui/internal/cli"
	"github.com/jeranaias/planchat-tui/internal/config"
	"github.com/jeranaias/planchat-tui/internal/exchange"
	"github.com/jeranaias/planchat-tui/internal/logging"
	"github.com/jeranaias/planchat-tui/internal/plans"
	"github.com/jeranaias/planchat-tui/internal/reveal"
	"github.com/jeranaias/planchat-tui/internal/store"
	"github.com/jeranaias/planchat-tui/internal/transport"
	"github.com/jeranaias/planchat-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference so controller goroutines can push messages
// into the Bubble Tea loop.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		if err := runTUI(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdConfig:
		if err := cli.HandleConfig(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
}

// sendToProgram forwards a message into the running program, if any.
func sendToProgram(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func runTUI(args cli.Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("planchat starting",
		zap.String("version", Version),
		zap.Bool("simulate", cfg.SimulationEnabled()),
		zap.String("backend_url", cfg.Backend.URL))

	// Backend: real transport or the canned local advisor.
	var backend exchange.Backend
	if cfg.SimulationEnabled() {
		backend = &exchange.Canned{Reply: cfg.Backend.CannedReply}
	} else {
		backend = transport.New(cfg.Backend.URL).
			WithTimeout(cfg.Timeout()).
			WithPollInterval(cfg.PollInterval()).
			WithMaxAttempts(cfg.Backend.MaxPollAttempts).
			WithLogger(logger)
	}

	st := store.NewWithDefault()
	scheduler := reveal.NewScheduler(cfg.Cadence())

	controller := exchange.New(st, backend, scheduler).
		WithLogger(logger).
		WithEvents(exchange.Events{
			OnChange: func() {
				sendToProgram(chat.ExchangeUpdatedMsg{})
			},
			OnNarrowed: func(count int) {
				sendToProgram(chat.NarrowedMsg{Count: count})
			},
		})

	// Seed the candidate plan set from the backend before the first
	// exchange. Failure is not fatal: the advisor still answers, the
	// narrowing notifications just have nothing to diff against.
	if !cfg.SimulationEnabled() {
		fetchInitialPlans(cfg, controller, logger)
	}

	// Hot-reload config changes while the TUI runs.
	watcher, err := config.NewWatcher(0, logger)
	if err == nil {
		watcher.OnReload(func(next *config.Config) {
			controller.SetScheduler(reveal.NewScheduler(next.Cadence()))
		})
		if err := watcher.Watch(); err != nil {
			logger.Debug("config watch unavailable", zap.Error(err))
		}
		defer func() { _ = watcher.Stop() }()
	}

	m := chat.New(st, controller, cfg, logger)
	p := tea.NewProgram(m, tea.WithAltScreen())

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	_, err = p.Run()

	programMu.Lock()
	programRef = nil
	programMu.Unlock()

	controller.Shutdown()
	if err != nil {
		return fmt.Errorf("TUI exited with error: %w", err)
	}
	return nil
}

// loadConfig loads configuration and applies CLI flag overrides.
func loadConfig(args cli.Args) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if args.Region != "" {
		cfg.Backend.Region = args.Region
	}
	if args.Simulate {
		cfg.Backend.Simulate = true
	}
	if args.Verbose {
		cfg.Logging.Level = "debug"
	}

	config.SetGlobal(cfg)
	return cfg, nil
}

// fetchInitialPlans seeds the controller's candidate set from the
// backend's plan listing.
func fetchInitialPlans(cfg *config.Config, controller *exchange.Controller, logger *zap.Logger) {
	client := plans.NewClient(cfg.Backend.URL).WithLogger(logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	set, err := client.Fetch(ctx, cfg.Backend.Region)
	if err != nil {
		logger.Warn("initial plan fetch failed", zap.Error(err))
		return
	}
	controller.SetPlans(set)
}
