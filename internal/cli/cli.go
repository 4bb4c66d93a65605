// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for planchat.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string // Explicit config file path (--config)
	Region     string // County scope for the initial plan fetch (--region)
	Simulate   bool   // Run against the canned local backend (--simulate)
	Verbose    bool   // Debug-level logging (--verbose)

	// Command-specific
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `planchat - terminal client for the plan advisor

planchat is a conversational TUI for narrowing down benefit plans.
Type questions, get advisor replies, and watch the candidate plan
set shrink with every exchange.

Usage:
  planchat [flags]              Start the chat interface
  planchat config show          Print the effective configuration
  planchat config path          Print the config file location
  planchat config init          Write a default config file
  planchat version              Print version information
  planchat help                 Show this help

Flags:
  --config <path>   Load configuration from a specific file
  --region <code>   Scope the initial plan fetch to a county
  --simulate        Use the built-in canned advisor (no network)
  --verbose         Enable debug logging

Environment:
  PLANCHAT_BACKEND_URL   Advisor backend base URL
  PLANCHAT_REGION        County scope for the plan fetch
  PLANCHAT_SIMULATE      Set to 1/true for simulation mode
`

// Parse parses os.Args and returns the command to run with its arguments.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsed := parseGlobalFlags(args)

	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui", "chat":
		return CmdTUI, parsed

	case "config":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
		}
		return CmdConfig, parsed

	case "version", "-v", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, parsed
	}
}

// parseGlobalFlags extracts global flags, returning the remaining
// positional arguments.
func parseGlobalFlags(args []string) ([]string, Args) {
	var parsed Args
	var remaining []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--config", "-c":
			if i+1 < len(args) {
				i++
				parsed.ConfigPath = args[i]
			}
		case "--region", "-r":
			if i+1 < len(args) {
				i++
				parsed.Region = args[i]
			}
		case "--simulate":
			parsed.Simulate = true
		case "--verbose":
			parsed.Verbose = true
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining, parsed
}

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version information to stdout.
func PrintVersion() {
	fmt.Printf("planchat %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
