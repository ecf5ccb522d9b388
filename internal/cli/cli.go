// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// cli.go - Command parsing for bolt-sync.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "1.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdStatus Command = iota
	CmdDiff
	CmdCompare
	CmdWatch
	CmdAuth
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	NoColor bool

	// Command-specific
	Path         string // file path for diff
	Subcommand   string // e.g. auth set|status|clear
	ContextLines int    // -1 means "not set, use config"
	ForceRefresh bool
	Review       bool // open the interactive reviewer after compare

	// Raw args remaining after the command name
	Raw []string
}

const usageText = `bolt-sync - local project change detection and GitHub comparison

Bolt-sync snapshots a project tree, classifies what changed since the
previous snapshot, and compares the tree against a GitHub branch.

Usage:
  bolt-sync status              Show classified changes since the last snapshot
    --refresh                   Force a fresh snapshot capture
  bolt-sync diff <path>         Show the line diff for one file
    --context N                 Context lines around hunks (0 = full diff)
  bolt-sync compare             Compare the project against the GitHub branch
    --review                    Review changes interactively before reporting
    --refresh                   Force a fresh snapshot capture
  bolt-sync watch               Watch the tree and report changes as they settle
  bolt-sync auth set            Store a personal access token (prompted)
  bolt-sync auth status         Show the active auth method and rate limits
  bolt-sync auth clear          Remove the stored token
  bolt-sync config show         Print the effective configuration
  bolt-sync version             Print version information
  bolt-sync help                Show this help

Global flags:
  --quiet                       Suppress progress output
  --verbose                     Extra diagnostics
  --no-color                    Disable colored output

Configuration: ~/.bolt-sync/config.toml (BOLT_SYNC_* env vars override)

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("bolt-sync version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses os.Args and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgv(os.Args[1:])
}

// ParseArgv parses an explicit argument vector.
func ParseArgv(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdStatus, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining
	parser := NewArgParser(remaining)

	switch cmd {
	case "status", "s":
		args.ForceRefresh = parser.BoolFlag("refresh")
		return CmdStatus, args

	case "diff", "d":
		if len(parser.Positional()) > 0 {
			args.Path = parser.Positional()[0]
		}
		args.ContextLines = parser.IntFlag("context", -1)
		return CmdDiff, args

	case "compare", "c":
		args.ForceRefresh = parser.BoolFlag("refresh")
		args.Review = parser.BoolFlag("review")
		return CmdCompare, args

	case "watch", "w":
		return CmdWatch, args

	case "auth":
		args.Subcommand = parser.Subcommand()
		return CmdAuth, args

	case "config":
		args.Subcommand = parser.Subcommand()
		return CmdConfig, args

	case "version", "--version", "-v":
		return CmdVersion, args

	default:
		return CmdHelp, args
	}
}

// parseGlobalFlags strips global flags from anywhere in the argument
// vector and returns what remains.
func parseGlobalFlags(argv []string) ([]string, Args) {
	args := Args{ContextLines: -1}
	var remaining []string

	for _, arg := range argv {
		switch arg {
		case "--quiet", "-q":
			args.Quiet = true
		case "--verbose":
			args.Verbose = true
		case "--no-color":
			args.NoColor = true
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining, args
}
