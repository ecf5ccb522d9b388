// bolt-sync - Change detection and GitHub comparison for Bolt.new projects.
//
// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mamertofabian/bolt-to-github-sub005/internal/cli"
	"github.com/mamertofabian/bolt-to-github-sub005/internal/config"
)

// Version information (set at build time)
var (
	Version   = "1.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	// Version and help need no configuration.
	switch cmd {
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	app := cli.NewApp(cfg, args)
	ctx := context.Background()

	switch cmd {
	case cli.CmdStatus:
		err = app.HandleStatus(ctx, args)
	case cli.CmdDiff:
		err = app.HandleDiff(ctx, args)
	case cli.CmdCompare:
		err = app.HandleCompare(ctx, args)
	case cli.CmdWatch:
		err = app.HandleWatch(ctx)
	case cli.CmdAuth:
		err = app.HandleAuth(ctx, args)
	case cli.CmdConfig:
		err = app.HandleConfig(args)
	default:
		cli.PrintUsage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
