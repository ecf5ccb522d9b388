// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgv_DefaultIsStatus(t *testing.T) {
	cmd, args := ParseArgv(nil)

	assert.Equal(t, CmdStatus, cmd)
	assert.False(t, args.ForceRefresh)
}

func TestParseArgv_StatusWithRefresh(t *testing.T) {
	cmd, args := ParseArgv([]string{"status", "--refresh"})

	assert.Equal(t, CmdStatus, cmd)
	assert.True(t, args.ForceRefresh)
}

func TestParseArgv_StatusAlias(t *testing.T) {
	cmd, _ := ParseArgv([]string{"s"})
	assert.Equal(t, CmdStatus, cmd)
}

func TestParseArgv_DiffWithPathAndContext(t *testing.T) {
	cmd, args := ParseArgv([]string{"diff", "src/App.svelte", "--context", "5"})

	assert.Equal(t, CmdDiff, cmd)
	assert.Equal(t, "src/App.svelte", args.Path)
	assert.Equal(t, 5, args.ContextLines)
}

func TestParseArgv_DiffWithoutContextUsesSentinel(t *testing.T) {
	_, args := ParseArgv([]string{"diff", "a.txt"})
	assert.Equal(t, -1, args.ContextLines)
}

func TestParseArgv_CompareFlags(t *testing.T) {
	cmd, args := ParseArgv([]string{"compare", "--review", "--refresh"})

	assert.Equal(t, CmdCompare, cmd)
	assert.True(t, args.Review)
	assert.True(t, args.ForceRefresh)
}

func TestParseArgv_AuthSubcommand(t *testing.T) {
	cmd, args := ParseArgv([]string{"auth", "set"})

	assert.Equal(t, CmdAuth, cmd)
	assert.Equal(t, "set", args.Subcommand)
}

func TestParseArgv_GlobalFlagsAnywhere(t *testing.T) {
	cmd, args := ParseArgv([]string{"--quiet", "compare", "--no-color"})

	assert.Equal(t, CmdCompare, cmd)
	assert.True(t, args.Quiet)
	assert.True(t, args.NoColor)
}

func TestParseArgv_UnknownCommandShowsHelp(t *testing.T) {
	cmd, _ := ParseArgv([]string{"frobnicate"})
	assert.Equal(t, CmdHelp, cmd)
}

func TestParseArgv_Version(t *testing.T) {
	cmd, _ := ParseArgv([]string{"version"})
	assert.Equal(t, CmdVersion, cmd)
}

func TestArgParser_FlagFormats(t *testing.T) {
	p := NewArgParser([]string{"show", "--lines", "50", "--since=2024-01-01", "--json", "--color=false"})

	assert.Equal(t, "show", p.Subcommand())
	assert.Equal(t, "50", p.Flag("lines"))
	assert.Equal(t, 50, p.IntFlag("lines", 0))
	assert.Equal(t, "2024-01-01", p.Flag("since"))
	assert.True(t, p.BoolFlag("json"))
	assert.False(t, p.BoolFlag("color"))
}

func TestArgParser_IntFlagFallback(t *testing.T) {
	p := NewArgParser([]string{"--lines", "many"})

	assert.Equal(t, 7, p.IntFlag("lines", 7))
	assert.Equal(t, 7, p.IntFlag("absent", 7))
}

func TestArgParser_RequireValue(t *testing.T) {
	p := NewArgParser([]string{"--out", "report.txt"})

	v, err := p.RequireValue("out")
	require.NoError(t, err)
	assert.Equal(t, "report.txt", v)

	_, err = p.RequireValue("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--missing")
}

func TestArgParser_Positional(t *testing.T) {
	p := NewArgParser([]string{"set", "value", "--flag"})

	assert.Equal(t, []string{"set", "value"}, p.Positional())
}
