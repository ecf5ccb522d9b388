// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// app.go - Command handlers wiring the snapshot, classifier, diff and
// GitHub layers together.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/mamertofabian/bolt-to-github-sub005/internal/classifier"
	"github.com/mamertofabian/bolt-to-github-sub005/internal/config"
	"github.com/mamertofabian/bolt-to-github-sub005/internal/diff"
	"github.com/mamertofabian/bolt-to-github-sub005/internal/github"
	"github.com/mamertofabian/bolt-to-github-sub005/internal/render"
	"github.com/mamertofabian/bolt-to-github-sub005/internal/snapshot"
	"github.com/mamertofabian/bolt-to-github-sub005/internal/ui"
)

// =============================================================================
// APP
// =============================================================================

// App owns the wired command handlers. Construction is cheap; heavy
// collaborators (store, orchestrator) are built on first use.
type App struct {
	cfg      *config.Config
	out      io.Writer
	renderer *render.Renderer
	verbose  bool
	quiet    bool

	provider     snapshot.Provider
	classifier   *classifier.Classifier
	orchestrator *github.Orchestrator
	tokens       *github.TokenStore
}

// NewApp wires an App over the loaded configuration.
func NewApp(cfg *config.Config, args Args) *App {
	color := ColorEnabled() && !args.NoColor
	renderer := render.New().
		WithColor(color).
		WithHighlight(cfg.Diff.Highlight && color, cfg.Diff.Theme).
		WithWidth(TerminalWidth())

	provider := snapshot.NewFSProvider(cfg.Project.Root, cfg.Project.ID, cfg.Project.Ignores).
		WithMaxFileSize(cfg.Project.MaxFileSize())

	return &App{
		cfg:        cfg,
		out:        os.Stdout,
		renderer:   renderer,
		verbose:    args.Verbose,
		quiet:      args.Quiet,
		provider:   provider,
		classifier: classifier.New(provider),
	}
}

// tokenStore lazily opens the encrypted token store.
func (a *App) tokenStore() (*github.TokenStore, error) {
	if a.tokens != nil {
		return a.tokens, nil
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	a.tokens = github.NewTokenStore(dir)
	return a.tokens, nil
}

// orchestrate lazily builds the comparison orchestrator.
func (a *App) orchestrate() (*github.Orchestrator, error) {
	if a.orchestrator != nil {
		return a.orchestrator, nil
	}
	tokens, err := a.tokenStore()
	if err != nil {
		return nil, err
	}

	factory := github.NewTokenFactory(tokens, nil)
	if a.cfg.GitHub.APIBaseURL != "" {
		factory.WithBaseURL(a.cfg.GitHub.APIBaseURL)
	}
	a.orchestrator = github.NewOrchestrator(factory).WithDevMode(a.verbose)
	return a.orchestrator, nil
}

func (a *App) progress(msg string) {
	if !a.quiet {
		fmt.Fprintln(os.Stderr, msg)
	}
}

// =============================================================================
// STATUS
// =============================================================================

// HandleStatus classifies the tree against the previous snapshot and
// prints the change set.
func (a *App) HandleStatus(ctx context.Context, args Args) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	// Seed the previous baseline from storage so a restart still has
	// something to classify against.
	if prev, err := store.Latest(ctx, a.cfg.Project.ID); err == nil {
		a.classifier.SeedPrevious(prev)
	} else if !errors.Is(err, snapshot.ErrNoBaseline) {
		return err
	}

	if err := a.classifier.Load(ctx, args.ForceRefresh); err != nil {
		return err
	}

	changes, err := a.classifier.ChangedFiles()
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, a.renderer.ChangeList(changes))
	fmt.Fprintln(a.out, changeTotals(changes))

	// Persist the fresh capture as the next baseline.
	current, err := a.provider.GetSnapshot(ctx, false)
	if err != nil {
		return err
	}
	return store.Save(ctx, current)
}

// openStore opens the snapshot database at the configured path.
func (a *App) openStore() (*snapshot.Store, error) {
	path, err := a.cfg.DBPath()
	if err != nil {
		return nil, err
	}
	if err := config.EnsureConfigDir(); err != nil {
		return nil, err
	}
	return snapshot.OpenStore(path)
}

// changeTotals builds the one-line tally under a change listing.
func changeTotals(changes map[string]classifier.FileChange) string {
	var added, modified, deleted, unchanged int
	for _, c := range changes {
		switch c.Status {
		case classifier.StatusAdded:
			added++
		case classifier.StatusModified:
			modified++
		case classifier.StatusDeleted:
			deleted++
		default:
			unchanged++
		}
	}
	return fmt.Sprintf("%d added, %d modified, %d deleted, %d unchanged",
		added, modified, deleted, unchanged)
}

// =============================================================================
// DIFF
// =============================================================================

// HandleDiff prints the line diff for one file.
func (a *App) HandleDiff(ctx context.Context, args Args) error {
	if args.Path == "" {
		return fmt.Errorf("diff requires a file path: bolt-sync diff <path>")
	}

	if err := a.classifier.Load(ctx, args.ForceRefresh); err != nil {
		return err
	}

	result, err := a.classifier.FileDiff(args.Path)
	if err != nil {
		return err
	}

	contextLines := args.ContextLines
	if contextLines < 0 {
		contextLines = a.cfg.Diff.ContextLines
	}
	if contextLines > 0 {
		result = diff.Compress(result, contextLines)
	}

	fmt.Fprint(a.out, a.renderer.Diff(result))
	return nil
}

// =============================================================================
// COMPARE
// =============================================================================

// HandleCompare reconciles the local tree against the configured GitHub
// branch.
func (a *App) HandleCompare(ctx context.Context, args Args) error {
	if a.cfg.GitHub.Owner == "" || a.cfg.GitHub.Repo == "" {
		return fmt.Errorf("github.owner and github.repo must be configured (see bolt-sync config show)")
	}

	orch, err := a.orchestrate()
	if err != nil {
		return err
	}

	snap, err := a.provider.GetSnapshot(ctx, args.ForceRefresh)
	if err != nil {
		return err
	}
	a.debugf("comparing %d local files against %s/%s@%s",
		len(snap.Files), a.cfg.GitHub.Owner, a.cfg.GitHub.Repo, a.cfg.GitHub.Branch)

	changes, report, err := orch.Compare(ctx, snap, github.Options{
		RepoOwner:        a.cfg.GitHub.Owner,
		RepoName:         a.cfg.GitHub.Repo,
		TargetBranch:     a.cfg.GitHub.Branch,
		AuthMethod:       github.AuthMethod(a.cfg.GitHub.AuthMethod),
		ProgressCallback: a.progress,
		IncludeMetadata:  true,
	})
	if err != nil {
		return err
	}

	if args.Review {
		decisions, err := ui.Run(changes, a.renderer, a.cfg.Diff.ContextLines)
		if err != nil {
			return err
		}
		a.printDecisions(decisions)
	}

	fmt.Fprint(a.out, a.renderer.ChangeList(changes))
	fmt.Fprintf(a.out, "%d added, %d modified, %d deleted, %d unchanged (auth: %s)\n",
		report.Summary.Added, report.Summary.Modified, report.Summary.Deleted,
		report.Summary.Unchanged, report.AuthMethod)
	return nil
}

func (a *App) printDecisions(decisions map[string]ui.Decision) {
	paths := make([]string, 0, len(decisions))
	for path := range decisions {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Fprintf(a.out, "%-9s %s\n", decisions[path], path)
	}
}

// =============================================================================
// WATCH
// =============================================================================

// HandleWatch reports classified changes whenever the tree settles,
// until interrupted.
func (a *App) HandleWatch(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	changed := make(chan string, 1)
	watcher, err := snapshot.NewWatcher(a.cfg.Project.Root, a.cfg.Project.ID,
		a.cfg.Watch.Debounce(), func(projectID string) {
			a.classifier.Invalidate()
			select {
			case changed <- projectID:
			default:
			}
		})
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Watch(); err != nil {
		return err
	}
	a.progress(fmt.Sprintf("Watching %s (Ctrl-C to stop)", a.cfg.Project.Root))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			if err := a.classifier.Load(ctx, true); err != nil {
				fmt.Fprintf(os.Stderr, "snapshot failed: %v\n", err)
				continue
			}
			changes, err := a.classifier.ChangedFiles()
			if err != nil {
				fmt.Fprintf(os.Stderr, "classification failed: %v\n", err)
				continue
			}
			fmt.Fprint(a.out, a.renderer.ChangeList(changes))
			fmt.Fprintln(a.out, changeTotals(changes))
		}
	}
}

// =============================================================================
// AUTH
// =============================================================================

// HandleAuth manages the stored credential.
func (a *App) HandleAuth(ctx context.Context, args Args) error {
	tokens, err := a.tokenStore()
	if err != nil {
		return err
	}

	switch args.Subcommand {
	case "set":
		token, err := ReadSecret("Personal access token: ")
		if err != nil {
			return err
		}
		if token == "" {
			return fmt.Errorf("empty token")
		}
		if err := tokens.SaveToken(token); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Token stored.")
		return nil

	case "clear":
		if err := tokens.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Token cleared.")
		return nil

	case "status", "":
		return a.printAuthStatus(ctx, tokens)

	default:
		return fmt.Errorf("unknown auth subcommand %q (want set, status or clear)", args.Subcommand)
	}
}

func (a *App) printAuthStatus(ctx context.Context, tokens *github.TokenStore) error {
	if !tokens.HasToken() {
		fmt.Fprintln(a.out, "No personal access token stored.")
		return nil
	}

	orch, err := a.orchestrate()
	if err != nil {
		return err
	}

	factory := github.NewTokenFactory(tokens, nil)
	if a.cfg.GitHub.APIBaseURL != "" {
		factory.WithBaseURL(a.cfg.GitHub.APIBaseURL)
	}
	client, err := factory.NewClient(ctx, github.MethodAuto)
	if err != nil {
		return err
	}

	status, err := orch.RefreshAuthStatus(ctx, client)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Auth method: %s\n", status.CurrentAuth)
	fmt.Fprintf(a.out, "Token fingerprint: %s\n", client.TokenFingerprint())
	if status.RateLimits != nil {
		fmt.Fprintf(a.out, "Rate limit: %d of %d remaining (resets %s)\n",
			status.RateLimits.Remaining, status.RateLimits.Limit,
			status.RateLimits.ResetAt.Format("15:04:05"))
	}
	if status.CanUpgrade {
		fmt.Fprintln(a.out, "A GitHub App installation is available for higher-trust access.")
	}
	return nil
}

// =============================================================================
// CONFIG
// =============================================================================

// HandleConfig prints or initializes the configuration.
func (a *App) HandleConfig(args Args) error {
	switch args.Subcommand {
	case "show", "":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Config file: %s\n", path)
		fmt.Fprintf(a.out, "Project: %s (%s)\n", a.cfg.Project.ID, a.cfg.Project.Root)
		fmt.Fprintf(a.out, "Remote: %s/%s@%s (auth: %s)\n",
			a.cfg.GitHub.Owner, a.cfg.GitHub.Repo, a.cfg.GitHub.Branch, a.cfg.GitHub.AuthMethod)
		fmt.Fprintf(a.out, "Diff context: %d lines\n", a.cfg.Diff.ContextLines)
		return nil

	case "init":
		if err := config.Save(a.cfg); err != nil {
			return err
		}
		path, _ := config.ConfigPath()
		fmt.Fprintf(a.out, "Wrote %s\n", path)
		return nil

	default:
		return fmt.Errorf("unknown config subcommand %q (want show or init)", args.Subcommand)
	}
}

// =============================================================================
// DIAGNOSTICS
// =============================================================================

// debugf logs a diagnostic line in verbose runs only.
func (a *App) debugf(format string, v ...any) {
	if a.verbose {
		log.Printf(format, v...)
	}
}
