// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

package github

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mamertofabian/bolt-to-github-sub005/internal/classifier"
	"github.com/mamertofabian/bolt-to-github-sub005/internal/snapshot"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures one remote comparison.
type Options struct {
	RepoOwner    string
	RepoName     string
	TargetBranch string

	// AuthMethod selects the credential class: pat, github_app or auto.
	AuthMethod AuthMethod

	// Client, when set, is a pre-authenticated client that always wins
	// over method selection.
	Client *Client

	// ProgressCallback receives progress messages tagged with the active
	// auth method.
	ProgressCallback ProgressFunc

	// IncludeMetadata stamps every returned change with the auth method
	// and capture time.
	IncludeMetadata bool
}

// Report annotates a completed comparison.
type Report struct {
	ComparisonID string
	Summary      Summary
	AuthMethod   AuthMethod
	ComparedAt   time.Time
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator compares a local, already-filtered snapshot against a
// hosted branch. Tree retrieval and comparison mechanics are delegated
// to the Comparator; this component owns authentication lifecycle,
// progress annotation and error classification.
//
// Callers serialize their own comparisons; the cached client and auth
// status are a single pair, not a pool.
type Orchestrator struct {
	factory ClientFactory

	// newComparator builds the comparator for a resolved client.
	// Swappable in tests.
	newComparator func(*Client) Comparator

	// devMode emits a parallel diagnostic log line per progress message.
	// Never enabled in production builds.
	devMode bool

	cachedClient *Client
	cachedStatus *AuthStatus
}

// NewOrchestrator creates an orchestrator over a client factory.
func NewOrchestrator(factory ClientFactory) *Orchestrator {
	return &Orchestrator{
		factory: factory,
		newComparator: func(c *Client) Comparator {
			return NewTreeComparator(c)
		},
	}
}

// WithDevMode enables development-build diagnostics.
func (o *Orchestrator) WithDevMode(enabled bool) *Orchestrator {
	o.devMode = enabled
	return o
}

// WithComparatorFunc overrides comparator construction.
func (o *Orchestrator) WithComparatorFunc(fn func(*Client) Comparator) *Orchestrator {
	o.newComparator = fn
	return o
}

// Compare reconciles the snapshot against the configured branch and
// returns the complete change map. It either fully succeeds or fully
// fails with a single classified error; no partial result exists.
func (o *Orchestrator) Compare(ctx context.Context, local *snapshot.Snapshot, opts Options) (map[string]classifier.FileChange, *Report, error) {
	client, method, err := o.resolveClient(ctx, opts)
	if err != nil {
		return nil, nil, classifyError(err, opts.AuthMethod)
	}

	progress := o.wrapProgress(method, opts.ProgressCallback)

	result, err := o.newComparator(client).Compare(
		ctx, local, opts.RepoOwner, opts.RepoName, opts.TargetBranch, progress)
	if err != nil {
		// Reclassified exactly once, then surfaced as-is upstream.
		return nil, nil, classifyError(err, method)
	}

	comparedAt := time.Now()
	if opts.IncludeMetadata {
		// The orchestrator's stamp is authoritative over anything the
		// inner comparator may have set.
		for path, change := range result.Changes {
			change.AuthMethod = string(method)
			change.ComparedAt = comparedAt
			result.Changes[path] = change
		}
	}

	o.cachedClient = client
	if status, err := o.factory.AuthStatus(ctx, client); err == nil {
		o.cachedStatus = status
	}

	report := &Report{
		ComparisonID: uuid.New().String(),
		Summary:      result.Summary,
		AuthMethod:   method,
		ComparedAt:   comparedAt,
	}

	return result.Changes, report, nil
}

// resolveClient applies the authentication precedence rules in order.
// The table is explicit so the precedence is auditable: a supplied
// client always wins; an explicit method request is honored exactly;
// anything else asks the factory for the best available credential.
func (o *Orchestrator) resolveClient(ctx context.Context, opts Options) (*Client, AuthMethod, error) {
	rules := []struct {
		name    string
		applies bool
		resolve func() (*Client, AuthMethod, error)
	}{
		{
			name:    "explicit client",
			applies: opts.Client != nil,
			resolve: func() (*Client, AuthMethod, error) {
				return opts.Client, opts.Client.Method(), nil
			},
		},
		{
			name:    "explicit method",
			applies: opts.AuthMethod == MethodPAT || opts.AuthMethod == MethodGitHubApp,
			resolve: func() (*Client, AuthMethod, error) {
				client, err := o.factory.NewClient(ctx, opts.AuthMethod)
				if err != nil {
					return nil, opts.AuthMethod, err
				}
				return client, opts.AuthMethod, nil
			},
		},
		{
			name:    "best available",
			applies: true,
			resolve: func() (*Client, AuthMethod, error) {
				client, err := o.factory.NewClient(ctx, MethodAuto)
				if err != nil {
					return nil, MethodUnknown, err
				}
				return client, client.Method(), nil
			},
		},
	}

	for _, rule := range rules {
		if rule.applies {
			if o.devMode {
				log.Printf("auth resolution: %s", rule.name)
			}
			return rule.resolve()
		}
	}

	return nil, MethodUnknown, ErrNoCredentials
}

// wrapProgress prefixes every message with the active auth method tag
// and mirrors it to the diagnostic log in development builds.
func (o *Orchestrator) wrapProgress(method AuthMethod, inner ProgressFunc) ProgressFunc {
	return func(message string) {
		tagged := fmt.Sprintf("[%s] %s", method, message)
		if o.devMode {
			log.Printf("compare progress: %s", tagged)
		}
		if inner != nil {
			inner(tagged)
		}
	}
}

// AuthStatus returns the cached auth status, deriving it from the cached
// client on first use.
func (o *Orchestrator) AuthStatus(ctx context.Context) (*AuthStatus, error) {
	if o.cachedStatus != nil {
		return o.cachedStatus, nil
	}
	return o.RefreshAuthStatus(ctx, o.cachedClient)
}

// RefreshAuthStatus re-derives and caches the auth status for the given
// client (or the cached client when nil is passed).
func (o *Orchestrator) RefreshAuthStatus(ctx context.Context, client *Client) (*AuthStatus, error) {
	if client == nil {
		client = o.cachedClient
	}

	status, err := o.factory.AuthStatus(ctx, client)
	if err != nil {
		return nil, classifyError(err, MethodUnknown)
	}

	o.cachedStatus = status
	if client != nil {
		o.cachedClient = client
	}
	return status, nil
}

// Invalidate discards the cached auth status and client, forcing
// re-derivation on next use. Wired to external cache-invalidation
// signals.
func (o *Orchestrator) Invalidate() {
	o.cachedClient = nil
	o.cachedStatus = nil
}

// Cleanup releases all cached state at process teardown.
func (o *Orchestrator) Cleanup() {
	o.Invalidate()
}
