// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

// Package github compares local project snapshots against GitHub
// repository branches and classifies every failure by authentication
// method.
//
// This package owns the full remote-comparison lifecycle: credential
// resolution, REST client construction, tree/blob retrieval, change
// computation, and the translation of raw API failures into actionable
// errors.
//
// # Key Types
//
//   - Orchestrator: top-level comparison entry point with auth caching
//   - TreeComparator: snapshot-vs-branch comparison over git tree SHAs
//   - Client: rate-limited GitHub REST client
//   - TokenFactory: credential resolution (PAT, GitHub App, auto)
//   - TokenStore: encrypted personal access token storage
//   - APIError: HTTP failure carrying rate-limit headers
//
// # Authentication Precedence
//
// Client resolution follows a fixed order:
//   - A pre-authenticated Client passed by the caller always wins
//   - An explicit method (pat, github_app) is honored exactly; pat
//     without a client is an error, credentials are never fetched
//     implicitly
//   - Otherwise the highest-trust available credential is used
//     (GitHub App installation token, then stored PAT)
//
// # Error Classification
//
// Every comparison failure is classified exactly once:
//   - 404: repository or branch not found, with remediation hint
//   - 403 with exhausted quota, or 429: rate limited
//   - 403: permission denied, message specific to the auth method
//   - 401: authentication failed
//   - anything else: wrapped generic comparison failure
//
// # Usage
//
//	orch := github.NewOrchestrator(github.NewTokenFactory(tokens, nil))
//	changes, report, err := orch.Compare(ctx, snap, github.Options{
//		RepoOwner:    "octocat",
//		RepoName:     "hello-world",
//		TargetBranch: "main",
//		AuthMethod:   github.MethodAuto,
//	})
package github
