// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

package github

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// Error variables for remote comparison failures.
var (
	// ErrNotFound indicates the repository or branch is absent or inaccessible.
	ErrNotFound = errors.New("repository or branch not found")

	// ErrForbidden indicates the authenticated principal lacks permission.
	ErrForbidden = errors.New("permission denied")

	// ErrUnauthorized indicates the credential is invalid or expired.
	ErrUnauthorized = errors.New("authentication failed")

	// ErrRateLimited indicates the request budget is exhausted.
	ErrRateLimited = errors.New("rate limited")

	// ErrNoCredentials indicates no credential source is configured.
	ErrNoCredentials = errors.New("no GitHub credentials configured")

	// ErrPATRequiresClient indicates an explicit personal-token request
	// without a pre-authenticated client. Credentials are never fetched
	// implicitly for an explicit method request.
	ErrPATRequiresClient = errors.New("personal token comparison requires a pre-authenticated client")
)

// APIError carries the raw GitHub API failure before classification.
type APIError struct {
	Status        int
	Message       string
	RateRemaining int
	RateLimit     int
	HasRateInfo   bool
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error (HTTP %d): %s", e.Status, e.Message)
}

// classifyError reclassifies a comparison failure into the taxonomy,
// producing the single enhanced, user-facing error the orchestrator
// re-throws. Classification happens exactly once; errors already carrying
// a taxonomy sentinel pass through enriched but not rewrapped.
func classifyError(err error, method AuthMethod) error {
	var apiErr *APIError
	hasAPI := errors.As(err, &apiErr)

	switch {
	case errors.Is(err, ErrNotFound) || (hasAPI && apiErr.Status == 404):
		return fmt.Errorf("%w: check the repository owner, name and branch", ErrNotFound)

	case errors.Is(err, ErrRateLimited) || (hasAPI && rateExhausted(apiErr)):
		if hasAPI && apiErr.HasRateInfo {
			return fmt.Errorf("%w: %d of %d requests remaining",
				ErrRateLimited, apiErr.RateRemaining, apiErr.RateLimit)
		}
		return fmt.Errorf("%w: request budget exhausted", ErrRateLimited)

	case errors.Is(err, ErrForbidden) || (hasAPI && apiErr.Status == 403):
		// Remediation differs by credential class.
		if method == MethodGitHubApp {
			return fmt.Errorf("%w: the GitHub App installation lacks access to this repository; review its repository access and permissions", ErrForbidden)
		}
		return fmt.Errorf("%w: the personal access token lacks the repo scope for this repository", ErrForbidden)

	case errors.Is(err, ErrUnauthorized) || (hasAPI && apiErr.Status == 401):
		return fmt.Errorf("%w: the credential is invalid or expired", ErrUnauthorized)

	default:
		return fmt.Errorf("remote comparison failed: %w", err)
	}
}

// rateExhausted reports whether an API failure is a rate-limit rejection
// rather than a plain permission denial. GitHub reports primary limit
// exhaustion as 403 with a zeroed remaining counter, or as 429.
func rateExhausted(e *APIError) bool {
	if e.Status == 429 {
		return true
	}
	return e.Status == 403 && e.HasRateInfo && e.RateRemaining == 0
}
