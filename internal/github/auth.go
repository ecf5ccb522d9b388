// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

package github

import (
	"context"
	"time"
)

// =============================================================================
// AUTH METHODS
// =============================================================================

// AuthMethod identifies the credential class used for remote access.
type AuthMethod string

const (
	// MethodPAT authenticates with a personal access token.
	MethodPAT AuthMethod = "pat"
	// MethodGitHubApp authenticates as a GitHub App installation.
	MethodGitHubApp AuthMethod = "github_app"
	// MethodAuto requests the highest-trust available method.
	MethodAuto AuthMethod = "auto"
	// MethodUnknown is reported when the active method cannot be determined.
	MethodUnknown AuthMethod = "unknown"
)

// =============================================================================
// AUTH STATUS
// =============================================================================

// RateLimits describes the remaining request budget of a credential.
type RateLimits struct {
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// AuthStatus describes the active credential class and its consumption
// limits. Produced by the client factory and cached by the orchestrator
// until invalidated.
type AuthStatus struct {
	CurrentAuth AuthMethod
	RateLimits  *RateLimits
	CanUpgrade  bool // a higher-trust method is available
}

// =============================================================================
// CLIENT FACTORY
// =============================================================================

// AppTokenSource mints installation tokens for GitHub App authentication.
// Token acquisition (JWT signing, installation lookup) lives behind this
// interface; the factory only consumes the minted token.
type AppTokenSource interface {
	InstallationToken(ctx context.Context) (string, error)
}

// ClientFactory constructs authenticated clients preferring a requested
// method, and reports auth status for a client instance.
type ClientFactory interface {
	NewClient(ctx context.Context, method AuthMethod) (*Client, error)
	AuthStatus(ctx context.Context, client *Client) (*AuthStatus, error)
}

// TokenFactory is the default ClientFactory. Personal tokens come from
// the encrypted token store; app tokens from an optional AppTokenSource.
type TokenFactory struct {
	tokens  *TokenStore
	app     AppTokenSource
	baseURL string
}

// NewTokenFactory creates a factory over the given credential sources.
// app may be nil when no GitHub App is configured.
func NewTokenFactory(tokens *TokenStore, app AppTokenSource) *TokenFactory {
	return &TokenFactory{tokens: tokens, app: app}
}

// WithBaseURL points constructed clients at a non-default API endpoint.
func (f *TokenFactory) WithBaseURL(url string) *TokenFactory {
	f.baseURL = url
	return f
}

// NewClient constructs a client for the requested method.
//
// Explicit method requests are honored exactly: "pat" is refused here
// because an explicit personal-token comparison must supply its own
// pre-authenticated client, and credentials are never implicitly
// fetched for it. "auto" picks the highest-trust available source:
// GitHub App installation first, stored personal token second.
func (f *TokenFactory) NewClient(ctx context.Context, method AuthMethod) (*Client, error) {
	switch method {
	case MethodPAT:
		return nil, ErrPATRequiresClient

	case MethodGitHubApp:
		if f.app == nil {
			return nil, ErrNoCredentials
		}
		return f.appClient(ctx)

	default: // MethodAuto or unset
		if f.app != nil {
			return f.appClient(ctx)
		}
		if f.tokens != nil {
			if token, err := f.tokens.LoadToken(); err == nil && token != "" {
				return f.build(token, MethodPAT), nil
			}
		}
		return nil, ErrNoCredentials
	}
}

func (f *TokenFactory) appClient(ctx context.Context) (*Client, error) {
	token, err := f.app.InstallationToken(ctx)
	if err != nil {
		return nil, err
	}
	return f.build(token, MethodGitHubApp), nil
}

func (f *TokenFactory) build(token string, method AuthMethod) *Client {
	c := NewClient(token, method)
	if f.baseURL != "" {
		c.WithBaseURL(f.baseURL)
	}
	return c
}

// AuthStatus reports the live credential status for a client, probing
// the rate-limit endpoint for the remaining budget.
func (f *TokenFactory) AuthStatus(ctx context.Context, client *Client) (*AuthStatus, error) {
	if client == nil {
		return &AuthStatus{CurrentAuth: MethodUnknown}, nil
	}

	status := &AuthStatus{
		CurrentAuth: client.Method(),
		CanUpgrade:  client.Method() == MethodPAT && f.app != nil,
	}

	limits, err := client.RateLimit(ctx)
	if err != nil {
		// Status remains usable without limits; the caller decides
		// whether a degraded report suffices.
		return status, nil
	}
	status.RateLimits = limits

	return status, nil
}
