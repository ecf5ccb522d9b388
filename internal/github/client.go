// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

package github

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the GitHub REST API.
const (
	// DefaultBaseURL is the base URL for the GitHub REST API.
	DefaultBaseURL = "https://api.github.com"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 50 * 1024 * 1024 // 50MB, blobs can be large

	// requestsPerSecond paces requests under GitHub's secondary limits.
	requestsPerSecond = 10
)

// sharedHTTPClient pools connections for all GitHub requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// TREE MODEL
// =============================================================================

// TreeEntry is one entry of a repository tree listing.
type TreeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"` // "blob" or "tree"
	SHA  string `json:"sha"`
	Size int64  `json:"size"`
}

// treeResponse is the git trees endpoint payload.
type treeResponse struct {
	SHA       string      `json:"sha"`
	Tree      []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

// blobResponse is the git blobs endpoint payload.
type blobResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	Size     int64  `json:"size"`
}

// rateLimitResponse is the rate limit endpoint payload.
type rateLimitResponse struct {
	Resources struct {
		Core struct {
			Limit     int   `json:"limit"`
			Remaining int   `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"core"`
	} `json:"resources"`
}

// apiErrorResponse is GitHub's error payload.
type apiErrorResponse struct {
	Message string `json:"message"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is an authenticated GitHub REST client. It performs no retries;
// retry policy belongs to the transport layer above it.
type Client struct {
	token   string
	method  AuthMethod
	baseURL string
	limiter *rate.Limiter
}

// NewClient creates a client around a bearer token of the given
// credential class.
func NewClient(token string, method AuthMethod) *Client {
	return &Client{
		token:   strings.TrimSpace(token),
		method:  method,
		baseURL: DefaultBaseURL,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// WithBaseURL points the client at a non-default API endpoint.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// Method returns the credential class this client authenticates with.
func (c *Client) Method() AuthMethod {
	return c.method
}

// TokenFingerprint returns a short SHA-256 fingerprint of the token for
// logging. The token itself is never exposed, not even partially.
func (c *Client) TokenFingerprint() string {
	if c.token == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(c.token))
	return hex.EncodeToString(h[:4])
}

// BranchTree fetches the full recursive tree listing of a branch.
func (c *Client) BranchTree(ctx context.Context, owner, repo, branch string) ([]TreeEntry, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", c.baseURL, owner, repo, branch)

	var payload treeResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}
	if payload.Truncated {
		return nil, fmt.Errorf("tree listing for %s/%s@%s was truncated by the API", owner, repo, branch)
	}

	return payload.Tree, nil
}

// Blob fetches and decodes the content of a blob by SHA.
func (c *Client) Blob(ctx context.Context, owner, repo, sha string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/git/blobs/%s", c.baseURL, owner, repo, sha)

	var payload blobResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return "", err
	}

	if payload.Encoding != "base64" {
		return payload.Content, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(payload.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("failed to decode blob %s: %w", sha, err)
	}
	return string(decoded), nil
}

// RateLimit reports the core request budget of the active credential.
func (c *Client) RateLimit(ctx context.Context) (*RateLimits, error) {
	var payload rateLimitResponse
	if err := c.getJSON(ctx, c.baseURL+"/rate_limit", &payload); err != nil {
		return nil, err
	}

	return &RateLimits{
		Remaining: payload.Resources.Core.Remaining,
		Limit:     payload.Resources.Core.Limit,
		ResetAt:   time.Unix(payload.Resources.Core.Reset, 0),
	}, nil
}

// getJSON performs a paced, authenticated GET and decodes the response.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", "bolt-to-github/1.3")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := sharedHTTPClient.Do(req)

	// SECURITY: Drop the Authorization header right after the request so
	// request dumps never carry the credential.
	req.Header.Del("Authorization")

	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// readResponse reads the body with a size cap.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts an HTTP error response into an APIError
// carrying rate-limit counters when the headers expose them.
func (c *Client) handleErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var payload apiErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}

	if remaining, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining")); err == nil {
		apiErr.RateRemaining = remaining
		apiErr.HasRateInfo = true
	}
	if limit, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit")); err == nil {
		apiErr.RateLimit = limit
	}

	return apiErr
}
