// Package leetcode fetches LeetCode solved-problem counts.
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/solvestats/pkg/fetch"
	"github.com/codeGROOVE-dev/solvestats/pkg/stats"
)

const defaultEndpoint = "https://leetcode.com/graphql"

// Profile URLs look like leetcode.com/username or leetcode.com/u/username.
var usernamePattern = regexp.MustCompile(`^(?:u/)?([^/]+)`)

// Match reports whether a URL is a LeetCode profile URL.
func Match(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	if !strings.Contains(lower, "leetcode.com/") {
		return false
	}
	// Exclude non-profile paths
	excluded := []string{"/problems/", "/contest/", "/discuss/", "/playground/", "/explore/", "/study-plan/"}
	for _, ex := range excluded {
		if strings.Contains(lower, ex) {
			return false
		}
	}
	return extractUsername(urlStr) != ""
}

// Client handles LeetCode requests.
type Client struct {
	httpClient *http.Client
	cache      fetch.Cacher
	logger     *slog.Logger
	endpoint   string
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cache    fetch.Cacher
	logger   *slog.Logger
	endpoint string
}

// WithHTTPCache sets the HTTP cache.
func WithHTTPCache(httpCache fetch.Cacher) Option {
	return func(c *config) { c.cache = httpCache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithEndpoint overrides the GraphQL endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *config) { c.endpoint = endpoint }
}

// New creates a LeetCode client.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default(), endpoint: defaultEndpoint}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      cfg.cache,
		logger:     cfg.logger,
		endpoint:   cfg.endpoint,
	}, nil
}

const graphQLQuery = `query getUserProfile($username: String!) {
  matchedUser(username: $username) {
    submitStats: submitStatsGlobal {
      acSubmissionNum { difficulty count }
    }
  }
}`

// graphQLRequest represents the GraphQL query structure.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphQLResponse represents the GraphQL response structure.
type graphQLResponse struct {
	Data struct {
		MatchedUser *matchedUser `json:"matchedUser"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type matchedUser struct {
	SubmitStats struct {
		ACSubmissionNum []difficultyCount `json:"acSubmissionNum"`
	} `json:"submitStats"`
}

type difficultyCount struct {
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

// Fetch retrieves the solved-problem count for the profile URL. The count is
// the accepted-submission total for the "All" difficulty bucket.
func (c *Client) Fetch(ctx context.Context, urlStr string) (int, error) {
	username := extractUsername(urlStr)
	if username == "" {
		return 0, fmt.Errorf("%w: %s", stats.ErrNoUsername, urlStr)
	}

	c.logger.InfoContext(ctx, "fetching leetcode solved count", "url", urlStr, "username", username)

	reqBody := graphQLRequest{
		Query:     graphQLQuery,
		Variables: map[string]any{"username": username},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", fetch.UserAgent)

	body, err := fetch.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		return 0, err
	}

	return parseCount(body)
}

func parseCount(body []byte) (int, error) {
	var resp graphQLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("parse leetcode response: %w", err)
	}

	if len(resp.Errors) > 0 {
		return 0, fmt.Errorf("leetcode API error: %s", resp.Errors[0].Message)
	}

	if resp.Data.MatchedUser == nil {
		return 0, fmt.Errorf("%w: no matched user", stats.ErrProfileNotFound)
	}

	for _, stat := range resp.Data.MatchedUser.SubmitStats.ACSubmissionNum {
		if stat.Difficulty == "All" {
			return stat.Count, nil
		}
	}

	return 0, fmt.Errorf(`%w: no "All" difficulty bucket`, stats.ErrNoSolvedCount)
}

func extractUsername(urlStr string) string {
	s := urlStr
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	path := strings.Trim(u.Path, "/")
	if matches := usernamePattern.FindStringSubmatch(path); len(matches) > 1 {
		return matches[1]
	}
	return ""
}
