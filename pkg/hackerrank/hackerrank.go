// Package hackerrank fetches HackerRank badge counts.
//
// HackerRank profile pages do not expose a solved-problem total, so the
// count reported here is the number of badge cards on the profile. Callers
// that sum solved counts across platforms leave this value out.
package hackerrank

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/codeGROOVE-dev/solvestats/pkg/fetch"
	"github.com/codeGROOVE-dev/solvestats/pkg/htmlutil"
	"github.com/codeGROOVE-dev/solvestats/pkg/stats"
)

// badgeSelector covers the badge card class variants HackerRank has shipped.
const badgeSelector = "div.badge-card, div.ui-badge-card, div.hacker-badge, div.profile-badge"

var usernamePattern = regexp.MustCompile(`(?:profile/)?([^/]+)`)

// Match returns true if the URL is a HackerRank profile URL.
func Match(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	if !strings.Contains(lower, "hackerrank.com") {
		return false
	}
	// Contest and challenge pages share the domain but are not profiles.
	for _, section := range []string{"/contests/", "/challenges/", "/domains/", "/skills/", "/leaderboard"} {
		if strings.Contains(lower, section) {
			return false
		}
	}
	return extractUsername(urlStr) != ""
}

// Client handles HackerRank requests.
type Client struct {
	httpClient *http.Client
	cache      fetch.Cacher
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cache  fetch.Cacher
	logger *slog.Logger
}

// WithHTTPCache sets the HTTP cache.
func WithHTTPCache(httpCache fetch.Cacher) Option {
	return func(c *config) { c.cache = httpCache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New creates a HackerRank client.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      cfg.cache,
		logger:     cfg.logger,
	}, nil
}

// Fetch retrieves the badge count for a profile URL. The page is requested
// as supplied; the username is only checked to reject non-profile URLs.
func (c *Client) Fetch(ctx context.Context, urlStr string) (int, error) {
	username := extractUsername(urlStr)
	if username == "" {
		return 0, fmt.Errorf("%w: %s", stats.ErrNoUsername, urlStr)
	}

	c.logger.InfoContext(ctx, "fetching hackerrank profile", "url", urlStr, "username", username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", fetch.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	body, err := fetch.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		return 0, err
	}

	return parseBadgeCount(body)
}

// parseBadgeCount counts badge cards in profile markup. Private and missing
// profiles render a wrapper page instead of badges and are reported as not
// found.
func parseBadgeCount(body []byte) (int, error) {
	if htmlutil.IsNotFound(string(body)) {
		return 0, fmt.Errorf("%w: hackerrank profile missing", stats.ErrProfileNotFound)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("parse hackerrank page: %w", err)
	}

	if doc.Find("div.private-profile-page-wrapper").Length() > 0 {
		return 0, fmt.Errorf("%w: hackerrank profile is private", stats.ErrProfileNotFound)
	}

	count := doc.Find(badgeSelector).Length()
	if count == 0 {
		return 0, fmt.Errorf("%w: no badges on profile", stats.ErrNoSolvedCount)
	}
	return count, nil
}

// extractUsername pulls the username from a profile URL. The /profile/
// prefix is optional; hackerrank.com/<name> works too.
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
	if path == "" {
		return ""
	}
	if m := usernamePattern.FindStringSubmatch(path); len(m) > 1 {
		return m[1]
	}
	return ""
}
