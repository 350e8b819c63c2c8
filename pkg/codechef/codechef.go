// Package codechef fetches CodeChef solved-problem counts.
package codechef

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/codeGROOVE-dev/solvestats/pkg/fetch"
	"github.com/codeGROOVE-dev/solvestats/pkg/htmlutil"
	"github.com/codeGROOVE-dev/solvestats/pkg/stats"
)

const defaultBaseURL = "https://www.codechef.com"

var (
	usernamePattern    = regexp.MustCompile(`^users/([^/]+)`)
	totalSolvedPattern = regexp.MustCompile(`Total\s*Problems\s*Solved:\s*(\d+)`)
	looseSolvedPattern = regexp.MustCompile(`Problems\s*Solved[:,]?\s*(\d+)`)
)

// Match returns true if the URL is a CodeChef profile URL.
func Match(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	if !strings.Contains(lower, "codechef.com") {
		return false
	}
	return extractUsername(urlStr) != ""
}

// Client handles CodeChef requests.
type Client struct {
	httpClient *http.Client
	cache      fetch.Cacher
	logger     *slog.Logger
	baseURL    string
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cache   fetch.Cacher
	logger  *slog.Logger
	baseURL string
}

// WithHTTPCache sets the HTTP cache.
func WithHTTPCache(httpCache fetch.Cacher) Option {
	return func(c *config) { c.cache = httpCache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithBaseURL overrides the CodeChef host. Profile pages are always fetched
// from the canonical /users/<name> path under this host.
func WithBaseURL(baseURL string) Option {
	return func(c *config) { c.baseURL = baseURL }
}

// New creates a CodeChef client.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default(), baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      cfg.cache,
		logger:     cfg.logger,
		baseURL:    cfg.baseURL,
	}, nil
}

// Fetch retrieves the number of solved problems for a profile URL. The page
// is always fetched from the canonical /users/<name> URL regardless of how
// the input URL was shaped.
func (c *Client) Fetch(ctx context.Context, urlStr string) (int, error) {
	username := extractUsername(urlStr)
	if username == "" {
		return 0, fmt.Errorf("%w: %s", stats.ErrNoUsername, urlStr)
	}

	c.logger.InfoContext(ctx, "fetching codechef profile", "url", urlStr, "username", username)

	profileURL := c.baseURL + "/users/" + username

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", fetch.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Referer", c.baseURL+"/")
	req.Header.Set("DNT", "1")

	body, err := fetch.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		return 0, err
	}

	return parseCount(body)
}

// parseCount pulls the solved count out of profile markup. CodeChef has
// shipped several profile layouts, so the dedicated problems-solved section
// is tried first, then the legacy span, then a page-wide scan.
func parseCount(body []byte) (int, error) {
	page := string(body)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err == nil {
		section := doc.Find("section.rating-data-section.problems-solved").First()
		if section.Length() > 0 {
			text := section.Text()
			if m := totalSolvedPattern.FindStringSubmatch(text); len(m) > 1 {
				if count, convErr := strconv.Atoi(m[1]); convErr == nil {
					return count, nil
				}
			}
			// The label moved between layouts; the largest number in the
			// section is the solved total on every one seen so far.
			if count, ok := htmlutil.MaxInt(text); ok {
				return count, nil
			}
		}

		if count, ok := solvedFromSpans(doc); ok {
			return count, nil
		}
	}

	if m := totalSolvedPattern.FindStringSubmatch(page); len(m) > 1 {
		if count, convErr := strconv.Atoi(m[1]); convErr == nil {
			return count, nil
		}
	}
	if m := looseSolvedPattern.FindStringSubmatch(page); len(m) > 1 {
		if count, convErr := strconv.Atoi(m[1]); convErr == nil {
			return count, nil
		}
	}

	return 0, stats.ErrNoSolvedCount
}

// solvedFromSpans returns the first number in the first span whose text
// mentions "Problems Solved".
func solvedFromSpans(doc *goquery.Document) (count int, found bool) {
	doc.Find("span").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if !strings.Contains(text, "Problems Solved") {
			return true
		}
		if n, ok := htmlutil.FirstInt(text); ok {
			count, found = n, true
		}
		return false
	})
	return count, found
}

// extractUsername pulls the username from a profile URL. Only the canonical
// codechef.com/users/<name> shape carries one.
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
	if m := usernamePattern.FindStringSubmatch(path); len(m) > 1 {
		return m[1]
	}
	return ""
}
