// Package geeksforgeeks fetches GeeksforGeeks solved-problem counts.
package geeksforgeeks

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
	"github.com/codeGROOVE-dev/solvestats/pkg/stats"
)

var (
	usernamePattern = regexp.MustCompile(`(?:user/|profile/)([^/]+)`)
	solvedPattern   = regexp.MustCompile(`Problem\s*Solved\s*(\d+)`)
)

// Match returns true if the URL is a GeeksforGeeks profile URL.
func Match(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	if !strings.Contains(lower, "geeksforgeeks.org") {
		return false
	}
	// Article and practice pages share the domain but are not profiles.
	for _, section := range []string{"/problems/", "/articles/", "/courses/", "/tag/", "/jobs/"} {
		if strings.Contains(lower, section) {
			return false
		}
	}
	return extractUsername(urlStr) != ""
}

// Client handles GeeksforGeeks requests.
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

// New creates a GeeksforGeeks client.
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

// Fetch retrieves the number of solved problems for a profile URL. The page
// is requested as supplied rather than rebuilt from the username, since
// GeeksforGeeks serves profiles under both /user/ and /profile/ paths.
func (c *Client) Fetch(ctx context.Context, urlStr string) (int, error) {
	c.logger.InfoContext(ctx, "fetching geeksforgeeks profile", "url", urlStr, "username", extractUsername(urlStr))

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

	return parseCount(body)
}

// parseCount pulls the solved count out of profile markup. Layouts vary, so
// the first div carrying a "Problem Solved" label is tried before scanning
// the raw page.
func parseCount(body []byte) (int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err == nil {
		if count, ok := solvedFromDivs(doc); ok {
			return count, nil
		}
	}

	if m := solvedPattern.FindSubmatch(body); len(m) > 1 {
		if count, convErr := strconv.Atoi(string(m[1])); convErr == nil {
			return count, nil
		}
	}

	return 0, stats.ErrNoSolvedCount
}

// solvedFromDivs returns the count from the first div whose text mentions
// "Problem Solved".
func solvedFromDivs(doc *goquery.Document) (count int, found bool) {
	doc.Find("div").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if !strings.Contains(text, "Problem Solved") {
			return true
		}
		if m := solvedPattern.FindStringSubmatch(text); len(m) > 1 {
			if n, err := strconv.Atoi(m[1]); err == nil {
				count, found = n, true
			}
		}
		return false
	})
	return count, found
}

// extractUsername pulls the username from a profile URL. Both
// geeksforgeeks.org/user/<name> and auth.geeksforgeeks.org/profile/<name>
// shapes are handled, plus bare usernames appended to the host.
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
	if path != "" && !strings.Contains(path, "/") {
		return path
	}
	return ""
}
