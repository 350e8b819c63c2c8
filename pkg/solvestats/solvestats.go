// Package solvestats aggregates solved-problem counts across coding-practice
// platforms.
//
// Basic usage:
//
//	agg, err := solvestats.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	summary := agg.Aggregate(ctx, solvestats.Request{
//	    LeetCode: "https://leetcode.com/u/johndoe",
//	    CodeChef: "https://www.codechef.com/users/johndoe",
//	})
//	fmt.Println(summary.TotalSolved)
//
// Or use platform packages directly:
//
//	import "github.com/codeGROOVE-dev/solvestats/pkg/leetcode"
//	client, _ := leetcode.New(ctx)
//	count, _ := client.Fetch(ctx, "https://leetcode.com/u/johndoe")
package solvestats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/solvestats/pkg/codechef"
	"github.com/codeGROOVE-dev/solvestats/pkg/fetch"
	"github.com/codeGROOVE-dev/solvestats/pkg/geeksforgeeks"
	"github.com/codeGROOVE-dev/solvestats/pkg/hackerrank"
	"github.com/codeGROOVE-dev/solvestats/pkg/leetcode"
	"github.com/codeGROOVE-dev/solvestats/pkg/stats"
)

type (
	// Request re-exports stats.Request for convenience.
	Request = stats.Request
	// Summary re-exports stats.Summary for convenience.
	Summary = stats.Summary
	// HTTPCache re-exports fetch.Cache for convenience.
	HTTPCache = fetch.Cache
)

// DefaultTimeout bounds each platform fetch.
const DefaultTimeout = 15 * time.Second

// Aggregator fans out platform fetches and merges their results.
type Aggregator struct {
	cache   fetch.Cacher
	logger  *slog.Logger
	timeout time.Duration

	// Overridable upstream hosts, used by tests. LeetCode and CodeChef
	// rebuild their target URLs instead of fetching the one supplied.
	leetcodeEndpoint string
	codechefBaseURL  string
}

// Option configures an Aggregator.
type Option func(*config)

type config struct {
	cache   fetch.Cacher
	logger  *slog.Logger
	timeout time.Duration
}

// WithHTTPCache sets the HTTP cache for platform responses.
func WithHTTPCache(httpCache fetch.Cacher) Option {
	return func(c *config) { c.cache = httpCache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithTimeout sets the per-platform fetch deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) { c.timeout = timeout }
}

// New creates an Aggregator.
func New(_ context.Context, opts ...Option) (*Aggregator, error) {
	cfg := &config{logger: slog.Default(), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Aggregator{
		cache:   cfg.cache,
		logger:  cfg.logger,
		timeout: cfg.timeout,
	}, nil
}

// Aggregate fetches every platform with a supplied URL concurrently and
// merges the results. It never returns an error: per-platform failures are
// embedded in each result, platforms without a URL get a placeholder, and
// all four platform keys are always present in the summary.
func (a *Aggregator) Aggregate(ctx context.Context, req stats.Request) stats.Summary {
	var results stats.Results
	var wg sync.WaitGroup

	for _, platform := range stats.Platforms() {
		urlStr := req.URL(platform)
		if urlStr == "" {
			results.Set(platform, stats.NotRequested())
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			results.Set(platform, a.fetchOne(ctx, platform, urlStr))
		}()
	}
	wg.Wait()

	return stats.NewSummary(results)
}

// fetchOne runs a single platform fetch under the aggregator's deadline and
// folds any failure into the result.
func (a *Aggregator) fetchOne(ctx context.Context, platform stats.Platform, urlStr string) stats.Result {
	fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	count, err := a.fetch(fetchCtx, platform, urlStr)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s", a.timeout)
		}
		a.logger.WarnContext(ctx, "platform fetch failed", "platform", platform, "url", urlStr, "error", err)
		return stats.Unavailable(urlStr, err)
	}

	a.logger.InfoContext(ctx, "platform fetch succeeded", "platform", platform, "solved", count)
	return stats.Solved(urlStr, count)
}

func (a *Aggregator) fetch(ctx context.Context, platform stats.Platform, urlStr string) (int, error) {
	switch platform {
	case stats.LeetCode:
		return a.fetchLeetCode(ctx, urlStr)
	case stats.GeeksforGeeks:
		return a.fetchGeeksforGeeks(ctx, urlStr)
	case stats.CodeChef:
		return a.fetchCodeChef(ctx, urlStr)
	case stats.HackerRank:
		return a.fetchHackerRank(ctx, urlStr)
	default:
		return 0, fmt.Errorf("unknown platform %q", platform)
	}
}

func (a *Aggregator) fetchLeetCode(ctx context.Context, urlStr string) (int, error) {
	opts := []leetcode.Option{leetcode.WithLogger(a.logger)}
	if a.cache != nil {
		opts = append(opts, leetcode.WithHTTPCache(a.cache))
	}
	if a.leetcodeEndpoint != "" {
		opts = append(opts, leetcode.WithEndpoint(a.leetcodeEndpoint))
	}

	client, err := leetcode.New(ctx, opts...)
	if err != nil {
		return 0, err
	}
	return client.Fetch(ctx, urlStr)
}

func (a *Aggregator) fetchGeeksforGeeks(ctx context.Context, urlStr string) (int, error) {
	opts := []geeksforgeeks.Option{geeksforgeeks.WithLogger(a.logger)}
	if a.cache != nil {
		opts = append(opts, geeksforgeeks.WithHTTPCache(a.cache))
	}

	client, err := geeksforgeeks.New(ctx, opts...)
	if err != nil {
		return 0, err
	}
	return client.Fetch(ctx, urlStr)
}

func (a *Aggregator) fetchCodeChef(ctx context.Context, urlStr string) (int, error) {
	opts := []codechef.Option{codechef.WithLogger(a.logger)}
	if a.cache != nil {
		opts = append(opts, codechef.WithHTTPCache(a.cache))
	}
	if a.codechefBaseURL != "" {
		opts = append(opts, codechef.WithBaseURL(a.codechefBaseURL))
	}

	client, err := codechef.New(ctx, opts...)
	if err != nil {
		return 0, err
	}
	return client.Fetch(ctx, urlStr)
}

func (a *Aggregator) fetchHackerRank(ctx context.Context, urlStr string) (int, error) {
	opts := []hackerrank.Option{hackerrank.WithLogger(a.logger)}
	if a.cache != nil {
		opts = append(opts, hackerrank.WithHTTPCache(a.cache))
	}

	client, err := hackerrank.New(ctx, opts...)
	if err != nil {
		return 0, err
	}
	return client.Fetch(ctx, urlStr)
}

// Detect returns the platform whose profile URL shape matches urlStr.
// Matching order is the canonical platform order.
func Detect(urlStr string) (stats.Platform, bool) {
	switch {
	case leetcode.Match(urlStr):
		return stats.LeetCode, true
	case geeksforgeeks.Match(urlStr):
		return stats.GeeksforGeeks, true
	case codechef.Match(urlStr):
		return stats.CodeChef, true
	case hackerrank.Match(urlStr):
		return stats.HackerRank, true
	default:
		return "", false
	}
}
