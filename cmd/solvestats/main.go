// Command solvestats prints solved-problem counts for coding-practice
// profile URLs.
//
// Usage:
//
//	solvestats https://leetcode.com/u/johndoe
//	solvestats -codechef https://www.codechef.com/users/johndoe
//	solvestats https://leetcode.com/u/johndoe https://www.hackerrank.com/profile/johndoe
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/codeGROOVE-dev/solvestats/pkg/fetch"
	"github.com/codeGROOVE-dev/solvestats/pkg/solvestats"
	"github.com/codeGROOVE-dev/solvestats/pkg/stats"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	verbose := flag.Bool("v", false, "verbose logging (same as -debug)")
	useCache := flag.Bool("cache", false, "cache HTTP responses on disk")
	cacheTTL := flag.Duration("cache-ttl", 24*time.Hour, "cache time-to-live")
	timeout := flag.Duration("timeout", solvestats.DefaultTimeout, "per-platform fetch deadline")
	leetcodeURL := flag.String("leetcode", "", "LeetCode profile URL")
	gfgURL := flag.String("geeksforgeeks", "", "GeeksforGeeks profile URL")
	codechefURL := flag.String("codechef", "", "CodeChef profile URL")
	hackerrankURL := flag.String("hackerrank", "", "HackerRank profile URL")
	flag.Parse()

	req := stats.Request{
		LeetCode:      *leetcodeURL,
		GeeksforGeeks: *gfgURL,
		CodeChef:      *codechefURL,
		HackerRank:    *hackerrankURL,
	}

	// Positional URLs are routed to platforms by their shape.
	for _, arg := range flag.Args() {
		platform, ok := solvestats.Detect(arg)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unrecognized profile URL: %s\n", arg)
			os.Exit(1)
		}
		req.SetURL(platform, arg)
	}

	if req == (stats.Request{}) {
		fmt.Fprintln(os.Stderr, "Usage: solvestats [options] <profile-url>...")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		fmt.Fprintln(os.Stderr, "\nSupported platforms:")
		fmt.Fprintln(os.Stderr, "  - LeetCode")
		fmt.Fprintln(os.Stderr, "  - GeeksforGeeks")
		fmt.Fprintln(os.Stderr, "  - CodeChef")
		fmt.Fprintln(os.Stderr, "  - HackerRank (badge count, left out of totalSolved)")
		os.Exit(1)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	if *debug || *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	// Setup cache
	var httpCache *fetch.Cache
	if *useCache {
		var err error
		httpCache, err = fetch.New(*cacheTTL)
		if err != nil {
			logger.Warn("failed to initialize cache, continuing without cache", "error", err)
		} else {
			defer func() {
				if err := httpCache.Close(); err != nil {
					logger.Warn("failed to close cache", "error", err)
				}
			}()
			logger.Debug("HTTP cache initialized", "ttl", cacheTTL.String())
		}
	}

	opts := []solvestats.Option{
		solvestats.WithLogger(logger),
		solvestats.WithTimeout(*timeout),
	}
	if httpCache != nil {
		opts = append(opts, solvestats.WithHTTPCache(httpCache))
	}

	ctx := context.Background()
	agg, err := solvestats.New(ctx, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1) //nolint:gocritic // exitAfterDefer is acceptable in main
	}

	summary := agg.Aggregate(ctx, req)
	if err := outputJSON(summary); err != nil {
		fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
		os.Exit(1)
	}
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
