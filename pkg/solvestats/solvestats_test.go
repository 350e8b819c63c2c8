package solvestats

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/solvestats/pkg/stats"
	"github.com/google/go-cmp/cmp"
)

func leetcodeServer(t *testing.T, count int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"data":{"matchedUser":{"submitStats":{"acSubmissionNum":[{"difficulty":"All","count":%d}]}}}}`, count)
	}))
}

func htmlServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
}

func TestAggregateAllPlatforms(t *testing.T) {
	lc := leetcodeServer(t, 150)
	defer lc.Close()
	gfg := htmlServer(t, `<div>Problem Solved 100</div>`)
	defer gfg.Close()
	cc := htmlServer(t, `<section class="rating-data-section problems-solved">Total Problems Solved: 50</section>`)
	defer cc.Close()
	hr := htmlServer(t, strings.Repeat(`<div class="badge-card"></div>`, 7))
	defer hr.Close()

	agg, err := New(context.Background())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	agg.leetcodeEndpoint = lc.URL
	agg.codechefBaseURL = cc.URL

	summary := agg.Aggregate(context.Background(), Request{
		LeetCode:      "https://leetcode.com/u/alice",
		GeeksforGeeks: gfg.URL + "/user/alice",
		CodeChef:      "https://www.codechef.com/users/alice",
		HackerRank:    hr.URL + "/profile/alice",
	})

	// Badge counts stay out of the total.
	if summary.TotalSolved != 300 {
		t.Errorf("TotalSolved = %d, want 300", summary.TotalSolved)
	}

	want := stats.Results{
		LeetCode:      stats.Solved("https://leetcode.com/u/alice", 150),
		GeeksforGeeks: stats.Solved(gfg.URL+"/user/alice", 100),
		CodeChef:      stats.Solved("https://www.codechef.com/users/alice", 50),
		HackerRank:    stats.Solved(hr.URL+"/profile/alice", 7),
	}
	if diff := cmp.Diff(want, summary.Platforms); diff != "" {
		t.Errorf("Platforms mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateNoURLs(t *testing.T) {
	agg, err := New(context.Background())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	summary := agg.Aggregate(context.Background(), Request{})

	want := Summary{
		Platforms: stats.Results{
			LeetCode:      stats.NotRequested(),
			GeeksforGeeks: stats.NotRequested(),
			CodeChef:      stats.NotRequested(),
			HackerRank:    stats.NotRequested(),
		},
	}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregatePartialFailure(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()
	gfg := htmlServer(t, `<div>Problem Solved 42</div>`)
	defer gfg.Close()

	agg, err := New(context.Background())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	agg.leetcodeEndpoint = notFound.URL

	summary := agg.Aggregate(context.Background(), Request{
		LeetCode:      "https://leetcode.com/u/ghost",
		GeeksforGeeks: gfg.URL + "/user/alice",
	})

	if summary.TotalSolved != 42 {
		t.Errorf("TotalSolved = %d, want 42", summary.TotalSolved)
	}

	lcRes := summary.Platforms.LeetCode
	if lcRes.Solved.Valid {
		t.Errorf("LeetCode solved = %v, want N/A", lcRes.Solved)
	}
	if lcRes.URL != "https://leetcode.com/u/ghost" {
		t.Errorf("LeetCode url = %q, want original URL", lcRes.URL)
	}
	if !strings.Contains(lcRes.Error, "HTTP 404") {
		t.Errorf("LeetCode error = %q, want mention of HTTP 404", lcRes.Error)
	}

	if diff := cmp.Diff(stats.NotRequested(), summary.Platforms.CodeChef); diff != "" {
		t.Errorf("CodeChef mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(stats.NotRequested(), summary.Platforms.HackerRank); diff != "" {
		t.Errorf("HackerRank mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
		}
	}))
	defer slow.Close()

	agg, err := New(context.Background(), WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	summary := agg.Aggregate(context.Background(), Request{GeeksforGeeks: slow.URL + "/user/alice"})

	res := summary.Platforms.GeeksforGeeks
	if res.Solved.Valid {
		t.Errorf("solved = %v, want N/A", res.Solved)
	}
	if res.Error != "timed out after 50ms" {
		t.Errorf("error = %q, want %q", res.Error, "timed out after 50ms")
	}
}

func TestAggregateBadURL(t *testing.T) {
	agg, err := New(context.Background())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	summary := agg.Aggregate(context.Background(), Request{CodeChef: "https://www.codechef.com/contests"})

	res := summary.Platforms.CodeChef
	if res.Solved.Valid {
		t.Errorf("solved = %v, want N/A", res.Solved)
	}
	if !strings.Contains(res.Error, "no username") {
		t.Errorf("error = %q, want mention of missing username", res.Error)
	}
	if summary.TotalSolved != 0 {
		t.Errorf("TotalSolved = %d, want 0", summary.TotalSolved)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		url    string
		want   stats.Platform
		wantOK bool
	}{
		{"https://leetcode.com/u/alice", stats.LeetCode, true},
		{"https://www.geeksforgeeks.org/user/alice", stats.GeeksforGeeks, true},
		{"https://www.codechef.com/users/alice", stats.CodeChef, true},
		{"https://www.hackerrank.com/profile/alice", stats.HackerRank, true},
		{"https://example.com/alice", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := Detect(tt.url)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Detect(%q) = %q, %v, want %q, %v", tt.url, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAggregateLive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping live network test in short mode")
	}
	if os.Getenv("SOLVESTATS_LIVE_TEST") == "" {
		t.Skip("set SOLVESTATS_LIVE_TEST=1 to run against live platforms")
	}

	agg, err := New(context.Background())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	summary := agg.Aggregate(context.Background(), Request{LeetCode: "https://leetcode.com/u/neal_wu"})
	res := summary.Platforms.LeetCode
	if !res.Solved.Valid || res.Solved.Value <= 0 {
		t.Errorf("live leetcode fetch = %+v, want a positive solved count", res)
	}
}
