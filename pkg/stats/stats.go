// Package stats defines the shared types for solved-count aggregation.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors shared by the platform fetchers.
var (
	// ErrNoUsername indicates a profile URL no username could be extracted from.
	ErrNoUsername = errors.New("no username in profile URL")

	// ErrProfileNotFound indicates a profile that is absent or private.
	ErrProfileNotFound = errors.New("profile not found or private")

	// ErrNoSolvedCount indicates a page that matched none of the known patterns.
	ErrNoSolvedCount = errors.New("solved count not found")
)

// Platform identifies one of the supported coding-practice sites.
type Platform string

// The supported platforms.
const (
	LeetCode      Platform = "leetcode"
	GeeksforGeeks Platform = "geeksforgeeks"
	CodeChef      Platform = "codechef"
	HackerRank    Platform = "hackerrank"
)

// Platforms returns the supported platforms in canonical order.
func Platforms() []Platform {
	return []Platform{LeetCode, GeeksforGeeks, CodeChef, HackerRank}
}

// Count is a solved-problem count that may be unavailable.
// The zero value is the unavailable count.
type Count struct {
	Value int
	Valid bool
}

// NewCount returns a valid Count.
func NewCount(n int) Count { return Count{Value: n, Valid: true} }

// MarshalJSON encodes a valid count as a number and an unavailable one as "N/A".
func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte(`"N/A"`), nil
	}
	return json.Marshal(c.Value)
}

// UnmarshalJSON accepts either a number or the string "N/A".
func (c *Count) UnmarshalJSON(data []byte) error {
	if string(data) == `"N/A"` {
		*c = Count{}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf(`count must be a number or "N/A": %w`, err)
	}
	*c = Count{Value: n, Valid: true}
	return nil
}

func (c Count) String() string {
	if !c.Valid {
		return "N/A"
	}
	return strconv.Itoa(c.Value)
}

// Result is the outcome of one platform lookup. Fetcher-produced results
// carry an error message exactly when the count is unavailable; the
// not-requested placeholder carries neither a count nor an error.
type Result struct {
	Solved Count  `json:"solved"`
	URL    string `json:"url"`
	Error  string `json:"error,omitempty"`
}

// Solved returns a successful result for a platform lookup.
func Solved(url string, n int) Result {
	return Result{Solved: NewCount(n), URL: url}
}

// Unavailable returns a failed result carrying the error message.
func Unavailable(url string, err error) Result {
	return Result{URL: url, Error: err.Error()}
}

// NotRequested returns the placeholder for a platform with no supplied URL.
func NotRequested() Result { return Result{} }

// Results holds one Result per platform. All four keys are always present
// in serialized form, in canonical platform order.
type Results struct {
	LeetCode      Result `json:"leetcode"`
	GeeksforGeeks Result `json:"geeksforgeeks"`
	CodeChef      Result `json:"codechef"`
	HackerRank    Result `json:"hackerrank"`
}

// Get returns the result for a platform.
func (r *Results) Get(p Platform) Result {
	switch p {
	case LeetCode:
		return r.LeetCode
	case GeeksforGeeks:
		return r.GeeksforGeeks
	case CodeChef:
		return r.CodeChef
	case HackerRank:
		return r.HackerRank
	default:
		return Result{}
	}
}

// Set stores the result for a platform.
func (r *Results) Set(p Platform, res Result) {
	switch p {
	case LeetCode:
		r.LeetCode = res
	case GeeksforGeeks:
		r.GeeksforGeeks = res
	case CodeChef:
		r.CodeChef = res
	case HackerRank:
		r.HackerRank = res
	}
}

// Request carries the profile URLs to aggregate, one optional URL per platform.
type Request struct {
	LeetCode      string `json:"leetcode"`
	GeeksforGeeks string `json:"geeksforgeeks"`
	CodeChef      string `json:"codechef"`
	HackerRank    string `json:"hackerrank"`
}

// URL returns the profile URL supplied for a platform, or "".
func (r Request) URL(p Platform) string {
	switch p {
	case LeetCode:
		return r.LeetCode
	case GeeksforGeeks:
		return r.GeeksforGeeks
	case CodeChef:
		return r.CodeChef
	case HackerRank:
		return r.HackerRank
	default:
		return ""
	}
}

// SetURL records the profile URL for a platform. Unknown platforms are
// ignored.
func (r *Request) SetURL(p Platform, urlStr string) {
	switch p {
	case LeetCode:
		r.LeetCode = urlStr
	case GeeksforGeeks:
		r.GeeksforGeeks = urlStr
	case CodeChef:
		r.CodeChef = urlStr
	case HackerRank:
		r.HackerRank = urlStr
	}
}

// Summary is the aggregate response body.
type Summary struct {
	Platforms   Results `json:"platforms"`
	TotalSolved int     `json:"totalSolved"`
}

// NewSummary computes the aggregate total for a set of results. HackerRank
// reports badge counts rather than solved problems, so it never contributes
// to the total.
func NewSummary(results Results) Summary {
	total := 0
	for _, p := range Platforms() {
		if p == HackerRank {
			continue
		}
		if c := results.Get(p).Solved; c.Valid {
			total += c.Value
		}
	}
	return Summary{Platforms: results, TotalSolved: total}
}
