// Package htmlutil provides small text helpers shared by the HTML scrapers.
package htmlutil

import (
	"regexp"
	"strconv"
	"strings"
)

var intPattern = regexp.MustCompile(`\d+`)

// Ints returns every run of decimal digits in s, in order.
func Ints(s string) []int {
	var out []int
	for _, m := range intPattern.FindAllString(s, -1) {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// FirstInt returns the first run of decimal digits in s.
func FirstInt(s string) (int, bool) {
	ints := Ints(s)
	if len(ints) == 0 {
		return 0, false
	}
	return ints[0], true
}

// MaxInt returns the largest run of decimal digits in s.
func MaxInt(s string) (int, bool) {
	ints := Ints(s)
	if len(ints) == 0 {
		return 0, false
	}
	m := ints[0]
	for _, n := range ints[1:] {
		m = max(m, n)
	}
	return m, true
}

// IsNotFound reports whether a page body looks like a missing or private
// profile rather than a real one.
func IsNotFound(body string) bool {
	lower := strings.ToLower(body)
	patterns := []string{
		"profile not found",
		"page not found",
	}
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
