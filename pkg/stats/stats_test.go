package stats

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestErrorTypes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrNoUsername", ErrNoUsername, "no username in profile URL"},
		{"ErrProfileNotFound", ErrProfileNotFound, "profile not found or private"},
		{"ErrNoSolvedCount", ErrNoSolvedCount, "solved count not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.want {
				t.Errorf("got %q, want %q", tt.err.Error(), tt.want)
			}
		})
	}
}

func TestPlatformsOrder(t *testing.T) {
	want := []Platform{LeetCode, GeeksforGeeks, CodeChef, HackerRank}
	if diff := cmp.Diff(want, Platforms()); diff != "" {
		t.Errorf("Platforms() mismatch (-want +got):\n%s", diff)
	}
}

func TestCountMarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		count Count
		want  string
	}{
		{"valid", NewCount(150), "150"},
		{"zero valid", NewCount(0), "0"},
		{"unavailable", Count{}, `"N/A"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.count)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCountUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Count
		wantErr bool
	}{
		{"number", "42", NewCount(42), false},
		{"not available", `"N/A"`, Count{}, false},
		{"other string", `"lots"`, Count{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Count
			err := json.Unmarshal([]byte(tt.data), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Unmarshal = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCountString(t *testing.T) {
	if got := NewCount(7).String(); got != "7" {
		t.Errorf("String = %q, want %q", got, "7")
	}
	if got := (Count{}).String(); got != "N/A" {
		t.Errorf("String = %q, want %q", got, "N/A")
	}
}

func TestResultConstructors(t *testing.T) {
	t.Run("solved", func(t *testing.T) {
		r := Solved("https://leetcode.com/u/alice", 150)
		if !r.Solved.Valid || r.Solved.Value != 150 {
			t.Errorf("Solved count = %+v, want valid 150", r.Solved)
		}
		if r.Error != "" {
			t.Errorf("Error = %q, want empty", r.Error)
		}
	})

	t.Run("unavailable", func(t *testing.T) {
		r := Unavailable("https://leetcode.com/u/alice", errors.New("HTTP 404"))
		if r.Solved.Valid {
			t.Error("count should be unavailable")
		}
		if r.Error != "HTTP 404" {
			t.Errorf("Error = %q, want %q", r.Error, "HTTP 404")
		}
	})

	t.Run("not requested", func(t *testing.T) {
		data, err := json.Marshal(NotRequested())
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		want := `{"solved":"N/A","url":""}`
		if string(data) != want {
			t.Errorf("Marshal = %s, want %s", data, want)
		}
	})
}

func TestResultsGetSet(t *testing.T) {
	var rs Results
	for i, p := range Platforms() {
		rs.Set(p, Solved("https://example.com", i+1))
	}
	for i, p := range Platforms() {
		if got := rs.Get(p).Solved.Value; got != i+1 {
			t.Errorf("Get(%s) = %d, want %d", p, got, i+1)
		}
	}
}

func TestRequestURL(t *testing.T) {
	req := Request{
		LeetCode:      "https://leetcode.com/u/alice",
		GeeksforGeeks: "https://geeksforgeeks.org/user/alice",
		CodeChef:      "https://codechef.com/users/alice",
		HackerRank:    "https://hackerrank.com/profile/alice",
	}
	tests := []struct {
		platform Platform
		want     string
	}{
		{LeetCode, "https://leetcode.com/u/alice"},
		{GeeksforGeeks, "https://geeksforgeeks.org/user/alice"},
		{CodeChef, "https://codechef.com/users/alice"},
		{HackerRank, "https://hackerrank.com/profile/alice"},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			if got := req.URL(tt.platform); got != tt.want {
				t.Errorf("URL(%s) = %q, want %q", tt.platform, got, tt.want)
			}
		})
	}
}

func TestRequestSetURL(t *testing.T) {
	var req Request
	for _, p := range Platforms() {
		req.SetURL(p, "https://example.com/"+string(p))
	}

	for _, p := range Platforms() {
		want := "https://example.com/" + string(p)
		if got := req.URL(p); got != want {
			t.Errorf("URL(%s) = %q, want %q", p, got, want)
		}
	}
}

func TestNewSummaryExcludesHackerRank(t *testing.T) {
	var rs Results
	rs.Set(LeetCode, Solved("https://leetcode.com/u/alice", 100))
	rs.Set(CodeChef, Solved("https://codechef.com/users/alice", 50))
	rs.Set(HackerRank, Solved("https://hackerrank.com/alice", 999))
	rs.Set(GeeksforGeeks, NotRequested())

	s := NewSummary(rs)
	if s.TotalSolved != 150 {
		t.Errorf("TotalSolved = %d, want 150", s.TotalSolved)
	}
}

func TestNewSummaryAllUnavailable(t *testing.T) {
	var rs Results
	for _, p := range Platforms() {
		rs.Set(p, NotRequested())
	}
	if s := NewSummary(rs); s.TotalSolved != 0 {
		t.Errorf("TotalSolved = %d, want 0", s.TotalSolved)
	}
}

func TestSummaryJSONShape(t *testing.T) {
	var rs Results
	rs.Set(LeetCode, Solved("https://leetcode.com/u/alice", 150))
	for _, p := range []Platform{GeeksforGeeks, CodeChef, HackerRank} {
		rs.Set(p, NotRequested())
	}

	data, err := json.Marshal(NewSummary(rs))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"platforms":{` +
		`"leetcode":{"solved":150,"url":"https://leetcode.com/u/alice"},` +
		`"geeksforgeeks":{"solved":"N/A","url":""},` +
		`"codechef":{"solved":"N/A","url":""},` +
		`"hackerrank":{"solved":"N/A","url":""}},` +
		`"totalSolved":150}`
	if string(data) != want {
		t.Errorf("Marshal mismatch\n got: %s\nwant: %s", data, want)
	}
}

func TestSummaryRoundTrip(t *testing.T) {
	var rs Results
	rs.Set(LeetCode, Solved("https://leetcode.com/u/alice", 150))
	rs.Set(GeeksforGeeks, Unavailable("https://geeksforgeeks.org/user/alice", ErrNoSolvedCount))
	rs.Set(CodeChef, NotRequested())
	rs.Set(HackerRank, Solved("https://hackerrank.com/alice", 12))
	orig := NewSummary(rs)

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var got Summary
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
