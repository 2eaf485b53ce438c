package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"", time.Time{}, false},
		{"2026-06-01", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), false},
		{"2026-06-01T10:30:00Z", time.Date(2026, 6, 1, 10, 30, 0, 0, time.UTC), false},
		{"01/06/2026", time.Time{}, true},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q): want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 20, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=999", 100, 0},
		{"?limit=-1&offset=-1", 20, 0},
		{"?limit=abc", 20, 0},
		{"?limit=25&page=3", 25, 50},
		{"?page=1", 20, 0},
		{"?page=0", 20, 0},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", "/users"+tc.query, nil)
		got := ParsePagination(r, 20, 100)
		if got.Limit != tc.wantLimit || got.Offset != tc.wantOffset {
			t.Errorf("query %q: got %+v, want limit %d offset %d", tc.query, got, tc.wantLimit, tc.wantOffset)
		}
	}
}
