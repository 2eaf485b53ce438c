package audit

import (
	"testing"
	"time"
)

func TestFilterClause(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		f        Filter
		want     string
		wantArgs int
	}{
		{"empty", Filter{}, "", 0},
		{"actor only", Filter{ActorID: "u1"}, " WHERE actor_id = $1", 1},
		{"action only", Filter{Action: ActionLogin}, " WHERE action = $1", 1},
		{"range", Filter{From: from, To: to}, " WHERE created_at >= $1 AND created_at <= $2", 2},
		{"all", Filter{ActorID: "u1", Action: ActionDenied, From: from, To: to},
			" WHERE actor_id = $1 AND action = $2 AND created_at >= $3 AND created_at <= $4", 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var args []any
			got := filterClause(tc.f, &args)
			if got != tc.want {
				t.Errorf("clause = %q, want %q", got, tc.want)
			}
			if len(args) != tc.wantArgs {
				t.Errorf("args = %d, want %d", len(args), tc.wantArgs)
			}
		})
	}
}
