package timesheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"crewhub/internal/domain/access"
)

func TestSubmitValidation(t *testing.T) {
	svc := &Service{}
	p := access.Principal{UserID: "u1", Role: access.RoleEmployee}
	monday := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	cases := []struct {
		name      string
		weekStart time.Time
		hours     float64
		want      error
	}{
		{"negative hours", monday, -1, ErrBadHours},
		{"over a week of hours", monday, 168.5, ErrBadHours},
		{"week not starting monday", tuesday, 40, ErrBadWeek},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), p, tc.weekStart, tc.hours, "")
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
