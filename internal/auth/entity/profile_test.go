package entity

import (
	"testing"
	"time"
)

func TestProfileActive(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	yesterday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		end  *time.Time
		want bool
	}{
		{"open ended contract", nil, true},
		{"contract ended yesterday", &yesterday, false},
		{"contract ends today", &today, true},
		{"contract ends tomorrow", &tomorrow, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Profile{ContractEndAt: tc.end}
			if got := p.Active(now); got != tc.want {
				t.Fatalf("Active() = %v, want %v", got, tc.want)
			}
		})
	}
}
