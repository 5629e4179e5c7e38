package service

import "testing"

func TestNextStreak(t *testing.T) {
	cases := []struct {
		name    string
		last    string
		today   string
		current int
		want    int
	}{
		{"first activity", "", "2026-08-28", 0, 1},
		{"same day keeps streak", "2026-08-28", "2026-08-28", 4, 4},
		{"consecutive day increments", "2026-08-27", "2026-08-28", 4, 5},
		{"two day gap resets", "2026-08-25", "2026-08-28", 9, 1},
		{"month boundary", "2026-08-31", "2026-09-01", 2, 3},
		{"malformed date resets", "not-a-date", "2026-08-28", 7, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NextStreak(c.last, c.today, c.current); got != c.want {
				t.Fatalf("NextStreak(%q, %q, %d) = %d, want %d", c.last, c.today, c.current, got, c.want)
			}
		})
	}
}

func TestTodayInTimezone_FallsBackOnInvalidZone(t *testing.T) {
	got := TodayInTimezone("Not/AZone")
	if len(got) != 10 {
		t.Fatalf("expected YYYY-MM-DD, got %q", got)
	}
	if got != TodayInTimezone(DefaultTimezone) {
		t.Fatalf("invalid zone should fall back to %s", DefaultTimezone)
	}
}
