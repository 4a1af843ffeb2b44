package stats

import (
	"testing"
	"time"
)

func nzLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(TimezoneName)
	if err != nil {
		t.Fatalf("LoadLocation(%s): %v", TimezoneName, err)
	}
	return loc
}

func TestWeekBounds(t *testing.T) {
	loc := nzLocation(t)

	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
	}{
		{
			// Wednesday 2025-03-12 in Auckland.
			name:      "midweek",
			now:       time.Date(2025, 3, 12, 15, 30, 0, 0, loc),
			wantStart: time.Date(2025, 3, 9, 0, 0, 0, 0, loc),
		},
		{
			// A Sunday is the start of its own week.
			name:      "sunday",
			now:       time.Date(2025, 3, 9, 0, 0, 1, 0, loc),
			wantStart: time.Date(2025, 3, 9, 0, 0, 0, 0, loc),
		},
		{
			// Saturday night still belongs to the week that began
			// the previous Sunday.
			name:      "saturday night",
			now:       time.Date(2025, 3, 15, 23, 59, 59, 0, loc),
			wantStart: time.Date(2025, 3, 9, 0, 0, 0, 0, loc),
		},
		{
			// A UTC timestamp that is already the next day in
			// Auckland buckets by local time.
			name:      "utc rolls into local tomorrow",
			now:       time.Date(2025, 3, 8, 20, 0, 0, 0, time.UTC), // Sun 09:00 NZDT
			wantStart: time.Date(2025, 3, 9, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekBounds(tt.now, loc)
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantStart.AddDate(0, 0, 7)) {
				t.Errorf("end = %v, want %v", end, tt.wantStart.AddDate(0, 0, 7))
			}
		})
	}
}

func TestDayBounds(t *testing.T) {
	loc := nzLocation(t)

	now := time.Date(2025, 3, 12, 15, 30, 0, 0, loc)
	start, end := DayBounds(now, loc)

	if !start.Equal(time.Date(2025, 3, 12, 0, 0, 0, 0, loc)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, 3, 13, 0, 0, 0, 0, loc)) {
		t.Errorf("end = %v", end)
	}
	if !now.After(start) || !now.Before(end) {
		t.Error("now must fall inside its own day bounds")
	}
}

func TestDayIndex(t *testing.T) {
	loc := nzLocation(t)

	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{"sunday", time.Date(2025, 3, 9, 12, 0, 0, 0, loc), 0},
		{"wednesday", time.Date(2025, 3, 12, 12, 0, 0, 0, loc), 3},
		{"saturday", time.Date(2025, 3, 15, 12, 0, 0, 0, loc), 6},
		// Monday 10:00 UTC is Monday 23:00 NZDT, still a Monday.
		{"utc same local day", time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), 1},
		// Monday 13:00 UTC is Tuesday 02:00 NZDT.
		{"utc next local day", time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayIndex(tt.t, loc); got != tt.want {
				t.Errorf("DayIndex(%v) = %d, want %d", tt.t, got, tt.want)
			}
		})
	}
}
