package stats

import "time"

// The app's study week runs Sunday to Saturday in New Zealand time,
// matching the launch market.
const TimezoneName = "Pacific/Auckland"

// WeekBounds returns the current study week as [start, end): the most
// recent Sunday midnight in loc through the following Sunday midnight.
func WeekBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	daysSinceSunday := int(local.Weekday())
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, -daysSinceSunday)
	return start, start.AddDate(0, 0, 7)
}

// DayBounds returns the calendar day of now in loc as [start, end).
func DayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// DayIndex maps a timestamp to its weekday bucket in loc, Sunday = 0.
func DayIndex(t time.Time, loc *time.Location) int {
	return int(t.In(loc).Weekday())
}
