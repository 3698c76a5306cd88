package service

import "time"

// DayWindow resolves "today" for a municipality running ahead of or
// behind UTC. The instant is shifted by offset, truncated to a date, and
// that date's UTC midnight bounds the window. The returned day is the
// value written to picker_daily_stats.day.
func DayWindow(now time.Time, offset time.Duration) (day, from, to time.Time) {
	shifted := now.UTC().Add(offset)
	y, m, d := shifted.Date()
	day = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return day, day, day.Add(24 * time.Hour)
}
