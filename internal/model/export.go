package model

import "time"

// DailyExport bundles everything the downloadable daily summary shows:
// the dashboard snapshot plus the day's raw rows.
type DailyExport struct {
	Day         time.Time
	Snapshot    DashboardSnapshot
	Reports     []Report
	Collections []Collection
}
