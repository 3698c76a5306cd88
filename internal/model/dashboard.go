package model

import (
	"time"

	"github.com/google/uuid"
)

// WasteSlice is one category of the waste composition chart, weighted by
// the configured per-event unit weight rather than measured mass.
type WasteSlice struct {
	Name  string
	Value int64
}

// DashboardSnapshot is the full set of numbers the admin overview shows.
// Every field is recomputed from scratch each refresh cycle.
type DashboardSnapshot struct {
	TotalBins         int64
	ActivePickers     int64
	CollectionsToday  int64
	PendingComplaints int64
	SuccessRate       float64 // blended percentage, one decimal
	WasteComposition  []WasteSlice
	TotalWaste        int64
	RecentReports     []Report
	Pickers           []Profile
	GeneratedAt       time.Time
}

// TopPicker is one leaderboard row: a picker's aggregate for the day
// joined to their profile.
type TopPicker struct {
	PickerID      uuid.UUID
	Name          string
	Email         string
	BinsCollected int64
	SuccessRate   float64
}

// PickerDayStats is what the picker dashboard shows for the current day.
type PickerDayStats struct {
	TotalCollections int64
	WardsCovered     int64
	SuccessRate      int64 // whole percent, quota-based
}
