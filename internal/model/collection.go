package model

import (
	"time"

	"github.com/google/uuid"
)

// Collection is one logged bin pickup. Rows are append-only: there is no
// update or delete path once a pickup is written.
type Collection struct {
	ID             uuid.UUID
	PickerID       uuid.UUID
	PickerName     string
	BinID          string
	Ward           string
	Location       string
	WasteType      string
	Success        bool
	IdempotencyKey string
	CreatedAt      time.Time
}

// PickerDailyStat is the per-picker per-day aggregate row backing the
// admin dashboard's collections counter and success average.
type PickerDailyStat struct {
	PickerID      uuid.UUID
	Day           time.Time
	BinsCollected int64
	SuccessRate   float64
}

// ScanFields holds whatever a QR payload yielded; empty fields are left
// for manual entry on the picker form.
type ScanFields struct {
	BinID string
	Ward  string
}
