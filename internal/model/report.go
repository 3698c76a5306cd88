package model

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "Pending"
	ReportStatusInProgress ReportStatus = "In Progress"
	ReportStatusResolved   ReportStatus = "Resolved"
	ReportStatusRejected   ReportStatus = "Rejected"
	ReportStatusNew        ReportStatus = "New"
)

// Report is a citizen complaint. Status only moves forward in practice
// (Pending -> In Progress -> Resolved; Rejected is terminal) and rows are
// never deleted.
type Report struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	IssueType   string
	Description string
	PhotoURL    *string
	Location    string
	Ward        string
	Status      ReportStatus
	CreatedAt   time.Time
}

// StatusCount is one row of a GROUP BY status aggregation.
type StatusCount struct {
	Status ReportStatus
	Count  int64
}
