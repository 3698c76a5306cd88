package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/wasteops-portal/internal/config"
	"github.com/nurpe/wasteops-portal/internal/model"
	"github.com/nurpe/wasteops-portal/internal/scan"
)

type CollectionStore interface {
	Insert(ctx context.Context, collection model.Collection) (*model.Collection, error)
	ListForPickerBetween(ctx context.Context, pickerID uuid.UUID, from, to time.Time) ([]model.Collection, error)
}

type DailyStatWriter interface {
	Upsert(ctx context.Context, stat model.PickerDailyStat) error
}

type CollectionService struct {
	collections CollectionStore
	dailyStats  DailyStatWriter
	cfg         *config.Config
	log         zerolog.Logger
	now         func() time.Time
}

func NewCollectionService(collections CollectionStore, dailyStats DailyStatWriter, cfg *config.Config, log zerolog.Logger) *CollectionService {
	return &CollectionService{
		collections: collections,
		dailyStats:  dailyStats,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// ParseScan extracts bin and ward from a decoded QR payload. Fields the
// payload does not carry come back empty for manual entry.
func (s *CollectionService) ParseScan(decoded string) model.ScanFields {
	return scan.Parse(decoded)
}

type LogCollectionInput struct {
	Principal model.Principal

	// ScanText, when present, is parsed first; explicit fields below
	// override whatever the scan yielded.
	ScanText  string
	BinID     string
	Ward      string
	Location  string
	WasteType string

	// IdempotencyKey collapses double submits into one row. A fresh key
	// is generated when the client did not send any.
	IdempotencyKey string
}

func (s *CollectionService) Log(ctx context.Context, input LogCollectionInput) (*model.Collection, error) {
	if !input.Principal.IsPicker() {
		return nil, ErrPermissionDenied
	}

	fields := scan.Parse(input.ScanText)
	binID := strings.TrimSpace(input.BinID)
	if binID == "" {
		binID = fields.BinID
	}
	ward := strings.TrimSpace(input.Ward)
	if ward == "" {
		ward = fields.Ward
	}

	// Bin ids are not validated against a registry; any scanned or
	// typed value is accepted.
	if binID == "" || strings.TrimSpace(input.WasteType) == "" {
		return nil, fmt.Errorf("%w: bin_id and waste_type are required", ErrInvalidInput)
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}

	saved, err := s.collections.Insert(ctx, model.Collection{
		PickerID:       input.Principal.UserID,
		PickerName:     input.Principal.Name,
		BinID:          binID,
		Ward:           ward,
		Location:       strings.TrimSpace(input.Location),
		WasteType:      strings.TrimSpace(input.WasteType),
		Success:        true,
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, err
	}

	// The daily aggregate row is best effort; the event row is already
	// durable and the next successful log rewrites the aggregate. An
	// error here must not surface to the client, or the picker would
	// resubmit a pickup that was recorded.
	if err := s.refreshDailyStat(ctx, input.Principal.UserID); err != nil {
		s.log.Error().Err(err).
			Str("picker_id", input.Principal.UserID.String()).
			Msg("daily stat refresh failed after collection insert")
	}
	return saved, nil
}

// PickerDayStats summarizes the picker's current day: how many pickups,
// how many distinct wards, and how far along the daily quota they are.
func (s *CollectionService) PickerDayStats(ctx context.Context, principal model.Principal) (*model.PickerDayStats, error) {
	if !principal.IsPicker() {
		return nil, ErrPermissionDenied
	}

	_, from, to := DayWindow(s.now(), s.cfg.Dashboard.DayOffset)
	rows, err := s.collections.ListForPickerBetween(ctx, principal.UserID, from, to)
	if err != nil {
		return nil, err
	}

	total, wards := countCollections(rows)
	return &model.PickerDayStats{
		TotalCollections: total,
		WardsCovered:     wards,
		SuccessRate:      quotaSuccessRate(wards, total, s.cfg.PickerQuota),
	}, nil
}

func (s *CollectionService) refreshDailyStat(ctx context.Context, pickerID uuid.UUID) error {
	day, from, to := DayWindow(s.now(), s.cfg.Dashboard.DayOffset)
	rows, err := s.collections.ListForPickerBetween(ctx, pickerID, from, to)
	if err != nil {
		return err
	}
	total, wards := countCollections(rows)
	return s.dailyStats.Upsert(ctx, model.PickerDailyStat{
		PickerID:      pickerID,
		Day:           day,
		BinsCollected: total,
		SuccessRate:   float64(quotaSuccessRate(wards, total, s.cfg.PickerQuota)),
	})
}

func countCollections(rows []model.Collection) (total, wards int64) {
	seen := make(map[string]struct{})
	for _, row := range rows {
		seen[row.Ward] = struct{}{}
	}
	return int64(len(rows)), int64(len(seen))
}

// quotaSuccessRate is 100 once both daily minimums are met; otherwise
// the mean of the two capped progress ratios, as a whole percent.
func quotaSuccessRate(wards, bins int64, quota config.PickerQuotaConfig) int64 {
	if quota.MinWards <= 0 || quota.MinBins <= 0 {
		return 0
	}
	if wards >= quota.MinWards && bins >= quota.MinBins {
		return 100
	}
	wardProgress := math.Min(float64(wards)/float64(quota.MinWards), 1)
	binProgress := math.Min(float64(bins)/float64(quota.MinBins), 1)
	return int64(math.Round((wardProgress + binProgress) / 2 * 100))
}
