package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/nurpe/wasteops-portal/internal/config"
	"github.com/nurpe/wasteops-portal/internal/model"
)

type ProfileLister interface {
	ListByRole(ctx context.Context, role model.Role) ([]model.Profile, error)
}

type ReportCounter interface {
	StatusCounts(ctx context.Context) ([]model.StatusCount, error)
	List(ctx context.Context, limit int) ([]model.Report, error)
}

type DailyStatReader interface {
	ListForDay(ctx context.Context, day time.Time) ([]model.PickerDailyStat, error)
	TopPickers(ctx context.Context, day time.Time, limit int) ([]model.TopPicker, error)
}

type WasteCounter interface {
	WasteTypeCounts(ctx context.Context, from, to time.Time) (map[string]int64, error)
}

// DashboardService derives the admin overview numbers from raw rows.
// Every snapshot is computed from scratch; nothing is carried between
// refresh cycles.
type DashboardService struct {
	profiles    ProfileLister
	reports     ReportCounter
	dailyStats  DailyStatReader
	collections WasteCounter
	cfg         *config.Config
	now         func() time.Time
}

func NewDashboardService(
	profiles ProfileLister,
	reports ReportCounter,
	dailyStats DailyStatReader,
	collections WasteCounter,
	cfg *config.Config,
) *DashboardService {
	return &DashboardService{
		profiles:    profiles,
		reports:     reports,
		dailyStats:  dailyStats,
		collections: collections,
		cfg:         cfg,
		now:         time.Now,
	}
}

const (
	recentReportLimit = 6
	topPickerLimit    = 5
)

func (s *DashboardService) Snapshot(ctx context.Context) (*model.DashboardSnapshot, error) {
	now := s.now()
	day, from, to := DayWindow(now, s.cfg.Dashboard.DayOffset)

	pickers, err := s.profiles.ListByRole(ctx, model.RolePicker)
	if err != nil {
		return nil, err
	}

	statRows, err := s.dailyStats.ListForDay(ctx, day)
	if err != nil {
		return nil, err
	}

	// "Active pickers" is every registered picker in production, not
	// pickers with activity today. The flag keeps that reproducible.
	activePickers := int64(len(pickers))
	if !s.cfg.Dashboard.CountAllPickersAsActive {
		distinct := make(map[string]struct{}, len(statRows))
		for _, row := range statRows {
			distinct[row.PickerID.String()] = struct{}{}
		}
		activePickers = int64(len(distinct))
	}
	totalBins := activePickers * s.cfg.Dashboard.BinsPerPicker

	var collectionsToday int64
	var successSum float64
	for _, row := range statRows {
		collectionsToday += row.BinsCollected
		successSum += row.SuccessRate
	}
	collectionSuccess := 0.0
	if len(statRows) > 0 {
		collectionSuccess = successSum / float64(len(statRows))
	}

	statusCounts, err := s.reports.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	var totalReports, resolved, pending int64
	for _, row := range statusCounts {
		totalReports += row.Count
		switch strings.ToLower(string(row.Status)) {
		case "resolved":
			resolved += row.Count
		case "pending":
			pending += row.Count
		}
	}
	denominator := totalReports
	if denominator == 0 {
		denominator = 1
	}
	complaintSuccess := float64(resolved) / float64(denominator)

	combined := (collectionSuccess/100 + complaintSuccess) / 2 * 100
	combined = math.Round(combined*10) / 10

	wasteCounts, err := s.collections.WasteTypeCounts(ctx, from, to)
	if err != nil {
		return nil, err
	}
	composition, totalWaste := weighWaste(wasteCounts, s.cfg.Dashboard.WasteWeights)

	recent, err := s.reports.List(ctx, recentReportLimit)
	if err != nil {
		return nil, err
	}

	return &model.DashboardSnapshot{
		TotalBins:         totalBins,
		ActivePickers:     activePickers,
		CollectionsToday:  collectionsToday,
		PendingComplaints: pending,
		SuccessRate:       combined,
		WasteComposition:  composition,
		TotalWaste:        totalWaste,
		RecentReports:     recent,
		Pickers:           pickers,
		GeneratedAt:       now,
	}, nil
}

// TopPickers is the admin leaderboard: the day's best five pickers by
// success rate.
func (s *DashboardService) TopPickers(ctx context.Context, principal model.Principal) ([]model.TopPicker, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	day, _, _ := DayWindow(s.now(), s.cfg.Dashboard.DayOffset)
	return s.dailyStats.TopPickers(ctx, day, topPickerLimit)
}

// PickerRoster lists registered pickers for the admin roster tab.
func (s *DashboardService) PickerRoster(ctx context.Context, principal model.Principal) ([]model.Profile, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return s.profiles.ListByRole(ctx, model.RolePicker)
}

// canonical chart order; configured categories outside this list follow
// alphabetically.
var wasteDisplayOrder = []string{"wet", "dry", "metal", "plastic"}

func weighWaste(counts map[string]int64, weights map[string]int64) ([]model.WasteSlice, int64) {
	ordered := make([]string, 0, len(weights))
	for _, name := range wasteDisplayOrder {
		if _, ok := weights[name]; ok {
			ordered = append(ordered, name)
		}
	}
	var extra []string
	for name := range weights {
		if !contains(wasteDisplayOrder, name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	ordered = append(ordered, extra...)

	slices := make([]model.WasteSlice, 0, len(ordered))
	var total int64
	for _, name := range ordered {
		value := counts[name] * weights[name]
		total += value
		slices = append(slices, model.WasteSlice{Name: wasteLabel(name), Value: value})
	}
	return slices, total
}

func wasteLabel(name string) string {
	if name == "" {
		return "Waste"
	}
	return strings.ToUpper(name[:1]) + name[1:] + " Waste"
}

func contains(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
