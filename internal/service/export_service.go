package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nurpe/wasteops-portal/internal/config"
	"github.com/nurpe/wasteops-portal/internal/model"
)

type ExcelGenerator interface {
	Generate(export model.DailyExport) ([]byte, error)
}

type PDFGenerator interface {
	Generate(export model.DailyExport) ([]byte, error)
}

type CollectionLister interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]model.Collection, error)
}

// ExportService builds the downloadable daily summary in both formats.
type ExportService struct {
	dashboard   *DashboardService
	reports     ReportCounter
	collections CollectionLister
	excel       ExcelGenerator
	pdf         PDFGenerator
	cfg         *config.Config
	now         func() time.Time
}

func NewExportService(
	dashboard *DashboardService,
	reports ReportCounter,
	collections CollectionLister,
	excel ExcelGenerator,
	pdf PDFGenerator,
	cfg *config.Config,
) *ExportService {
	return &ExportService{
		dashboard:   dashboard,
		reports:     reports,
		collections: collections,
		excel:       excel,
		pdf:         pdf,
		cfg:         cfg,
		now:         time.Now,
	}
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func (s *ExportService) DailyExcel(ctx context.Context, principal model.Principal) (*ExportResult, error) {
	export, err := s.buildExport(ctx, principal)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Generate(*export)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("waste-ops-daily-%s.xlsx", export.Day.Format("20060102")),
		Content:  content,
	}, nil
}

func (s *ExportService) DailyPDF(ctx context.Context, principal model.Principal) (*ExportResult, error) {
	export, err := s.buildExport(ctx, principal)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(*export)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("waste-ops-daily-%s.pdf", export.Day.Format("20060102")),
		Content:  content,
	}, nil
}

func (s *ExportService) buildExport(ctx context.Context, principal model.Principal) (*model.DailyExport, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	day, from, to := DayWindow(s.now(), s.cfg.Dashboard.DayOffset)

	snapshot, err := s.dashboard.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	reports, err := s.reports.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	collections, err := s.collections.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &model.DailyExport{
		Day:         day,
		Snapshot:    *snapshot,
		Reports:     reports,
		Collections: collections,
	}, nil
}
