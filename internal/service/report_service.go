package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/wasteops-portal/internal/config"
	"github.com/nurpe/wasteops-portal/internal/model"
	"github.com/nurpe/wasteops-portal/internal/storage"
)

type ReportStore interface {
	Create(ctx context.Context, report model.Report) (*model.Report, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	List(ctx context.Context, limit int) ([]model.Report, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Report, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReportStatus) error
}

type ReportService struct {
	repo   ReportStore
	photos storage.Store
	cfg    *config.Config
}

func NewReportService(repo ReportStore, photos storage.Store, cfg *config.Config) *ReportService {
	return &ReportService{repo: repo, photos: photos, cfg: cfg}
}

type CreateReportInput struct {
	Principal   model.Principal
	IssueType   string
	Description string
	Location    string
	Ward        string

	// Photo is optional; when set it is uploaded before the row insert
	// and its public URL stored on the report.
	Photo            io.Reader
	PhotoName        string
	PhotoContentType string
}

func (s *ReportService) Create(ctx context.Context, input CreateReportInput) (*model.Report, error) {
	if !input.Principal.IsCitizen() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(input.IssueType) == "" {
		return nil, fmt.Errorf("%w: issue_type is required", ErrInvalidInput)
	}

	var photoURL *string
	if input.Photo != nil {
		key := fmt.Sprintf("%s_%d_%s",
			input.Principal.UserID, time.Now().UnixMilli(), sanitizeFileName(input.PhotoName))
		url, err := s.photos.Save(ctx, key, input.PhotoContentType, input.Photo)
		if err != nil {
			return nil, fmt.Errorf("upload photo: %w", err)
		}
		photoURL = &url
	}

	return s.repo.Create(ctx, model.Report{
		UserID:      input.Principal.UserID,
		IssueType:   strings.TrimSpace(input.IssueType),
		Description: strings.TrimSpace(input.Description),
		PhotoURL:    photoURL,
		Location:    strings.TrimSpace(input.Location),
		Ward:        strings.TrimSpace(input.Ward),
		Status:      model.ReportStatusPending,
	})
}

func (s *ReportService) List(ctx context.Context, principal model.Principal) ([]model.Report, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return s.repo.List(ctx, 0)
}

func (s *ReportService) ListForUser(ctx context.Context, principal model.Principal) ([]model.Report, error) {
	return s.repo.ListByUser(ctx, principal.UserID)
}

func (s *ReportService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Report, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !principal.IsAdmin() && report.UserID != principal.UserID {
		return nil, ErrPermissionDenied
	}
	return report, nil
}

// UpdateStatus moves a report through its lifecycle. Only admins may
// call it and only statuses from the configured set are accepted.
func (s *ReportService) UpdateStatus(ctx context.Context, principal model.Principal, id uuid.UUID, status string) (*model.Report, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	canonical, ok := s.canonicalStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, canonical); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ReportService) canonicalStatus(raw string) (model.ReportStatus, bool) {
	raw = strings.TrimSpace(raw)
	for _, valid := range s.cfg.Reports.ValidStatuses {
		if strings.EqualFold(raw, valid) {
			return model.ReportStatus(valid), true
		}
	}
	return "", false
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_', r == '.':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
