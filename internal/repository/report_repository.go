package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/wasteops-portal/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report model.Report) (*model.Report, error) {
	var saved model.Report
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO reports (user_id, issue_type, description, photo_url, location, ward, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, user_id, issue_type, description, photo_url, location, ward, status, created_at
	`,
		report.UserID,
		report.IssueType,
		report.Description,
		report.PhotoURL,
		report.Location,
		report.Ward,
		report.Status,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, user_id, issue_type, description, photo_url, location, ward, status, created_at
		FROM reports
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&report).Error
	if err != nil {
		return nil, err
	}
	if report.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &report, nil
}

func (r *ReportRepository) List(ctx context.Context, limit int) ([]model.Report, error) {
	baseQuery := `
		SELECT id, user_id, issue_type, description, photo_url, location, ward, status, created_at
		FROM reports
		ORDER BY created_at DESC
	`
	query := r.db.WithContext(ctx)
	var reports []model.Report
	if limit > 0 {
		baseQuery += " LIMIT ?"
		if err := query.Raw(baseQuery, limit).Scan(&reports).Error; err != nil {
			return nil, err
		}
		return reports, nil
	}
	if err := query.Raw(baseQuery).Scan(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, user_id, issue_type, description, photo_url, location, ward, status, created_at
		FROM reports
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID).Scan(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReportStatus) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE reports SET status = ? WHERE id = ?
	`, status, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// StatusCounts groups all reports by status; the dashboard derives the
// complaint success ratio and pending count from these rows.
func (r *ReportRepository) StatusCounts(ctx context.Context) ([]model.StatusCount, error) {
	var counts []model.StatusCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*) AS count
		FROM reports
		GROUP BY status
	`).Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
