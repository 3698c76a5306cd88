package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/wasteops-portal/internal/model"
)

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) ListForDay(ctx context.Context, day time.Time) ([]model.PickerDailyStat, error) {
	var stats []model.PickerDailyStat
	err := r.db.WithContext(ctx).Raw(`
		SELECT picker_id, day, bins_collected, success_rate
		FROM picker_daily_stats
		WHERE day = ?
	`, day.Format("2006-01-02")).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// TopPickers ranks the day's aggregates by success rate, best first;
// ties break on bins collected.
func (r *StatsRepository) TopPickers(ctx context.Context, day time.Time, limit int) ([]model.TopPicker, error) {
	var rows []model.TopPicker
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.picker_id, p.name, p.email, s.bins_collected, s.success_rate
		FROM picker_daily_stats s
		JOIN profiles p ON p.id = s.picker_id
		WHERE s.day = ?
		ORDER BY s.success_rate DESC, s.bins_collected DESC
		LIMIT ?
	`, day.Format("2006-01-02"), limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert writes the picker's aggregate row for the day, replacing any
// previous value; the row is recomputed after every logged collection.
func (r *StatsRepository) Upsert(ctx context.Context, stat model.PickerDailyStat) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO picker_daily_stats (picker_id, day, bins_collected, success_rate)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (picker_id, day) DO UPDATE
		SET bins_collected = EXCLUDED.bins_collected,
			success_rate = EXCLUDED.success_rate
	`, stat.PickerID, stat.Day.Format("2006-01-02"), stat.BinsCollected, stat.SuccessRate).Error
}
