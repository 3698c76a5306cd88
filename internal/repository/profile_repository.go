package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/nurpe/wasteops-portal/internal/model"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, profile model.Profile) (*model.Profile, error) {
	var saved model.Profile
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO profiles (id, name, email, role, password_hash)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, name, email, role, password_hash, created_at
	`, profile.ID, profile.Name, profile.Email, profile.Role, profile.PasswordHash).Scan(&saved).Error
	if err != nil {
		// A concurrent signup can slip past the EmailExists check; the
		// unique index on email then rejects the insert here.
		if isUniqueViolation(err) {
			return nil, gorm.ErrDuplicatedKey
		}
		return nil, err
	}
	return &saved, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, email, role, password_hash, created_at
		FROM profiles
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &profile, nil
}

func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, email, role, password_hash, created_at
		FROM profiles
		WHERE LOWER(email) = LOWER(?)
		LIMIT 1
	`, email).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &profile, nil
}

func (r *ProfileRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM profiles WHERE LOWER(email) = LOWER(?)
	`, email).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ProfileRepository) ListByRole(ctx context.Context, role model.Role) ([]model.Profile, error) {
	var profiles []model.Profile
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, email, role, created_at
		FROM profiles
		WHERE role = ?
		ORDER BY name ASC
	`, role).Scan(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
