package student

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/neurobridge-tutor/internal/domain/student"
	"github.com/yungbote/neurobridge-tutor/internal/platform/apierr"
	"github.com/yungbote/neurobridge-tutor/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-tutor/internal/platform/logger"
)

type ProfileRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*domain.Profile, error)
	Upsert(dbc dbctx.Context, profile *domain.Profile) (*domain.Profile, error)
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	repoLog := baseLog.With("repo", "ProfileRepo")
	return &profileRepo{db: db, log: repoLog}
}

func (r *profileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*domain.Profile, error) {
	var row domain.Profile
	err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Take(&row).Error
	if err != nil {
		return nil, mapError("get profile "+userID.String(), err)
	}
	return &row, nil
}

// Upsert writes the selection fields and metadata for profile.UserID and returns the stored row.
func (r *profileRepo) Upsert(dbc dbctx.Context, profile *domain.Profile) (*domain.Profile, error) {
	if profile == nil || profile.UserID == uuid.Nil {
		return nil, fmt.Errorf("upsert profile: user id is required")
	}
	txx := dbc.DB(r.db)
	err := txx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"grade_level",
			"performance_score",
			"language_preference",
			"metadata",
			"updated_at",
			"deleted_at",
		}),
	}).Create(profile).Error
	if err != nil {
		return nil, mapError("upsert profile "+profile.UserID.String(), err)
	}
	r.log.Debug("profile upserted", "user_id", profile.UserID.String(), "grade_level", profile.GradeLevel)
	return r.GetByUserID(dbc, profile.UserID)
}

// mapError classifies store errors. A unique violation can still surface from Upsert when
// the row collides on a constraint other than user_id.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, apierr.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.TrimSpace(pgErr.Code) == "23505" {
		return fmt.Errorf("%s: %w: %w", op, apierr.ErrConflict, err) // unique_violation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w: %w", op, apierr.ErrConflict, err)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "duplicate key") {
		return fmt.Errorf("%s: %w: %w", op, apierr.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
