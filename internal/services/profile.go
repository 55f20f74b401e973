package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	redisclient "github.com/yungbote/neurobridge-tutor/internal/clients/redis"
	studentrepo "github.com/yungbote/neurobridge-tutor/internal/data/repos/student"
	"github.com/yungbote/neurobridge-tutor/internal/domain/student"
	"github.com/yungbote/neurobridge-tutor/internal/observability"
	"github.com/yungbote/neurobridge-tutor/internal/persona"
	"github.com/yungbote/neurobridge-tutor/internal/platform/apierr"
	"github.com/yungbote/neurobridge-tutor/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-tutor/internal/platform/logger"
)

// ProfileSource yields the selection profile of a stored student.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (persona.StudentProfile, error)
}

type UpsertProfileInput struct {
	GradeLevel         int
	PerformanceScore   float64
	LanguagePreference string
	Metadata           datatypes.JSON
}

type ProfileService interface {
	ProfileSource
	GetStoredProfile(ctx context.Context, userID uuid.UUID) (*student.Profile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, in UpsertProfileInput) (*student.Profile, error)
}

type profileService struct {
	log     *logger.Logger
	repo    studentrepo.ProfileRepo
	cache   redisclient.ProfileCache
	metrics *observability.Metrics
}

// NewProfileService fronts repo with an optional read-through cache. A nil repo makes every
// call fail with apierr.ErrUnavailable.
func NewProfileService(log *logger.Logger, repo studentrepo.ProfileRepo, cache redisclient.ProfileCache, metrics *observability.Metrics) ProfileService {
	return &profileService{
		log:     log.With("service", "ProfileService"),
		repo:    repo,
		cache:   cache,
		metrics: metrics,
	}
}

var errNoProfileStore = fmt.Errorf("profile store is not configured: %w", apierr.ErrUnavailable)

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (persona.StudentProfile, error) {
	if s.repo == nil {
		return persona.StudentProfile{}, errNoProfileStore
	}
	if s.cache != nil {
		p, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.log.Warn("profile cache read failed, using store", "user_id", userID.String(), "error", err)
		} else if ok {
			s.metrics.IncProfileLookup("cache")
			return p, nil
		}
	}

	row, err := s.repo.GetByUserID(dbctx.New(ctx), userID)
	if err != nil {
		if errors.Is(err, apierr.ErrNotFound) {
			s.metrics.IncProfileLookup("miss")
		}
		return persona.StudentProfile{}, err
	}
	s.metrics.IncProfileLookup("store")
	p := row.StudentProfile()
	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, p); err != nil {
			s.log.Warn("profile cache write failed", "user_id", userID.String(), "error", err)
		}
	}
	return p, nil
}

func (s *profileService) GetStoredProfile(ctx context.Context, userID uuid.UUID) (*student.Profile, error) {
	if s.repo == nil {
		return nil, errNoProfileStore
	}
	return s.repo.GetByUserID(dbctx.New(ctx), userID)
}

func (s *profileService) UpsertProfile(ctx context.Context, userID uuid.UUID, in UpsertProfileInput) (*student.Profile, error) {
	if s.repo == nil {
		return nil, errNoProfileStore
	}
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", persona.ErrInvalidArgument)
	}
	if err := validateStoredProfile(in); err != nil {
		return nil, err
	}

	row, err := s.repo.Upsert(dbctx.New(ctx), &student.Profile{
		UserID:             userID,
		GradeLevel:         in.GradeLevel,
		PerformanceScore:   in.PerformanceScore,
		LanguagePreference: in.LanguagePreference,
		Metadata:           in.Metadata,
	})
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.log.Warn("profile cache invalidation failed", "user_id", userID.String(), "error", err)
		}
	}
	s.log.Info("student profile saved", "user_id", userID.String(), "grade_level", row.GradeLevel)
	return row, nil
}

// validateStoredProfile only guards persisted data; inline profiles go to the engine as is.
func validateStoredProfile(in UpsertProfileInput) error {
	if in.GradeLevel < 0 {
		return fmt.Errorf("%w: grade_level %d is negative", persona.ErrInvalidArgument, in.GradeLevel)
	}
	if math.IsNaN(in.PerformanceScore) || in.PerformanceScore < 0 || in.PerformanceScore > 100 {
		return fmt.Errorf("%w: performance_score %v is outside 0-100", persona.ErrInvalidArgument, in.PerformanceScore)
	}
	return nil
}
