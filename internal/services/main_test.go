package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-tutor/internal/domain/student"
	"github.com/yungbote/neurobridge-tutor/internal/observability"
	"github.com/yungbote/neurobridge-tutor/internal/persona"
	"github.com/yungbote/neurobridge-tutor/internal/platform/apierr"
	"github.com/yungbote/neurobridge-tutor/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-tutor/internal/platform/logger"
)

func newTestTutor(t *testing.T, profiles ProfileSource) (TutorService, *observability.Metrics) {
	t.Helper()
	reg, err := persona.DefaultRegistry()
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}
	m := observability.NewMetrics()
	res, err := persona.NewResolver(reg, 5, persona.WithFallbackHook(m.IncCatalogFallback))
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return NewTutorService(logger.NewNop(), res, profiles, m), m
}

type staticProfiles map[uuid.UUID]persona.StudentProfile

func (s staticProfiles) GetProfile(_ context.Context, userID uuid.UUID) (persona.StudentProfile, error) {
	p, ok := s[userID]
	if !ok {
		return persona.StudentProfile{}, apierr.ErrNotFound
	}
	return p, nil
}

// memProfileRepo is an in-memory studentrepo.ProfileRepo that counts reads.
type memProfileRepo struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]*student.Profile
	reads int
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{rows: map[uuid.UUID]*student.Profile{}}
}

func (r *memProfileRepo) GetByUserID(_ dbctx.Context, userID uuid.UUID) (*student.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	row, ok := r.rows[userID]
	if !ok {
		return nil, apierr.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *memProfileRepo) Upsert(_ dbctx.Context, p *student.Profile) (*student.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	if prev, ok := r.rows[p.UserID]; ok {
		cp.ID = prev.ID
	} else {
		cp.ID = uuid.New()
	}
	r.rows[p.UserID] = &cp
	out := cp
	return &out, nil
}

func (r *memProfileRepo) readCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}
