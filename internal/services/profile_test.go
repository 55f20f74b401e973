package services

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	redisclient "github.com/yungbote/neurobridge-tutor/internal/clients/redis"
	"github.com/yungbote/neurobridge-tutor/internal/config"
	"github.com/yungbote/neurobridge-tutor/internal/observability"
	"github.com/yungbote/neurobridge-tutor/internal/persona"
	"github.com/yungbote/neurobridge-tutor/internal/platform/apierr"
	"github.com/yungbote/neurobridge-tutor/internal/platform/logger"
)

func newTestProfiles(t *testing.T) (ProfileService, *memProfileRepo, *miniredis.Miniredis, *observability.Metrics) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache, err := redisclient.NewProfileCache(config.RedisConfig{Addr: mr.Addr(), TTL: time.Minute}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewProfileCache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	repo := newMemProfileRepo()
	m := observability.NewMetrics()
	return NewProfileService(logger.NewNop(), repo, cache, m), repo, mr, m
}

func TestProfileServiceReadThroughCache(t *testing.T) {
	svc, repo, mr, m := newTestProfiles(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.UpsertProfile(ctx, userID, UpsertProfileInput{GradeLevel: 8, PerformanceScore: 67, LanguagePreference: "hinglish"}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	want := persona.StudentProfile{GradeLevel: 8, PerformanceScore: 67, LanguagePreference: "hinglish"}
	for i := 0; i < 3; i++ {
		got, err := svc.GetProfile(ctx, userID)
		if err != nil || got != want {
			t.Fatalf("GetProfile #%d=%+v,%v, want %+v", i, got, err, want)
		}
	}
	if n := repo.readCount(); n != 1 {
		t.Fatalf("store reads=%d, want 1 (rest from cache)", n)
	}
	if !mr.Exists("tutor:profile:" + userID.String()) {
		t.Fatalf("profile was not cached")
	}

	var buf bytes.Buffer
	_ = m.WritePrometheus(&buf)
	for _, want := range []string{
		`tutor_profile_lookups_total{source="cache"} 2`,
		`tutor_profile_lookups_total{source="store"} 1`,
	} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("missing %q in metrics:\n%s", want, buf.String())
		}
	}
}

func TestProfileServiceUpsertInvalidatesCache(t *testing.T) {
	svc, _, mr, _ := newTestProfiles(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.UpsertProfile(ctx, userID, UpsertProfileInput{GradeLevel: 5, PerformanceScore: 50}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	if _, err := svc.GetProfile(ctx, userID); err != nil {
		t.Fatalf("GetProfile: %v", err)
	}

	row, err := svc.UpsertProfile(ctx, userID, UpsertProfileInput{
		GradeLevel:       5,
		PerformanceScore: 88,
		Metadata:         datatypes.JSON(`{"display_name":"Asha"}`),
	})
	if err != nil {
		t.Fatalf("UpsertProfile(update): %v", err)
	}
	if mr.Exists("tutor:profile:" + userID.String()) {
		t.Fatalf("cache entry should be invalidated on upsert")
	}
	if string(row.Metadata) != `{"display_name":"Asha"}` {
		t.Fatalf("metadata=%s", row.Metadata)
	}

	got, err := svc.GetProfile(ctx, userID)
	if err != nil || got.PerformanceScore != 88 {
		t.Fatalf("GetProfile after update=%+v,%v, want score 88", got, err)
	}
}

func TestProfileServiceErrors(t *testing.T) {
	svc, _, _, _ := newTestProfiles(t)
	ctx := context.Background()

	if _, err := svc.GetProfile(ctx, uuid.New()); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("unknown student err=%v, want ErrNotFound", err)
	}
	if _, err := svc.GetStoredProfile(ctx, uuid.New()); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("GetStoredProfile(unknown) err=%v, want ErrNotFound", err)
	}

	bad := []UpsertProfileInput{
		{GradeLevel: -1, PerformanceScore: 50},
		{GradeLevel: 5, PerformanceScore: -0.5},
		{GradeLevel: 5, PerformanceScore: 100.5},
		{GradeLevel: 5, PerformanceScore: math.NaN()},
	}
	for _, in := range bad {
		if _, err := svc.UpsertProfile(ctx, uuid.New(), in); !errors.Is(err, persona.ErrInvalidArgument) {
			t.Fatalf("UpsertProfile(%+v) err=%v, want ErrInvalidArgument", in, err)
		}
	}
	if _, err := svc.UpsertProfile(ctx, uuid.Nil, UpsertProfileInput{GradeLevel: 5}); !errors.Is(err, persona.ErrInvalidArgument) {
		t.Fatalf("nil user id err=%v, want ErrInvalidArgument", err)
	}
}

func TestProfileServiceWithoutStore(t *testing.T) {
	svc := NewProfileService(logger.NewNop(), nil, nil, nil)
	ctx := context.Background()

	if _, err := svc.GetProfile(ctx, uuid.New()); !errors.Is(err, apierr.ErrUnavailable) {
		t.Fatalf("GetProfile err=%v, want ErrUnavailable", err)
	}
	if _, err := svc.UpsertProfile(ctx, uuid.New(), UpsertProfileInput{GradeLevel: 5}); !errors.Is(err, apierr.ErrUnavailable) {
		t.Fatalf("UpsertProfile err=%v, want ErrUnavailable", err)
	}
}

func TestProfileServiceWithoutCache(t *testing.T) {
	repo := newMemProfileRepo()
	svc := NewProfileService(logger.NewNop(), repo, nil, nil)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.UpsertProfile(ctx, userID, UpsertProfileInput{GradeLevel: 7, PerformanceScore: 20}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.GetProfile(ctx, userID); err != nil {
			t.Fatalf("GetProfile: %v", err)
		}
	}
	if n := repo.readCount(); n != 2 {
		t.Fatalf("store reads=%d, want 2 without a cache", n)
	}
}
