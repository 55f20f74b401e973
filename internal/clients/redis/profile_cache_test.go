package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-tutor/internal/config"
	"github.com/yungbote/neurobridge-tutor/internal/persona"
	"github.com/yungbote/neurobridge-tutor/internal/platform/logger"
)

func newTestCache(t *testing.T, ttl time.Duration) (ProfileCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewProfileCache(config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "test:profile:", TTL: ttl}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewProfileCache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestProfileCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	userID := uuid.New()

	if _, ok, err := c.Get(ctx, userID); err != nil || ok {
		t.Fatalf("Get on empty cache: ok=%v err=%v", ok, err)
	}

	want := persona.StudentProfile{GradeLevel: 8, PerformanceScore: 91.5, LanguagePreference: "english"}
	if err := c.Set(ctx, userID, want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists("test:profile:" + userID.String()) {
		t.Fatalf("expected key with configured prefix")
	}
	if ttl := mr.TTL("test:profile:" + userID.String()); ttl != time.Minute {
		t.Fatalf("ttl=%v, want 1m", ttl)
	}

	got, ok, err := c.Get(ctx, userID)
	if err != nil || !ok || got != want {
		t.Fatalf("Get=%+v ok=%v err=%v, want %+v", got, ok, err, want)
	}

	if err := c.Invalidate(ctx, userID); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := c.Get(ctx, userID); ok {
		t.Fatalf("Get after Invalidate should miss")
	}
}

func TestProfileCacheExpires(t *testing.T) {
	c, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()
	userID := uuid.New()

	if err := c.Set(ctx, userID, persona.StudentProfile{GradeLevel: 5}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(31 * time.Second)
	if _, ok, _ := c.Get(ctx, userID); ok {
		t.Fatalf("entry should have expired")
	}
}

func TestProfileCacheCorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	userID := uuid.New()
	key := "test:profile:" + userID.String()
	if err := mr.Set(key, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, ok, err := c.Get(context.Background(), userID); ok || err != nil {
		t.Fatalf("Get corrupt: ok=%v err=%v, want miss", ok, err)
	}
	if mr.Exists(key) {
		t.Fatalf("corrupt entry should be deleted")
	}
}

func TestNewProfileCacheRequiresAddr(t *testing.T) {
	if _, err := NewProfileCache(config.RedisConfig{}, logger.NewNop()); err == nil {
		t.Fatalf("expected error without address")
	}
	if _, err := NewProfileCache(config.RedisConfig{Addr: "127.0.0.1:1"}, nil); err == nil {
		t.Fatalf("expected error without logger")
	}
}

func TestProfileCachePing(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	mr.Close()
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("Ping should fail once redis is gone")
	}
}
