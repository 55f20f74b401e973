package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-tutor/internal/config"
	"github.com/yungbote/neurobridge-tutor/internal/platform/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env: "test",
		HTTP: config.HTTPConfig{
			Addr:            "127.0.0.1:0",
			ShutdownTimeout: 2 * time.Second,
			AllowedOrigins:  []string{"http://localhost:5173"},
		},
		Catalog: config.CatalogConfig{DefaultGrade: 5},
		DB:      config.DBConfig{Driver: "none"},
		Redis:   config.RedisConfig{KeyPrefix: "tutor:profile:", TTL: time.Minute},
		Metrics: config.MetricsConfig{Enabled: true},
	}
}

func TestNewWithoutStore(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)

	if a.Services.Profiles != nil || a.Clients.DB != nil {
		t.Fatalf("store should not be wired with driver none")
	}

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/students/"+uuid.NewString()+"/profile", strings.NewReader(`{}`)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("profile route should not exist without a store, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	body := `{"profile":{"grade_level":8,"performance_score":82,"language_preference":"english"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/tutor/select", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	a.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"arjun_class8"`) {
		t.Fatalf("select=%d %s", rec.Code, rec.Body.String())
	}
}

func TestNewWithSQLiteAndRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.DB = config.DBConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "tutor.db")}
	cfg.Redis.Addr = mr.Addr()

	a, err := New(context.Background(), cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)

	if a.Services.Profiles == nil || a.Clients.ProfileCache == nil {
		t.Fatalf("profile store and cache should be wired")
	}

	userID := uuid.NewString()
	put := httptest.NewRequest(http.MethodPut, "/api/students/"+userID+"/profile",
		strings.NewReader(`{"grade_level":5,"performance_score":35,"language_preference":"hindi"}`))
	put.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, put)
	if rec.Code != http.StatusOK {
		t.Fatalf("put=%d %s", rec.Code, rec.Body.String())
	}

	sel := httptest.NewRequest(http.MethodPost, "/api/tutor/select", strings.NewReader(`{"user_id":"`+userID+`"}`))
	sel.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, sel)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"anjali_class5"`) {
		t.Fatalf("select=%d %s", rec.Code, rec.Body.String())
	}
	if !mr.Exists("tutor:profile:" + userID) {
		t.Fatalf("profile should be cached after select")
	}

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck=%d %s", rec.Code, rec.Body.String())
	}

	mr.Close()
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "redis") {
		t.Fatalf("healthcheck with redis down=%d %s", rec.Code, rec.Body.String())
	}
}

func TestNewRejectsBrokenCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	yaml := []byte("version: 1\npersonas:\n  - id: solo\n    name: Solo\n    grade_level: 7\n    archetype: professional\n    base_prompt: hi\n")
	if err := os.WriteFile(path, yaml, 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	cfg := testConfig(t)
	cfg.Catalog = config.CatalogConfig{Path: path, DefaultGrade: 5}

	if _, err := New(context.Background(), cfg, logger.NewNop()); err == nil {
		t.Fatalf("expected error when the default grade has no personas")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}

func TestMetricsExposedWhenEnabled(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)

	req := httptest.NewRequest(http.MethodPost, "/api/tutor/select", bytes.NewBufferString(`{"profile":{"grade_level":2,"performance_score":70}}`))
	req.Header.Set("Content-Type", "application/json")
	a.Router.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `tutor_catalog_fallbacks_total{requested_grade="2"} 1`) {
		t.Fatalf("fallback metric missing:\n%s", rec.Body.String())
	}
}
