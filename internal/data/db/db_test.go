package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/yungbote/neurobridge-tutor/internal/config"
	"github.com/yungbote/neurobridge-tutor/internal/platform/logger"
)

func TestOpenNoneReturnsNil(t *testing.T) {
	svc, err := Open(config.DBConfig{Driver: "none"}, logger.NewNop())
	if err != nil || svc != nil {
		t.Fatalf("Open(none)=%v,%v, want nil,nil", svc, err)
	}
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	svc, err := Open(config.DBConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "tutor.db")}, logger.NewNop())
	if err != nil {
		t.Fatalf("Open(sqlite): %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	if err := AutoMigrateAll(svc.DB()); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	if !svc.DB().Migrator().HasTable("student_profile") {
		t.Fatalf("student_profile table missing after migrate")
	}
	if err := svc.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestPostgresDSN(t *testing.T) {
	got := PostgresDSN(config.DBConfig{User: "u", Password: "p", Host: "h", Port: "5432", Name: "tutor"})
	if want := "postgres://u:p@h:5432/tutor?sslmode=disable"; got != want {
		t.Fatalf("PostgresDSN=%q, want %q", got, want)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(config.DBConfig{Driver: "mongo"}, logger.NewNop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
