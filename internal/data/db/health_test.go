package db

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func TestProberHealthyAndCached(t *testing.T) {
	gdb := openSQLite(t)
	p := NewProber(gdb, time.Minute, time.Second)
	if !p.Healthy(context.Background()) {
		t.Fatalf("expected healthy")
	}

	sqlDB, _ := gdb.DB()
	_ = sqlDB.Close()

	// Cached within interval.
	if !p.Healthy(context.Background()) {
		t.Fatalf("expected cached healthy result")
	}
	p.Invalidate()
	if p.Healthy(context.Background()) {
		t.Fatalf("expected unhealthy after close + invalidate")
	}
}

func TestProberNil(t *testing.T) {
	var p *Prober
	if p.Healthy(context.Background()) {
		t.Fatalf("nil prober must report unhealthy")
	}
}

func TestIsDuplicateKey(t *testing.T) {
	gdb := openSQLite(t)
	type row struct {
		ID   int    `gorm:"primaryKey"`
		Name string `gorm:"uniqueIndex"`
	}
	if err := gdb.AutoMigrate(&row{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := gdb.Create(&row{ID: 1, Name: "a"}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	err := gdb.Create(&row{ID: 2, Name: "a"}).Error
	if !IsDuplicateKey(err) {
		t.Fatalf("expected duplicate key, got %v", err)
	}
	if IsDuplicateKey(nil) {
		t.Fatalf("nil is not a duplicate")
	}
}

func TestAutoMigrateAll(t *testing.T) {
	gdb := openSQLite(t)
	if err := AutoMigrateAll(gdb); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	for _, table := range []string{"account", "account_session", "classroom", "membership", "topic", "topic_item", "lesson", "quiz_attempt", "lesson_progress"} {
		if !gdb.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
}
