package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/domain"
)

func newLogDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("webhook_log_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := db.AutoMigrate(&domain.WebhookLog{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestCreateWebhookLog(t *testing.T) {
	db := newLogDB(t)
	ctx := context.Background()

	l, err := CreateWebhookLog(ctx, db, "/msg91/outbound", "abc123", "tagged", "#V1592", "MSG91_abc123")
	if err != nil {
		t.Fatalf("CreateWebhookLog: %v", err)
	}
	if l.ID == "" {
		t.Fatalf("expected generated ID")
	}
	if l.CreatedAt.IsZero() || l.CreatedAt.Location() != time.UTC {
		t.Fatalf("CreatedAt = %v, want non-zero UTC", l.CreatedAt)
	}

	var got domain.WebhookLog
	if err := db.WithContext(ctx).First(&got, "id = ?", l.ID).Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got.Route != "/msg91/outbound" || got.RequestID != "abc123" {
		t.Fatalf("row = %+v", got)
	}
	if got.Outcome != "tagged" || got.OrderName != "#V1592" || got.Detail != "MSG91_abc123" {
		t.Fatalf("row = %+v", got)
	}
}

func TestCreateWebhookLogAllowsEmptyOptionalFields(t *testing.T) {
	db := newLogDB(t)

	// Ignored events have no order name; malformed ones no request ID either.
	l, err := CreateWebhookLog(context.Background(), db, "/msg91/webhook", "", "ignored", "", "Malformed payload")
	if err != nil {
		t.Fatalf("CreateWebhookLog: %v", err)
	}

	var count int64
	if err := db.Model(&domain.WebhookLog{}).Where("id = ?", l.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestCreateWebhookLogIDsAreUnique(t *testing.T) {
	db := newLogDB(t)
	ctx := context.Background()

	a, err := CreateWebhookLog(ctx, db, "/msg91/webhook", "r1", "confirmed", "#V1", "")
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	b, err := CreateWebhookLog(ctx, db, "/msg91/webhook", "r1", "confirmed", "#V1", "")
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("duplicate IDs: %s", a.ID)
	}
}
