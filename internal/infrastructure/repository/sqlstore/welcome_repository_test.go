package sqlstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/riskibarqy/ssl-bot/internal/domain/welcome"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", filepath.Base(t.Name()))
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "db", "migrations", "000001_create_welcome_messages.up.sql"))
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	return db
}

func TestWelcomeRepository_GetMissingGuild(t *testing.T) {
	repo := NewWelcomeRepository(openTestDB(t))

	_, exists, err := repo.GetByGuildID(context.Background(), "404")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if exists {
		t.Fatalf("expected missing guild")
	}
}

func TestWelcomeRepository_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewWelcomeRepository(openTestDB(t))

	first := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := repo.Upsert(ctx, welcome.Toggle{GuildID: "77", Enabled: true, UpdatedAt: first}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := first.Add(time.Hour)
	if err := repo.Upsert(ctx, welcome.Toggle{GuildID: "77", Enabled: false, UpdatedAt: second}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, exists, err := repo.GetByGuildID(ctx, "77")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !exists {
		t.Fatalf("expected stored toggle")
	}
	if got.Enabled {
		t.Fatalf("expected toggle to be overwritten to disabled")
	}
	if !got.UpdatedAt.Equal(second) {
		t.Fatalf("unexpected updated_at: got=%s want=%s", got.UpdatedAt, second)
	}
}
