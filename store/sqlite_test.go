package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stsysd/calheat/model"
)

// testMigration はテスト用のシンプルなマイグレーション関数です。
func testMigration(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS visualizations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			config TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`)
	return err
}

func setupTestStore(t *testing.T) (*SQLiteStore, func()) {
	// テスト用の一時ディレクトリを作成
	tempDir, err := os.MkdirTemp("", "calheat-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	store, err := NewSQLiteStore(tempDir, testMigration)
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("Failed to create test store: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tempDir)
	}

	return store, cleanup
}

func newTestVisualization(t *testing.T, name string) *model.Visualization {
	t.Helper()
	cfg := model.DefaultVisConfig()
	v, err := model.NewVisualization(name, cfg)
	if err != nil {
		t.Fatalf("Failed to create visualization model: %v", err)
	}
	return v
}

func TestCreateAndGetVisualization(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	v := newTestVisualization(t, "Daily orders")
	v.Config.Outline = model.OutlineQuarter
	v.Config.Rounded = true
	v.Config.ColorPicker = []string{"#000000", "#ffffff"}

	if err := store.CreateVisualization(context.Background(), v); err != nil {
		t.Fatalf("Failed to create visualization: %v", err)
	}

	got, err := store.GetVisualization(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("Failed to get visualization: %v", err)
	}

	if got.ID != v.ID {
		t.Errorf("Expected ID %s, got %s", v.ID, got.ID)
	}
	if got.Name != "Daily orders" {
		t.Errorf("Expected name 'Daily orders', got '%s'", got.Name)
	}
	if got.Config.Outline != model.OutlineQuarter {
		t.Errorf("Expected outline quarter, got %s", got.Config.Outline)
	}
	if !got.Config.Rounded {
		t.Error("Expected rounded to be true")
	}
	if len(got.Config.ColorPicker) != 2 || got.Config.ColorPicker[1] != "#ffffff" {
		t.Errorf("Unexpected colors: %v", got.Config.ColorPicker)
	}
	if !got.CreatedAt.Equal(v.CreatedAt) {
		t.Errorf("Expected CreatedAt %v, got %v", v.CreatedAt, got.CreatedAt)
	}
}

func TestCreateInvalidVisualization(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	v := newTestVisualization(t, "valid")
	v.Config.CellReducer = 3

	err := store.CreateVisualization(context.Background(), v)
	var vErr *model.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestGetNonExistentVisualization(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetVisualization(context.Background(), uuid.New())
	if !errors.Is(err, model.ErrVisualizationNotFound) {
		t.Errorf("Expected ErrVisualizationNotFound, got %v", err)
	}
}

func TestUpdateVisualization(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	v := newTestVisualization(t, "before")
	if err := store.CreateVisualization(context.Background(), v); err != nil {
		t.Fatalf("Failed to create visualization: %v", err)
	}
	createdAt := v.CreatedAt

	updated, err := model.LoadVisualization(v.ID, "after", v.Config, time.Now(), time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("Failed to load visualization: %v", err)
	}
	updated.Config.ShowLegend = false

	if err := store.UpdateVisualization(context.Background(), updated); err != nil {
		t.Fatalf("Failed to update visualization: %v", err)
	}
	if !updated.CreatedAt.Equal(createdAt) {
		t.Errorf("Expected CreatedAt to be kept as %v, got %v", createdAt, updated.CreatedAt)
	}

	got, err := store.GetVisualization(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("Failed to get visualization: %v", err)
	}
	if got.Name != "after" {
		t.Errorf("Expected name 'after', got '%s'", got.Name)
	}
	if got.Config.ShowLegend {
		t.Error("Expected show_legend to be false")
	}

	missing := newTestVisualization(t, "missing")
	err = store.UpdateVisualization(context.Background(), missing)
	if !errors.Is(err, model.ErrVisualizationNotFound) {
		t.Errorf("Expected ErrVisualizationNotFound, got %v", err)
	}
}

func TestDeleteVisualization(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	v := newTestVisualization(t, "to delete")
	if err := store.CreateVisualization(context.Background(), v); err != nil {
		t.Fatalf("Failed to create visualization: %v", err)
	}

	if err := store.DeleteVisualization(context.Background(), v.ID); err != nil {
		t.Fatalf("Failed to delete visualization: %v", err)
	}

	_, err := store.GetVisualization(context.Background(), v.ID)
	if !errors.Is(err, model.ErrVisualizationNotFound) {
		t.Errorf("Expected ErrVisualizationNotFound after delete, got %v", err)
	}

	// 2回目の削除はエラー
	err = store.DeleteVisualization(context.Background(), v.ID)
	if !errors.Is(err, model.ErrVisualizationNotFound) {
		t.Errorf("Expected ErrVisualizationNotFound, got %v", err)
	}
}

func TestListVisualizations(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	base := time.Date(2025, 5, 21, 14, 30, 0, 0, time.UTC)
	names := []string{"first", "second", "third"}
	for i, name := range names {
		ts := base.Add(time.Duration(i) * time.Hour)
		v, err := model.LoadVisualization(uuid.New(), name, model.DefaultVisConfig(), ts, ts)
		if err != nil {
			t.Fatalf("Failed to load visualization: %v", err)
		}
		if err := store.CreateVisualization(context.Background(), v); err != nil {
			t.Fatalf("Failed to create visualization: %v", err)
		}
	}

	all, err := store.ListVisualizations(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("Failed to list visualizations: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 visualizations, got %d", len(all))
	}
	// 更新日時の新しい順
	for i, want := range []string{"third", "second", "first"} {
		if all[i].Name != want {
			t.Errorf("Expected %s at %d, got %s", want, i, all[i].Name)
		}
	}

	page, err := store.ListVisualizations(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Failed to list visualizations: %v", err)
	}
	if len(page) != 1 || page[0].Name != "second" {
		t.Errorf("Expected [second], got %v", page)
	}

	empty, err := store.ListVisualizations(context.Background(), 10, 5)
	if err != nil {
		t.Fatalf("Failed to list visualizations: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no visualizations, got %d", len(empty))
	}
}
