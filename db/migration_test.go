package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestMigrate(t *testing.T) {
	conn, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	if err := Migrate(conn); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	// 2回目の実行は何もしない
	if err := Migrate(conn); err != nil {
		t.Fatalf("Failed to migrate twice: %v", err)
	}

	version, err := Version(conn)
	if err != nil {
		t.Fatalf("Failed to get version: %v", err)
	}
	if version != 1 {
		t.Errorf("Expected schema version 1, got %d", version)
	}

	var name string
	err = conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'visualizations'`).Scan(&name)
	if err != nil {
		t.Fatalf("visualizations table not found: %v", err)
	}
}
