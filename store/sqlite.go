// Package store は、データの永続化機能を提供します。
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stsysd/calheat/model"
)

// timeLayout は辞書順で時刻順に並ぶ固定長のフォーマットです。
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// VisualizationStore は保存済み可視化の保存と取得を行うインターフェースです。
type VisualizationStore interface {
	// CreateVisualization は新しい可視化を作成します。
	CreateVisualization(ctx context.Context, v *model.Visualization) error
	// GetVisualization は指定されたIDの可視化を取得します。
	GetVisualization(ctx context.Context, id uuid.UUID) (*model.Visualization, error)
	// UpdateVisualization は指定された可視化の名前と設定を更新します。
	UpdateVisualization(ctx context.Context, v *model.Visualization) error
	// DeleteVisualization は指定されたIDの可視化を削除します。
	DeleteVisualization(ctx context.Context, id uuid.UUID) error
	// ListVisualizations は更新日時の新しい順に可視化を取得します。
	ListVisualizations(ctx context.Context, limit, offset int) ([]*model.Visualization, error)
	// Close はストアの接続を閉じます。
	Close() error
}

// SQLiteStore はSQLiteを使用したVisualizationStoreの実装です。
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore は新しいSQLiteStoreを作成します。
func NewSQLiteStore(dataDir string, migrate func(*sql.DB) error) (*SQLiteStore, error) {
	// データディレクトリの作成（存在しない場合）
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "calheat.db")

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

// CreateVisualization は新しい可視化をデータベースに保存します。
func (s *SQLiteStore) CreateVisualization(ctx context.Context, v *model.Visualization) error {
	if err := v.Validate(); err != nil {
		return err
	}

	config, err := json.Marshal(v.Config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO visualizations (id, name, config, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		v.ID.String(), v.Name, string(config), formatTime(v.CreatedAt), formatTime(v.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create visualization: %w", err)
	}
	return nil
}

// GetVisualization は指定されたIDの可視化を取得します。
func (s *SQLiteStore) GetVisualization(ctx context.Context, id uuid.UUID) (*model.Visualization, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT id, name, config, created_at, updated_at FROM visualizations WHERE id = ?`, id.String())

	v, err := scanVisualization(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrVisualizationNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateVisualization は指定された可視化の名前と設定を更新します。
func (s *SQLiteStore) UpdateVisualization(ctx context.Context, v *model.Visualization) error {
	if err := v.Validate(); err != nil {
		return err
	}

	config, err := json.Marshal(v.Config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// トランザクションの開始
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// トランザクションをロールバックするための遅延関数
	defer func() {
		if tx != nil {
			tx.Rollback() // 成功した場合は既にnilになっているためエラーは無視
		}
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE visualizations SET name = ?, config = ?, updated_at = ? WHERE id = ?`,
		v.Name, string(config), formatTime(v.UpdatedAt), v.ID.String())
	if err != nil {
		return fmt.Errorf("failed to update visualization: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.ErrVisualizationNotFound
	}

	// 作成日時はDBの値を正とする
	var createdAt string
	if err := tx.QueryRowContext(ctx,
		`SELECT created_at FROM visualizations WHERE id = ?`, v.ID.String()).Scan(&createdAt); err != nil {
		return fmt.Errorf("failed to read created_at: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil // コミットが成功したのでnilにして遅延関数でのロールバックを防ぐ

	if t, err := parseTime(createdAt); err == nil {
		v.CreatedAt = t
	}
	return nil
}

// DeleteVisualization は指定されたIDの可視化を削除します。
func (s *SQLiteStore) DeleteVisualization(ctx context.Context, id uuid.UUID) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM visualizations WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete visualization: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.ErrVisualizationNotFound
	}
	return nil
}

// ListVisualizations は更新日時の新しい順に可視化を取得します。
func (s *SQLiteStore) ListVisualizations(ctx context.Context, limit, offset int) ([]*model.Visualization, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, name, config, created_at, updated_at FROM visualizations
		ORDER BY updated_at DESC, id ASC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list visualizations: %w", err)
	}
	defer rows.Close()

	visualizations := []*model.Visualization{}
	for rows.Next() {
		v, err := scanVisualization(rows)
		if err != nil {
			return nil, err
		}
		visualizations = append(visualizations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list visualizations: %w", err)
	}
	return visualizations, nil
}

// Close はデータベース接続を閉じます。
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVisualization(sc scanner) (*model.Visualization, error) {
	var idStr, name, configStr, createdAtStr, updatedAtStr string
	if err := sc.Scan(&idStr, &name, &configStr, &createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID in database: %w", err)
	}

	var config model.VisConfig
	if err := json.Unmarshal([]byte(configStr), &config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	createdAt, err := parseTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	updatedAt, err := parseTime(updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return model.LoadVisualization(id, name, config, createdAt, updatedAt)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
