// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"time"

	"github.com/google/uuid"
)

// Visualization は保存されたカレンダーヒートマップの設定です。
type Visualization struct {
	ID        uuid.UUID `json:"id"`         // 可視化ID
	Name      string    `json:"name"`       // 表示名
	Config    VisConfig `json:"config"`     // スタイル設定
	CreatedAt time.Time `json:"created_at"` // 作成日時
	UpdatedAt time.Time `json:"updated_at"` // 更新日時
}

// NewVisualization は新しいVisualizationインスタンスを作成します。
func NewVisualization(name string, config VisConfig) (*Visualization, error) {
	now := time.Now()
	v := &Visualization{
		ID:        uuid.New(),
		Name:      name,
		Config:    config,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadVisualization は既存のVisualizationインスタンスを作成します。
func LoadVisualization(id uuid.UUID, name string, config VisConfig, createdAt, updatedAt time.Time) (*Visualization, error) {
	// DBから読み込んだデータ用なので、IDは必須
	if id == uuid.Nil {
		return nil, NewValidationError("id is required for loaded visualization")
	}
	v := &Visualization{
		ID:        id,
		Name:      name,
		Config:    config,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Validate は可視化設定のデータバリデーションを行います。
func (v *Visualization) Validate() error {
	if _, err := NewVisualizationName(v.Name); err != nil {
		return err
	}
	if v.CreatedAt.IsZero() {
		return NewValidationError("created_at is required")
	}
	if v.UpdatedAt.IsZero() {
		return NewValidationError("updated_at is required")
	}
	return v.Config.Validate()
}
