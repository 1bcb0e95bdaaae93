// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"errors"
	"fmt"
)

// センチネルエラー - リソースが見つからない場合
var (
	ErrVisualizationNotFound = errors.New("visualization not found")
)

// ValidationError はバリデーションエラーを表す型
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError はValidationErrorを生成するヘルパー関数
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// VisError はチャートを描画できない理由をユーザーに表示するためのエラーです。
// TitleとMessageの組でホストに返されます。
type VisError struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (e *VisError) Error() string {
	if e.Message == "" {
		return e.Title
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}

// 入力検証で返されるVisError
var (
	ErrNoMeasures = &VisError{
		Title:   "No Measures",
		Message: "This chart requires measures.",
	}
	ErrNoDimensions = &VisError{
		Title:   "No Dimensions",
		Message: "This chart requires dimensions.",
	}
	ErrNoResults = &VisError{
		Title:   "No Results",
		Message: "",
	}
	ErrInsufficientData = &VisError{
		Title:   "Wrong input pattern or insufficient data.",
		Message: "Calendar Heatmap requires one non-null date dimension and one measure.",
	}
)
