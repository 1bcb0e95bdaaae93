// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Field はクエリ結果の列定義です。
type Field struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Fields はクエリ結果の列をディメンションとメジャーに分けて保持します。
type Fields struct {
	DimensionLike []Field `json:"dimension_like"`
	MeasureLike   []Field `json:"measure_like"`
}

// QueryResponse はホストから渡されるクエリ結果のメタデータです。
type QueryResponse struct {
	Fields Fields `json:"fields"`
}

// Cell は1行の中の1つの値です。Valueはstring、数値、bool、nilのいずれかです。
type Cell struct {
	Value    any    `json:"value"`
	Rendered string `json:"rendered,omitempty"`
}

// UnmarshalJSON は {"value": ..., "rendered": ...} 形式とスカラー値の両方を受け付けます。
func (c *Cell) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj struct {
			Value    any    `json:"value"`
			Rendered string `json:"rendered"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		c.Value = obj.Value
		c.Rendered = obj.Rendered
		return nil
	}

	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	c.Value = v
	c.Rendered = ""
	return nil
}

// IsNull はセルが値を持たないかどうかを返します。
func (c Cell) IsNull() bool {
	if c.Value == nil {
		return true
	}
	if s, ok := c.Value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// Float はセルの値を数値として返します。数値に変換できない場合はfalseを返します。
func (c Cell) Float() (float64, bool) {
	switch v := c.Value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// Row はフィールド名をキーとした1行分のデータです。
type Row map[string]Cell

// Datum はカレンダーに描画する1日分のレコードです。
type Datum struct {
	Date      time.Time `json:"date"`
	Dimension Cell      `json:"dimension"`
	Measure   Cell      `json:"value"`
}

// Number はメジャーの数値を返します。nullや数値以外の場合はfalseを返します。
func (d Datum) Number() (float64, bool) {
	if d.Measure.IsNull() {
		return 0, false
	}
	return d.Measure.Float()
}
