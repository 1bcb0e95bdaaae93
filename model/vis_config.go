// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Outline はカレンダーの区切り線の種類です。
type Outline string

const (
	OutlineMonth   Outline = "month"
	OutlineQuarter Outline = "quarter"
	OutlineNone    Outline = "none"
)

// Flag は真偽値または "true"/"false" 文字列として受け取るオプション値です。
// ホストはデフォルト値を文字列で送ってくるため両方を受け付けます。
type Flag bool

// UnmarshalJSON はboolと文字列の両方をFlagとして解釈します。
func (f *Flag) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		// nullは未指定扱いでデフォルト値を残す
		return nil
	case bool:
		*f = Flag(t)
	case string:
		parsed, err := parseFlag(t)
		if err != nil {
			return err
		}
		*f = Flag(parsed)
	default:
		return fmt.Errorf("invalid flag value: %s", string(b))
	}
	return nil
}

// UnmarshalYAML はYAMLのスカラー値をFlagとして解釈します。
func (f *Flag) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid flag value at line %d", node.Line)
	}
	if node.ShortTag() == "!!null" {
		return nil
	}
	parsed, err := parseFlag(node.Value)
	if err != nil {
		return err
	}
	*f = Flag(parsed)
	return nil
}

func parseFlag(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid flag value: %q", s)
	}
	return v, nil
}

// VisConfig はカレンダーヒートマップのスタイル設定です。
// キー名はホストのオプションIDに合わせています。
type VisConfig struct {
	ColorPicker        []string `json:"color_picker" yaml:"color_picker" validate:"min=1,dive,hexcolor"`
	FormattingOverride string   `json:"formatting_override" yaml:"formatting_override"`
	Rounded            Flag     `json:"rounded" yaml:"rounded"`
	Outline            Outline  `json:"outline" yaml:"outline" validate:"oneof=month quarter none"`
	LabelYear          Flag     `json:"label_year" yaml:"label_year"`
	LabelMonth         Flag     `json:"label_month" yaml:"label_month"`
	ShowLegend         Flag     `json:"show_legend" yaml:"show_legend"`
	OutlineWeight      float64  `json:"outline_weight" yaml:"outline_weight" validate:"gte=0,lte=2"`
	CellColor          string   `json:"cell_color" yaml:"cell_color" validate:"hexcolor"`
	CellReducer        float64  `json:"cell_reducer" yaml:"cell_reducer" validate:"gte=0,lte=1"`
	AxisLabelColor     string   `json:"axis_label_color" yaml:"axis_label_color" validate:"hexcolor"`

	// 描画領域のサイズ（非表示オプション）。0は未指定を表します。
	CalW float64 `json:"cal_w,omitempty" yaml:"cal_w,omitempty" validate:"gte=0,lte=10000"`
	CalH float64 `json:"cal_h,omitempty" yaml:"cal_h,omitempty" validate:"gte=0,lte=10000"`
}

// DefaultVisConfig はデフォルト値で埋めたVisConfigを返します。
func DefaultVisConfig() VisConfig {
	return VisConfig{
		ColorPicker:        []string{"#7FCDAE", "#ffed6f", "#EE7772"},
		FormattingOverride: "",
		Rounded:            false,
		Outline:            OutlineMonth,
		LabelYear:          true,
		LabelMonth:         false,
		ShowLegend:         true,
		OutlineWeight:      1,
		CellColor:          "#CECECE",
		CellReducer:        1,
		AxisLabelColor:     "#282828",
	}
}

// UnmarshalJSON は指定されなかったキーにデフォルト値を適用します。
func (c *VisConfig) UnmarshalJSON(b []byte) error {
	type plain VisConfig
	p := plain(DefaultVisConfig())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = VisConfig(p)
	return nil
}

// UnmarshalYAML は指定されなかったキーにデフォルト値を適用します。
func (c *VisConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain VisConfig
	p := plain(DefaultVisConfig())
	if err := node.Decode(&p); err != nil {
		return err
	}
	*c = VisConfig(p)
	return nil
}

var configValidate = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New()
	// エラーメッセージにはJSONのキー名を使う
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate は設定値の範囲と形式を検証します。
func (c *VisConfig) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return NewValidationError("invalid config: " + strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
}
