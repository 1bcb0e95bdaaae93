// Package frame converts Grafana data frames into query results.
package frame

import (
	"encoding/json"
	"fmt"

	"github.com/grafana/grafana-plugin-sdk-go/data"
	"github.com/stsysd/calheat/model"
)

// Decode parses a data frame in Grafana's JSON wire format.
func Decode(b []byte) (*data.Frame, error) {
	var f data.Frame
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, model.NewValidationError(fmt.Sprintf("invalid data frame: %v", err))
	}
	return &f, nil
}

// ToQuery maps frame fields onto dimensions and measures. Numeric fields
// become measures and every other field becomes a dimension, so time fields
// come first among the dimensions.
func ToQuery(f *data.Frame) (*model.QueryResponse, []model.Row, error) {
	if f == nil {
		return nil, nil, model.NewValidationError("data frame is required")
	}

	qr := &model.QueryResponse{}
	var times, others []model.Field
	names := make([]string, len(f.Fields))
	seen := map[string]int{}

	for i, field := range f.Fields {
		name := field.Name
		if name == "" {
			name = fmt.Sprintf("field_%d", i)
		}
		// 同名のフィールドは連番で区別する
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n)
		} else {
			seen[name] = 1
		}
		names[i] = name

		mf := model.Field{Name: name, Label: displayName(field), Type: field.Type().ItemTypeString()}
		switch {
		case field.Type().Numeric():
			qr.Fields.MeasureLike = append(qr.Fields.MeasureLike, mf)
		case field.Type().Time():
			times = append(times, mf)
		default:
			others = append(others, mf)
		}
	}
	qr.Fields.DimensionLike = append(times, others...)

	n, err := f.RowLen()
	if err != nil {
		return nil, nil, model.NewValidationError(fmt.Sprintf("invalid data frame: %v", err))
	}

	rows := make([]model.Row, 0, n)
	for r := 0; r < n; r++ {
		row := make(model.Row, len(f.Fields))
		for i, field := range f.Fields {
			v, ok := field.ConcreteAt(r)
			if !ok {
				v = nil
			}
			row[names[i]] = model.Cell{Value: v}
		}
		rows = append(rows, row)
	}
	return qr, rows, nil
}

func displayName(field *data.Field) string {
	if field.Config != nil && field.Config.DisplayName != "" {
		return field.Config.DisplayName
	}
	return field.Name
}
