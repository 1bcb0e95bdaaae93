package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_UnmarshalJSON(t *testing.T) {
	var row Row
	src := `{
		"orders.created_date": {"value": "2024-03-01", "rendered": "Mar 1, 2024"},
		"orders.count": 42,
		"orders.total": null
	}`
	require.NoError(t, json.Unmarshal([]byte(src), &row))

	assert.Equal(t, "2024-03-01", row["orders.created_date"].Value)
	assert.Equal(t, "Mar 1, 2024", row["orders.created_date"].Rendered)
	assert.Equal(t, 42.0, row["orders.count"].Value)
	assert.True(t, row["orders.total"].IsNull())
}

func TestCell_Float(t *testing.T) {
	tests := []struct {
		value any
		want  float64
		ok    bool
	}{
		{1.5, 1.5, true},
		{int64(7), 7, true},
		{" 12.25 ", 12.25, true},
		{json.Number("3"), 3, true},
		{"abc", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := Cell{Value: tt.value}.Float()
		assert.Equal(t, tt.ok, ok, "value %v", tt.value)
		if tt.ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestDatum_Number(t *testing.T) {
	_, ok := Datum{Measure: Cell{Value: nil}}.Number()
	assert.False(t, ok)

	_, ok = Datum{Measure: Cell{Value: ""}}.Number()
	assert.False(t, ok)

	v, ok := Datum{Measure: Cell{Value: 9.0}}.Number()
	assert.True(t, ok)
	assert.Equal(t, 9.0, v)
}

func TestVisError(t *testing.T) {
	assert.Equal(t, "No Results", ErrNoResults.Error())
	assert.Equal(t, "No Measures: This chart requires measures.", ErrNoMeasures.Error())

	b, err := json.Marshal(ErrNoDimensions)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"No Dimensions","message":"This chart requires dimensions."}`, string(b))
}
