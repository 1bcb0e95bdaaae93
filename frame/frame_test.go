package frame

import (
	"testing"
	"time"

	"github.com/grafana/grafana-plugin-sdk-go/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stsysd/calheat/model"
	"github.com/stsysd/calheat/transform"
)

func TestToQuery(t *testing.T) {
	v1, v2 := 3.0, 5.0
	f := data.NewFrame("orders",
		data.NewField("region", nil, []string{"eu", "us", "eu"}),
		data.NewField("time", nil, []time.Time{
			time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC),
		}),
		data.NewField("count", nil, []*float64{&v1, nil, &v2}),
	)
	f.Fields[2].Config = &data.FieldConfig{DisplayName: "Orders"}

	qr, rows, err := ToQuery(f)
	require.NoError(t, err)

	require.Len(t, qr.Fields.DimensionLike, 2)
	assert.Equal(t, "time", qr.Fields.DimensionLike[0].Name)
	assert.Equal(t, "region", qr.Fields.DimensionLike[1].Name)
	require.Len(t, qr.Fields.MeasureLike, 1)
	assert.Equal(t, "count", qr.Fields.MeasureLike[0].Name)
	assert.Equal(t, "Orders", qr.Fields.MeasureLike[0].Label)

	require.Len(t, rows, 3)
	assert.Equal(t, 3.0, rows[0]["count"].Value)
	assert.True(t, rows[1]["count"].IsNull())
	assert.Equal(t, "eu", rows[2]["region"].Value)

	// 変換結果はそのままカレンダーのレコードにできる
	records, err := transform.Transform(qr, rows, time.UTC)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), records[0].Date)
	_, ok := records[1].Number()
	assert.False(t, ok)
}

func TestToQuery_DuplicateAndEmptyNames(t *testing.T) {
	f := data.NewFrame("",
		data.NewField("", nil, []int64{1}),
		data.NewField("v", nil, []int64{2}),
		data.NewField("v", nil, []int64{3}),
	)

	qr, rows, err := ToQuery(f)
	require.NoError(t, err)

	names := []string{}
	for _, m := range qr.Fields.MeasureLike {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"field_0", "v", "v_1"}, names)
	assert.Empty(t, qr.Fields.DimensionLike)
	assert.Equal(t, int64(3), rows[0]["v_1"].Value)
}

func TestToQuery_NilFrame(t *testing.T) {
	_, _, err := ToQuery(nil)

	var vErr *model.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestDecode(t *testing.T) {
	f := data.NewFrame("daily",
		data.NewField("day", nil, []time.Time{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}),
		data.NewField("value", nil, []float64{42}),
	)
	b, err := f.MarshalJSON()
	require.NoError(t, err)

	decoded, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, "daily", decoded.Name)
	require.Len(t, decoded.Fields, 2)
	assert.True(t, decoded.Fields[0].Type().Time())

	_, err = Decode([]byte("{not json"))
	var vErr *model.ValidationError
	assert.ErrorAs(t, err, &vErr)
}
