package heatmap

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateCalendarSVG_EmptyData(t *testing.T) {
	svg, err := GenerateCalendarSVG([]Data{}, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, svg)
}

func TestGenerateCalendarSVG_NilOptions(t *testing.T) {
	// デフォルトオプションで正常に動作することを確認
	data := []Data{{Date: day(2025, 5, 21), Value: 5, Valid: true}}

	svg, err := GenerateCalendarSVG(data, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
}

func TestGenerateCalendarSVG_DenseYearGrid(t *testing.T) {
	data := []Data{
		{Date: day(2024, 3, 1), Value: 1, Valid: true},
		{Date: day(2024, 3, 2), Value: 10, Valid: true},
	}

	svg, err := GenerateCalendarSVG(data, DefaultOptions())
	require.NoError(t, err)

	// 2024年はうるう年なので366日分のセルが描画される
	assert.Equal(t, 366, strings.Count(svg, "data-date="))
	assert.Contains(t, svg, `data-date="2024-01-01"`)
	assert.Contains(t, svg, `data-date="2024-12-31"`)
	assert.NotContains(t, svg, `data-date="2025-01-01"`)

	// 値のあるセルだけがツールチップを持つ
	assert.Equal(t, 2, strings.Count(svg, "<title>"))
	assert.Contains(t, svg, `<title>2024-03-02: 10</title>`)

	// 最小値は先頭の色、最大値は末尾の色
	assert.Contains(t, svg, `fill="#7fcdae" stroke="#CECECE" stroke-width="1" data-date="2024-03-01"`)
	assert.Contains(t, svg, `fill="#ee7772" stroke="#CECECE" stroke-width="1" data-date="2024-03-02"`)
}

func TestGenerateCalendarSVG_MultipleYears(t *testing.T) {
	data := []Data{
		{Date: day(2022, 12, 31), Value: 1, Valid: true},
		{Date: day(2024, 1, 1), Value: 2, Valid: true},
	}

	svg, err := GenerateCalendarSVG(data, DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, svg, `data-year="2022"`)
	assert.Contains(t, svg, `data-year="2023"`)
	assert.Contains(t, svg, `data-year="2024"`)
	assert.Equal(t, 365+365+366, strings.Count(svg, "data-date="))
	assert.Equal(t, 3, strings.Count(svg, "year-label"))
}

func TestGenerateCalendarSVG_Outlines(t *testing.T) {
	data := []Data{{Date: day(2024, 6, 1), Value: 1, Valid: true}}

	tests := []struct {
		outline string
		weight  float64
		want    int
	}{
		{OutlineMonth, 1, 12},
		{OutlineQuarter, 1, 4},
		{OutlineNone, 1, 0},
		{OutlineMonth, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.outline, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Outline = tt.outline
			opts.OutlineWeight = tt.weight

			svg, err := GenerateCalendarSVG(data, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.Count(svg, `class="outline"`))
		})
	}
}

func TestGenerateCalendarSVG_LabelsAndLegend(t *testing.T) {
	data := []Data{
		{Date: day(2024, 1, 10), Value: 1000, Valid: true},
		{Date: day(2024, 2, 10), Value: 2500.5, Valid: true},
	}

	opts := DefaultOptions()
	opts.LabelMonth = true
	opts.LabelYear = false
	opts.Legend = true

	svg, err := GenerateCalendarSVG(data, opts)
	require.NoError(t, err)

	assert.Equal(t, 12, strings.Count(svg, "month-label"))
	assert.Contains(t, svg, ">Jan</text>")
	assert.Contains(t, svg, ">Dec</text>")
	assert.NotContains(t, svg, "year-label")

	assert.Contains(t, svg, `id="calheat-legend"`)
	assert.Contains(t, svg, `>1,000</text>`)
	assert.Contains(t, svg, `>2,500.5</text>`)

	opts.Legend = false
	svg, err = GenerateCalendarSVG(data, opts)
	require.NoError(t, err)
	assert.NotContains(t, svg, "calheat-legend")
}

func TestGenerateCalendarSVG_RoundedAndFormat(t *testing.T) {
	data := []Data{
		{Date: day(2024, 1, 10), Value: 0.5, Valid: true},
		{Date: day(2024, 1, 11), Value: 0, Valid: true, Label: "zero <none>"},
	}

	opts := DefaultOptions()
	opts.Rounded = true
	opts.Format = func(v float64) string { return "v=" + strconv.FormatFloat(v, 'f', -1, 64) }

	svg, err := GenerateCalendarSVG(data, opts)
	require.NoError(t, err)

	assert.Contains(t, svg, `rx="`)
	assert.Contains(t, svg, `<title>2024-01-10: v=0.5</title>`)
	// ラベルはエスケープされる
	assert.Contains(t, svg, `<title>2024-01-11: zero &lt;none&gt;</title>`)
}

func TestGenerateCalendarSVG_NullValues(t *testing.T) {
	data := []Data{
		{Date: day(2024, 4, 1), Valid: false},
		{Date: day(2024, 4, 2), Value: 3, Valid: true},
	}

	svg, err := GenerateCalendarSVG(data, DefaultOptions())
	require.NoError(t, err)

	// nullのセルは空セルとして描画される
	assert.Contains(t, svg, `fill="#ffffff" stroke="#CECECE" stroke-width="1" data-date="2024-04-01"/>`)
	assert.Equal(t, 1, strings.Count(svg, "<title>"))
}

func TestGenerateCalendarSVG_InvalidColor(t *testing.T) {
	opts := DefaultOptions()
	opts.Colors = []string{"not-a-color"}

	_, err := GenerateCalendarSVG([]Data{{Date: day(2024, 1, 1), Value: 1, Valid: true}}, opts)
	assert.Error(t, err)
}
