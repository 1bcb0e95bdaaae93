package heatmap

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCalendarPNG_EmptyData(t *testing.T) {
	b, err := GenerateCalendarPNG(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestGenerateCalendarPNG(t *testing.T) {
	data := []Data{{Date: day(2024, 7, 4), Value: 3, Valid: true}}
	opts := DefaultOptions()
	opts.Width = 552
	opts.LabelMonth = true

	b, err := GenerateCalendarPNG(data, opts)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 552, img.Bounds().Dx())

	layout, err := Compute(data, opts)
	require.NoError(t, err)
	assert.Equal(t, int(layout.Height+0.999), img.Bounds().Dy())

	// 値のあるセルの中心は先頭の色で塗られる
	cell := layout.Years[0].Cells[day(2024, 7, 4).YearDay()-1]
	r, g, bl, _ := img.At(int(cell.X+cell.Size/2), int(cell.Y+cell.Size/2)).RGBA()
	assert.InDelta(t, 0x7f, r>>8, 2)
	assert.InDelta(t, 0xcd, g>>8, 2)
	assert.InDelta(t, 0xae, bl>>8, 2)
}

func TestGenerateCalendarPNG_InvalidColor(t *testing.T) {
	opts := DefaultOptions()
	opts.Colors = []string{"red"}

	_, err := GenerateCalendarPNG([]Data{{Date: day(2024, 1, 1), Value: 1, Valid: true}}, opts)
	assert.Error(t, err)
}
