package heatmap

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	defaultPitch = 14.0 // cell pitch (px) when no render box is given
	minPitch     = 2.0
	padding      = 4.0
	legendBarH   = 10.0
	legendMaxW   = 200.0
)

// MaxYears is the largest number of year blocks one calendar may span.
const MaxYears = 100

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Point is a position in pixels.
type Point struct {
	X, Y float64
}

// Label is a text placed at a position.
type Label struct {
	X, Y float64
	Text string
}

// Cell is one day square.
type Cell struct {
	Date     time.Time
	X, Y     float64
	Size     float64
	Fill     string
	HasValue bool
	Value    float64
	Title    string // tooltip, empty for days without a value
}

// YearBlock is the 7-row grid of one calendar year.
type YearBlock struct {
	Year      int
	YearLabel *Label // rotated label left of the grid
	Months    []Label
	Cells     []Cell
	Outlines  [][]Point // closed polygons around months or quarters
}

// LegendBox is the color ramp drawn below the grid.
type LegendBox struct {
	X, Y, W, H float64
	Stops      []string
	Min, Max   Label
}

// Layout is the fully positioned calendar shared by the SVG and PNG backends.
type Layout struct {
	Width, Height float64
	Pitch         float64
	CellSize      float64
	Radius        float64
	Years         []YearBlock
	Legend        *LegendBox
	Scale         *Scale
}

// Compute positions every day of every year spanned by data.
// data does not need to be sorted; the last entry for a day wins.
func Compute(data []Data, opts *Options) (*Layout, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if len(data) == 0 {
		return &Layout{}, nil
	}

	scale, err := NewScale(opts.Colors, data)
	if err != nil {
		return nil, err
	}

	// map date string to value
	valueMap := make(map[string]Data, len(data))
	firstYear, lastYear := data[0].Date.Year(), data[0].Date.Year()
	for _, d := range data {
		valueMap[d.Date.Format("2006-01-02")] = d
		firstYear = min(firstYear, d.Date.Year())
		lastYear = max(lastYear, d.Date.Year())
	}
	years := lastYear - firstYear + 1
	if years > MaxYears {
		return nil, fmt.Errorf("data spans %d years (%d to %d), at most %d can be drawn", years, firstYear, lastYear, MaxYears)
	}

	columns := 0
	for y := firstYear; y <= lastYear; y++ {
		columns = max(columns, weekColumn(time.Date(y, 12, 31, 0, 0, 0, 0, time.UTC))+1)
	}

	fontSize := float64(opts.FontSize)
	if fontSize <= 0 {
		fontSize = 10
	}

	left := padding
	if opts.LabelYear {
		left += fontSize + padding
	}
	monthLabelH := 0.0
	if opts.LabelMonth {
		monthLabelH = fontSize + padding
	}
	yearGap := fontSize
	legendH := 0.0
	if opts.Legend {
		legendH = padding*2 + legendBarH + fontSize + padding
	}

	// fit the pitch to the render box
	pitch := defaultPitch
	fitted := false
	if opts.Width > 0 {
		pitch = (float64(opts.Width) - left - padding) / float64(columns)
		fitted = true
	}
	if opts.Height > 0 {
		fixed := padding*2 + legendH + float64(years)*monthLabelH + float64(years-1)*yearGap
		byHeight := (float64(opts.Height) - fixed) / float64(years*7)
		if !fitted || byHeight < pitch {
			pitch = byHeight
		}
	}
	pitch = math.Max(pitch, minPitch)

	reducer := opts.CellReducer
	if reducer < 0 || reducer > 1 {
		reducer = 1
	}
	cellSize := pitch * reducer
	inset := (pitch - cellSize) / 2

	layout := &Layout{
		Pitch:    pitch,
		CellSize: cellSize,
		Scale:    scale,
	}
	if opts.Rounded {
		layout.Radius = cellSize / 5
	}

	top := padding
	for y := firstYear; y <= lastYear; y++ {
		block := YearBlock{Year: y}
		gridTop := top + monthLabelH

		if opts.LabelYear {
			block.YearLabel = &Label{
				X:    padding + fontSize/2,
				Y:    gridTop + 3.5*pitch,
				Text: strconv.Itoa(y),
			}
		}

		if opts.LabelMonth {
			for m := time.January; m <= time.December; m++ {
				first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
				block.Months = append(block.Months, Label{
					X:    left + float64(weekColumn(first))*pitch,
					Y:    top + fontSize,
					Text: monthNames[m-1],
				})
			}
		}

		for day := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC); day.Year() == y; day = day.AddDate(0, 0, 1) {
			cell := Cell{
				Date: day,
				X:    left + float64(weekColumn(day))*pitch + inset,
				Y:    gridTop + float64(day.Weekday())*pitch + inset,
				Size: cellSize,
				Fill: emptyFill,
			}
			if d, ok := valueMap[day.Format("2006-01-02")]; ok && d.Valid {
				cell.HasValue = true
				cell.Value = d.Value
				cell.Fill = scale.Color(d.Value)
				label := d.Label
				if label == "" {
					label = opts.formatValue(d.Value)
				}
				cell.Title = day.Format("2006-01-02") + ": " + label
			}
			block.Cells = append(block.Cells, cell)
		}

		if opts.OutlineWeight > 0 {
			for _, period := range periods(y, opts.Outline) {
				block.Outlines = append(block.Outlines, outlinePolygon(period[0], period[1], left, gridTop, pitch))
			}
		}

		layout.Years = append(layout.Years, block)
		top = gridTop + 7*pitch + yearGap
	}
	bottom := top - yearGap

	gridWidth := float64(columns) * pitch
	if opts.Legend {
		if lo, hi, ok := scale.Domain(); ok {
			barY := bottom + padding*2
			barW := math.Min(gridWidth, legendMaxW)
			layout.Legend = &LegendBox{
				X:     left,
				Y:     barY,
				W:     barW,
				H:     legendBarH,
				Stops: scale.Stops(),
				Min:   Label{X: left, Y: barY + legendBarH + fontSize + 2, Text: opts.formatValue(lo)},
				Max:   Label{X: left + barW, Y: barY + legendBarH + fontSize + 2, Text: opts.formatValue(hi)},
			}
		}
		bottom += legendH
	}

	layout.Width = left + gridWidth + padding
	layout.Height = bottom + padding
	if opts.Width > 0 {
		layout.Width = float64(opts.Width)
	}
	if opts.Height > 0 {
		layout.Height = float64(opts.Height)
	}
	return layout, nil
}

// weekColumn returns the Sunday-based week index of t within its year.
func weekColumn(t time.Time) int {
	jan1 := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	return (t.YearDay() - 1 + int(jan1.Weekday())) / 7
}

// periods returns the inclusive first/last day of each outlined period of year y.
func periods(y int, outline string) [][2]time.Time {
	var months int
	switch outline {
	case OutlineMonth:
		months = 1
	case OutlineQuarter:
		months = 3
	default:
		return nil
	}

	var out [][2]time.Time
	for m := 1; m <= 12; m += months {
		first := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, months, -1)
		out = append(out, [2]time.Time{first, last})
	}
	return out
}

// outlinePolygon traces the boundary of the days first..last on the week grid.
func outlinePolygon(first, last time.Time, left, top, pitch float64) []Point {
	d0, w0 := float64(first.Weekday()), float64(weekColumn(first))
	d1, w1 := float64(last.Weekday()), float64(weekColumn(last))

	pts := []Point{
		{w0 + 1, d0},
		{w0, d0},
		{w0, 7},
		{w1, 7},
		{w1, d1 + 1},
		{w1 + 1, d1 + 1},
		{w1 + 1, 0},
		{w0 + 1, 0},
	}
	for i := range pts {
		pts[i] = Point{X: left + pts[i].X*pitch, Y: top + pts[i].Y*pitch}
	}
	return pts
}
