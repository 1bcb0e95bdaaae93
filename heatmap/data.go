package heatmap

import (
	"time"

	"github.com/stsysd/calheat/format"
)

// Data holds the date and value for each day.
type Data struct {
	Date  time.Time
	Value float64
	Valid bool   // false when the measure is null or not numeric
	Label string // tooltip text for the value; formatted from Value when empty
}

// Outline kinds.
const (
	OutlineMonth   = "month"
	OutlineQuarter = "quarter"
	OutlineNone    = "none"
)

// Options configures rendering parameters.
type Options struct {
	Width          int      // render box width (px), 0 = auto
	Height         int      // render box height (px), 0 = auto
	Colors         []string // color stops spread evenly from min to max value
	CellColor      string   // border color of every day cell
	AxisLabelColor string   // color of labels and outlines
	Outline        string   // month, quarter or none
	OutlineWeight  float64  // stroke width of outlines (px)
	CellReducer    float64  // fraction of the cell pitch a cell fills, 0..1
	Rounded        bool     // round cell corners
	LabelYear      bool     // draw year labels
	LabelMonth     bool     // draw month labels
	Legend         bool     // draw the color legend
	FontSize       int      // font size for labels (px)
	FontFamily     string   // font family for labels

	// Format renders values for tooltips and the legend.
	Format func(float64) string
}

// DefaultOptions returns the options used when nil is passed to a renderer.
func DefaultOptions() *Options {
	return &Options{
		Colors:         []string{"#7FCDAE", "#ffed6f", "#EE7772"},
		CellColor:      "#CECECE",
		AxisLabelColor: "#282828",
		Outline:        OutlineMonth,
		OutlineWeight:  1,
		CellReducer:    1,
		LabelYear:      true,
		Legend:         true,
		FontSize:       10,
		FontFamily:     "sans-serif",
	}
}

func (o *Options) formatValue(v float64) string {
	if o.Format != nil {
		return o.Format(v)
	}
	return format.Default(v)
}
