package heatmap

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// GenerateCalendarPNG rasterizes the same layout as GenerateCalendarSVG.
// It returns nil when data is empty.
func GenerateCalendarPNG(data []Data, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if len(data) == 0 {
		return nil, nil
	}

	layout, err := Compute(data, opts)
	if err != nil {
		return nil, err
	}

	w := int(math.Ceil(layout.Width))
	h := int(math.Ceil(layout.Height))
	dc := gg.NewContext(w, h)
	dc.SetRGBA255(255, 255, 255, 255)
	dc.Clear()
	// basicfont is a fixed 7x13 face; FontSize only affects the layout
	dc.SetFontFace(basicfont.Face7x13)

	for _, block := range layout.Years {
		for _, c := range block.Cells {
			if layout.Radius > 0 {
				dc.DrawRoundedRectangle(c.X, c.Y, c.Size, c.Size, layout.Radius)
			} else {
				dc.DrawRectangle(c.X, c.Y, c.Size, c.Size)
			}
			dc.SetHexColor(c.Fill)
			dc.FillPreserve()
			dc.SetHexColor(opts.CellColor)
			dc.SetLineWidth(1)
			dc.Stroke()
		}

		dc.SetHexColor(opts.AxisLabelColor)
		dc.SetLineWidth(opts.OutlineWeight)
		for _, outline := range block.Outlines {
			dc.NewSubPath()
			for i, p := range outline {
				if i == 0 {
					dc.MoveTo(p.X, p.Y)
				} else {
					dc.LineTo(p.X, p.Y)
				}
			}
			dc.ClosePath()
			dc.Stroke()
		}

		if lbl := block.YearLabel; lbl != nil {
			dc.Push()
			dc.RotateAbout(gg.Radians(-90), lbl.X, lbl.Y)
			dc.DrawStringAnchored(lbl.Text, lbl.X, lbl.Y, 0.5, 0.5)
			dc.Pop()
		}
		for _, m := range block.Months {
			dc.DrawStringAnchored(m.Text, m.X, m.Y, 0, 0)
		}
	}

	if lg := layout.Legend; lg != nil {
		steps := int(math.Max(1, math.Ceil(lg.W)))
		stepW := lg.W / float64(steps)
		for i := range steps {
			t := 0.0
			if steps > 1 {
				t = float64(i) / float64(steps-1)
			}
			dc.DrawRectangle(lg.X+float64(i)*stepW, lg.Y, stepW+0.5, lg.H)
			dc.SetHexColor(layout.Scale.ColorAt(t))
			dc.Fill()
		}
		dc.DrawRectangle(lg.X, lg.Y, lg.W, lg.H)
		dc.SetHexColor(opts.CellColor)
		dc.SetLineWidth(1)
		dc.Stroke()

		dc.SetHexColor(opts.AxisLabelColor)
		dc.DrawStringAnchored(lg.Min.Text, lg.Min.X, lg.Min.Y, 0, 0)
		dc.DrawStringAnchored(lg.Max.Text, lg.Max.X, lg.Max.Y, 1, 0)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
