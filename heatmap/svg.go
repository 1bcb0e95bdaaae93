// Package heatmap generates calendar heatmaps as SVG or PNG.
package heatmap

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

// GenerateCalendarSVG returns an SVG string representing the calendar heatmap.
// It returns an empty string when data is empty.
func GenerateCalendarSVG(data []Data, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if len(data) == 0 {
		return "", nil
	}

	layout, err := Compute(data, opts)
	if err != nil {
		return "", err
	}

	fontFamily := opts.FontFamily
	if fontFamily == "" {
		fontFamily = "sans-serif"
	}
	fontSize := opts.FontSize
	if fontSize <= 0 {
		fontSize = 10
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">`+"\n",
		num(layout.Width), num(layout.Height), num(layout.Width), num(layout.Height)))
	sb.WriteString(fmt.Sprintf(`  <style>.label{font-family:%s;font-size:%dpx;fill:%s}</style>`+"\n",
		fontFamily, fontSize, opts.AxisLabelColor))

	for _, block := range layout.Years {
		sb.WriteString(fmt.Sprintf(`  <g class="year" data-year="%d">`+"\n", block.Year))

		if block.YearLabel != nil {
			sb.WriteString(fmt.Sprintf(`    <text class="label year-label" text-anchor="middle" transform="translate(%s,%s) rotate(-90)">%s</text>`+"\n",
				num(block.YearLabel.X), num(block.YearLabel.Y), html.EscapeString(block.YearLabel.Text)))
		}
		for _, m := range block.Months {
			sb.WriteString(fmt.Sprintf(`    <text class="label month-label" x="%s" y="%s">%s</text>`+"\n",
				num(m.X), num(m.Y), html.EscapeString(m.Text)))
		}

		for _, c := range block.Cells {
			writeCell(&sb, c, layout.Radius, opts.CellColor)
		}

		for _, outline := range block.Outlines {
			sb.WriteString(fmt.Sprintf(`    <path class="outline" d="%s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
				pathData(outline), opts.AxisLabelColor, num(opts.OutlineWeight)))
		}

		sb.WriteString(`  </g>` + "\n")
	}

	if lg := layout.Legend; lg != nil {
		sb.WriteString(`  <g class="legend">` + "\n")
		sb.WriteString(`    <defs><linearGradient id="calheat-legend" x1="0" x2="1" y1="0" y2="0">`)
		for i, stop := range lg.Stops {
			offset := 0.0
			if len(lg.Stops) > 1 {
				offset = float64(i) / float64(len(lg.Stops)-1)
			}
			sb.WriteString(fmt.Sprintf(`<stop offset="%s" stop-color="%s"/>`, num(offset), stop))
		}
		sb.WriteString(`</linearGradient></defs>` + "\n")
		sb.WriteString(fmt.Sprintf(`    <rect x="%s" y="%s" width="%s" height="%s" fill="url(#calheat-legend)" stroke="%s"/>`+"\n",
			num(lg.X), num(lg.Y), num(lg.W), num(lg.H), opts.CellColor))
		sb.WriteString(fmt.Sprintf(`    <text class="label legend-min" x="%s" y="%s">%s</text>`+"\n",
			num(lg.Min.X), num(lg.Min.Y), html.EscapeString(lg.Min.Text)))
		sb.WriteString(fmt.Sprintf(`    <text class="label legend-max" x="%s" y="%s" text-anchor="end">%s</text>`+"\n",
			num(lg.Max.X), num(lg.Max.Y), html.EscapeString(lg.Max.Text)))
		sb.WriteString(`  </g>` + "\n")
	}

	sb.WriteString(`</svg>`)
	return sb.String(), nil
}

func writeCell(sb *strings.Builder, c Cell, radius float64, stroke string) {
	key := c.Date.Format("2006-01-02")
	rounded := ""
	if radius > 0 {
		rounded = fmt.Sprintf(` rx="%s" ry="%s"`, num(radius), num(radius))
	}

	if !c.HasValue {
		sb.WriteString(fmt.Sprintf(`    <rect x="%s" y="%s" width="%s" height="%s"%s fill="%s" stroke="%s" stroke-width="1" data-date="%s"/>`+"\n",
			num(c.X), num(c.Y), num(c.Size), num(c.Size), rounded, c.Fill, stroke, key))
		return
	}

	// 値のあるセルには矩形と、その中にtitle要素（ツールチップ）を追加
	sb.WriteString(fmt.Sprintf(`    <rect x="%s" y="%s" width="%s" height="%s"%s fill="%s" stroke="%s" stroke-width="1" data-date="%s" data-value="%s">`+"\n",
		num(c.X), num(c.Y), num(c.Size), num(c.Size), rounded, c.Fill, stroke, key, strconv.FormatFloat(c.Value, 'f', -1, 64)))
	sb.WriteString(fmt.Sprintf(`      <title>%s</title>`+"\n", html.EscapeString(c.Title)))
	sb.WriteString(`    </rect>` + "\n")
}

func pathData(pts []Point) string {
	var sb strings.Builder
	for i, p := range pts {
		if i == 0 {
			sb.WriteString("M")
		} else {
			sb.WriteString("L")
		}
		sb.WriteString(num(p.X))
		sb.WriteString(",")
		sb.WriteString(num(p.Y))
	}
	sb.WriteString("Z")
	return sb.String()
}

// num formats a coordinate with at most two decimals.
func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
