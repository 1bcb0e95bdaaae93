// Package vis runs the calendar visualization update: validate, transform, render.
package vis

import (
	"context"
	"fmt"
	"time"

	"github.com/stsysd/calheat/format"
	"github.com/stsysd/calheat/heatmap"
	"github.com/stsysd/calheat/logging"
	"github.com/stsysd/calheat/model"
	"github.com/stsysd/calheat/transform"
)

// UpdateRequest is one update call from the host.
type UpdateRequest struct {
	Rows          []model.Row
	QueryResponse *model.QueryResponse
	Config        *model.VisConfig // nil means defaults
	Width         int              // 0 falls back to cal_w, then auto
	Height        int              // 0 falls back to cal_h, then auto
	Format        model.RenderFormat
	Location      *time.Location // calendar days are resolved here, nil means UTC
}

// Result is the rendered chart.
type Result struct {
	ContentType string
	Body        []byte
	Records     int
}

// Update validates and transforms the rows, then renders them.
// Input problems are returned as *model.VisError and nothing is rendered.
// An invalid config is returned as *model.ValidationError.
func Update(ctx context.Context, req UpdateRequest) (*Result, error) {
	cfg := model.DefaultVisConfig()
	if req.Config != nil {
		cfg = *req.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := req.Format
	if f == "" {
		f = model.FormatSVG
	}
	if _, err := model.NewRenderFormat(string(f)); err != nil {
		return nil, err
	}

	records, err := transform.Transform(req.QueryResponse, req.Rows, req.Location)
	if err != nil {
		return nil, err
	}
	// records are sorted by date
	first, last := records[0].Date.Year(), records[len(records)-1].Date.Year()
	if span := last - first + 1; span > heatmap.MaxYears {
		return nil, model.NewValidationError(fmt.Sprintf("dates span %d years (%d to %d), at most %d can be drawn", span, first, last, heatmap.MaxYears))
	}

	opts, err := Options(&cfg, req.Width, req.Height)
	if err != nil {
		return nil, err
	}
	data := ToData(records, cfg.FormattingOverride != "")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{ContentType: f.ContentType(), Records: len(records)}
	switch f {
	case model.FormatPNG:
		body, err := heatmap.GenerateCalendarPNG(data, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to render png: %w", err)
		}
		res.Body = body
	default:
		svg, err := heatmap.GenerateCalendarSVG(data, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to render svg: %w", err)
		}
		res.Body = []byte(svg)
	}

	logging.Debug("rendered calendar", "format", f, "records", len(records), "bytes", len(res.Body))
	return res, nil
}

// Options converts a VisConfig into renderer options. A zero width or height
// falls back to the hidden cal_w/cal_h options.
func Options(cfg *model.VisConfig, width, height int) (*heatmap.Options, error) {
	opts := heatmap.DefaultOptions()
	opts.Colors = append([]string(nil), cfg.ColorPicker...)
	opts.CellColor = cfg.CellColor
	opts.AxisLabelColor = cfg.AxisLabelColor
	opts.Outline = string(cfg.Outline)
	opts.OutlineWeight = cfg.OutlineWeight
	opts.CellReducer = cfg.CellReducer
	opts.Rounded = bool(cfg.Rounded)
	opts.LabelYear = bool(cfg.LabelYear)
	opts.LabelMonth = bool(cfg.LabelMonth)
	opts.Legend = bool(cfg.ShowLegend)

	if width == 0 {
		width = int(cfg.CalW)
	}
	if height == 0 {
		height = int(cfg.CalH)
	}
	size, err := model.NewSize(width, height)
	if err != nil {
		return nil, err
	}
	opts.Width = size.Width()
	opts.Height = size.Height()

	if cfg.FormattingOverride != "" {
		p, err := format.Parse(cfg.FormattingOverride)
		if err != nil {
			return nil, err
		}
		opts.Format = p.Format
	}
	return opts, nil
}

// ToData converts records to renderer input. Unless overridden, the host's
// rendered string is used as the tooltip label.
func ToData(records []model.Datum, overridden bool) []heatmap.Data {
	data := make([]heatmap.Data, 0, len(records))
	for _, r := range records {
		d := heatmap.Data{Date: r.Date}
		d.Value, d.Valid = r.Number()
		if d.Valid && !overridden {
			d.Label = r.Measure.Rendered
		}
		data = append(data, d)
	}
	return data
}
