package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stsysd/calheat/config"
	"github.com/stsysd/calheat/frame"
	"github.com/stsysd/calheat/logging"
	"github.com/stsysd/calheat/model"
	"github.com/stsysd/calheat/vis"
	"gopkg.in/yaml.v3"
)

// Payload is the JSON document the render command reads and the sample command writes.
type Payload struct {
	Data          []model.Row          `json:"data"`
	QueryResponse *model.QueryResponse `json:"query_response"`
	Config        *model.VisConfig     `json:"config,omitempty"`
	Width         int                  `json:"width,omitempty"`
	Height        int                  `json:"height,omitempty"`
	Format        string               `json:"format,omitempty"`
	Timezone      string               `json:"timezone,omitempty"`
}

type renderFlags struct {
	input    string
	options  string
	output   string
	format   string
	width    int
	height   int
	timezone string
	frame    bool
}

// NewRenderCommand creates the 'render' subcommand that writes a calendar image.
func NewRenderCommand(fs afero.Fs, ctx context.Context, cfg *config.Config, logger *logging.Logger) *cobra.Command {
	f := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a calendar heatmap from a JSON payload",
		Example: `  calheat sample | calheat render -o calendar.svg
  calheat render -i payload.json -c options.yaml -f png -o calendar.png
  calheat render --frame -i frame.json -o calendar.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(fs, cmd.InOrStdin(), f.input)
			if err != nil {
				return err
			}

			payload, err := decodePayload(raw, f.frame)
			if err != nil {
				return err
			}
			if err := applyRenderFlags(cmd, fs, f, payload, cfg); err != nil {
				return err
			}

			req, err := payload.request()
			if err != nil {
				return err
			}

			res, err := vis.Update(ctx, *req)
			if err != nil {
				var visErr *model.VisError
				if errors.As(err, &visErr) {
					logger.Warn("nothing to draw", "title", visErr.Title, "message", visErr.Message)
				}
				return err
			}

			if f.output == "" || f.output == "-" {
				_, err = cmd.OutOrStdout().Write(res.Body)
				return err
			}
			if err := afero.WriteFile(fs, f.output, res.Body, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", f.output, err)
			}
			logger.Info("calendar written", "path", f.output, "records", res.Records, "format", req.Format)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "-", "payload file, - for stdin")
	flags.StringVarP(&f.options, "options", "c", "", "YAML or JSON file with chart options (overrides the payload config)")
	flags.StringVarP(&f.output, "output", "o", "-", "output file, - for stdout")
	flags.StringVarP(&f.format, "format", "f", "", "output format: svg or png")
	flags.IntVar(&f.width, "width", 0, "render width in pixels, 0 for auto")
	flags.IntVar(&f.height, "height", 0, "render height in pixels, 0 for auto")
	flags.StringVar(&f.timezone, "timezone", "", "timezone used to resolve calendar days (default CALHEAT_TIMEZONE)")
	flags.BoolVar(&f.frame, "frame", false, "input is a Grafana data frame instead of a payload")
	return cmd
}

func readInput(fs afero.Fs, stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return b, nil
	}
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return b, nil
}

func decodePayload(raw []byte, isFrame bool) (*Payload, error) {
	if isFrame {
		df, err := frame.Decode(raw)
		if err != nil {
			return nil, err
		}
		qr, rows, err := frame.ToQuery(df)
		if err != nil {
			return nil, err
		}
		return &Payload{Data: rows, QueryResponse: qr}, nil
	}

	p := &Payload{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, model.NewValidationError(fmt.Sprintf("invalid payload: %v", err))
	}
	return p, nil
}

// applyRenderFlags lets explicitly set flags win over the payload.
func applyRenderFlags(cmd *cobra.Command, fs afero.Fs, f *renderFlags, p *Payload, cfg *config.Config) error {
	if f.options != "" {
		b, err := afero.ReadFile(fs, f.options)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", f.options, err)
		}
		var vc model.VisConfig
		if err := yaml.Unmarshal(b, &vc); err != nil {
			return model.NewValidationError(fmt.Sprintf("invalid options file %s: %v", f.options, err))
		}
		p.Config = &vc
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		p.Format = f.format
	}
	if flags.Changed("width") {
		p.Width = f.width
	}
	if flags.Changed("height") {
		p.Height = f.height
	}
	if flags.Changed("timezone") {
		p.Timezone = f.timezone
	}
	if p.Timezone == "" && cfg != nil {
		p.Timezone = cfg.Timezone
	}
	return nil
}

func (p *Payload) request() (*vis.UpdateRequest, error) {
	size, err := model.NewSize(p.Width, p.Height)
	if err != nil {
		return nil, err
	}
	format, err := model.NewRenderFormat(p.Format)
	if err != nil {
		return nil, err
	}
	tz, err := model.NewTimezone(p.Timezone)
	if err != nil {
		return nil, err
	}

	return &vis.UpdateRequest{
		Rows:          p.Data,
		QueryResponse: p.QueryResponse,
		Config:        p.Config,
		Width:         size.Width(),
		Height:        size.Height(),
		Format:        format,
		Location:      tz.Location(),
	}, nil
}
