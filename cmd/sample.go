package cmd

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stsysd/calheat/logging"
	"github.com/stsysd/calheat/model"
)

const (
	sampleDimension = "activity.date"
	sampleMeasure   = "activity.count"
)

// NewSampleCommand creates the 'sample' subcommand that writes a random payload for demos.
func NewSampleCommand(fs afero.Fs, logger *logging.Logger) *cobra.Command {
	var (
		output string
		year   int
		seed   uint64
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a random one-year payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = time.Now().Year()
			}
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}

			payload := GenerateSample(year, rand.New(rand.NewPCG(seed, seed)))
			b, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return err
			}
			b = append(b, '\n')

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			if err := afero.WriteFile(fs, output, b, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			logger.Info("sample written", "path", output, "rows", len(payload.Data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	cmd.Flags().IntVar(&year, "year", 0, "calendar year to fill (default current year)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed, 0 for a time based seed")
	return cmd
}

// GenerateSample creates random activity for every day of year.
// Weekends are busier and there are occasional spikes; quiet days are left out.
func GenerateSample(year int, rng *rand.Rand) *Payload {
	payload := &Payload{
		QueryResponse: &model.QueryResponse{Fields: model.Fields{
			DimensionLike: []model.Field{{Name: sampleDimension, Label: "Date", Type: "date_date"}},
			MeasureLike:   []model.Field{{Name: sampleMeasure, Label: "Count", Type: "count"}},
		}},
	}

	for day := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC); day.Year() == year; day = day.AddDate(0, 0, 1) {
		var count int
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			count = rng.IntN(10)
		} else {
			count = rng.IntN(6)
		}
		if rng.IntN(20) == 0 {
			count += rng.IntN(20)
		}
		if count == 0 {
			continue
		}

		payload.Data = append(payload.Data, model.Row{
			sampleDimension: {Value: day.Format("2006-01-02")},
			sampleMeasure:   {Value: count, Rendered: fmt.Sprintf("%d events", count)},
		})
	}
	return payload
}
