package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"parts-desk/internal/catalog"
	"parts-desk/internal/logging"
)

func newCarsCmd(a *app) *cobra.Command {
	var (
		downloads string
		out       string
		copyOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "cars",
		Short: "Publish the newest vehicle export to the site",
		Long: `Picks the most recently modified export in the downloads directory and
converts it into the site's cars.json. With --copy the export is copied
unchanged to cars.csv instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Catalog
			if cmd.Flags().Changed("downloads") {
				cfg.DownloadsDir = downloads
			}

			var (
				report *catalog.CarsReport
				err    error
			)
			if copyOnly {
				target := cfg.CarsCSV
				if cmd.Flags().Changed("out") {
					target = out
				}
				report, err = catalog.CopyLatest(cfg.DownloadsDir, cfg.Pattern, target)
			} else {
				target := cfg.CarsJSON
				if cmd.Flags().Changed("out") {
					target = out
				}
				report, err = catalog.ConvertLatest(cfg.DownloadsDir, cfg.Pattern, target, catalog.DefaultCarColumns())
			}
			if err != nil {
				return fmt.Errorf("cars: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Most recent CSV: %s (modified %s, %s)\n",
				filepath.Base(report.Source.Path),
				humanize.RelTime(report.Source.ModTime, a.clock.Now(), "ago", "from now"),
				humanize.Bytes(uint64(report.Source.Size)))
			if report.Copied {
				fmt.Fprintf(w, "Copied to: %s\n", report.Output)
			} else {
				fmt.Fprintf(w, "Saved to: %s\nConverted %s records\n", report.Output, humanize.Comma(int64(report.Count)))
			}

			logging.Info().
				Str("source", report.Source.Path).
				Str("output", report.Output).
				Int("count", report.Count).
				Bool("copied", report.Copied).
				Msg("cars published")
			return nil
		},
	}

	cmd.Flags().StringVar(&downloads, "downloads", "", "directory holding the downloaded exports")
	cmd.Flags().StringVar(&out, "out", "", "output file (default catalog.cars_json, or catalog.cars_csv with --copy)")
	cmd.Flags().BoolVar(&copyOnly, "copy", false, "copy the export unchanged instead of converting it")
	return cmd
}
