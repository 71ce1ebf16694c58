package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parts-desk/internal/catalog"
	"parts-desk/internal/logging"
)

func newPartsCmd(a *app) *cobra.Command {
	var (
		list   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "parts",
		Short: "Write parts.txt into the search extension's configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Catalog
			if cmd.Flags().Changed("list") {
				cfg.PartsList = list
			}
			if cmd.Flags().Changed("output") {
				cfg.SearchConfig = output
			}

			report, err := catalog.UpdateSearchConfig(cfg.PartsList, cfg.SearchConfig)
			if err != nil {
				return fmt.Errorf("parts: %w", err)
			}

			w := cmd.OutOrStdout()
			if report.UsedDefaults {
				fmt.Fprintf(w, "Started from the default search settings\n")
			}
			fmt.Fprintf(w, "Updated %s with parts from %s\nTotal parts: %d\n", report.Output, cfg.PartsList, report.Parts)

			logging.Info().
				Str("output", report.Output).
				Int("parts", report.Parts).
				Bool("defaults", report.UsedDefaults).
				Msg("search config updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&list, "list", "", "parts list, one name per line")
	cmd.Flags().StringVar(&output, "output", "", "search configuration file to update")
	return cmd
}
