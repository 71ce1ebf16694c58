package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"github.com/spf13/cobra"

	"parts-desk/internal/domain"
	"parts-desk/internal/ingest"
	"parts-desk/internal/logging"
	"parts-desk/internal/repository"
	"parts-desk/internal/service"
)

func newMergeCmd(a *app) *cobra.Command {
	var (
		store   string
		dir     string
		pattern string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "merge [csv files...]",
		Short: "Merge search-results exports into the record store",
		Long: `Reads every export named on the command line, or every file matching
the ingest pattern in the ingest directory, and appends the rows whose
search term is not in the store yet. Rows with an empty term or a
non-numeric rate or count are skipped; the first occurrence of a term wins.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("store") {
				cfg.Store.Path = store
			}
			if cmd.Flags().Changed("dir") {
				cfg.Ingest.Dir = dir
			}
			if cmd.Flags().Changed("pattern") {
				cfg.Ingest.Pattern = pattern
			}

			sources, err := mergeSources(args, cfg.Ingest.Dir, cfg.Ingest.Pattern)
			if err != nil {
				return err
			}

			fileRepo := repository.NewJSONFileRepository(cfg.Store.Path)
			var repo repository.Repository = fileRepo
			if dryRun {
				repo, err = dryRunRepository(cmd, fileRepo)
				if err != nil {
					return err
				}
			}

			svc := service.NewStoreService(repo, ingest.NewParser(cfg.Ingest.Columns.Parser()))
			report, mergeErr := svc.Merge(cmd.Context(), sources)
			if report != nil {
				logRows(report)
				writeMergeSummary(cmd.OutOrStdout(), report, fileRepo.Name(), dryRun)
			}
			return mergeErr
		},
	}

	cmd.Flags().StringVar(&store, "store", "", "record store file")
	cmd.Flags().StringVar(&dir, "dir", "", "directory searched for exports when no files are given")
	cmd.Flags().StringVar(&pattern, "pattern", "", "glob matched inside --dir")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be added without writing the store")
	return cmd
}

// mergeSources turns explicit paths, or the matches of pattern in dir, into
// ingest sources.
func mergeSources(args []string, dir, pattern string) ([]ingest.Source, error) {
	paths := args
	if len(paths) == 0 {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad ingest pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)
		paths = matches
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: nothing matches %s", domain.ErrNoSources, filepath.Join(dir, pattern))
	}

	sources := make([]ingest.Source, len(paths))
	for i, p := range paths {
		sources[i] = ingest.FileSource(p)
	}
	return sources, nil
}

// dryRunRepository copies the current store into memory so a merge can run
// without touching the file.
func dryRunRepository(cmd *cobra.Command, fileRepo *repository.JSONFileRepository) (repository.Repository, error) {
	records, err := fileRepo.Load(cmd.Context())
	if errors.Is(err, domain.ErrStoreNotFound) {
		return repository.NewMemoryRepository(), nil
	}
	if err != nil {
		return nil, err
	}
	return repository.NewMemoryRepositoryWith(records), nil
}

func logRows(report *service.MergeReport) {
	for _, src := range report.Sources {
		if src.Err != nil {
			logging.Warn().Err(src.Err).Str("source", src.Source).Msg("source skipped")
		}
		for _, row := range src.Rows {
			if row.Accepted() {
				logging.Info().
					Str("source", src.Source).
					Int("line", row.Line).
					Str("search_term", row.SearchTerm).
					Int("percentage", row.Record.Percentage).
					Int("sold_count", row.Record.SoldCount).
					Msg("added")
				continue
			}
			event := logging.Warn()
			if row.Outcome == ingest.SkippedDuplicate {
				event = logging.Info()
			}
			event.
				Str("source", src.Source).
				Int("line", row.Line).
				Str("search_term", row.SearchTerm).
				Str("outcome", string(row.Outcome)).
				Err(row.Err).
				Msg("row skipped")
		}
	}
}

func writeMergeSummary(w io.Writer, report *service.MergeReport, storeName string, dryRun bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.Style().Format.Header = text.FormatDefault

	t.AppendHeader(table.Row{"Source", "Added", "Duplicate", "Empty term", "Bad number", "Malformed", "Status"})
	for _, src := range report.Sources {
		status := "ok"
		if src.Err != nil {
			status = src.Err.Error()
		}
		t.AppendRow(table.Row{
			filepath.Base(src.Source),
			src.Count(ingest.Accepted),
			src.Count(ingest.SkippedDuplicate),
			src.Count(ingest.SkippedEmptyTerm),
			src.Count(ingest.SkippedInvalidNumber),
			src.Count(ingest.SkippedMalformed),
			status,
		})
	}
	t.Render()

	fmt.Fprintf(w, "\nRecords before: %d\nNew records:    %d\nRecords after:  %d\n", report.Before, report.Added, report.After)

	switch {
	case report.UpToDate():
		fmt.Fprintf(w, "%s is already up to date\n", storeName)
	case dryRun:
		fmt.Fprintf(w, "dry run: %s not written\n", storeName)
	case report.Written:
		fmt.Fprintf(w, "Saved %d total records to %s\n", report.After, storeName)
	default:
		fmt.Fprintf(w, "%s was not updated\n", storeName)
	}
}
