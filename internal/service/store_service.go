package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"parts-desk/internal/domain"
	"parts-desk/internal/ingest"
	"parts-desk/internal/metrics"
	"parts-desk/internal/repository"
)

// MergeReport summarizes one merge run. The counts are informational.
type MergeReport struct {
	Sources []ingest.SourceResult
	Before  int
	Added   int
	After   int
	// Written is false when there was nothing new to store.
	Written bool
}

// UpToDate reports whether the run found nothing new.
func (r *MergeReport) UpToDate() bool {
	return r.Added == 0
}

// StoreService runs the record store operations: merging ingested
// candidates and deleting single records.
type StoreService struct {
	// mu serializes load-modify-save cycles within this process. Separate
	// processes writing the same store are not coordinated.
	mu     sync.Mutex
	repo   repository.Repository
	parser *ingest.Parser
}

// NewStoreService creates a StoreService over repo.
func NewStoreService(repo repository.Repository, parser *ingest.Parser) *StoreService {
	return &StoreService{
		repo:   repo,
		parser: parser,
	}
}

// StoreName identifies the underlying store in messages.
func (s *StoreService) StoreName() string {
	return s.repo.Name()
}

// Merge ingests every source against the current store and appends the
// accepted candidates. A store that does not exist yet counts as empty.
// Nothing is written when no candidate survives. On a write failure the
// store keeps its previous content and the error is returned together
// with the report.
func (s *StoreService) Merge(ctx context.Context, sources []ingest.Source) (*MergeReport, error) {
	if len(sources) == 0 {
		return nil, domain.ErrNoSources
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.Load(ctx)
	if err != nil && !errors.Is(err, domain.ErrStoreNotFound) {
		return nil, fmt.Errorf("loading store: %w", err)
	}
	records = domain.CloneRecords(records)

	report := &MergeReport{Before: len(records)}
	seen := domain.NewKeySet(records)

	var candidates []domain.Record
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := s.parser.ParseSource(src, seen)
		report.Sources = append(report.Sources, res)
		candidates = append(candidates, res.Candidates()...)
	}

	report.Added = len(candidates)
	report.After = report.Before + report.Added

	if len(candidates) == 0 {
		return report, nil
	}

	err = s.repo.Save(ctx, append(records, candidates...))
	metrics.RecordStoreWrite("merge", err)
	if err != nil {
		report.Added = 0
		report.After = report.Before
		return report, fmt.Errorf("saving store: %w", err)
	}

	report.Written = true
	metrics.RecordMerge(report.Added)
	return report, nil
}

// Delete removes every record whose search term equals searchTerm exactly.
// Returns domain.ErrMissingKey for an empty term, domain.ErrKeyNotFound if
// nothing matched, and the repository's store errors otherwise.
func (s *StoreService) Delete(ctx context.Context, searchTerm string) error {
	if searchTerm == "" {
		return domain.ErrMissingKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	kept := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if r.SearchTerm != searchTerm {
			kept = append(kept, r)
		}
	}

	if len(kept) == len(records) {
		return domain.ErrKeyNotFound
	}

	err = s.repo.Save(ctx, kept)
	metrics.RecordStoreWrite("delete", err)
	return err
}
