package repository

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"parts-desk/internal/domain"
	"parts-desk/internal/fsx"
)

// fileRecord is the on-disk shape of a record.
type fileRecord struct {
	SearchTerm string `json:"searchTerm"`
	Percentage int    `json:"percentage"`
	SoldCount  int    `json:"soldCount"`
}

// JSONFileRepository keeps the record store as an indented JSON array.
type JSONFileRepository struct {
	path string
}

// NewJSONFileRepository creates a repository backed by the file at path.
// The file need not exist yet.
func NewJSONFileRepository(path string) *JSONFileRepository {
	return &JSONFileRepository{path: path}
}

// Path returns the store file location.
func (r *JSONFileRepository) Path() string {
	return r.path
}

// Name returns the store file's base name.
func (r *JSONFileRepository) Name() string {
	return filepath.Base(r.path)
}

// Load reads and decodes the whole store file.
func (r *JSONFileRepository) Load(ctx context.Context) ([]domain.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.StoreError{Kind: domain.ErrStoreNotFound, Path: r.path}
		}
		return nil, &domain.StoreError{Kind: domain.ErrStoreRead, Path: r.path, Err: err}
	}

	records, err := decodeRecords(data)
	if err != nil {
		return nil, &domain.StoreError{Kind: domain.ErrStoreCorrupt, Path: r.path, Err: err}
	}
	return records, nil
}

// Save encodes records and atomically replaces the store file.
func (r *JSONFileRepository) Save(ctx context.Context, records []domain.Record) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	data, err := encodeRecords(records)
	if err != nil {
		return &domain.StoreError{Kind: domain.ErrStoreWrite, Path: r.path, Err: err}
	}

	if err := fsx.WriteFileAtomic(r.path, data, 0o644); err != nil {
		return &domain.StoreError{Kind: domain.ErrStoreWrite, Path: r.path, Err: err}
	}
	return nil
}

func decodeRecords(data []byte) ([]domain.Record, error) {
	// A JSON null decodes into a nil slice without error; treat it as
	// corrupt rather than as an empty store.
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, errors.New("store content is null, expected an array")
	}

	var stored []fileRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	records := make([]domain.Record, len(stored))
	for i, s := range stored {
		records[i] = domain.Record{
			SearchTerm: s.SearchTerm,
			Percentage: s.Percentage,
			SoldCount:  s.SoldCount,
		}
	}
	return records, nil
}

func encodeRecords(records []domain.Record) ([]byte, error) {
	stored := make([]fileRecord, len(records))
	for i, rec := range records {
		stored[i] = fileRecord{
			SearchTerm: rec.SearchTerm,
			Percentage: rec.Percentage,
			SoldCount:  rec.SoldCount,
		}
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
