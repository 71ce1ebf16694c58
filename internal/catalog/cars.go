// Package catalog produces the site's side documents: the vehicle list
// converted from the newest download and the marketplace search
// configuration fed by the parts list.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"parts-desk/internal/domain"
	"parts-desk/internal/fsx"
	"parts-desk/internal/ingest"
)

// CarColumns names the header fields of a vehicle export.
type CarColumns struct {
	Year      string
	Make      string
	Model     string
	Location  string
	Available string
}

// DefaultCarColumns returns the header names of the inventory export.
func DefaultCarColumns() CarColumns {
	return CarColumns{
		Year:      "Year",
		Make:      "Make",
		Model:     "Model",
		Location:  "Location",
		Available: "Available",
	}
}

func (c CarColumns) names() []string {
	return []string{c.Year, c.Make, c.Model, c.Location, c.Available}
}

type carRecord struct {
	Year      string `json:"year"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	Location  string `json:"location"`
	Available string `json:"available"`
}

// CarsReport describes one cars run.
type CarsReport struct {
	Source fsx.Candidate
	Output string
	// Count is the number of converted rows; zero for a copy.
	Count  int
	Copied bool
}

// ReadCars parses a vehicle export. Every data row becomes a Car; fields
// missing from a short row are left empty. A header without one of the
// required columns rejects the whole export.
func ReadCars(name string, r io.Reader, cols CarColumns) ([]domain.Car, error) {
	cr := ingest.NewCSVReader(r)

	header, err := cr.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading header of %s: %w", name, err)
	}

	idx, err := ingest.HeaderIndex(name, header, cols.names())
	if err != nil {
		return nil, err
	}

	field := func(fields []string, col string) string {
		if i := idx[col]; i < len(fields) {
			return fields[i]
		}
		return ""
	}

	cars := []domain.Car{}
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		cars = append(cars, domain.Car{
			Year:      field(fields, cols.Year),
			Make:      field(fields, cols.Make),
			Model:     field(fields, cols.Model),
			Location:  field(fields, cols.Location),
			Available: field(fields, cols.Available),
		})
	}
	return cars, nil
}

// WriteCars replaces path with cars as an indented JSON array.
func WriteCars(path string, cars []domain.Car) error {
	out := make([]carRecord, len(cars))
	for i, c := range cars {
		out[i] = carRecord(c)
	}

	data, err := encodeIndented(out)
	if err != nil {
		return fmt.Errorf("encoding cars: %w", err)
	}
	if err := fsx.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ConvertLatest converts the newest export in dir matching pattern into the
// JSON vehicle list at out.
func ConvertLatest(dir, pattern, out string, cols CarColumns) (*CarsReport, error) {
	latest, err := fsx.Latest(dir, pattern)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(latest.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", latest.Path, err)
	}
	defer f.Close()

	cars, err := ReadCars(latest.Path, f, cols)
	if err != nil {
		return nil, err
	}
	if err := WriteCars(out, cars); err != nil {
		return nil, err
	}

	return &CarsReport{Source: latest, Output: out, Count: len(cars)}, nil
}

// CopyLatest copies the newest export in dir matching pattern to out
// byte for byte.
func CopyLatest(dir, pattern, out string) (*CarsReport, error) {
	latest, err := fsx.Latest(dir, pattern)
	if err != nil {
		return nil, err
	}
	if err := fsx.CopyFile(latest.Path, out); err != nil {
		return nil, fmt.Errorf("copying %s to %s: %w", latest.Path, out, err)
	}
	return &CarsReport{Source: latest, Output: out, Copied: true}, nil
}

// encodeIndented renders v with two-space indentation and without HTML
// escaping, followed by a newline.
func encodeIndented(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
