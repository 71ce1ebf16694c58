// Package ingest turns search-results CSV exports into candidate records.
//
// Every data row yields a RowResult: either an accepted candidate or the
// reason it was skipped. Only a missing required column or an unreadable
// file rejects a source as a whole.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"parts-desk/internal/domain"
)

var (
	// ErrShortRow marks a row with fewer fields than the header requires.
	ErrShortRow = errors.New("row is missing required fields")

	// ErrInvalidEncoding marks a row whose fields are not valid UTF-8.
	ErrInvalidEncoding = errors.New("row contains invalid UTF-8")
)

// Outcome classifies what happened to one data row.
type Outcome string

const (
	Accepted             Outcome = "accepted"
	SkippedEmptyTerm     Outcome = "empty_search_term"
	SkippedInvalidNumber Outcome = "invalid_number"
	SkippedDuplicate     Outcome = "duplicate"
	SkippedMalformed     Outcome = "malformed_row"
)

// RowResult is the diagnostic for one data row. Line is the 1-based line
// in the source; the header is line 1.
type RowResult struct {
	Line       int
	SearchTerm string
	Outcome    Outcome
	Record     domain.Record
	Err        error
}

// Accepted reports whether the row produced a candidate.
func (r RowResult) Accepted() bool {
	return r.Outcome == Accepted
}

// SourceResult collects the rows of one source. Err is set when the source
// was rejected or reading stopped early; rows accepted before that point
// still count.
type SourceResult struct {
	Source string
	Rows   []RowResult
	Err    error
}

// Candidates returns the accepted records in input order.
func (s SourceResult) Candidates() []domain.Record {
	var out []domain.Record
	for _, r := range s.Rows {
		if r.Accepted() {
			out = append(out, r.Record)
		}
	}
	return out
}

// Count returns how many rows ended with outcome o.
func (s SourceResult) Count(o Outcome) int {
	n := 0
	for _, r := range s.Rows {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

// Source is a named, openable CSV input.
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileSource reads the CSV file at path.
func FileSource(path string) Source {
	return Source{
		Name: path,
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// ReaderSource wraps an already-open reader.
func ReaderSource(name string, r io.Reader) Source {
	return Source{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(r), nil },
	}
}

// Parser extracts candidate records from search-results exports.
type Parser struct {
	columns Columns
}

// NewParser creates a parser expecting the given header names.
func NewParser(columns Columns) *Parser {
	return &Parser{columns: columns}
}

// ParseSource opens src and parses it. See Parse.
func (p *Parser) ParseSource(src Source, seen domain.KeySet) SourceResult {
	rc, err := src.Open()
	if err != nil {
		return SourceResult{Source: src.Name, Err: fmt.Errorf("opening %s: %w", src.Name, err)}
	}
	defer rc.Close()

	return p.Parse(src.Name, rc, seen)
}

// Parse reads one CSV source. seen holds the keys already taken, by the
// store or by earlier rows and sources; every accepted key is added to it
// immediately so that later duplicates are caught. The first occurrence of
// a key wins.
func (p *Parser) Parse(name string, r io.Reader, seen domain.KeySet) SourceResult {
	res := SourceResult{Source: name}

	cr := NewCSVReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		header = nil
	} else if err != nil {
		res.Err = fmt.Errorf("reading header of %s: %w", name, err)
		return res
	}

	idx, err := HeaderIndex(name, header, p.columns.Names())
	if err != nil {
		res.Err = err
		return res
	}

	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.Rows = append(res.Rows, RowResult{
					Line:    perr.StartLine,
					Outcome: SkippedMalformed,
					Err:     err,
				})
				continue
			}
			res.Err = fmt.Errorf("reading %s: %w", name, err)
			break
		}

		line, _ := cr.FieldPos(0)
		res.Rows = append(res.Rows, p.parseRow(line, fields, idx, seen))
	}

	return res
}

func (p *Parser) parseRow(line int, fields []string, idx map[string]int, seen domain.KeySet) RowResult {
	res := RowResult{Line: line}

	var raw [3]string
	for i, col := range p.columns.Names() {
		pos := idx[col]
		if pos >= len(fields) {
			res.Outcome = SkippedMalformed
			res.Err = fmt.Errorf("%w: %d fields, %q is column %d", ErrShortRow, len(fields), col, pos+1)
			return res
		}
		if !utf8.ValidString(fields[pos]) || strings.ContainsRune(fields[pos], utf8.RuneError) {
			res.Outcome = SkippedMalformed
			res.Err = fmt.Errorf("%w in %q", ErrInvalidEncoding, col)
			return res
		}
		raw[i] = fields[pos]
	}

	res.SearchTerm = domain.NormalizeKey(raw[0])
	if res.SearchTerm == "" {
		res.Outcome = SkippedEmptyTerm
		return res
	}

	percentage, err := ParsePercentage(raw[1])
	if err != nil {
		res.Outcome = SkippedInvalidNumber
		res.Err = fmt.Errorf("sell-through rate %q: %w", raw[1], err)
		return res
	}
	sold, err := ParseCount(raw[2])
	if err != nil {
		res.Outcome = SkippedInvalidNumber
		res.Err = fmt.Errorf("sold count %q: %w", raw[2], err)
		return res
	}

	if seen.Has(res.SearchTerm) {
		res.Outcome = SkippedDuplicate
		return res
	}

	seen.Add(res.SearchTerm)
	res.Outcome = Accepted
	res.Record = domain.Record{
		SearchTerm: res.SearchTerm,
		Percentage: percentage,
		SoldCount:  sold,
	}
	return res
}

// ParsePercentage parses a rate such as "45%" or " 45 ".
func ParsePercentage(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	return strconv.Atoi(strings.TrimSpace(s))
}

// ParseCount parses a plain integer count.
func ParseCount(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// NewCSVReader returns a lenient CSV reader over r. A leading UTF-8 byte
// order mark, as written by spreadsheet exports, is dropped; rows may have
// differing field counts.
func NewCSVReader(r io.Reader) *csv.Reader {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}
