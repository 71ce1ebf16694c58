package ingest

import (
	"fmt"
	"strings"
)

// Columns names the header fields a search-results export must carry.
type Columns struct {
	SearchTerm      string
	SellThroughRate string
	SoldCount       string
}

// DefaultColumns returns the header names used by the marketplace export.
func DefaultColumns() Columns {
	return Columns{
		SearchTerm:      "Search Term",
		SellThroughRate: "Sell Through Rate",
		SoldCount:       "Sold Count",
	}
}

// Names lists the required column names in a stable order.
func (c Columns) Names() []string {
	return []string{c.SearchTerm, c.SellThroughRate, c.SoldCount}
}

// MissingColumnsError rejects a whole source whose header lacks a required
// column.
type MissingColumnsError struct {
	Source   string
	Expected []string
	Found    []string
	Missing  []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing required columns %q (expected %q, found %q)",
		e.Source, e.Missing, e.Expected, e.Found)
}

// HeaderIndex maps each required name to its position in header. Header
// cells are compared after trimming surrounding whitespace.
func HeaderIndex(source string, header, required []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	found := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		found[i] = name
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	idx := make(map[string]int, len(required))
	var missing []string
	for _, name := range required {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		idx[name] = i
	}

	if len(missing) > 0 {
		return nil, &MissingColumnsError{
			Source:   source,
			Expected: required,
			Found:    found,
			Missing:  missing,
		}
	}
	return idx, nil
}
