package catalog

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"parts-desk/internal/fsx"
)

// PartsField is the search configuration key holding the parts list.
const PartsField = "parts"

// Default search configuration, used when the existing document is absent
// or unreadable.
const (
	DefaultBaseURL    = "https://www.ebay.com/sch/i.html?"
	DefaultSoldParams = "_sacat=0&_from=R40&_trksid=p2334524.m570.l1313&rt=nc&_osacat=0&LH_ItemCondition=3000&LH_Sold=1"
	DefaultLiveParams = "_sacat=0&_from=R40&_osacat=0&LH_ItemCondition=3000&rt=nc"
	DefaultCar        = "2007 toyota camry"
)

// SearchConfig is the search extension's settings document. Only the parts
// field is managed here; every other field is carried through unchanged.
type SearchConfig map[string]interface{}

// DefaultSearchConfig returns the starting document.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		"baseUrl":    DefaultBaseURL,
		"soldParams": DefaultSoldParams,
		"liveParams": DefaultLiveParams,
		"car":        DefaultCar,
	}
}

// SearchReport describes one parts run.
type SearchReport struct {
	Output string
	Parts  int
	// UsedDefaults is set when the existing document could not be used.
	UsedDefaults bool
}

// ReadPartsList reads one part name per line. Lines are trimmed and blank
// lines dropped.
func ReadPartsList(r io.Reader) ([]string, error) {
	parts := []string{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			parts = append(parts, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return parts, nil
}

// LoadSearchConfig reads the document at path. ok is false, with a default
// document, when the file is missing or is not a JSON object; any other
// read failure is returned.
func LoadSearchConfig(path string) (cfg SearchConfig, ok bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSearchConfig(), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&cfg); err != nil || cfg == nil {
		return DefaultSearchConfig(), false, nil
	}
	return cfg, true, nil
}

// UpdateSearchConfig replaces the parts field of the search configuration
// at configPath with the list read from partsPath. A missing parts list is
// an error.
func UpdateSearchConfig(partsPath, configPath string) (*SearchReport, error) {
	f, err := os.Open(partsPath)
	if err != nil {
		return nil, fmt.Errorf("opening parts list: %w", err)
	}
	defer f.Close()

	parts, err := ReadPartsList(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", partsPath, err)
	}

	cfg, ok, err := LoadSearchConfig(configPath)
	if err != nil {
		return nil, err
	}
	cfg[PartsField] = parts

	data, err := encodeIndented(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding search config: %w", err)
	}
	if err := fsx.WriteFileAtomic(configPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", configPath, err)
	}

	return &SearchReport{
		Output:       configPath,
		Parts:        len(parts),
		UsedDefaults: !ok,
	}, nil
}
