// Package config loads parts-desk settings from defaults, an optional YAML
// file and environment variables.
package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"parts-desk/internal/ingest"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Store   StoreConfig   `koanf:"store"`
	Ingest  IngestConfig  `koanf:"ingest"`
	Catalog CatalogConfig `koanf:"catalog"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds the site server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`
	// Root is the directory static files are served from.
	Root        string `koanf:"root" validate:"required"`
	DeleteRoute string `koanf:"delete_route" validate:"required,startswith=/"`
	// MetricsPath exposes Prometheus metrics; empty disables it.
	MetricsPath     string        `koanf:"metrics_path" validate:"omitempty,startswith=/"`
	AllowOrigin     string        `koanf:"allow_origin" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// StoreConfig locates the record store file.
type StoreConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// IngestConfig controls where merge looks for CSV exports.
type IngestConfig struct {
	Dir     string        `koanf:"dir" validate:"required"`
	Pattern string        `koanf:"pattern" validate:"required"`
	Columns ColumnsConfig `koanf:"columns"`
}

// ColumnsConfig names the required CSV header fields.
type ColumnsConfig struct {
	SearchTerm      string `koanf:"search_term" validate:"required"`
	SellThroughRate string `koanf:"sell_through_rate" validate:"required"`
	SoldCount       string `koanf:"sold_count" validate:"required"`
}

// Parser returns the names as ingest columns.
func (c ColumnsConfig) Parser() ingest.Columns {
	return ingest.Columns{
		SearchTerm:      c.SearchTerm,
		SellThroughRate: c.SellThroughRate,
		SoldCount:       c.SoldCount,
	}
}

// CatalogConfig holds the paths used by the cars and parts commands.
type CatalogConfig struct {
	DownloadsDir string `koanf:"downloads_dir" validate:"required"`
	Pattern      string `koanf:"pattern" validate:"required"`
	CarsJSON     string `koanf:"cars_json" validate:"required"`
	CarsCSV      string `koanf:"cars_csv" validate:"required"`
	PartsList    string `koanf:"parts_list" validate:"required"`
	SearchConfig string `koanf:"search_config" validate:"required"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

func defaultConfig() *Config {
	cols := ingest.DefaultColumns()

	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8000,
			Root:            ".",
			DeleteRoute:     "/api/delete-part",
			MetricsPath:     "/metrics",
			AllowOrigin:     "*",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Path: filepath.Join("parts", "data.json"),
		},
		Ingest: IngestConfig{
			Dir:     "parts",
			Pattern: "*.csv",
			Columns: ColumnsConfig{
				SearchTerm:      cols.SearchTerm,
				SellThroughRate: cols.SellThroughRate,
				SoldCount:       cols.SoldCount,
			},
		},
		Catalog: CatalogConfig{
			DownloadsDir: defaultDownloadsDir(),
			Pattern:      "*.csv",
			CarsJSON:     filepath.Join("site", "cars.json"),
			CarsCSV:      filepath.Join("site", "cars.csv"),
			PartsList:    "parts.txt",
			SearchConfig: filepath.Join("extensions", "Search", "search.json"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func defaultDownloadsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Downloads"
	}
	return filepath.Join(home, "Downloads")
}
