package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"parts-desk/internal/validation"
)

// ConfigPathEnvVar names an explicit config file.
const ConfigPathEnvVar = "PARTSDESK_CONFIG"

// DefaultConfigPaths are searched in order when no path is given.
var DefaultConfigPaths = []string{
	"partsdesk.yaml",
	"partsdesk.yml",
}

// Load builds the configuration from layered sources:
//  1. Defaults
//  2. Config file: path if non-empty, else PARTSDESK_CONFIG, else the first
//     of DefaultConfigPaths that exists
//  3. Environment variables
//
// An explicitly named file that does not exist is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	return validation.Struct(c)
}

func findConfigFile(path string) (string, error) {
	explicit := path
	if explicit == "" {
		explicit = os.Getenv(ConfigPathEnvVar)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}

	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// envMappings maps environment variable names (lower-cased) to config paths.
var envMappings = map[string]string{
	// Server
	"host":                 "server.host",
	"port":                 "server.port",
	"site_root":            "server.root",
	"delete_route":         "server.delete_route",
	"metrics_path":         "server.metrics_path",
	"allow_origin":         "server.allow_origin",
	"server_read_timeout":  "server.read_timeout",
	"server_write_timeout": "server.write_timeout",
	"server_idle_timeout":  "server.idle_timeout",
	"shutdown_timeout":     "server.shutdown_timeout",

	// Store
	"store_path": "store.path",

	// Ingest
	"ingest_dir":     "ingest.dir",
	"ingest_pattern": "ingest.pattern",

	// Catalog
	"downloads_dir": "catalog.downloads_dir",
	"cars_json":     "catalog.cars_json",
	"cars_csv":      "catalog.cars_csv",
	"parts_list":    "catalog.parts_list",
	"search_config": "catalog.search_config",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
}

// envTransformFunc maps known environment variables to config paths.
// Unknown variables map to "" and are skipped.
//
// Examples:
//   - PORT -> server.port
//   - STORE_PATH -> store.path
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
