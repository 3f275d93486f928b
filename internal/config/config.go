// Package config loads pipeline configuration from the environment.
// A .env file in the working directory is honoured (the batch is
// usually launched from a checkout), and an optional TOML file named
// by MEDPIPE_CONFIG supplies defaults that environment variables
// override. Missing credentials for a selected backend are a setup
// error: the process aborts before any document is touched.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/chunker"
	"github.com/Ogechifaith-analytics/chunckingagent/internal/logger"
)

// Default container names, matching the deployed storage account.
const (
	DefaultSourceContainer    = "rawdocument"
	DefaultProcessedContainer = "processed-text-metadata"
)

// Config is the full configuration surface of the pipeline.
type Config struct {
	// Storage. ConnectionString selects the remote blob backend;
	// when empty, DataDir selects the filesystem backend.
	ConnectionString   string `toml:"connection_string"`
	DataDir            string `toml:"data_dir"`
	SourceContainer    string `toml:"source_container"`
	ProcessedContainer string `toml:"processed_container"`

	// Document analysis service. When the endpoint is empty the
	// local PDF extractor is used instead.
	DocIntelEndpoint string `toml:"doc_intel_endpoint"`
	DocIntelKey      string `toml:"doc_intel_key"`

	// Language annotation service. When the endpoint is empty,
	// annotation is disabled and chunks publish with empty
	// key phrases and entities.
	LanguageEndpoint string `toml:"language_endpoint"`
	LanguageKey      string `toml:"language_key"`

	// Search index. When the endpoint is empty the local SQLite
	// index at IndexPath is used.
	SearchEndpoint  string `toml:"search_endpoint"`
	SearchAPIKey    string `toml:"search_api_key"`
	SearchIndexName string `toml:"search_index_name"`
	IndexPath       string `toml:"index_path"`

	// Chunking.
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`

	// Workers bounds document-level parallelism. 1 = sequential.
	Workers int `toml:"workers"`

	// PIIDetection enables the service-based redaction second pass.
	PIIDetection bool `toml:"pii_detection"`

	// UnidocLicenseKey activates the local PDF extractor.
	UnidocLicenseKey string `toml:"unidoc_license_key"`
}

// Load builds the configuration from the optional TOML file and the
// environment, then validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, relying on environment variables")
	}

	cfg := &Config{
		SourceContainer:    DefaultSourceContainer,
		ProcessedContainer: DefaultProcessedContainer,
		ChunkSize:          chunker.DefaultMaxSize,
		ChunkOverlap:       chunker.DefaultOverlap,
		Workers:            1,
	}

	if path := os.Getenv("MEDPIPE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto cfg. Environment
// always wins over the config file.
func applyEnv(cfg *Config) {
	setString(&cfg.ConnectionString, "CONNECTION_STRING")
	setString(&cfg.DataDir, "MEDPIPE_DATA_DIR")
	setString(&cfg.SourceContainer, "SOURCE_CONTAINER")
	setString(&cfg.ProcessedContainer, "PROCESSED_CONTAINER")
	setString(&cfg.DocIntelEndpoint, "AZURE_AI_DOCUMENT_INTELLIGENCE_ENDPOINT")
	setString(&cfg.DocIntelKey, "AZURE_AI_DOCUMENT_INTELLIGENCE_KEY")
	setString(&cfg.LanguageEndpoint, "AZURE_LANGUAGE_SERVICE_ENDPOINT")
	setString(&cfg.LanguageKey, "AZURE_LANGUAGE_SERVICE_KEY")
	setString(&cfg.SearchEndpoint, "AZURE_SEARCH_ENDPOINT")
	setString(&cfg.SearchAPIKey, "AZURE_SEARCH_API_KEY")
	setString(&cfg.SearchIndexName, "AZURE_SEARCH_INDEX_NAME")
	setString(&cfg.IndexPath, "MEDPIPE_INDEX_PATH")
	setString(&cfg.UnidocLicenseKey, "UNIDOC_LICENSE_KEY")
	setInt(&cfg.ChunkSize, "MEDPIPE_CHUNK_SIZE")
	setInt(&cfg.ChunkOverlap, "MEDPIPE_CHUNK_OVERLAP")
	setInt(&cfg.Workers, "MEDPIPE_WORKERS")
	setBool(&cfg.PIIDetection, "MEDPIPE_PII_DETECTION")
}

// Validate checks that every selected backend has its credentials.
func (c *Config) Validate() error {
	var errs []error

	if c.ConnectionString == "" && c.DataDir == "" {
		errs = append(errs, errors.New("storage not configured: set CONNECTION_STRING or MEDPIPE_DATA_DIR"))
	}
	if c.DocIntelEndpoint != "" && c.DocIntelKey == "" {
		errs = append(errs, errors.New("AZURE_AI_DOCUMENT_INTELLIGENCE_KEY required with endpoint"))
	}
	if c.LanguageEndpoint != "" && c.LanguageKey == "" {
		errs = append(errs, errors.New("AZURE_LANGUAGE_SERVICE_KEY required with endpoint"))
	}
	if c.SearchEndpoint != "" {
		if c.SearchAPIKey == "" {
			errs = append(errs, errors.New("AZURE_SEARCH_API_KEY required with endpoint"))
		}
		if c.SearchIndexName == "" {
			errs = append(errs, errors.New("AZURE_SEARCH_INDEX_NAME required with endpoint"))
		}
	}
	if c.PIIDetection && c.LanguageEndpoint == "" {
		errs = append(errs, errors.New("MEDPIPE_PII_DETECTION requires the language service endpoint"))
	}
	if c.ChunkSize <= 0 {
		errs = append(errs, errors.New("chunk size must be positive"))
	}
	if c.ChunkOverlap < 0 {
		errs = append(errs, errors.New("chunk overlap must not be negative"))
	}
	if c.Workers < 1 {
		errs = append(errs, errors.New("workers must be at least 1"))
	}

	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("ignoring %s: %v", key, err)
		return
	}
	*dst = n
}

func setBool(dst *bool, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn("ignoring %s: %v", key, err)
		return
	}
	*dst = b
}
