package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"pdfingest/internal/chunker"
)

type Config struct {
	BasePath      string        `env:"BASE_PATH" envDefault:"data"`
	ChunkSize     int           `env:"CHUNK_SIZE" envDefault:"800"`
	ChunkOverlap  int           `env:"CHUNK_OVERLAP" envDefault:"200"`
	ChunkMethod   string        `env:"CHUNK_METHOD" envDefault:"recursive"`
	Separators    Separators    `env:"SEPARATORS"`
	KeepSeparator bool          `env:"KEEP_SEPARATOR" envDefault:"false"`
	Workers       int           `env:"WORKERS" envDefault:"1"`
	LoadTimeout   time.Duration `env:"LOAD_TIMEOUT" envDefault:"60s"`
	PreviewChars  int           `env:"PREVIEW_CHARS" envDefault:"500"`
	OutputFile    string        `env:"OUTPUT_FILE"`
	ReportFile    string        `env:"REPORT_FILE"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON       bool          `env:"LOG_JSON" envDefault:"false"`
}

// Separators is read from the environment as a JSON array so that
// newlines and the empty separator can be expressed.
type Separators []string

func (s *Separators) UnmarshalText(text []byte) error {
	var list []string
	if err := json.Unmarshal(text, &list); err != nil {
		return fmt.Errorf("separators must be a JSON array of strings: %w", err)
	}
	*s = list
	return nil
}

func Init(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return err
	}
	if len(cfg.Separators) == 0 {
		cfg.Separators = chunker.DefaultSeparators()
	}
	return nil
}

// Chunker returns the chunking parameters described by the config.
func (c *Config) Chunker() chunker.Config {
	cfg := chunker.DefaultConfig()
	cfg.ChunkSize = c.ChunkSize
	cfg.ChunkOverlap = c.ChunkOverlap
	cfg.KeepSeparator = c.KeepSeparator
	if len(c.Separators) > 0 {
		cfg.Separators = append([]string(nil), c.Separators...)
	}
	return cfg
}

// Validate fails fast on values that would make ingestion meaningless.
func (c *Config) Validate() error {
	if err := c.Chunker().Validate(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: WORKERS must be at least 1, got %d", c.Workers)
	}
	if c.LoadTimeout <= 0 {
		return fmt.Errorf("config: LOAD_TIMEOUT must be positive, got %s", c.LoadTimeout)
	}
	if c.PreviewChars < 0 {
		return fmt.Errorf("config: PREVIEW_CHARS cannot be negative, got %d", c.PreviewChars)
	}
	return nil
}
