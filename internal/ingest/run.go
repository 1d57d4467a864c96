package ingest

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"pdfingest/internal/chunker"
	"pdfingest/internal/config"
	"pdfingest/internal/discover"
	"pdfingest/internal/loader"
	"pdfingest/internal/logger"
)

// NewFromConfig builds an ingestor over fs from cfg. Configuration errors
// are returned before any file is touched.
func NewFromConfig(ctx context.Context, fs afero.Fs, cfg *config.Config) (*Ingestor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := chunker.NewFactory(cfg.Chunker()).GetChunkerByMethod(cfg.ChunkMethod)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	logger.FromContext(ctx).Debug("Chunker ready",
		"method", c.Name(), "chunk_size", cfg.ChunkSize, "chunk_overlap", cfg.ChunkOverlap, "workers", cfg.Workers)
	return New(
		discover.New(fs),
		loader.NewPDF(fs, cfg.LoadTimeout),
		c,
		Options{Workers: cfg.Workers},
	)
}

// Run ingests cfg.BasePath from fs.
func Run(ctx context.Context, fs afero.Fs, cfg *config.Config) (*Result, error) {
	ing, err := NewFromConfig(ctx, fs, cfg)
	if err != nil {
		return nil, err
	}
	return ing.Ingest(ctx, cfg.BasePath)
}
