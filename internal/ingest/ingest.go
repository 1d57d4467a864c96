// Package ingest runs discovery, extraction and chunking over a directory.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pdfingest/internal/chunker"
	"pdfingest/internal/discover"
	"pdfingest/internal/loader"
	"pdfingest/internal/logger"
)

// Options tunes the orchestrator.
type Options struct {
	// Workers is the number of documents processed at once. Values below 1
	// mean sequential processing.
	Workers int
}

// DocumentResult summarizes one successfully chunked document.
type DocumentResult struct {
	Path   string
	Pages  int
	Chunks int
}

// Failure records a document that could not be loaded.
type Failure struct {
	Path string
	Err  error
}

// Result is the output of one ingestion run.
type Result struct {
	RunID     string
	BasePath  string
	Found     int
	Documents []DocumentResult
	Failures  []Failure
	Chunks    []chunker.Chunk
}

// Ingestor wires a discoverer, a loader and a chunker.
type Ingestor struct {
	discoverer discover.Discoverer
	loader     loader.Loader
	chunker    chunker.Chunker
	workers    int
}

func New(d discover.Discoverer, l loader.Loader, c chunker.Chunker, opts Options) (*Ingestor, error) {
	if d == nil || l == nil || c == nil {
		return nil, errors.New("ingest: discoverer, loader and chunker are required")
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Ingestor{discoverer: d, loader: l, chunker: c, workers: workers}, nil
}

// outcome is what one document produced; exactly one of chunks or failure is set.
type outcome struct {
	pages   int
	chunks  []chunker.Chunk
	failure error
}

// Ingest chunks every PDF under base. Documents that fail to load are
// recorded in Result.Failures and do not stop the run; discovery and split
// errors do.
func (i *Ingestor) Ingest(ctx context.Context, base string) (*Result, error) {
	runID := uuid.NewString()
	log := logger.FromContext(ctx).With("run", runID)
	ctx = logger.ContextWithLogger(ctx, log)

	paths, err := i.discoverer.Discover(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	log.Infof("Found %d PDFs under %s", len(paths), base)

	outcomes := make([]outcome, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)
	for idx, path := range paths {
		g.Go(func() error {
			out, err := i.process(gctx, path)
			if err != nil {
				return err
			}
			outcomes[idx] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{RunID: runID, BasePath: base, Found: len(paths)}
	for idx, out := range outcomes {
		path := paths[idx]
		if out.failure != nil {
			log.Warnf("❌ %s: %v", filepath.Base(path), out.failure)
			res.Failures = append(res.Failures, Failure{Path: path, Err: out.failure})
			continue
		}
		log.Infof("→ %s: %d chunks", filepath.Base(path), len(out.chunks))
		res.Documents = append(res.Documents, DocumentResult{Path: path, Pages: out.pages, Chunks: len(out.chunks)})
		res.Chunks = append(res.Chunks, out.chunks...)
	}
	log.Infof("✅ Total chunks created: %d", len(res.Chunks))
	return res, nil
}

// process loads and splits one document. Only errors that must end the run
// are returned; load failures travel in the outcome.
func (i *Ingestor) process(ctx context.Context, path string) (outcome, error) {
	if err := ctx.Err(); err != nil {
		return outcome{}, err
	}
	pages, err := i.loader.Load(ctx, path)
	if err != nil {
		// A cancelled run is not a document failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return outcome{}, ctxErr
		}
		return outcome{failure: err}, nil
	}
	chunks, err := i.chunker.Split(chunker.Document{Path: path, Pages: pages})
	if err != nil {
		return outcome{}, fmt.Errorf("ingest: %w", err)
	}
	return outcome{pages: len(pages), chunks: chunks}, nil
}
