// Package loader extracts page text from documents.
package loader

import (
	"context"
	"errors"
	"fmt"

	"pdfingest/internal/chunker"
)

var (
	ErrNotPDF     = errors.New("not a PDF file")
	ErrEncrypted  = errors.New("encrypted PDF")
	ErrCorrupted  = errors.New("corrupted PDF")
	ErrTimeout    = errors.New("extraction timed out")
	ErrUnreadable = errors.New("file unreadable")
)

// Loader turns one file into its pages, in order.
type Loader interface {
	Load(ctx context.Context, path string) ([]chunker.Page, error)
}

// ExtractionError reports a document that could not be loaded.
// It is scoped to one document and never aborts an ingestion run.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func extractionError(path string, kind error, cause error) *ExtractionError {
	if cause == nil {
		return &ExtractionError{Path: path, Err: kind}
	}
	return &ExtractionError{Path: path, Err: fmt.Errorf("%w: %w", kind, cause)}
}
