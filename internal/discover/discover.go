// Package discover finds PDF files under a base directory.
package discover

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"pdfingest/internal/logger"
)

// Pattern matches PDF files at any depth. Matching ignores case.
const Pattern = "**/*.pdf"

// Error reports a base directory that exists but cannot be walked.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("discover: %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Discoverer lists the documents to ingest.
type Discoverer interface {
	Discover(ctx context.Context, base string) ([]string, error)
}

// FS discovers PDFs on an afero filesystem.
type FS struct {
	fs afero.Fs
}

// New creates a discoverer backed by fs.
func New(fs afero.Fs) *FS {
	return &FS{fs: fs}
}

// Discover returns every PDF under base in lexical order. A missing base is
// not an error and yields no paths.
func (d *FS) Discover(ctx context.Context, base string) ([]string, error) {
	log := logger.FromContext(ctx)

	info, err := d.fs.Stat(base)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("Base path does not exist, nothing to ingest", "path", base)
		return []string{}, nil
	}
	if err != nil {
		return nil, &Error{Path: base, Err: err}
	}
	if !info.IsDir() {
		return nil, &Error{Path: base, Err: errors.New("not a directory")}
	}

	fsys := afero.NewIOFS(afero.NewBasePathFs(d.fs, base))
	matches, err := doublestar.Glob(fsys, Pattern,
		doublestar.WithCaseInsensitive(),
		doublestar.WithFilesOnly(),
		doublestar.WithFailOnIOErrors(),
	)
	if err != nil {
		return nil, &Error{Path: base, Err: err}
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(base, filepath.FromSlash(m)))
	}
	slices.Sort(paths)

	log.Debug("Discovered PDFs", "path", base, "count", len(paths))
	return paths, nil
}
