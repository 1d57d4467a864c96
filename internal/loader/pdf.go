package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"

	"pdfingest/internal/chunker"
	"pdfingest/internal/logger"
)

const pdfMIME = "application/pdf"

// infoKeys maps PDF Info dictionary entries to page metadata keys.
var infoKeys = map[string]string{
	"Title":    "title",
	"Author":   "author",
	"Subject":  "subject",
	"Creator":  "creator",
	"Producer": "producer",
}

// PDF extracts plain text per page with ledongthuc/pdf.
type PDF struct {
	fs      afero.Fs
	timeout time.Duration
}

// NewPDF creates a PDF loader reading from fs. A zero timeout disables the
// per-file deadline.
func NewPDF(fs afero.Fs, timeout time.Duration) *PDF {
	return &PDF{fs: fs, timeout: timeout}
}

type loadResult struct {
	pages []chunker.Page
	err   error
}

// Load extracts the pages of the PDF at path. The parser cannot be
// interrupted, so on timeout it is left to finish in the background.
func (l *PDF) Load(ctx context.Context, path string) ([]chunker.Page, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	done := make(chan loadResult, 1)
	go func() {
		pages, err := l.extract(path)
		done <- loadResult{pages: pages, err: err}
	}()

	select {
	case res := <-done:
		if res.err == nil {
			logger.FromContext(ctx).Debug("Extracted PDF", "path", path, "pages", len(res.pages))
		}
		return res.pages, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, extractionError(path, ErrTimeout, ctx.Err())
		}
		return nil, fmt.Errorf("load %s: %w", path, ctx.Err())
	}
}

func (l *PDF) extract(path string) (pages []chunker.Page, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = extractionError(path, ErrCorrupted, fmt.Errorf("parser panic: %v", r))
		}
	}()

	f, err := l.fs.Open(path)
	if err != nil {
		return nil, extractionError(path, ErrUnreadable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, extractionError(path, ErrUnreadable, err)
	}
	size := info.Size()

	mime, err := mimetype.DetectReader(io.NewSectionReader(f, 0, size))
	if err != nil {
		return nil, extractionError(path, ErrUnreadable, err)
	}
	if !mime.Is(pdfMIME) {
		return nil, extractionError(path, ErrNotPDF, fmt.Errorf("detected %s", mime.String()))
	}

	r, err := pdf.NewReader(f, size)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, extractionError(path, ErrEncrypted, err)
		}
		return nil, extractionError(path, ErrCorrupted, err)
	}

	total := r.NumPage()
	docInfo := documentInfo(r)
	pages = make([]chunker.Page, 0, total)
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		var text string
		if !p.V.IsNull() {
			text, err = p.GetPlainText(nil)
			if err != nil {
				return nil, extractionError(path, ErrCorrupted, fmt.Errorf("page %d: %w", i, err))
			}
		}
		pages = append(pages, chunker.Page{
			Text:     normalizeText(text),
			Index:    i - 1,
			Source:   path,
			Metadata: pageMetadata(path, i-1, total, docInfo),
		})
	}
	return pages, nil
}

func documentInfo(r *pdf.Reader) map[string]string {
	info := r.Trailer().Key("Info")
	out := make(map[string]string)
	if info.IsNull() {
		return out
	}
	for pdfKey, key := range infoKeys {
		if v := strings.TrimSpace(info.Key(pdfKey).Text()); v != "" {
			out[key] = v
		}
	}
	return out
}

func pageMetadata(path string, index, total int, docInfo map[string]string) map[string]string {
	meta := make(map[string]string, len(docInfo)+4)
	for k, v := range docInfo {
		meta[k] = v
	}
	meta["source"] = path
	meta["file_path"] = path
	meta["page"] = strconv.Itoa(index)
	meta["total_pages"] = strconv.Itoa(total)
	return meta
}

// normalizeText converts line endings to \n, composes characters to NFC and
// trims the blank lines the extractor leaves around page text.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(norm.NFC.String(text))
}
