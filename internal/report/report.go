// Package report prints and saves ingestion summaries.
package report

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"pdfingest/internal/chunker"
	"pdfingest/internal/ingest"
)

// WriteSummary prints the counts and a preview of the first chunk.
func WriteSummary(w io.Writer, res *ingest.Result, previewChars int) error {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("Found %d PDFs under %s\n", res.Found, res.BasePath))
	for _, d := range res.Documents {
		buf.WriteString(fmt.Sprintf("→ %s: %d chunks\n", filepath.Base(d.Path), d.Chunks))
	}
	for _, f := range res.Failures {
		buf.WriteString(fmt.Sprintf("✗ %s: %v\n", filepath.Base(f.Path), f.Err))
	}
	buf.WriteString(fmt.Sprintf("\n✅ Total chunks created: %d\n", len(res.Chunks)))

	if len(res.Chunks) > 0 {
		buf.WriteString("Sample chunk:\n")
		buf.WriteString(chunker.GetFirstNChars(res.Chunks[0].Content, previewChars))
		buf.WriteString("\n")
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

// Markdown renders the run as a Markdown document.
func Markdown(res *ingest.Result, processedAt time.Time) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("# Ingestion report: %s\n\n", res.BasePath))
	buf.WriteString(fmt.Sprintf("**Run:** %s\n\n", res.RunID))
	buf.WriteString(fmt.Sprintf("**Processed at:** %s\n\n", processedAt.Format("2006-01-02 15:04:05")))

	buf.WriteString("## Summary\n\n")
	buf.WriteString(fmt.Sprintf("- PDFs found: %d\n", res.Found))
	buf.WriteString(fmt.Sprintf("- ✅ Chunked: %d\n", len(res.Documents)))
	buf.WriteString(fmt.Sprintf("- ❌ Failed: %d\n", len(res.Failures)))
	buf.WriteString(fmt.Sprintf("- Total chunks: %d\n\n", len(res.Chunks)))

	if len(res.Documents) > 0 {
		buf.WriteString("## Documents\n\n")
		buf.WriteString("| File | Pages | Chunks |\n")
		buf.WriteString("|------|------:|-------:|\n")
		for _, d := range res.Documents {
			buf.WriteString(fmt.Sprintf("| %s | %d | %d |\n", escapeCell(d.Path), d.Pages, d.Chunks))
		}
		buf.WriteString("\n")
	}

	if len(res.Failures) > 0 {
		buf.WriteString("## Failures\n\n")
		for _, f := range res.Failures {
			buf.WriteString(fmt.Sprintf("- `%s`: %s\n", f.Path, f.Err))
		}
		buf.WriteString("\n")
	}

	return buf.String()
}

// Save writes the report to path on fs, as HTML when path ends in .html or
// .htm and as Markdown otherwise.
func Save(fs afero.Fs, path string, res *ingest.Result, processedAt time.Time) error {
	md := Markdown(res, processedAt)

	var out []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		var html bytes.Buffer
		if err := goldmark.New(goldmark.WithExtensions(extension.Table)).Convert([]byte(md), &html); err != nil {
			return fmt.Errorf("report: render html: %w", err)
		}
		out = html.Bytes()
	default:
		out = []byte(md)
	}

	if err := afero.WriteFile(fs, path, out, 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
