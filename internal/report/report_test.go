package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfingest/internal/chunker"
	"pdfingest/internal/ingest"
)

func sampleResult() *ingest.Result {
	return &ingest.Result{
		RunID:    "run-1",
		BasePath: "data",
		Found:    3,
		Documents: []ingest.DocumentResult{
			{Path: "data/a.pdf", Pages: 2, Chunks: 2},
			{Path: "data/sub/b.pdf", Pages: 1, Chunks: 1},
		},
		Failures: []ingest.Failure{{Path: "data/broken.pdf", Err: errors.New("corrupted PDF")}},
		Chunks: []chunker.Chunk{
			{Content: strings.Repeat("x", 600), Source: "data/a.pdf"},
			{Content: "second", Source: "data/a.pdf", Index: 1},
			{Content: "third", Source: "data/sub/b.pdf"},
		},
	}
}

func TestWriteSummary(t *testing.T) {
	t.Run("Should print counts and a truncated preview", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSummary(&buf, sampleResult(), 500))
		out := buf.String()

		assert.Contains(t, out, "Found 3 PDFs under data")
		assert.Contains(t, out, "→ a.pdf: 2 chunks")
		assert.Contains(t, out, "→ b.pdf: 1 chunks")
		assert.Contains(t, out, "broken.pdf: corrupted PDF")
		assert.Contains(t, out, "Total chunks created: 3")
		assert.Contains(t, out, strings.Repeat("x", 500)+"\n")
		assert.NotContains(t, out, strings.Repeat("x", 501))
	})

	t.Run("Should omit the preview when there are no chunks", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSummary(&buf, &ingest.Result{BasePath: "data"}, 500))
		assert.Contains(t, buf.String(), "Found 0 PDFs under data")
		assert.Contains(t, buf.String(), "Total chunks created: 0")
		assert.NotContains(t, buf.String(), "Sample chunk")
	})
}

func TestSave(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("Should write markdown", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, Save(fs, "/out/report.md", sampleResult(), at))

		data, err := afero.ReadFile(fs, "/out/report.md")
		require.NoError(t, err)
		md := string(data)
		assert.Contains(t, md, "# Ingestion report: data")
		assert.Contains(t, md, "**Processed at:** 2026-01-02 03:04:05")
		assert.Contains(t, md, "| data/sub/b.pdf | 1 | 1 |")
		assert.Contains(t, md, "- `data/broken.pdf`: corrupted PDF")
	})

	t.Run("Should render html for .html paths", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, Save(fs, "/out/report.HTML", sampleResult(), at))

		data, err := afero.ReadFile(fs, "/out/report.HTML")
		require.NoError(t, err)
		html := string(data)
		assert.Contains(t, html, "<h1>Ingestion report: data</h1>")
		assert.Contains(t, html, "<table>")
		assert.Contains(t, html, "<td>data/a.pdf</td>")
	})

	t.Run("Should fail on unwritable filesystems", func(t *testing.T) {
		err := Save(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/out/report.md", sampleResult(), at)
		assert.ErrorContains(t, err, "report: write")
	})
}
