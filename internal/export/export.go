// Package export hands chunks to downstream consumers.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/tmc/langchaingo/schema"

	"pdfingest/internal/chunker"
)

// ToDocuments converts chunks to LangChain documents, the shape embedding
// and vector store integrations accept.
func ToDocuments(chunks []chunker.Chunk) []schema.Document {
	docs := make([]schema.Document, 0, len(chunks))
	for _, ch := range chunks {
		meta := make(map[string]any, len(ch.Metadata)+4)
		for k, v := range ch.Metadata {
			meta[k] = v
		}
		meta["id"] = ch.ID
		meta["source"] = ch.Source
		meta["chunk_index"] = ch.Index
		meta["page"] = ch.PageStart
		meta["page_end"] = ch.PageEnd
		meta["start"] = ch.Start
		meta["end"] = ch.End
		docs = append(docs, schema.Document{PageContent: ch.Content, Metadata: meta})
	}
	return docs
}

type record struct {
	PageContent string         `json:"page_content"`
	Metadata    map[string]any `json:"metadata"`
}

// WriteJSONL writes one JSON document per line.
func WriteJSONL(w io.Writer, chunks []chunker.Chunk) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, doc := range ToDocuments(chunks) {
		if err := enc.Encode(record{PageContent: doc.PageContent, Metadata: doc.Metadata}); err != nil {
			return fmt.Errorf("export: encode: %w", err)
		}
	}
	return bw.Flush()
}

// SaveJSONL writes chunks to path on fs as JSON Lines.
func SaveJSONL(fs afero.Fs, path string, chunks []chunker.Chunk) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := WriteJSONL(f, chunks); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
