package chunker

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

// Recursive splits the document text with the LangChain recursive character
// splitter and maps every chunk back to its rune span and pages.
//
// Lengths are counted in runes. Overlap is unit-aligned: the next chunk starts
// with the trailing units of the previous one whose total length does not
// exceed ChunkOverlap.
type Recursive struct {
	config   Config
	name     string
	splitter textsplitter.RecursiveCharacter
}

// New validates the configuration and builds a recursive chunker.
func New(config Config) (*Recursive, error) {
	if len(config.Separators) == 0 {
		config.Separators = DefaultSeparators()
	}
	if config.PageSeparator == "" {
		config.PageSeparator = DefaultPageSeparator
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Recursive{
		config: config,
		name:   MethodRecursive,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(config.ChunkSize),
			textsplitter.WithChunkOverlap(config.ChunkOverlap),
			textsplitter.WithSeparators(append([]string(nil), config.Separators...)),
			textsplitter.WithKeepSeparator(config.KeepSeparator),
			textsplitter.WithLenFunc(utf8.RuneCountInString),
		),
	}, nil
}

func (r *Recursive) Name() string {
	return r.name
}

// Config returns a copy of the effective configuration.
func (r *Recursive) Config() Config {
	cfg := r.config
	cfg.Separators = append([]string(nil), r.config.Separators...)
	return cfg
}

// span is a half-open rune range of the document text.
type span struct {
	start, end int
}

// pageSpan locates one page inside the joined text.
type pageSpan struct {
	page int // position in Document.Pages
	span
}

func (r *Recursive) Split(doc Document) ([]Chunk, error) {
	text, pages := joinPages(doc.Pages, r.config.PageSeparator)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	pieces, err := r.splitter.SplitText(text)
	if err != nil {
		return nil, &SplitError{Source: doc.Path, Reason: err.Error()}
	}

	offsets := runeOffsets(text)
	chunks := make([]Chunk, 0, len(pieces))
	from := 0
	for _, piece := range pieces {
		content := strings.TrimSpace(piece)
		if content == "" {
			continue
		}
		s, ok := locate(text, offsets, content, from)
		if !ok {
			return nil, &SplitError{
				Source: doc.Path,
				Reason: fmt.Sprintf("chunk %d not found after offset %d", len(chunks), from),
			}
		}
		chunks = append(chunks, r.buildChunk(doc, content, pages, len(chunks), s))
		// The next chunk repeats at most ChunkOverlap runes of this one.
		from = max(s.start, s.end-r.config.ChunkOverlap)
	}
	return chunks, nil
}

// joinPages concatenates page texts with sep and records the rune span of each page.
func joinPages(pages []Page, sep string) (string, []pageSpan) {
	var b strings.Builder
	sepLen := utf8.RuneCountInString(sep)
	spans := make([]pageSpan, 0, len(pages))
	pos := 0
	for i, p := range pages {
		if i > 0 {
			b.WriteString(sep)
			pos += sepLen
		}
		start := pos
		b.WriteString(p.Text)
		pos += utf8.RuneCountInString(p.Text)
		spans = append(spans, pageSpan{page: i, span: span{start, pos}})
	}
	return b.String(), spans
}

// runeOffsets maps every rune index of text to its byte offset, plus len(text).
func runeOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}

// locate finds the first occurrence of content at or after rune offset from.
func locate(text string, offsets []int, content string, from int) (span, bool) {
	from = min(max(from, 0), len(offsets)-1)
	i := strings.Index(text[offsets[from]:], content)
	if i < 0 {
		return span{}, false
	}
	start := sort.SearchInts(offsets, offsets[from]+i)
	return span{start, start + utf8.RuneCountInString(content)}, true
}

func (r *Recursive) buildChunk(doc Document, content string, pages []pageSpan, index int, s span) Chunk {
	first := pageAt(pages, s.start)
	last := pageAt(pages, s.end-1)

	var metadata map[string]string
	pageStart, pageEnd := 0, 0
	if first >= 0 {
		p := doc.Pages[pages[first].page]
		metadata = cloneMetadata(p.Metadata)
		pageStart = p.Index
		pageEnd = doc.Pages[pages[last].page].Index
	} else {
		metadata = make(map[string]string)
	}
	metadata["source"] = doc.Path
	metadata["chunk_index"] = strconv.Itoa(index)
	metadata["page"] = strconv.Itoa(pageStart)
	metadata["page_end"] = strconv.Itoa(pageEnd)

	return Chunk{
		ID:        CreateChunkID(doc.Path, index, content),
		Content:   content,
		Source:    doc.Path,
		Index:     index,
		Start:     s.start,
		End:       s.end,
		PageStart: pageStart,
		PageEnd:   pageEnd,
		Metadata:  metadata,
	}
}

// pageAt returns the position in pages of the last page starting at or
// before offset, or -1 when there are no pages.
func pageAt(pages []pageSpan, offset int) int {
	i := sort.Search(len(pages), func(i int) bool {
		return pages[i].start > offset
	})
	if i == 0 {
		if len(pages) == 0 {
			return -1
		}
		return 0
	}
	return i - 1
}

func cloneMetadata(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src)+4)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
