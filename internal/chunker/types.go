package chunker

// Page is one page of extracted text.
type Page struct {
	Text     string            // Extracted text, possibly empty
	Index    int               // 0-based position in the document
	Source   string            // Path of the owning document
	Metadata map[string]string // Loader-provided metadata
}

// Document is one input file with its pages in order.
type Document struct {
	Path  string
	Pages []Page
}

// Chunk is a bounded slice of document text ready for embedding.
type Chunk struct {
	ID        string            // Stable hash of source, index and content
	Content   string            // Chunk text
	Source    string            // Path of the source document
	Index     int               // 0-based sequence within the document
	Start     int               // Rune offset of Content in the document text
	End       int               // Rune offset one past the end of Content
	PageStart int               // Page on which the chunk starts
	PageEnd   int               // Page on which the chunk ends
	Metadata  map[string]string // Metadata inherited from PageStart plus chunk fields
}

// Chunker turns a document into chunks.
type Chunker interface {
	// Split divides the document text into ordered chunks
	Split(doc Document) ([]Chunk, error)

	// Name returns the chunker name for logging
	Name() string
}

const (
	DefaultChunkSize     = 800
	DefaultChunkOverlap  = 200
	DefaultPageSeparator = "\n\n"
)

// DefaultSeparators runs from paragraph break down to single characters.
func DefaultSeparators() []string {
	return []string{"\n\n", "\n", ".", " ", ""}
}

// Config holds the chunking parameters shared by all chunkers.
type Config struct {
	ChunkSize     int      // Maximum chunk length in characters
	ChunkOverlap  int      // Characters repeated between adjacent chunks
	Separators    []string // Split priority, coarsest first; "" splits anywhere
	KeepSeparator bool     // Keep separators at the start of the following segment
	PageSeparator string   // Inserted between pages when building the text stream
}

// DefaultConfig returns the ingestion defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:     DefaultChunkSize,
		ChunkOverlap:  DefaultChunkOverlap,
		Separators:    DefaultSeparators(),
		PageSeparator: DefaultPageSeparator,
	}
}

// Validate rejects sizes the splitter cannot honor.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return &ConfigError{Field: "chunk_size", Value: c.ChunkSize, Reason: "must be greater than zero"}
	}
	if c.ChunkOverlap < 0 {
		return &ConfigError{Field: "chunk_overlap", Value: c.ChunkOverlap, Reason: "cannot be negative"}
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return &ConfigError{
			Field:  "chunk_overlap",
			Value:  c.ChunkOverlap,
			Reason: "must be smaller than chunk_size",
		}
	}
	return nil
}
