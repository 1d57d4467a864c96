package chunker

import (
	"fmt"
	"strings"
)

const (
	MethodRecursive = "recursive"
	MethodCharacter = "character"
)

// Factory builds chunkers that share one base configuration.
type Factory struct {
	config Config
}

// NewFactory creates a chunker factory.
func NewFactory(config Config) *Factory {
	return &Factory{config: config}
}

// GetChunkerByMethod returns the chunker registered under method.
// An empty method selects the recursive chunker.
func (f *Factory) GetChunkerByMethod(method string) (Chunker, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "", MethodRecursive, "default":
		return New(f.config)
	case MethodCharacter, "size":
		cfg := f.config
		cfg.Separators = []string{""}
		c, err := New(cfg)
		if err != nil {
			return nil, err
		}
		c.name = MethodCharacter
		return c, nil
	default:
		return nil, fmt.Errorf("unknown chunking method: %s", method)
	}
}
