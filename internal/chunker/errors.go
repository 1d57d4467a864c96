package chunker

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("invalid chunker configuration")

// ConfigError reports an invalid chunking parameter.
type ConfigError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("chunker: %s=%d %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// SplitError means the splitter broke one of its own invariants.
// It is a bug, callers should stop the run.
type SplitError struct {
	Source string
	Reason string
}

func (e *SplitError) Error() string {
	return fmt.Sprintf("chunker: split %s: %s", e.Source, e.Reason)
}
