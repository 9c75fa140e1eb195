package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mvp-joe/componentize/internal/config"
	"gopkg.in/yaml.v3"
)

// encode writes v to w in the given format.
func encode(w io.Writer, v any, format string) error {
	switch strings.ToLower(format) {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush yaml: %w", err)
		}
	default:
		return fmt.Errorf("%w: %s", config.ErrInvalidFormat, format)
	}
	return nil
}
