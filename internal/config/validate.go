package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mvp-joe/componentize/internal/keywords"
)

var (
	// ErrInvalidFormat indicates an unsupported output format
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrInvalidKeywords indicates keyword tables that cannot drive extraction
	ErrInvalidKeywords = errors.New("invalid keyword tables")

	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateOutput(&cfg.Output); err != nil {
		errs = append(errs, err)
	}

	if err := keywords.Validate(cfg.Keywords); err != nil {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidKeywords, strings.ReplaceAll(err.Error(), "\n", "; ")))
	}

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateOutput(cfg *OutputConfig) error {
	switch strings.ToLower(cfg.Format) {
	case FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("%w: must be '%s' or '%s', got '%s'", ErrInvalidFormat, FormatJSON, FormatYAML, cfg.Format)
}

// ParseLevel maps a configured level name onto a slog level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, level)
	}
	return l, nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
