package config

import (
	"fmt"

	"github.com/AndreyAkinshin/testreport/internal/analyze"
	"github.com/AndreyAkinshin/testreport/internal/report"
)

// MinMessageWidth is the smallest accepted message_width.
const MinMessageWidth = 4

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors and returns warnings for
// settings that are accepted but have no effect.
func Validate(cfg *Config) (warnings []string, err error) {
	if err := ValidateFormat(cfg.Format); err != nil {
		return nil, err
	}

	if _, err := analyze.ParsePolicy(cfg.Inconclusive); err != nil {
		return nil, &ValidationError{Field: "inconclusive", Message: `must be "skipped" or "separate"`}
	}

	if cfg.MessageWidth < MinMessageWidth {
		return nil, &ValidationError{Field: "message_width", Message: fmt.Sprintf("must be at least %d", MinMessageWidth)}
	}

	if cfg.Slowest < 0 {
		return nil, &ValidationError{Field: "slowest", Message: "must not be negative"}
	}

	if cfg.MaxBytes < 0 {
		return nil, &ValidationError{Field: "max_bytes", Message: "must not be negative"}
	}

	if cfg.Annotations != nil {
		if _, err := report.ParseAnnotationStyle(cfg.Annotations.Style); err != nil {
			return nil, &ValidationError{Field: "annotations.style", Message: `must be "plain" or "github"`}
		}
	}

	if cfg.Slowest > 0 && report.NewRegistry(report.Options{}).Get(cfg.Format).Format() == report.FormatJUnit {
		warnings = append(warnings, "slowest has no effect on JUnit output")
	}

	return warnings, nil
}

// ValidateFormat checks that name is a known output format or alias.
func ValidateFormat(name string) error {
	r := report.NewRegistry(report.Options{})
	if r.Get(name) == nil {
		return &ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("unknown format %q", name),
		}
	}
	return nil
}
