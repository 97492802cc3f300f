package config

import (
	"reflect"
	"strings"
	"testing"
)

func reflectType() reflect.Type {
	return reflect.TypeOf(Config{})
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()
	for _, format := range []string{"text", "txt", "plain", "markdown", "md", "json", "annotations", "ci", "github", "junit", "xml"} {
		cfg := Default()
		cfg.Format = format
		if _, err := Validate(cfg); err != nil {
			t.Errorf("Validate(format=%q) = %v, want nil", format, err)
		}
	}
}

func TestValidate_Invalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"format", func(c *Config) { c.Format = "html" }, "format"},
		{"inconclusive", func(c *Config) { c.Inconclusive = "drop" }, "inconclusive"},
		{"message width", func(c *Config) { c.MessageWidth = 3 }, "message_width"},
		{"slowest", func(c *Config) { c.Slowest = -1 }, "slowest"},
		{"max bytes", func(c *Config) { c.MaxBytes = -5 }, "max_bytes"},
		{"annotation style", func(c *Config) { c.Annotations.Style = "gitlab" }, "annotations.style"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.modify(cfg)
			_, err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
			if !strings.HasPrefix(err.Error(), tt.field+": ") {
				t.Errorf("Error() = %q", err.Error())
			}
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Format = "xml"
	cfg.Slowest = 3

	warnings, err := Validate(cfg)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "slowest") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestValidateFormat(t *testing.T) {
	t.Parallel()
	if err := ValidateFormat("MD"); err != nil {
		t.Errorf("ValidateFormat(MD) = %v", err)
	}
	if err := ValidateFormat(""); err == nil {
		t.Error("ValidateFormat(\"\") = nil, want error")
	}
}
