// Package config loads and validates testreport.yaml.
package config

// Config is the content of a testreport.yaml file. Zero values mean "not
// set"; Load fills them with defaults.
type Config struct {
	Format       string             `yaml:"format,omitempty" json:"format,omitempty"`
	Output       string             `yaml:"output,omitempty" json:"output,omitempty"`
	Inconclusive string             `yaml:"inconclusive,omitempty" json:"inconclusive,omitempty"`
	MessageWidth int                `yaml:"message_width,omitempty" json:"message_width,omitempty"`
	Slowest      int                `yaml:"slowest,omitempty" json:"slowest,omitempty"`
	StrictCounts bool               `yaml:"strict_counts,omitempty" json:"strict_counts,omitempty"`
	AllowEmpty   bool               `yaml:"allow_empty,omitempty" json:"allow_empty,omitempty"`
	MaxBytes     int64              `yaml:"max_bytes,omitempty" json:"max_bytes,omitempty"`
	Annotations  *AnnotationsConfig `yaml:"annotations,omitempty" json:"annotations,omitempty"`
	JUnit        *JUnitConfig       `yaml:"junit,omitempty" json:"junit,omitempty"`
}

// AnnotationsConfig configures CI annotation output.
type AnnotationsConfig struct {
	Style      string `yaml:"style,omitempty" json:"style,omitempty"`
	PathPrefix string `yaml:"path_prefix,omitempty" json:"path_prefix,omitempty"`
}

// JUnitConfig configures JUnit conversion.
type JUnitConfig struct {
	SuiteName string `yaml:"suite_name,omitempty" json:"suite_name,omitempty"`
}
