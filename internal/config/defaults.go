package config

// Default configuration values.
const (
	DefaultFormat          = "text"
	DefaultInconclusive    = "skipped"
	DefaultMessageWidth    = 100
	DefaultAnnotationStyle = "plain"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.Inconclusive == "" {
		cfg.Inconclusive = DefaultInconclusive
	}
	if cfg.MessageWidth == 0 {
		cfg.MessageWidth = DefaultMessageWidth
	}
	applyAnnotationDefaults(cfg)
	if cfg.JUnit == nil {
		cfg.JUnit = &JUnitConfig{}
	}
}

func applyAnnotationDefaults(cfg *Config) {
	if cfg.Annotations == nil {
		cfg.Annotations = &AnnotationsConfig{}
	}
	if cfg.Annotations.Style == "" {
		cfg.Annotations.Style = DefaultAnnotationStyle
	}
}
