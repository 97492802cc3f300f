package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/testreport/internal/errors"
	"github.com/AndreyAkinshin/testreport/internal/schema"
)

// FileNames are the configuration file names looked up by FindFrom, in
// order of preference.
var FileNames = []string{"testreport.yaml", "testreport.yml", ".testreport.yaml"}

// ErrNotFound is returned when no configuration file exists in the start
// directory or any of its parents.
var ErrNotFound = stderrors.New("testreport.yaml not found (in the current directory or any parent up to the root)")

// Find walks up from the current working directory looking for a
// configuration file.
func Find() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindFrom(cwd)
}

// FindFrom walks up from startDir looking for a configuration file and
// returns its path.
func FindFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Load reads a configuration file, validates it against the schema,
// applies defaults and runs semantic validation. Unknown fields are
// returned as warnings.
func Load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &errors.ReportError{Kind: errors.KindConfig, Message: "failed to read config file", File: path, Cause: err}
	}
	return Parse(path, data)
}

// Parse is Load for configuration data already in memory. path is only
// used in error messages.
func Parse(path string, data []byte) (*Config, []string, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, &errors.ReportError{Kind: errors.KindConfig, Message: "failed to parse config file", File: path, Cause: err}
	}

	var cfg Config
	var warnings []string
	if raw != nil {
		root, ok := normalize(raw).(map[string]any)
		if !ok {
			return nil, nil, &errors.ReportError{Kind: errors.KindConfig, Message: "config file must contain a mapping", File: path}
		}

		jsonData, err := json.Marshal(root)
		if err != nil {
			return nil, nil, &errors.ReportError{Kind: errors.KindConfig, Message: "failed to convert config file", File: path, Cause: err}
		}
		if err := schema.ValidateConfig(jsonData); err != nil {
			return nil, nil, &errors.ReportError{Kind: errors.KindValidation, Message: "invalid configuration", File: path, Cause: err}
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, nil, &errors.ReportError{Kind: errors.KindConfig, Message: "failed to parse config file", File: path, Cause: err}
		}
		warnings = detectUnknownFields(root)
	}

	applyDefaults(&cfg)

	validationWarnings, err := Validate(&cfg)
	warnings = append(warnings, validationWarnings...)
	if err != nil {
		return nil, warnings, &errors.ReportError{Kind: errors.KindValidation, Message: "invalid configuration", File: path, Cause: err}
	}

	return &cfg, warnings, nil
}

// normalize converts YAML-decoded values into values encoding/json
// accepts. yaml.v3 yields map[any]any for mappings with non-string keys.
func normalize(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
