package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/AndreyAkinshin/testreport/internal/errors"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Full(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, t.TempDir(), "testreport.yaml", `
format: markdown
output: report.md
inconclusive: separate
message_width: 80
slowest: 5
strict_counts: true
allow_empty: true
max_bytes: 1048576
annotations:
  style: github
  path_prefix: /project/
junit:
  suite_name: EditMode
`)

	cfg, warnings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	want := &Config{
		Format:       "markdown",
		Output:       "report.md",
		Inconclusive: "separate",
		MessageWidth: 80,
		Slowest:      5,
		StrictCounts: true,
		AllowEmpty:   true,
		MaxBytes:     1048576,
		Annotations:  &AnnotationsConfig{Style: "github", PathPrefix: "/project/"},
		JUnit:        &JUnitConfig{SuiteName: "EditMode"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()
	for name, content := range map[string]string{
		"empty file":   "",
		"comment only": "# nothing configured yet\n",
		"empty map":    "{}\n",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := writeConfig(t, t.TempDir(), "testreport.yaml", content)
			cfg, _, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(Default(), cfg); diff != "" {
				t.Errorf("defaults mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default()
	if cfg.Format != DefaultFormat || cfg.Inconclusive != DefaultInconclusive || cfg.MessageWidth != DefaultMessageWidth {
		t.Errorf("Default() = %+v", cfg)
	}
	if cfg.Annotations == nil || cfg.Annotations.Style != DefaultAnnotationStyle {
		t.Errorf("Default().Annotations = %+v", cfg.Annotations)
	}
	if cfg.JUnit == nil || cfg.Slowest != 0 || cfg.MaxBytes != 0 {
		t.Errorf("Default() = %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		kind    errors.ErrorKind
		want    string
	}{
		{"yaml syntax", "format: [text\n", errors.KindConfig, "failed to parse config file"},
		{"not a mapping", "- text\n- json\n", errors.KindConfig, "must contain a mapping"},
		{"schema enum", "format: html\n", errors.KindValidation, "format"},
		{"schema type", "slowest: many\n", errors.KindValidation, "slowest"},
		{"unknown nested key", "junit:\n  suite: x\n", errors.KindValidation, "suite"},
		{"narrow width", "message_width: 2\n", errors.KindValidation, "message_width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeConfig(t, t.TempDir(), "testreport.yaml", tt.content)
			_, _, err := Load(path)
			if err == nil {
				t.Fatal("Load() should fail")
			}
			var re *errors.ReportError
			if !stderrors.As(err, &re) {
				t.Fatalf("error type = %T, want *errors.ReportError", err)
			}
			if re.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", re.Kind, tt.kind)
			}
			if re.File != path {
				t.Errorf("File = %q, want %q", re.File, path)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			if code := re.ExitCode(); code != errors.ExitConfigError {
				t.Errorf("ExitCode() = %d, want %d", code, errors.ExitConfigError)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() should fail for a missing file")
	}
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v does not wrap os.ErrNotExist", err)
	}
	if code := errors.GetExitCode(err); code != errors.ExitConfigError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitConfigError)
	}
}

func TestParse_NonStringKeys(t *testing.T) {
	t.Parallel()
	cfg, warnings, err := Parse("inline.yaml", []byte("format: json\n1: one\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q", cfg.Format)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], `"1"`) {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestFindFrom(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	want := writeConfig(t, root, ".testreport.yaml", "format: json\n")

	got, err := FindFrom(sub)
	if err != nil {
		t.Fatalf("FindFrom() error = %v", err)
	}
	if got != want {
		t.Errorf("FindFrom() = %q, want %q", got, want)
	}

	// The preferred name wins within one directory.
	preferred := writeConfig(t, root, "testreport.yaml", "format: text\n")
	if got, _ := FindFrom(root); got != preferred {
		t.Errorf("FindFrom() = %q, want %q", got, preferred)
	}
}

func TestFindFrom_IgnoresDirectories(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "testreport.yaml"), 0755); err != nil {
		t.Fatal(err)
	}
	path, err := FindFrom(root)
	if err == nil && filepath.Dir(path) == root {
		t.Errorf("FindFrom() returned a directory: %q", path)
	}
}
