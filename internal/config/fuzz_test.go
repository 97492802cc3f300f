package config

import (
	"testing"
)

// FuzzParse feeds arbitrary YAML to Parse.
// Run: go test -fuzz=FuzzParse -fuzztime=30s ./internal/config
func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"{}",
		"format: json\n",
		"format: markdown\nslowest: 5\ninconclusive: separate\n",
		"annotations:\n  style: github\n  path_prefix: /src\n",
		"junit:\n  suite_name: EditMode\n",
		"message_width: 1e308\n",
		"slowest: -1\n",
		"format: [unclosed\n",
		"- a\n- b\n",
		"null\n",
		"? complex key\n: value\n",
		"a: &x 1\nb: *x\n",
		"format: \"\\u0000\"\n",
		"max_bytes: 99999999999999999999999\n",
	}
	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		cfg, _, err := Parse("fuzz.yaml", data)
		if err != nil {
			if cfg != nil {
				t.Fatal("Parse returned both a config and an error")
			}
			return
		}

		// Anything accepted must pass semantic validation again and carry defaults.
		if _, err := Validate(cfg); err != nil {
			t.Fatalf("accepted config fails validation: %v", err)
		}
		if cfg.Annotations == nil || cfg.JUnit == nil || cfg.Format == "" {
			t.Fatalf("defaults not applied: %+v", cfg)
		}
	})
}
