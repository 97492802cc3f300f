package config

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// detectUnknownFields compares the decoded YAML document with the known
// struct fields. Nested sections reject unknown keys in the schema, so
// only the root level is checked here.
func detectUnknownFields(root map[string]any) []string {
	known := getYAMLFields(reflect.TypeOf(Config{}))

	keys := make([]string, 0, len(root))
	for key := range root {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var warnings []string
	for _, key := range keys {
		if key == "$schema" {
			continue // allowed for editor integration
		}
		if !known[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
		}
	}
	return warnings
}

// getYAMLFields returns the set of YAML keys of a struct type.
func getYAMLFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			fields[name] = true
		}
	}
	return fields
}
