// Package schema provides the embedded JSON schemas for the testreport
// configuration file and the JSON report.
package schema

import "embed"

// FS contains the embedded schema files.
//
//go:embed *.schema.json
var FS embed.FS
