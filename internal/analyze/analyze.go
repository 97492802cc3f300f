// Package analyze derives report sections from a flat case sequence:
// failed and skipped cases, and the slowest tests.
package analyze

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AndreyAkinshin/testreport/internal/results"
)

// DefaultSlowest is the number of cases returned by Slowest when callers
// have no preference.
const DefaultSlowest = 10

// InconclusivePolicy decides where Inconclusive cases are reported.
type InconclusivePolicy int

const (
	// GroupInconclusive reports Inconclusive cases together with Skipped ones.
	GroupInconclusive InconclusivePolicy = iota
	// SeparateInconclusive reports Inconclusive cases in their own section.
	SeparateInconclusive
)

// String returns the configuration name of the policy.
func (p InconclusivePolicy) String() string {
	if p == SeparateInconclusive {
		return "separate"
	}
	return "skipped"
}

// ParsePolicy parses a configuration value ("skipped" or "separate").
func ParsePolicy(s string) (InconclusivePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skipped", "group", "grouped":
		return GroupInconclusive, nil
	case "separate":
		return SeparateInconclusive, nil
	default:
		return GroupInconclusive, fmt.Errorf("invalid inconclusive policy %q (valid: skipped, separate)", s)
	}
}

// Extraction holds the failed and not-run cases of a run, in document order.
type Extraction struct {
	Failed  []results.Case
	Skipped []results.Case
	// Inconclusive is only populated under SeparateInconclusive.
	Inconclusive []results.Case
}

// Extract filters cases by status. The input slice is not modified and
// the returned slices are never nil.
func Extract(cases []results.Case, policy InconclusivePolicy) Extraction {
	ex := Extraction{
		Failed:       []results.Case{},
		Skipped:      []results.Case{},
		Inconclusive: []results.Case{},
	}
	for _, c := range cases {
		switch c.Status {
		case results.StatusFailed:
			ex.Failed = append(ex.Failed, c)
		case results.StatusSkipped:
			ex.Skipped = append(ex.Skipped, c)
		case results.StatusInconclusive:
			if policy == SeparateInconclusive {
				ex.Inconclusive = append(ex.Inconclusive, c)
			} else {
				ex.Skipped = append(ex.Skipped, c)
			}
		}
	}
	return ex
}

// Slowest returns the n longest-running cases, longest first. Ties keep
// document order. n <= 0 yields an empty slice; n larger than the number
// of cases yields every case.
func Slowest(cases []results.Case, n int) []results.Case {
	if n <= 0 || len(cases) == 0 {
		return []results.Case{}
	}
	sorted := slices.Clone(cases)
	slices.SortStableFunc(sorted, func(a, b results.Case) int {
		return cmp.Compare(b.Duration, a.Duration)
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
