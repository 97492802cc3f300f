package results

import (
	"iter"
	"slices"
)

// Node is an element of the suite tree: either a *Suite or a *Leaf.
type Node interface {
	node()
}

// Suite groups test cases (assembly, namespace, fixture, ...).
type Suite struct {
	Name     string
	FullName string
	Type     string // NUnit suite type, e.g. "Assembly", "TestFixture"
	Children []Node
}

// Leaf wraps a single test case.
type Leaf struct {
	Case Case
}

func (*Suite) node() {}
func (*Leaf) node()  {}

// Cases yields every test case below the suite in depth-first document order.
func (s *Suite) Cases() iter.Seq[Case] {
	return func(yield func(Case) bool) {
		if s == nil {
			return
		}
		walk(s, yield)
	}
}

func walk(s *Suite, yield func(Case) bool) bool {
	for _, child := range s.Children {
		switch n := child.(type) {
		case *Leaf:
			if !yield(n.Case) {
				return false
			}
		case *Suite:
			if !walk(n, yield) {
				return false
			}
		}
	}
	return true
}

// Document is the parsed form of one result document.
type Document struct {
	Run  Run
	Root *Suite
	// Warnings holds non-fatal diagnostics (CountMismatch, downgraded
	// EmptyResult). Each entry is an *errors.ReportError.
	Warnings []error
}

// Cases yields the document's test cases in depth-first document order.
func (d *Document) Cases() iter.Seq[Case] {
	return d.Root.Cases()
}

// CaseList collects the document's test cases into a slice.
func (d *Document) CaseList() []Case {
	list := slices.Collect(d.Cases())
	if list == nil {
		list = []Case{}
	}
	return list
}

// CaseCount returns the number of test cases present in the document.
func (d *Document) CaseCount() int {
	n := 0
	for range d.Cases() {
		n++
	}
	return n
}

// Tally counts observed cases per status. Cases with unknown status are
// counted in the returned other value.
func Tally(cases []Case) (passed, failed, skipped, inconclusive, other int) {
	for _, c := range cases {
		switch c.Status {
		case StatusPassed:
			passed++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		case StatusInconclusive:
			inconclusive++
		default:
			other++
		}
	}
	return passed, failed, skipped, inconclusive, other
}
