package report

import (
	"github.com/AndreyAkinshin/testreport/internal/junit"
	"github.com/AndreyAkinshin/testreport/internal/results"
)

// JUnitRenderer renders the run as a JUnit XML document.
type JUnitRenderer struct {
	SuiteName string
}

func (r *JUnitRenderer) Format() Format { return FormatJUnit }

func (r *JUnitRenderer) Render(d *Data) (string, error) {
	doc := d.doc
	if doc == nil {
		doc = documentOf(d)
	}
	ts, err := junit.Convert(doc, junit.Options{SuiteName: r.SuiteName})
	if err != nil {
		return "", err
	}
	out, err := junit.Marshal(ts)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// documentOf rebuilds a flat document for data assembled by hand.
func documentOf(d *Data) *results.Document {
	root := &results.Suite{Name: "test-run", Type: "TestRun"}
	for _, c := range d.Cases {
		root.Children = append(root.Children, &results.Leaf{Case: c})
	}
	return &results.Document{Run: d.Run, Root: root}
}
