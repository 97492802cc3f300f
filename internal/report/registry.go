package report

import (
	"slices"
	"strings"

	"github.com/AndreyAkinshin/testreport/internal/errors"
)

// Format identifies an output format.
type Format string

// Supported output formats.
const (
	FormatText        Format = "text"
	FormatMarkdown    Format = "markdown"
	FormatJSON        Format = "json"
	FormatAnnotations Format = "annotations"
	FormatJUnit       Format = "junit"
)

// Renderer renders report data in one format.
type Renderer interface {
	// Format returns the canonical format name.
	Format() Format
	// Render returns the rendered report.
	Render(d *Data) (string, error)
}

// Registry maps format names and aliases to renderers.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry creates a registry with all built-in renderers configured
// from opts.
func NewRegistry(opts Options) *Registry {
	r := &Registry{
		renderers: make(map[string]Renderer),
	}

	text := &TextRenderer{Width: opts.MessageWidth, Color: opts.Color}
	markdown := &MarkdownRenderer{}
	jsonRenderer := &JSONRenderer{}
	annotations := &AnnotationRenderer{Style: opts.AnnotationStyle, PathPrefix: opts.PathPrefix}
	github := &AnnotationRenderer{Style: AnnotationGitHub, PathPrefix: opts.PathPrefix}
	junitRenderer := &JUnitRenderer{SuiteName: opts.SuiteName}

	r.renderers["text"] = text
	r.renderers["txt"] = text
	r.renderers["plain"] = text
	r.renderers["markdown"] = markdown
	r.renderers["md"] = markdown
	r.renderers["json"] = jsonRenderer
	r.renderers["annotations"] = annotations
	r.renderers["ci"] = annotations
	r.renderers["github"] = github
	r.renderers["junit"] = junitRenderer
	r.renderers["xml"] = junitRenderer

	return r
}

// Get returns the renderer registered under name, or nil.
func (r *Registry) Get(name string) Renderer {
	return r.renderers[strings.ToLower(strings.TrimSpace(name))]
}

// Lookup is like Get but returns a configuration error for unknown names.
func (r *Registry) Lookup(name string) (Renderer, error) {
	if rd := r.Get(name); rd != nil {
		return rd, nil
	}
	return nil, errors.Configf("unknown format %q (valid: %s)", name, strings.Join(r.Names(), ", "))
}

// Register adds or replaces the renderer for a format name.
func (r *Registry) Register(name string, rd Renderer) {
	r.renderers[strings.ToLower(name)] = rd
}

// Names returns the canonical names of the registered formats, sorted.
func (r *Registry) Names() []string {
	var names []string
	for _, rd := range r.renderers {
		name := string(rd.Format())
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Aliases returns every name registered for the given format, sorted.
func (r *Registry) Aliases(f Format) []string {
	var names []string
	for name, rd := range r.renderers {
		if rd.Format() == f {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
