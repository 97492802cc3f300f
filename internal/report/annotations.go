package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// AnnotationStyle selects the annotation line syntax.
type AnnotationStyle int

const (
	// AnnotationPlain writes "error file=<path>,line=<n>::<name>: <message>".
	AnnotationPlain AnnotationStyle = iota
	// AnnotationGitHub writes GitHub Actions workflow commands ("::error ...")
	// with property and data escaping.
	AnnotationGitHub
)

func (s AnnotationStyle) String() string {
	if s == AnnotationGitHub {
		return "github"
	}
	return "plain"
}

// ParseAnnotationStyle parses "plain" or "github".
func ParseAnnotationStyle(s string) (AnnotationStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain":
		return AnnotationPlain, nil
	case "github":
		return AnnotationGitHub, nil
	default:
		return AnnotationPlain, fmt.Errorf("invalid annotation style %q (valid: plain, github)", s)
	}
}

// AnnotationRenderer renders one CI annotation line per failed test.
type AnnotationRenderer struct {
	Style      AnnotationStyle
	PathPrefix string
}

func (r *AnnotationRenderer) Format() Format { return FormatAnnotations }

func (r *AnnotationRenderer) Render(d *Data) (string, error) {
	var lines []string

	for _, msg := range d.Warnings {
		lines = append(lines, r.command("warning", "", r.data(msg)))
	}

	for _, c := range d.Failed {
		var props string
		if file, line, ok := SourceLocation(c.StackTrace); ok {
			props = fmt.Sprintf("file=%s,line=%d", r.property(r.relative(file)), line)
		}
		message := c.Message
		if strings.TrimSpace(message) == "" {
			message = "test failed"
		}
		lines = append(lines, r.command("error", props, r.data(c.Name)+": "+r.data(message)))
	}

	if d.Empty() {
		lines = append(lines, r.command("notice", "", "No tests ran"))
	}

	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}

func (r *AnnotationRenderer) command(kind, props, data string) string {
	prefix := ""
	if r.Style == AnnotationGitHub {
		prefix = "::"
	}
	if props != "" {
		return prefix + kind + " " + props + "::" + data
	}
	return prefix + kind + "::" + data
}

// data makes s fit on one annotation line.
func (r *AnnotationRenderer) data(s string) string {
	if r.Style != AnnotationGitHub {
		return strings.Join(strings.Fields(s), " ")
	}
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

func (r *AnnotationRenderer) property(s string) string {
	if r.Style != AnnotationGitHub {
		return s
	}
	s = r.data(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	return strings.ReplaceAll(s, ",", "%2C")
}

func (r *AnnotationRenderer) relative(file string) string {
	if r.Style == AnnotationGitHub {
		file = strings.ReplaceAll(file, `\`, "/")
	}
	if r.PathPrefix == "" {
		return file
	}
	prefix := r.PathPrefix
	if r.Style == AnnotationGitHub {
		prefix = strings.ReplaceAll(prefix, `\`, "/")
	}
	if rest, ok := strings.CutPrefix(file, prefix); ok {
		return strings.TrimLeft(rest, `/\`)
	}
	return file
}

// Frame patterns, tried in order. File paths may contain spaces, so the
// path runs from the " in " separator to the line suffix.
var framePatterns = []*regexp.Regexp{
	// .NET: "at Ns.Type.Method() in C:\src\File.cs:line 42"
	regexp.MustCompile(`\bin (.+?):line (\d+)$`),
	// Mono/Unity: "at Ns.Type.Method () [0x00001] in /project/File.cs:42"
	regexp.MustCompile(`\bin (.+?):(\d+)$`),
	// Frames without the " in " separator: "File.cs:line 42"
	regexp.MustCompile(`(\S+):line (\d+)`),
}

func matchFrame(frame string) []string {
	for _, re := range framePatterns {
		if m := re.FindStringSubmatch(frame); m != nil {
			return m
		}
	}
	return nil
}

// SourceLocation returns the file and line of the first stack frame that
// carries one.
func SourceLocation(stackTrace string) (file string, line int, ok bool) {
	for _, frame := range strings.Split(stackTrace, "\n") {
		m := matchFrame(strings.TrimSpace(frame))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil || n <= 0 {
			continue
		}
		return m[1], n, true
	}
	return "", 0, false
}

