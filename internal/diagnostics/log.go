package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// rankFind is the fuzzy ranking function closest() uses: fuzzy.RankFindFold.
var rankFind = fuzzy.RankFindFold

// Log is the append-only diagnostic store shared by every compile phase,
// addressed from internal/source.CompilationContext.
type Log struct {
	filename    string
	sourceLines []string
	entries     []Diagnostic
}

// NewLog creates a diagnostic log for one compile, pre-splitting the source
// into lines so every later Render call is O(1) line lookup.
func NewLog(filename, source string) *Log {
	return &Log{
		filename:    filename,
		sourceLines: strings.Split(source, "\n"),
	}
}

// Vars interpolates {key} placeholders in a catalog message template.
type Vars map[string]interface{}

func interpolate(template string, vars Vars) string {
	if len(vars) == 0 {
		return template
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msg := template
	for _, k := range keys {
		msg = strings.ReplaceAll(msg, "{"+k+"}", fmt.Sprint(vars[k]))
	}
	return msg
}

// Emit records a diagnostic from the catalog entry for code, at span, with
// the given template variables. It returns the rendered Diagnostic for
// callers that want to attach additional context (e.g. a fuzzy suggestion).
func (l *Log) Emit(code Code, span Span, vars Vars) Diagnostic {
	entry, ok := Catalog[code]
	if !ok {
		panic(fmt.Sprintf("diagnostics: unknown code %s", code))
	}
	span.File = l.filename
	d := Diagnostic{
		Code:       entry.Code,
		Severity:   entry.Severity,
		Message:    interpolate(entry.MessageTemplate, vars),
		Span:       span,
		Suggestion: entry.Suggestion,
	}
	l.entries = append(l.entries, d)
	return l.entries[len(l.entries)-1]
}

// EmitWithSuggestion is like Emit but replaces the catalog's default
// suggestion with a "did you mean" computed from candidates, using fuzzy
// ranking so the closest-spelled name wins.
func (l *Log) EmitWithSuggestion(code Code, span Span, vars Vars, badName string, candidates []string) Diagnostic {
	d := l.Emit(code, span, vars)
	if best := closest(badName, candidates); best != "" {
		idx := len(l.entries) - 1
		l.entries[idx].Suggestion = fmt.Sprintf("did you mean %q?", best)
		return l.entries[idx]
	}
	return d
}

// closest returns the best fuzzy-ranked candidate for name, or "" if
// candidates is empty or nothing is reasonably close.
func closest(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ranks := rankFind(name, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	best := ranks[0]
	// Don't suggest something wildly different from what was typed.
	if best.Distance > len(name)+2 {
		return ""
	}
	return best.Target
}

// HasErrors reports whether any diagnostic in the log has Error severity.
func (l *Log) HasErrors() bool {
	for _, d := range l.entries {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// All returns every diagnostic emitted so far, in emission order.
func (l *Log) All() []Diagnostic {
	return l.entries
}

// Errors returns only Error-severity diagnostics.
func (l *Log) Errors() []Diagnostic {
	return l.filter(Error)
}

// Warnings returns only Warning-severity diagnostics.
func (l *Log) Warnings() []Diagnostic {
	return l.filter(Warning)
}

func (l *Log) filter(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range l.entries {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// Render renders one diagnostic in the file's source context.
func (l *Log) Render(d Diagnostic) string {
	return d.Render(l.sourceLines)
}
