package core

import (
	"strings"

	"github.com/gradeflow/repograde/internal/contract"
)

// Docstring delimiters recognized by the counter. The double-quote form is
// checked first, matching how mixed-delimiter lines are resolved.
const (
	tripleDouble = `"""`
	tripleSingle = "'''"
)

// LineCounter counts the effective lines of a source file under the
// configured exclusion rules. Effective lines are what the grade is computed
// from; raw lines are kept for reporting only.
type LineCounter struct {
	ExcludeComments   bool
	ExcludeBlankLines bool
	ExcludeDocstrings bool
}

// NewLineCounter builds a counter from the validated config.
func NewLineCounter(cfg *contract.Config) *LineCounter {
	return &LineCounter{
		ExcludeComments:   cfg.ExcludeComments,
		ExcludeBlankLines: cfg.ExcludeBlankLines,
		ExcludeDocstrings: cfg.ExcludeDocstrings,
	}
}

// Count returns the raw and effective line counts for the given content.
//
// The content is split on '\n', so a trailing newline yields one final empty
// line in the raw count. Docstring tracking is a line-level state machine: a
// line opening a docstring flips the state unless the same delimiter appears
// twice on that line, and every line through the closing delimiter is
// excluded. A docstring that never closes swallows the rest of the file,
// which is accepted as a heuristic since such a file is broken anyway.
func (c *LineCounter) Count(content []byte) (raw, effective int) {
	lines := strings.Split(string(content), "\n")
	raw = len(lines)

	inDocstring := false
	delim := ""

	for _, line := range lines {
		stripped := strings.TrimSpace(line)

		if inDocstring {
			if strings.Contains(stripped, delim) {
				inDocstring = false
			}
			continue
		}

		if c.ExcludeBlankLines && stripped == "" {
			continue
		}

		if c.ExcludeDocstrings {
			if d := docstringDelimiter(stripped); d != "" {
				if strings.Count(stripped, d) < 2 {
					inDocstring = true
					delim = d
				}
				continue
			}
		}

		if c.ExcludeComments && strings.HasPrefix(stripped, "#") {
			continue
		}

		effective++
	}

	return raw, effective
}

// docstringDelimiter returns the delimiter opening a docstring on this line,
// or "" when the line opens none.
func docstringDelimiter(stripped string) string {
	if strings.Contains(stripped, tripleDouble) {
		return tripleDouble
	}
	if strings.Contains(stripped, tripleSingle) {
		return tripleSingle
	}
	return ""
}
